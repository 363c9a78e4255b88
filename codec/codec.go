// Package codec centralizes the encoding and compression transforms the
// indexer understands.
//
// Every format is a named, stateless transform pair. New formats register
// themselves at init time; callers resolve them through ByName and never
// dispatch on format names directly. A codec that can decode sequentially
// with bounded memory additionally implements StreamDecoder, which the
// retrieval path uses to avoid full in-memory decodes of large sources.
package codec

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Codec is a stateless transform over raw bytes for one named format.
// Implementations must be safe for concurrent use.
type Codec interface {
	// Name returns the canonical format name, e.g. "gzip" or "caesar:3".
	Name() string
	// Decode transforms encoded bytes into their decoded form.
	Decode(data []byte) ([]byte, error)
	// Encode is the inverse of Decode. Formats without a usable encoder
	// (archive extraction, uuencode) return an *EncodeError.
	Encode(data []byte) ([]byte, error)
}

// StreamDecoder is implemented by codecs that support sequential,
// forward-only, bounded-memory decoding.
type StreamDecoder interface {
	Codec
	// DecodeStream returns a reader producing the decoded byte stream.
	DecodeStream(r io.Reader) (io.ReadCloser, error)
}

// ErrUnknown is returned by ByName for unrecognized format names.
var ErrUnknown = errors.New("codec: unknown encoding")

// DecodeError wraps a decode failure with the format that produced it.
// The underlying cause is available via errors.Unwrap.
type DecodeError struct {
	Format string
	cause  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec %s: decode failed: %v", e.Format, e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// EncodeError wraps an encode failure with the format that produced it.
type EncodeError struct {
	Format string
	cause  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("codec %s: encode failed: %v", e.Format, e.cause)
}

func (e *EncodeError) Unwrap() error { return e.cause }

var errUnsupported = errors.New("encoding not supported")

type factory func(spec string) Codec

var (
	registry        = map[string]factory{}
	prefixFactories []struct {
		prefix string
		fn     factory
	}
)

// register binds a factory to one or more exact format names.
func register(fn factory, names ...string) {
	for _, n := range names {
		registry[n] = fn
	}
}

// registerPrefix binds a factory to every name starting with prefix, used
// for parameterized formats like "rot13" or "caesar:-5".
func registerPrefix(prefix string, fn factory) {
	prefixFactories = append(prefixFactories, struct {
		prefix string
		fn     factory
	}{prefix, fn})
}

// ByName resolves a format name (case-insensitive, aliases accepted) to its
// codec. It returns ErrUnknown for names no codec has registered.
func ByName(name string) (Codec, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if fn, ok := registry[n]; ok {
		return fn(n), nil
	}
	for _, p := range prefixFactories {
		if strings.HasPrefix(n, p.prefix) {
			return p.fn(n), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Names returns the sorted canonical names of all registered exact-match
// formats. Parameterized prefixes (rotN, caesar:shift) are not listed.
func Names() []string {
	seen := map[string]struct{}{}
	for n := range registry {
		seen[n] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// identity passes bytes through unchanged. It backs the "none" format.
type identity struct{}

func (identity) Name() string                       { return "none" }
func (identity) Decode(data []byte) ([]byte, error) { return data, nil }
func (identity) Encode(data []byte) ([]byte, error) { return data, nil }

func (identity) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

var _ StreamDecoder = identity{}

func init() {
	register(func(string) Codec { return identity{} }, "none")
}
