package codec

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

func init() {
	registerPrefix("rot", newRot)
	registerPrefix("caesar", newCaesar)
}

// newRot builds a rotation codec from names like "rot", "rot13" or "rot7".
// An unparsable suffix falls back to the classic 13.
func newRot(spec string) Codec {
	shift := 13
	if s := strings.TrimPrefix(spec, "rot"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			shift = n
		}
	}
	return rotCodec{shift: shift, name: fmt.Sprintf("rot%d", ((shift%26)+26)%26)}
}

// newCaesar builds a Caesar codec from "caesar" or "caesar:N". Decoding
// shifts letters left by N; encoding shifts right. The default shift is 3.
func newCaesar(spec string) Codec {
	shift := 3
	if _, s, ok := strings.Cut(spec, ":"); ok {
		if n, err := strconv.Atoi(s); err == nil {
			shift = n
		}
	}
	return rotCodec{shift: -shift, name: fmt.Sprintf("caesar:%d", shift)}
}

// rotCodec applies a 26-letter alphabetic rotation to ASCII letters only,
// preserving case and leaving all other bytes unchanged. Decode rotates by
// shift; Encode rotates by -shift, so decode(encode(x)) == x for every
// shift, and rot13 keeps its traditional self-inverse behavior.
type rotCodec struct {
	shift int
	name  string
}

func (c rotCodec) Name() string { return c.name }

func (c rotCodec) Decode(data []byte) ([]byte, error) {
	return rotate(data, c.shift), nil
}

func (c rotCodec) Encode(data []byte) ([]byte, error) {
	return rotate(data, -c.shift), nil
}

func (c rotCodec) DecodeStream(r io.Reader) (io.ReadCloser, error) {
	return &rotReader{r: r, shift: c.shift}, nil
}

var _ StreamDecoder = rotCodec{}

func rotByte(b byte, shift int) byte {
	switch {
	case b >= 'A' && b <= 'Z':
		return 'A' + byte(((int(b-'A')+shift)%26+26)%26)
	case b >= 'a' && b <= 'z':
		return 'a' + byte(((int(b-'a')+shift)%26+26)%26)
	default:
		return b
	}
}

func rotate(data []byte, shift int) []byte {
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = rotByte(b, shift)
	}
	return out
}

type rotReader struct {
	r     io.Reader
	shift int
}

func (r *rotReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	for i := range p[:n] {
		p[i] = rotByte(p[i], r.shift)
	}
	return n, err
}

func (r *rotReader) Close() error { return nil }
