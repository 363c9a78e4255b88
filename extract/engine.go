// Package extract reconstructs exact record text from an indexed source.
//
// Given a search term, the engine looks up matching record byte ranges in
// the index and rebuilds each record's bytes from the original (still
// encoded) source. Small or non-streamable sources are fully decoded in
// memory; large streamable sources are walked with a forward-only partial
// decode that visits only the bytes the matches need; very large
// compressed sources are piped through an external decompressor process.
// The engine never writes to the index.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/flatdex/flatdex/codec"
	"github.com/flatdex/flatdex/index"
	"github.com/flatdex/flatdex/internal/textutil"
)

// ErrIndexEmpty is returned when search runs against an index holding no
// tokens, which almost always means import was never run.
var ErrIndexEmpty = errors.New("index is empty, run an import first")

// ErrNoSourcePath is returned when the corpus was ingested from a pipe and
// no source path override was supplied.
var ErrNoSourcePath = errors.New("source was piped input, a source path is required")

const (
	// DefaultChunkSize is the read size for streaming extraction.
	DefaultChunkSize = 4 * 1024 * 1024
	// DefaultStreamThreshold is the source size above which streaming
	// extraction is preferred over full in-memory decode.
	DefaultStreamThreshold = 32 * 1024 * 1024
	// DefaultExternalThreshold is the source size at which an external
	// decompressor subprocess is preferred over in-process streaming.
	DefaultExternalThreshold = 1 * 1024 * 1024 * 1024
	// DefaultLookback is how many bytes below the next pending target the
	// streaming window retains when trimming.
	DefaultLookback = 64 * 1024
)

// Match is one record whose text contains the search term.
type Match struct {
	RecordID int64
	Start    int64
	End      int64
	Text     string
}

// Config carries engine tuning knobs. Zero values select the defaults.
type Config struct {
	ChunkSize         int
	StreamThreshold   int64
	ExternalThreshold int64
	Lookback          int64
	Logger            *slog.Logger
}

// Engine resolves search terms to record text.
type Engine struct {
	store     *index.Store
	chunkSize int
	streamMin int64
	execMin   int64
	lookback  int64
	logger    *slog.Logger
}

// New builds an Engine reading from store.
func New(store *index.Store, cfg Config) *Engine {
	e := &Engine{
		store:     store,
		chunkSize: cfg.ChunkSize,
		streamMin: cfg.StreamThreshold,
		execMin:   cfg.ExternalThreshold,
		lookback:  cfg.Lookback,
		logger:    cfg.Logger,
	}
	if e.chunkSize <= 0 {
		e.chunkSize = DefaultChunkSize
	}
	if e.streamMin <= 0 {
		e.streamMin = DefaultStreamThreshold
	}
	if e.execMin <= 0 {
		e.execMin = DefaultExternalThreshold
	}
	if e.lookback <= 0 {
		e.lookback = DefaultLookback
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e
}

// Search returns the text of every record containing term, ordered by
// ascending start position. An absent term yields an empty result and no
// error. pathOverride, when non-empty, is read instead of the source path
// recorded at import time.
func (e *Engine) Search(ctx context.Context, term, pathOverride string) ([]Match, error) {
	stats, err := e.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.Tokens == 0 {
		return nil, ErrIndexEmpty
	}

	ranges, err := e.store.Lookup(ctx, strings.ToLower(strings.TrimSpace(term)))
	if err != nil {
		return nil, err
	}
	if len(ranges) == 0 {
		return nil, nil
	}
	e.logger.Info("matching records found", "term", term, "records", len(ranges))

	name, encodingType, err := e.store.Source(ctx)
	if err != nil {
		return nil, err
	}
	path := pathOverride
	if path == "" {
		path = name
	}
	if path == "" || path == index.StdinName {
		return nil, ErrNoSourcePath
	}

	c, err := codec.ByName(encodingType)
	if err != nil {
		return nil, err
	}
	return e.reconstruct(ctx, path, c, ranges)
}

// reconstruct picks the cheapest strategy that can rebuild the target
// ranges from the source at path, falling back tier by tier: external
// subprocess, in-process streaming, full in-memory decode.
func (e *Engine) reconstruct(ctx context.Context, path string, c codec.Codec, ranges []index.RecordRange) ([]Match, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("source file: %w", err)
	}
	size := fi.Size()

	sd, streamable := c.(codec.StreamDecoder)
	if !streamable || size < e.streamMin {
		return e.fullDecode(path, c, ranges)
	}

	if size >= e.execMin {
		if argv, ok := externalCommand(c.Name()); ok {
			matches, err := e.runExternal(ctx, path, argv, ranges)
			if err == nil {
				return matches, nil
			}
			e.logger.Warn("external decompressor failed, using in-process streaming", "error", err)
		}
	}

	e.logger.Info("streaming extraction",
		"source", path,
		"size", humanize.IBytes(uint64(size)),
		"codec", c.Name(),
	)
	return e.runStream(ctx, path, sd, ranges)
}

// runStream extracts ranges with the in-process streaming decoder.
func (e *Engine) runStream(ctx context.Context, path string, sd codec.StreamDecoder, ranges []index.RecordRange) ([]Match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := sd.DecodeStream(f)
	if err != nil {
		return nil, fmt.Errorf("codec %s: open decode stream: %w", sd.Name(), err)
	}
	defer r.Close()

	return e.extract(ctx, r, ranges)
}

// fullDecode reads and decodes the whole source into memory and slices
// each target range out of the decoded bytes.
func (e *Engine) fullDecode(path string, c codec.Codec, ranges []index.RecordRange) ([]Match, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, err := c.Decode(raw)
	if err != nil {
		return nil, err
	}

	out := make([]Match, 0, len(ranges))
	for _, target := range ranges {
		if target.End > int64(len(decoded)) {
			e.logger.Warn("record range beyond decoded source, results degraded",
				"record", target.RecordID,
				"range_end", target.End,
				"decoded_size", len(decoded),
			)
			continue
		}
		out = append(out, Match{
			RecordID: target.RecordID,
			Start:    target.Start,
			End:      target.End,
			Text:     textutil.ToString(decoded[target.Start:target.End]),
		})
	}
	return out, nil
}
