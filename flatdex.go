package flatdex

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/flatdex/flatdex/codec"
	"github.com/flatdex/flatdex/extract"
	"github.com/flatdex/flatdex/index"
	"github.com/flatdex/flatdex/ingest"
)

// Match is one retrieved record. Start and End are byte offsets in the
// decoded source stream.
type Match = extract.Match

// Stats summarizes index contents.
type Stats = index.Stats

// ImportOptions tunes a single import run. Zero values select defaults.
type ImportOptions struct {
	// Separator splits the decoded stream into records. `\n` and `\t`
	// escapes are recognized; anything else is tried as a regular
	// expression and falls back to a literal. Default is newline.
	Separator string
	// Acuity prunes tokens occurring fewer than this many times after
	// the import finishes. Zero disables pruning.
	Acuity int
}

// Engine is the top-level handle over one index database.
type Engine struct {
	store  *index.Store
	opts   options
	search *extract.Engine
}

// Open opens (creating if needed) the index database at dbPath.
func Open(dbPath string, optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)
	store, err := index.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &Engine{
		store: store,
		opts:  o,
		search: extract.New(store, extract.Config{
			ChunkSize:         o.chunkSize,
			StreamThreshold:   o.streamThreshold,
			ExternalThreshold: o.externalThreshold,
			Lookback:          o.lookback,
			Logger:            o.logger.Logger,
		}),
	}, nil
}

// Close releases the underlying database handle.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	return e.store.Close()
}

// Import resets the index and ingests the stream r, recorded under name.
// For piped input pass index.StdinName; searches will then need a source
// path override. encoding names the codec the stream is wrapped in.
func (e *Engine) Import(ctx context.Context, r io.Reader, name, encoding string, opts ImportOptions) (Stats, error) {
	c, err := codec.ByName(encoding)
	if err != nil {
		return Stats{}, err
	}

	p := ingest.New(e.store, c, ingest.Config{
		Separator: opts.Separator,
		BatchSize: e.opts.batchSize,
		Logger:    e.opts.logger.WithEncoding(c.Name()).Logger,
	})
	stats, err := p.Run(ctx, r, name)
	e.opts.logger.LogImport(ctx, name, stats, err)
	if err != nil {
		return Stats{}, err
	}

	if opts.Acuity > 0 {
		removed, elapsed, err := e.store.PruneBelow(ctx, opts.Acuity)
		e.opts.logger.LogPrune(ctx, opts.Acuity, removed, elapsed, err)
		if err != nil {
			return Stats{}, err
		}
		if removed > 0 {
			stats, err = e.store.Stats(ctx)
			if err != nil {
				return Stats{}, err
			}
		}
	}
	return stats, nil
}

// ImportFile imports the file at path. The path is recorded as the
// source so later searches can reopen it.
func (e *Engine) ImportFile(ctx context.Context, path, encoding string, opts ImportOptions) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()
	return e.Import(ctx, f, path, encoding, opts)
}

// Search returns every record containing term, with its exact text
// rebuilt from the original source file. pathOverride, when non-empty,
// is read instead of the path recorded at import.
func (e *Engine) Search(ctx context.Context, term, pathOverride string) ([]Match, error) {
	matches, err := e.search.Search(ctx, term, pathOverride)
	e.opts.logger.LogSearch(ctx, term, len(matches), err)
	return matches, err
}

// Prune removes tokens occurring fewer than minCount times and compacts
// the database. It returns the number of tokens removed.
func (e *Engine) Prune(ctx context.Context, minCount int) (int, time.Duration, error) {
	removed, elapsed, err := e.store.PruneBelow(ctx, minCount)
	e.opts.logger.LogPrune(ctx, minCount, removed, elapsed, err)
	return removed, elapsed, err
}

// Stats reports current index contents.
func (e *Engine) Stats(ctx context.Context) (Stats, error) {
	return e.store.Stats(ctx)
}
