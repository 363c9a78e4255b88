// Package ingest builds the inverted index from a raw byte source.
//
// The pipeline fully decodes the source through its codec, splits the
// decoded stream into records on a separator, tracks each record's byte
// range in the decoded stream, tokenizes record text, and writes the
// results to the index store in transactional batches. Importing always
// replaces the whole corpus: the store is reset before the first write.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"

	"github.com/flatdex/flatdex/codec"
	"github.com/flatdex/flatdex/index"
	"github.com/flatdex/flatdex/internal/tokenize"
)

// Config carries pipeline settings.
type Config struct {
	// Separator is the record separator specification, see Splitter.
	Separator string
	// BatchSize is the number of index writes per transaction.
	BatchSize int
	// Logger receives progress and summary logs. Nil discards them.
	Logger *slog.Logger
}

// Pipeline ingests one source into an index store.
type Pipeline struct {
	store  *index.Store
	codec  codec.Codec
	split  *Splitter
	batch  int
	logger *slog.Logger
}

// New builds a Pipeline writing to store, decoding through c.
func New(store *index.Store, c codec.Codec, cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	sep := cfg.Separator
	if sep == "" {
		sep = `\n`
	}
	return &Pipeline{
		store:  store,
		codec:  c,
		split:  NewSplitter(sep),
		batch:  cfg.BatchSize,
		logger: logger,
	}
}

// Run reads the whole source from r, decodes it, and rebuilds the index
// from its records. The name is recorded as the corpus source (use
// index.StdinName for piped input). It returns the post-import index
// stats.
func (p *Pipeline) Run(ctx context.Context, r io.Reader, name string) (index.Stats, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return index.Stats{}, fmt.Errorf("ingest: read %s: %w", name, err)
	}
	p.logger.Info("source read",
		"source", name,
		"codec", p.codec.Name(),
		"size", humanize.IBytes(uint64(len(raw))),
	)

	decoded, err := p.codec.Decode(raw)
	if err != nil {
		return index.Stats{}, err
	}
	if p.codec.Name() != "none" {
		p.logger.Info("source decoded", "decoded_size", humanize.IBytes(uint64(len(decoded))))
	}

	if err := p.store.Reset(ctx); err != nil {
		return index.Stats{}, err
	}
	if _, err := p.store.AddSource(ctx, name, p.codec.Name()); err != nil {
		return index.Stats{}, err
	}

	if err := p.parse(ctx, string(decoded)); err != nil {
		return index.Stats{}, err
	}

	stats, err := p.store.Stats(ctx)
	if err != nil {
		return index.Stats{}, err
	}
	p.logger.Info("import complete",
		"records", stats.Records,
		"tokens", stats.Tokens,
		"occurrences", stats.Occurrences,
	)
	return stats, nil
}

// parse splits decoded text into records and writes them with their
// tokens. Byte offsets are measured against the decoded stream; the cursor
// advances past every segment, stored or skipped, plus one separator byte.
func (p *Pipeline) parse(ctx context.Context, text string) error {
	w, err := p.store.NewWriter(ctx, p.batch)
	if err != nil {
		return err
	}
	defer w.Close()

	progress := rate.NewLimiter(rate.Every(time.Second), 1)

	var cursor int64
	var records int64
	for _, segment := range p.split.Split(text) {
		if err := ctx.Err(); err != nil {
			return err
		}

		length := int64(len(segment))
		start, end := cursor, cursor+length
		cursor = end + 1 // separator byte

		if strings.TrimSpace(segment) == "" {
			continue
		}

		recordID, err := w.AddRecord(ctx, start, end)
		if err != nil {
			return err
		}
		for _, token := range tokenize.Tokens(segment) {
			tokenID, err := w.UpsertToken(ctx, token)
			if err != nil {
				return err
			}
			if err := w.AddOccurrence(ctx, tokenID, recordID); err != nil {
				return err
			}
		}

		records++
		if progress.Allow() {
			p.logger.Info("ingesting", "records", records, "position", humanize.IBytes(uint64(cursor)))
		}
	}
	return w.Close()
}
