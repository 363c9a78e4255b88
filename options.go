package flatdex

import (
	"log/slog"

	"github.com/flatdex/flatdex/extract"
	"github.com/flatdex/flatdex/index"
)

type options struct {
	logger            *Logger
	batchSize         int
	chunkSize         int
	streamThreshold   int64
	externalThreshold int64
	lookback          int64
}

// Option configures Engine constructor behavior.
//
// Options exist to avoid exploding the API surface with
// configuration-specific constructor variants.
type Option func(*options)

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := flatdex.NewJSONLogger(slog.LevelInfo)
//	fx, _ := flatdex.Open("index.db", flatdex.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithBatchSize configures how many records are buffered per index
// transaction during import. Larger batches trade memory for fewer
// commits. Values below 1 select the default.
func WithBatchSize(n int) Option {
	return func(o *options) {
		o.batchSize = n
	}
}

// WithChunkSize configures the read size used by streaming retrieval.
func WithChunkSize(n int) Option {
	return func(o *options) {
		o.chunkSize = n
	}
}

// WithStreamThreshold configures the source size above which retrieval
// streams the decode instead of loading the whole source into memory.
func WithStreamThreshold(n int64) Option {
	return func(o *options) {
		o.streamThreshold = n
	}
}

// WithExternalThreshold configures the source size at which retrieval
// hands decompression to an external subprocess when one is available.
func WithExternalThreshold(n int64) Option {
	return func(o *options) {
		o.externalThreshold = n
	}
}

// WithLookback configures how many bytes of already-decoded stream the
// streaming retrieval window keeps below the next pending record.
func WithLookback(n int64) Option {
	return func(o *options) {
		o.lookback = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:            NoopLogger(),
		batchSize:         index.DefaultBatchSize,
		chunkSize:         extract.DefaultChunkSize,
		streamThreshold:   extract.DefaultStreamThreshold,
		externalThreshold: extract.DefaultExternalThreshold,
		lookback:          extract.DefaultLookback,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
