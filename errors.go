package flatdex

import (
	"github.com/flatdex/flatdex/codec"
	"github.com/flatdex/flatdex/extract"
	"github.com/flatdex/flatdex/index"
)

// Caller-visible sentinels re-exported from the subpackages so users of
// the facade can match them without importing internals.
var (
	// ErrIndexEmpty is returned by Search when the index holds no tokens.
	ErrIndexEmpty = extract.ErrIndexEmpty
	// ErrNoSourcePath is returned by Search when the corpus was imported
	// from a pipe and no source path override was given.
	ErrNoSourcePath = extract.ErrNoSourcePath
	// ErrNoSource is returned when no import has recorded a source yet.
	ErrNoSource = index.ErrNoSource
	// ErrUnknownEncoding is returned when an encoding name does not match
	// any registered codec.
	ErrUnknownEncoding = codec.ErrUnknown
)
