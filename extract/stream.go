package extract

import (
	"context"
	"errors"
	"io"

	"github.com/flatdex/flatdex/index"
	"github.com/flatdex/flatdex/internal/textutil"
)

// extract runs the streaming record extraction over a decoded byte stream.
//
// It is a forward-only cursor with three phases per target range: seek
// until the window buffer reaches the target's end, slice the target's
// bytes out of the window, then trim the window back to just below the
// next pending target's start. Ranges must be pre-sorted by ascending
// start, which Lookup guarantees; because matches from one query tend to
// cluster, the buffer between neighboring targets is usually retained
// wholesale.
//
// When the stream ends before a target is reached, the remaining targets
// are skipped and the matches gathered so far are returned. That silently
// under-reports against the index, so the condition is logged.
func (e *Engine) extract(ctx context.Context, r io.Reader, ranges []index.RecordRange) ([]Match, error) {
	w := &window{}
	chunk := make([]byte, e.chunkSize)
	out := make([]Match, 0, len(ranges))

	for i, target := range ranges {
		// SEEKING
		for w.end() < target.End {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			n, err := r.Read(chunk)
			if n > 0 {
				w.append(chunk[:n])
			}
			if err != nil {
				if errors.Is(err, io.EOF) {
					if w.end() >= target.End {
						break
					}
					e.logger.Warn("decode stream ended before record range, results degraded",
						"unresolved", len(ranges)-i,
						"stream_end", w.end(),
						"range_end", target.End,
					)
					return out, nil
				}
				return nil, err
			}
		}

		// EXTRACTING
		if !w.covers(target.Start, target.End) {
			// Start precedes the window origin. Ranges never overlap
			// and arrive sorted, so the trim below can't cause this;
			// it would mean index ranges that don't match the source.
			e.logger.Warn("record range outside window, skipped",
				"record", target.RecordID,
				"start", target.Start,
				"origin", w.origin,
			)
			continue
		}
		out = append(out, Match{
			RecordID: target.RecordID,
			Start:    target.Start,
			End:      target.End,
			Text:     textutil.ToString(w.slice(target.Start, target.End)),
		})

		// TRIM
		if i+1 < len(ranges) {
			keep := ranges[i+1].Start - e.lookback
			if keep > target.End {
				keep = target.End
			}
			w.trim(keep)
		}
	}
	return out, nil
}
