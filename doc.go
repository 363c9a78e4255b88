// Package flatdex indexes and retrieves records from arbitrarily encoded
// flat files.
//
// A flat file is any sequence of records separated by a delimiter — log
// lines, CSV rows, newline-delimited JSON — possibly wrapped in a text
// encoding (base64, ascii85, hex, rotation ciphers) or a compression
// format (gzip, bzip2, brotli, zstd, zip, tar). Flatdex decodes the
// source once at import time, tokenizes each record, and stores an
// inverted index of token positions keyed by exact byte ranges in the
// decoded stream. Searches then rebuild matching records byte-for-byte
// from the untouched original file, streaming a partial decode when the
// source is too large to hold in memory.
//
// # Quick Start
//
//	ctx := context.Background()
//	fx, err := flatdex.Open("index.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer fx.Close()
//
//	stats, err := fx.ImportFile(ctx, "access.log.gz", "gzip", flatdex.ImportOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("indexed %d records, %d unique tokens\n", stats.Records, stats.Tokens)
//
//	matches, err := fx.Search(ctx, "timeout", "")
//	for _, m := range matches {
//	    fmt.Printf("[%d:%d] %s\n", m.Start, m.End, m.Text)
//	}
//
// # Import Behavior
//
// Import replaces the index wholesale: each run resets the database and
// records a single source. Records are split on a separator (default
// newline; regular expressions accepted), blank records are skipped but
// still advance the byte cursor, and token counts accumulate one per
// occurrence. An optional acuity filter prunes tokens appearing fewer
// than a minimum number of times, shrinking the index to the terms worth
// querying.
//
// # Retrieval Strategy
//
// Search picks the cheapest reconstruction that can reach the matched
// byte ranges: full in-memory decode for small or non-streamable
// encodings, in-process streaming decode with a sliding window for large
// streamable ones, and an external decompressor subprocess (gzip -dc and
// friends) for very large compressed sources, falling back to in-process
// streaming when the tool is missing or fails.
package flatdex
