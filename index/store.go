// Package index persists the inverted token index in a SQLite database.
//
// The store keeps five entity kinds: the source's encoding, the source
// itself, byte-range records, tokens with cumulative occurrence counts, and
// token-to-record occurrences. All methods take an explicit store handle
// and a context; there is no package-level database state.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// StdinName is the placeholder source name recorded for piped input. A
// corpus ingested from stdin has no addressable source path, so retrieval
// against it requires an explicit path override.
const StdinName = "<stdin>"

// ErrNoSource is returned when the index holds no ingested source.
var ErrNoSource = errors.New("index: no source recorded")

// pruneBatchSize keeps bulk DELETE statements under SQLite's historical
// 999-parameter ceiling.
const pruneBatchSize = 900

// Store provides access to one SQLite-backed token index.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the index database at path and ensures
// its schema. Pass ":memory:" for an in-memory index.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("index: open %s: %w", path, err)
	}
	// The modernc driver serializes access per connection; a single
	// connection avoids table-lock errors between the batch writer and
	// stats queries.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("index: enable WAL: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("index: ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Reset deletes every row from every table, preparing the store for a fresh
// import.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"occurrence", "token", "record", "source", "encoding"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("index: reset %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// AddSource records the source name and its encoding type, returning the
// source id.
func (s *Store) AddSource(ctx context.Context, name, encodingType string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO encoding(type) VALUES(?)`, encodingType)
	if err != nil {
		return 0, err
	}
	encodingID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	res, err = s.db.ExecContext(ctx, `INSERT INTO source(name, encoding_id) VALUES(?, ?)`, name, encodingID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Source returns the name and encoding type of the ingested source.
func (s *Store) Source(ctx context.Context) (name, encodingType string, err error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT s.name, e.type
		FROM source s
		JOIN encoding e ON s.encoding_id = e.id
		LIMIT 1`)
	if err := row.Scan(&name, &encodingType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", ErrNoSource
		}
		return "", "", err
	}
	return name, encodingType, nil
}

// RecordRange locates one record in the decoded byte stream as a half-open
// range [Start, End).
type RecordRange struct {
	RecordID int64
	Start    int64
	End      int64
}

// Lookup returns the distinct records containing the given normalized term,
// ordered by ascending start position. An absent term yields an empty
// result, not an error.
func (s *Store) Lookup(ctx context.Context, term string) ([]RecordRange, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT r.id, r.start_pos, r.end_pos
		FROM token t
		JOIN occurrence o ON t.id = o.token_id
		JOIN record r ON o.record_id = r.id
		WHERE t.value = ?
		ORDER BY r.start_pos`, term)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecordRange
	for rows.Next() {
		var rr RecordRange
		if err := rows.Scan(&rr.RecordID, &rr.Start, &rr.End); err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

// Stats holds entity counts for the whole index.
type Stats struct {
	Records     int64
	Tokens      int64
	Occurrences int64
}

// Stats counts records, unique tokens and token occurrences.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	for _, q := range []struct {
		query string
		dst   *int64
	}{
		{"SELECT COUNT(*) FROM record", &st.Records},
		{"SELECT COUNT(*) FROM token", &st.Tokens},
		{"SELECT COUNT(*) FROM occurrence", &st.Occurrences},
	} {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return Stats{}, err
		}
	}
	return st, nil
}

// PruneBelow deletes every token whose cumulative count is below minCount,
// together with all of its occurrences, then compacts and reindexes the
// database. Records are never deleted. Deletions run in bounded-size
// batches to stay under the bulk-statement parameter ceiling; VACUUM and
// REINDEX run once, after the deleting transaction commits, because SQLite
// cannot vacuum inside an open transaction.
func (s *Store) PruneBelow(ctx context.Context, minCount int) (int, time.Duration, error) {
	start := time.Now()

	rows, err := s.db.QueryContext(ctx, `SELECT id FROM token WHERE count < ?`, minCount)
	if err != nil {
		return 0, 0, err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, 0, err
	}
	if len(ids) == 0 {
		return 0, time.Since(start), nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	for from := 0; from < len(ids); from += pruneBatchSize {
		to := min(from+pruneBatchSize, len(ids))
		batch := ids[from:to]

		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(batch)), ",")
		args := make([]any, len(batch))
		for i, id := range batch {
			args[i] = id
		}

		if _, err := tx.ExecContext(ctx,
			"DELETE FROM occurrence WHERE token_id IN ("+placeholders+")", args...); err != nil {
			return 0, 0, err
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM token WHERE id IN ("+placeholders+")", args...); err != nil {
			return 0, 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return 0, 0, fmt.Errorf("index: vacuum after prune: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "REINDEX"); err != nil {
		return 0, 0, fmt.Errorf("index: reindex after prune: %w", err)
	}

	return len(ids), time.Since(start), nil
}
