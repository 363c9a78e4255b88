package index

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultBatchSize is the number of writes buffered in one transaction
// before the Writer commits.
const DefaultBatchSize = 1000

// Writer performs bulk ingest writes in transactional batches. It is not
// safe for concurrent use; ingestion is single-writer. A crash between
// commits leaves a partially populated index that the next import's Reset
// discards.
type Writer struct {
	store *Store
	tx    *sql.Tx

	insRecord *sql.Stmt
	insToken  *sql.Stmt
	incToken  *sql.Stmt
	insOcc    *sql.Stmt

	// tokenIDs caches value->id across batches so that repeated tokens
	// skip the upsert round trip.
	tokenIDs map[string]int64

	pending   int
	batchSize int
}

// NewWriter starts a bulk writer committing every batchSize writes. A
// batchSize of zero or less uses DefaultBatchSize.
func (s *Store) NewWriter(ctx context.Context, batchSize int) (*Writer, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	w := &Writer{
		store:     s,
		tokenIDs:  make(map[string]int64),
		batchSize: batchSize,
	}
	if err := w.begin(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Writer) begin(ctx context.Context) error {
	tx, err := w.store.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	w.tx = tx

	prepared := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&w.insRecord, `INSERT INTO record(start_pos, end_pos) VALUES(?, ?)`},
		{&w.insToken, `INSERT INTO token(value, count) VALUES(?, 1)
			ON CONFLICT(value) DO UPDATE SET count = count + 1
			RETURNING id`},
		{&w.incToken, `UPDATE token SET count = count + 1 WHERE id = ?`},
		{&w.insOcc, `INSERT INTO occurrence(token_id, record_id) VALUES(?, ?)`},
	}
	for _, p := range prepared {
		stmt, err := tx.PrepareContext(ctx, p.query)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("index: prepare: %w", err)
		}
		*p.dst = stmt
	}
	return nil
}

// AddRecord inserts a record with the given half-open byte range and
// returns its id.
func (w *Writer) AddRecord(ctx context.Context, start, end int64) (int64, error) {
	res, err := w.insRecord.ExecContext(ctx, start, end)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	w.pending++
	return id, w.maybeFlush(ctx)
}

// UpsertToken creates the token with count 1 or increments the count of an
// existing one, returning the token id.
func (w *Writer) UpsertToken(ctx context.Context, value string) (int64, error) {
	if id, ok := w.tokenIDs[value]; ok {
		if _, err := w.incToken.ExecContext(ctx, id); err != nil {
			return 0, err
		}
		return id, nil
	}
	var id int64
	if err := w.insToken.QueryRowContext(ctx, value).Scan(&id); err != nil {
		return 0, err
	}
	w.tokenIDs[value] = id
	return id, nil
}

// AddOccurrence records one appearance of tokenID inside recordID.
func (w *Writer) AddOccurrence(ctx context.Context, tokenID, recordID int64) error {
	if _, err := w.insOcc.ExecContext(ctx, tokenID, recordID); err != nil {
		return err
	}
	w.pending++
	return w.maybeFlush(ctx)
}

func (w *Writer) maybeFlush(ctx context.Context) error {
	if w.pending < w.batchSize {
		return nil
	}
	return w.Flush(ctx)
}

// Flush commits the current batch and opens a new transaction.
func (w *Writer) Flush(ctx context.Context) error {
	if err := w.commit(); err != nil {
		return err
	}
	w.pending = 0
	return w.begin(ctx)
}

func (w *Writer) commit() error {
	for _, stmt := range []*sql.Stmt{w.insRecord, w.insToken, w.incToken, w.insOcc} {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	return w.tx.Commit()
}

// Close commits any buffered writes and releases the writer's statements.
func (w *Writer) Close() error {
	if w.tx == nil {
		return nil
	}
	err := w.commit()
	w.tx = nil
	return err
}
