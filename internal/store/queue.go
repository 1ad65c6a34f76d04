package store

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/tiendita-app/tiendita/internal/dbx"
	"github.com/tiendita-app/tiendita/internal/models"
)

// Enqueue appends a change to the outbound queue and fills in its assigned
// sequence number. The producer side only ever appends; the sync drain is
// the only deleter.
func (s *Store) Enqueue(ctx context.Context, ch *models.Change) error {
	if len(ch.Data) == 0 {
		ch.Data = json.RawMessage(`{}`)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO sync_queue (table_name, record_id, operation, data, created_at, retry_count)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ch.Table, ch.RecordID, string(ch.Op), string(ch.Data), formatTime(ch.CreatedAt), ch.RetryCount)
	if err != nil {
		return fmt.Errorf("failed to enqueue change for %s/%s: %w", ch.Table, ch.RecordID, err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read change sequence: %w", err)
	}
	ch.Seq = seq
	return nil
}

// PendingChanges returns every queued change, oldest first, across all
// collections. This global FIFO order is the replay order.
func (s *Store) PendingChanges(ctx context.Context) ([]models.Change, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, table_name, record_id, operation, data, created_at, retry_count
		 FROM sync_queue ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending changes: %w", err)
	}
	defer rows.Close()

	var result []models.Change
	for rows.Next() {
		var (
			ch      models.Change
			op      string
			data    string
			created string
		)
		if err := rows.Scan(&ch.Seq, &ch.Table, &ch.RecordID, &op, &data, &created, &ch.RetryCount); err != nil {
			return nil, err
		}
		ch.Op = models.Operation(op)
		ch.Data = json.RawMessage(data)
		ch.CreatedAt = parseTime(created)
		result = append(result, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountPendingChanges returns the live queue length, surfaced to the UI as
// the pending-changes counter.
func (s *Store) CountPendingChanges(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("sync_queue").ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending changes: %w", err)
	}
	return n, nil
}

// DeleteChange removes a drained queue entry.
func (s *Store) DeleteChange(ctx context.Context, seq int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sync_queue WHERE seq = ?`, seq); err != nil {
		return fmt.Errorf("failed to delete change %d: %w", seq, err)
	}
	return nil
}

// IncrementRetry bumps the entry's retry counter and returns the new
// value, so the drain can decide whether the entry has run out of
// attempts.
func (s *Store) IncrementRetry(ctx context.Context, seq int64) (int, error) {
	var count int
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `UPDATE sync_queue SET retry_count = retry_count + 1 WHERE seq = ?`, seq); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT retry_count FROM sync_queue WHERE seq = ?`, seq).Scan(&count)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment retry for change %d: %w", seq, err)
	}
	return count, nil
}
