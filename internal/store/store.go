// Package store implements the durable local record store: one SQLite
// table per entity collection, the outbound change queue, and a small
// metadata table. Entity payloads are stored as JSON in a data column so
// every collection shares the same shape and code path.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/tiendita-app/tiendita/internal/common"
	"github.com/tiendita-app/tiendita/internal/dbx"
	"github.com/tiendita-app/tiendita/internal/logging"
	"github.com/tiendita-app/tiendita/internal/models"
)

var recordColumns = []string{"id", "user_id", "data", "created_at", "updated_at", "synced", "deleted"}

// Store provides keyed access to the local collections. There is exactly
// one writing process; the connection pool is capped at a single
// connection to match that model.
type Store struct {
	db       *sql.DB
	log      logging.Logger
	notifier *Notifier
}

func New(db *sql.DB, log logging.Logger) *Store {
	return &Store{db: db, log: log, notifier: NewNotifier()}
}

func (s *Store) Close() error { return s.db.Close() }

// Subscribe registers for change signals on one collection. See
// Notifier.Subscribe.
func (s *Store) Subscribe(col models.Collection) (<-chan struct{}, func()) {
	return s.notifier.Subscribe(col)
}

// Add inserts a record, assigning a fresh UUID when the id is empty. The
// row is durable before Add returns. Inserting an id that already exists
// in the collection fails with common.ErrDuplicateKey.
func (s *Store) Add(ctx context.Context, col models.Collection, rec *models.Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if len(rec.Fields) == 0 {
		rec.Fields = json.RawMessage(`{}`)
	}

	query, args, err := sq.Insert(col.Table()).
		Columns(recordColumns...).
		Values(rec.ID, rec.UserID, string(rec.Fields),
			formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt),
			boolToInt(rec.Synced), boolToInt(rec.Deleted)).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build insert for %s: %w", col.Table(), err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s/%s: %w", col.Table(), rec.ID, common.ErrDuplicateKey)
		}
		return "", fmt.Errorf("failed to insert into %s: %w", col.Table(), err)
	}

	s.notifier.Notify(col)
	return rec.ID, nil
}

// Get returns the record by id, tombstones included. A missing id fails
// with common.ErrNotFound.
func (s *Store) Get(ctx context.Context, col models.Collection, id string) (*models.Record, error) {
	return getRecord(ctx, s.db, col, id)
}

// Update merges fields into the existing record. Bookkeeping keys
// (user_id, created_at, updated_at, synced, deleted) update their columns;
// everything else merges into the entity payload. The read-modify-write
// runs in one transaction.
func (s *Store) Update(ctx context.Context, col models.Collection, id string, fields map[string]any) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rec, err := getRecord(ctx, tx, col, id)
		if err != nil {
			return err
		}
		if err := applyFields(rec, fields); err != nil {
			return fmt.Errorf("failed to merge fields into %s/%s: %w", col.Table(), id, err)
		}

		query, args, err := sq.Update(col.Table()).
			Set("user_id", rec.UserID).
			Set("data", string(rec.Fields)).
			Set("created_at", formatTime(rec.CreatedAt)).
			Set("updated_at", formatTime(rec.UpdatedAt)).
			Set("synced", boolToInt(rec.Synced)).
			Set("deleted", boolToInt(rec.Deleted)).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build update for %s: %w", col.Table(), err)
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return err
	})
	if err != nil {
		return err
	}

	s.notifier.Notify(col)
	return nil
}

// CreateOrUpdate upserts a record by id, replacing every column on
// conflict. The sync pull phase uses it to force the server's copy over
// the local one.
func (s *Store) CreateOrUpdate(ctx context.Context, col models.Collection, rec *models.Record) error {
	if len(rec.Fields) == 0 {
		rec.Fields = json.RawMessage(`{}`)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, user_id, data, created_at, updated_at, synced, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id,
			data = excluded.data,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			synced = excluded.synced,
			deleted = excluded.deleted`, col.Table())

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, string(rec.Fields),
		formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt),
		boolToInt(rec.Synced), boolToInt(rec.Deleted))
	if err != nil {
		return fmt.Errorf("failed to upsert %s/%s: %w", col.Table(), rec.ID, err)
	}

	s.notifier.Notify(col)
	return nil
}

// Delete physically removes the row. Only the sync drain calls this, after
// a delete operation has been confirmed remotely; user-facing deletes go
// through Update with a deleted marker. Deleting a missing id is a no-op.
func (s *Store) Delete(ctx context.Context, col models.Collection, id string) error {
	query, args, err := sq.Delete(col.Table()).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete for %s: %w", col.Table(), err)
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", col.Table(), id, err)
	}
	s.notifier.Notify(col)
	return nil
}

// ListQuery filters List and Count. An empty UserID means no owner filter.
type ListQuery struct {
	UserID         string
	IncludeDeleted bool
}

// List returns the matching records ordered by creation time. Soft-deleted
// rows are excluded unless IncludeDeleted is set.
func (s *Store) List(ctx context.Context, col models.Collection, q ListQuery) ([]models.Record, error) {
	b := sq.Select(recordColumns...).From(col.Table())
	if q.UserID != "" {
		b = b.Where(sq.Eq{"user_id": q.UserID})
	}
	if !q.IncludeDeleted {
		b = b.Where(sq.Eq{"deleted": 0})
	}
	query, args, err := b.OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select for %s: %w", col.Table(), err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", col.Table(), err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Count returns the number of matching records; the invoice/receipt
// numbering sequence is derived from it.
func (s *Store) Count(ctx context.Context, col models.Collection, q ListQuery) (int, error) {
	b := sq.Select("COUNT(*)").From(col.Table())
	if q.UserID != "" {
		b = b.Where(sq.Eq{"user_id": q.UserID})
	}
	if !q.IncludeDeleted {
		b = b.Where(sq.Eq{"deleted": 0})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count for %s: %w", col.Table(), err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", col.Table(), err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func getRecord(ctx context.Context, db dbx.DBTX, col models.Collection, id string) (*models.Record, error) {
	query, args, err := sq.Select(recordColumns...).From(col.Table()).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select for %s: %w", col.Table(), err)
	}

	rec, err := scanRecord(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", col.Table(), id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", col.Table(), id, err)
	}
	return rec, nil
}

func scanRecord(row rowScanner) (*models.Record, error) {
	var (
		rec             models.Record
		data            string
		created, updated string
		synced, deleted int
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &data, &created, &updated, &synced, &deleted); err != nil {
		return nil, err
	}
	rec.Fields = json.RawMessage(data)
	rec.CreatedAt = parseTime(created)
	rec.UpdatedAt = parseTime(updated)
	rec.Synced = synced != 0
	rec.Deleted = deleted != 0
	return &rec, nil
}

// applyFields merges a partial-field map into the record. Unknown keys go
// into the entity payload.
func applyFields(rec *models.Record, fields map[string]any) error {
	var data map[string]any
	if len(rec.Fields) > 0 {
		if err := json.Unmarshal(rec.Fields, &data); err != nil {
			return err
		}
	}
	if data == nil {
		data = map[string]any{}
	}

	for k, v := range fields {
		switch k {
		case "user_id":
			if s, ok := v.(string); ok {
				rec.UserID = s
			}
		case "created_at":
			rec.CreatedAt = coerceTime(v, rec.CreatedAt)
		case "updated_at":
			rec.UpdatedAt = coerceTime(v, rec.UpdatedAt)
		case "synced":
			if b, ok := v.(bool); ok {
				rec.Synced = b
			}
		case "deleted":
			if b, ok := v.(bool); ok {
				rec.Deleted = b
			}
		default:
			data[k] = v
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	rec.Fields = b
	return nil
}

func coerceTime(v any, fallback time.Time) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
	}
	return fallback
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
