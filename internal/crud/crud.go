// Package crud is the single choke point for local mutations. Every
// create, update and delete stamps the bookkeeping fields, writes the
// record, and enqueues exactly one outbound change for the sync engine to
// replay.
package crud

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tiendita-app/tiendita/internal/logging"
	"github.com/tiendita-app/tiendita/internal/models"
	"github.com/tiendita-app/tiendita/internal/store"
)

type Helper struct {
	store *store.Store
	log   logging.Logger
}

func New(st *store.Store, log logging.Logger) *Helper {
	return &Helper{store: st, log: log}
}

// AddRecord creates a record owned by userID from the typed payload and
// queues a create change carrying the full new record. Returns the
// assigned id.
//
// The record write and the queue append are two separate statements: a
// crash between them leaves a record that will never be transmitted. The
// returned error surfaces the second failure so the caller can warn the
// user.
func (h *Helper) AddRecord(ctx context.Context, col models.Collection, userID string, payload any) (string, error) {
	fields, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s payload: %w", col.Table(), err)
	}

	now := time.Now().UTC()
	rec := &models.Record{
		UserID:    userID,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
		Synced:    false,
	}

	id, err := h.store.Add(ctx, col, rec)
	if err != nil {
		return "", err
	}

	if err := h.enqueueSnapshot(ctx, col, rec, models.OpCreate); err != nil {
		h.log.Error(ctx, "record saved but change not queued", "collection", col.Table(), "id", id, "error", err)
		return id, err
	}
	return id, nil
}

// UpdateRecord merges updates into the record, bumps updated_at, marks it
// unsynced, and queues an update change carrying the full post-update
// record rather than a diff.
func (h *Helper) UpdateRecord(ctx context.Context, col models.Collection, id string, updates map[string]any) error {
	merged := make(map[string]any, len(updates)+2)
	for k, v := range updates {
		merged[k] = v
	}
	merged["updated_at"] = time.Now().UTC()
	merged["synced"] = false

	if err := h.store.Update(ctx, col, id, merged); err != nil {
		return err
	}

	rec, err := h.store.Get(ctx, col, id)
	if err != nil {
		return fmt.Errorf("failed to re-read %s/%s after update: %w", col.Table(), id, err)
	}
	return h.enqueueSnapshot(ctx, col, rec, models.OpUpdate)
}

// DeleteRecord soft-deletes the record and queues a delete change carrying
// only the identifier. The tombstone stays until the sync drain confirms
// the remote delete and purges it.
func (h *Helper) DeleteRecord(ctx context.Context, col models.Collection, id string) error {
	err := h.store.Update(ctx, col, id, map[string]any{
		"deleted":    true,
		"synced":     false,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	data, err := json.Marshal(map[string]string{"id": id})
	if err != nil {
		return err
	}
	ch := &models.Change{
		Table:     col.Table(),
		RecordID:  id,
		Op:        models.OpDelete,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	return h.store.Enqueue(ctx, ch)
}

// GetRecords is the canonical list query: the user's records with
// tombstones excluded.
func (h *Helper) GetRecords(ctx context.Context, col models.Collection, userID string) ([]models.Record, error) {
	return h.store.List(ctx, col, store.ListQuery{UserID: userID})
}

func (h *Helper) enqueueSnapshot(ctx context.Context, col models.Collection, rec *models.Record, op models.Operation) error {
	row, err := rec.WireRow()
	if err != nil {
		return err
	}
	data, err := json.Marshal(row)
	if err != nil {
		return err
	}
	ch := &models.Change{
		Table:     col.Table(),
		RecordID:  rec.ID,
		Op:        op,
		Data:      data,
		CreatedAt: time.Now().UTC(),
	}
	return h.store.Enqueue(ctx, ch)
}
