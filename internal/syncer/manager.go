// Package syncer coordinates the exchange between the local record store
// and the remote backend: connectivity tracking, periodic and manual sync
// passes, the pull overwrite and the FIFO queue drain.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tiendita-app/tiendita/internal/common"
	"github.com/tiendita-app/tiendita/internal/logging"
	"github.com/tiendita-app/tiendita/internal/models"
	"github.com/tiendita-app/tiendita/internal/remote"
	"github.com/tiendita-app/tiendita/internal/store"
)

// maxRetryCount caps transmission attempts per queue entry. An entry that
// keeps failing is dropped so it cannot block the changes queued behind it
// forever; its record stays marked unsynced.
const maxRetryCount = 5

// Options tunes the background loops. Zero values fall back to defaults.
type Options struct {
	SyncInterval        time.Duration
	OnlineCheckInterval time.Duration
}

// Manager is the single long-lived sync coordinator. At most one pass runs
// at a time, whether triggered by the timer, a reconnect or SyncNow.
type Manager struct {
	store   *store.Store
	backend remote.Backend
	log     logging.Logger

	syncInterval  time.Duration
	checkInterval time.Duration

	mu        sync.Mutex
	online    bool
	syncing   bool
	lastSync  time.Time
	subs      map[int]func(Status)
	nextSubID int
}

func New(st *store.Store, backend remote.Backend, log logging.Logger, opts Options) *Manager {
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = 5 * time.Minute
	}
	if opts.OnlineCheckInterval <= 0 {
		opts.OnlineCheckInterval = 30 * time.Second
	}
	return &Manager{
		store:         st,
		backend:       backend,
		log:           log.With("component", "syncer"),
		syncInterval:  opts.SyncInterval,
		checkInterval: opts.OnlineCheckInterval,
		subs:          make(map[int]func(Status)),
	}
}

// Status returns the current snapshot.
func (m *Manager) Status(ctx context.Context) Status {
	return m.snapshot(ctx)
}

// Subscribe registers a status callback and invokes it immediately with
// the current snapshot. The returned func unsubscribes. Callbacks run on
// the manager's goroutines and must not block.
func (m *Manager) Subscribe(cb func(Status)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = cb
	m.mu.Unlock()

	cb(m.snapshot(context.Background()))

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// SyncNow runs one sync pass synchronously. It fails fast with
// common.ErrOffline when the backend is unreachable and
// common.ErrSyncInProgress when a pass is already running.
func (m *Manager) SyncNow(ctx context.Context) error {
	if err := m.beginPass(); err != nil {
		return err
	}
	m.notifySubscribers(ctx)

	completed, err := m.runPass(ctx)
	m.endPass(completed)
	m.notifySubscribers(ctx)
	return err
}

func (m *Manager) beginPass() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.online {
		return common.ErrOffline
	}
	if m.syncing {
		return common.ErrSyncInProgress
	}
	m.syncing = true
	return nil
}

func (m *Manager) endPass(completed bool) {
	m.mu.Lock()
	m.syncing = false
	if completed {
		m.lastSync = time.Now().UTC()
	}
	m.mu.Unlock()
}

// runPass is one full exchange: resolve the remote user, pull every
// collection, drain the queue, record the completion time. Returns false
// when the pass was skipped or failed before completing.
func (m *Manager) runPass(ctx context.Context) (bool, error) {
	userID, err := m.backend.CurrentUser(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to resolve remote user: %w", err)
	}
	if userID == "" {
		m.log.Debug(ctx, "sync pass skipped, no authenticated user")
		return false, nil
	}

	m.pull(ctx, userID)

	if err := m.push(ctx); err != nil {
		return false, err
	}

	now := time.Now().UTC()
	if err := m.store.SetMeta(ctx, store.MetaLastSync, []byte(now.Format(time.RFC3339))); err != nil {
		m.log.Warn(ctx, "failed to record sync completion time", "error", err)
	}
	m.log.Info(ctx, "sync pass finished", "user", userID)
	return true, nil
}

// pull overwrites each local collection with the server's rows. One bad
// collection does not stop the rest of the phase.
func (m *Manager) pull(ctx context.Context, userID string) {
	for _, col := range models.Collections() {
		if err := m.pullCollection(ctx, col, userID); err != nil {
			m.log.Warn(ctx, "failed to pull collection", "table", col.Table(), "error", err)
		}
	}
}

func (m *Manager) pullCollection(ctx context.Context, col models.Collection, userID string) error {
	rows, err := m.backend.SelectAll(ctx, col.Table(), userID)
	if err != nil {
		return err
	}

	for _, row := range rows {
		rec, err := models.RecordFromWireRow(row)
		if err != nil {
			m.log.Warn(ctx, "skipping malformed remote row", "table", col.Table(), "error", err)
			continue
		}
		// The server's copy is authoritative: whatever lands here is by
		// definition in sync and alive.
		rec.Synced = true
		rec.Deleted = false
		if err := m.store.CreateOrUpdate(ctx, col, rec); err != nil {
			return err
		}
	}
	return nil
}

// push drains the change queue oldest first, across all collections. A
// failed entry has its retry counter bumped and is left in place for the
// next pass, until the attempt cap drops it. Later entries for the same
// record are not attempted in that pass: they depend on the failed one
// having been applied first.
func (m *Manager) push(ctx context.Context) error {
	changes, err := m.store.PendingChanges(ctx)
	if err != nil {
		return fmt.Errorf("failed to load pending changes: %w", err)
	}

	failed := make(map[string]struct{})
	for _, ch := range changes {
		key := ch.Table + "/" + ch.RecordID
		if _, ok := failed[key]; ok {
			continue
		}
		if err := m.applyChange(ctx, ch); err != nil {
			failed[key] = struct{}{}
			if rerr := m.recordFailure(ctx, ch, err); rerr != nil {
				return rerr
			}
			continue
		}
		if err := m.finishChange(ctx, ch); err != nil {
			return err
		}
	}
	return nil
}

// applyChange transmits one queue entry to the backend.
func (m *Manager) applyChange(ctx context.Context, ch models.Change) error {
	switch ch.Op {
	case models.OpCreate, models.OpUpdate:
		var row remote.Row
		if err := json.Unmarshal(ch.Data, &row); err != nil {
			return fmt.Errorf("failed to decode change data: %w", err)
		}
		if ch.Op == models.OpCreate {
			return m.backend.Insert(ctx, ch.Table, row)
		}
		return m.backend.Update(ctx, ch.Table, ch.RecordID, row)
	case models.OpDelete:
		return m.backend.Delete(ctx, ch.Table, ch.RecordID)
	default:
		return fmt.Errorf("unknown operation %q", ch.Op)
	}
}

// finishChange records remote confirmation: a delete entry purges the local
// tombstone, anything else flips the record to synced. The queue entry is
// removed last, so a crash in between re-applies the change instead of
// losing it.
func (m *Manager) finishChange(ctx context.Context, ch models.Change) error {
	col, err := models.CollectionByTable(ch.Table)
	if err != nil {
		return err
	}

	switch ch.Op {
	case models.OpDelete:
		if err := m.store.Delete(ctx, col, ch.RecordID); err != nil {
			return err
		}
	default:
		err := m.store.Update(ctx, col, ch.RecordID, map[string]any{"synced": true})
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
	}
	return m.store.DeleteChange(ctx, ch.Seq)
}

func (m *Manager) recordFailure(ctx context.Context, ch models.Change, cause error) error {
	count, err := m.store.IncrementRetry(ctx, ch.Seq)
	if err != nil {
		return fmt.Errorf("failed to record attempt for change %d: %w", ch.Seq, err)
	}

	if count >= maxRetryCount {
		m.log.Error(ctx, "dropping change after repeated failures",
			"seq", ch.Seq, "table", ch.Table, "record", ch.RecordID,
			"attempts", count, "error", cause)
		return m.store.DeleteChange(ctx, ch.Seq)
	}

	m.log.Warn(ctx, "failed to apply change, will retry",
		"seq", ch.Seq, "table", ch.Table, "record", ch.RecordID,
		"attempts", count, "error", cause)
	return nil
}

func (m *Manager) snapshot(ctx context.Context) Status {
	pending, err := m.store.CountPendingChanges(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to count pending changes", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return Status{
		Online:         m.online,
		Syncing:        m.syncing,
		LastSync:       m.lastSync,
		PendingChanges: pending,
	}
}

func (m *Manager) notifySubscribers(ctx context.Context) {
	st := m.snapshot(ctx)

	m.mu.Lock()
	cbs := make([]func(Status), 0, len(m.subs))
	for _, cb := range m.subs {
		cbs = append(cbs, cb)
	}
	m.mu.Unlock()

	for _, cb := range cbs {
		cb(st)
	}
}
