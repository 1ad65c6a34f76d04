package syncer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/tiendita-app/tiendita/internal/common"
	"github.com/tiendita-app/tiendita/internal/crud"
	"github.com/tiendita-app/tiendita/internal/logging"
	"github.com/tiendita-app/tiendita/internal/models"
	"github.com/tiendita-app/tiendita/internal/remote"
	"github.com/tiendita-app/tiendita/internal/store"
)

type backendCall struct {
	op    string
	table string
	id    string
}

// mockBackend records every call in order and fails on demand.
type mockBackend struct {
	mu       sync.Mutex
	userID   string
	rows     map[string][]remote.Row
	calls    []backendCall
	attempts int
	opErr    error

	// userGate, when set, blocks CurrentUser until closed.
	userGate chan struct{}
}

func (b *mockBackend) CurrentUser(ctx context.Context) (string, error) {
	if b.userGate != nil {
		<-b.userGate
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.userID, nil
}

func (b *mockBackend) SelectAll(ctx context.Context, table, userID string) ([]remote.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rows[table], nil
}

func (b *mockBackend) Insert(ctx context.Context, table string, row remote.Row) error {
	return b.record("insert", table, fmt.Sprint(row["id"]))
}

func (b *mockBackend) Update(ctx context.Context, table, id string, row remote.Row) error {
	return b.record("update", table, id)
}

func (b *mockBackend) Delete(ctx context.Context, table, id string) error {
	return b.record("delete", table, id)
}

func (b *mockBackend) Ping(ctx context.Context) error { return nil }

func (b *mockBackend) record(op, table, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts++
	if b.opErr != nil {
		return b.opErr
	}
	b.calls = append(b.calls, backendCall{op: op, table: table, id: id})
	return nil
}

func (b *mockBackend) recorded() []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]backendCall, len(b.calls))
	copy(out, b.calls)
	return out
}

type fixture struct {
	store   *store.Store
	crud    *crud.Helper
	backend *mockBackend
	manager *Manager
}

func setupManager(t *testing.T) *fixture {
	t.Helper()
	log := logging.NewDefault()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "sync.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	backend := &mockBackend{userID: "u1", rows: map[string][]remote.Row{}}
	mgr := New(st, backend, log, Options{})
	return &fixture{store: st, crud: crud.New(st, log), backend: backend, manager: mgr}
}

func (f *fixture) goOnline() {
	f.manager.mu.Lock()
	f.manager.online = true
	f.manager.mu.Unlock()
}

func TestSyncNow_OfflineFailsFast(t *testing.T) {
	f := setupManager(t)

	err := f.manager.SyncNow(context.Background())
	assert.ErrorIs(t, err, common.ErrOffline)
	assert.Empty(t, f.backend.recorded())
}

func TestSyncNow_SkipsWhenNoUser(t *testing.T) {
	f := setupManager(t)
	f.goOnline()
	f.backend.userID = ""
	ctx := context.Background()

	_, err := f.crud.AddRecord(ctx, models.CollectionClients, "guest", models.Client{Name: "Ana"})
	require.NoError(t, err)

	require.NoError(t, f.manager.SyncNow(ctx))

	assert.Empty(t, f.backend.recorded(), "nothing must be transmitted without a user")
	pending, err := f.store.CountPendingChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending, "the queue must survive a skipped pass")
	assert.True(t, f.manager.Status(ctx).LastSync.IsZero())
}

func TestSyncNow_DrainsQueueInOrder(t *testing.T) {
	f := setupManager(t)
	f.goOnline()
	ctx := context.Background()

	itemID, err := f.crud.AddRecord(ctx, models.CollectionInventory, "u1", models.InventoryItem{Name: "Beans"})
	require.NoError(t, err)
	clientID, err := f.crud.AddRecord(ctx, models.CollectionClients, "u1", models.Client{Name: "Ana"})
	require.NoError(t, err)
	require.NoError(t, f.crud.UpdateRecord(ctx, models.CollectionInventory, itemID, map[string]any{"quantity": 3}))

	require.NoError(t, f.manager.SyncNow(ctx))

	want := []backendCall{
		{op: "insert", table: "inventory", id: itemID},
		{op: "insert", table: "clients", id: clientID},
		{op: "update", table: "inventory", id: itemID},
	}
	assert.Equal(t, want, f.backend.recorded(), "replay must follow enqueue order across tables")

	pending, err := f.store.CountPendingChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	rec, err := f.store.Get(ctx, models.CollectionInventory, itemID)
	require.NoError(t, err)
	assert.True(t, rec.Synced, "drained records must be marked synced")

	assert.False(t, f.manager.Status(ctx).LastSync.IsZero())
}

func TestSyncNow_DeleteEntryPurgesTombstone(t *testing.T) {
	f := setupManager(t)
	f.goOnline()
	ctx := context.Background()

	id, err := f.crud.AddRecord(ctx, models.CollectionExpenses, "u1", models.Expense{Description: "Rent"})
	require.NoError(t, err)
	require.NoError(t, f.manager.SyncNow(ctx))

	require.NoError(t, f.crud.DeleteRecord(ctx, models.CollectionExpenses, id))

	// Tombstone still present until the drain confirms the remote delete.
	rec, err := f.store.Get(ctx, models.CollectionExpenses, id)
	require.NoError(t, err)
	assert.True(t, rec.Deleted)

	require.NoError(t, f.manager.SyncNow(ctx))

	_, err = f.store.Get(ctx, models.CollectionExpenses, id)
	assert.ErrorIs(t, err, common.ErrNotFound)

	calls := f.backend.recorded()
	require.NotEmpty(t, calls)
	assert.Equal(t, backendCall{op: "delete", table: "expenses", id: id}, calls[len(calls)-1])
}

func TestSyncNow_PullOverwritesLocal(t *testing.T) {
	f := setupManager(t)
	f.goOnline()
	ctx := context.Background()

	rec := &models.Record{
		ID:        "itm-1",
		UserID:    "u1",
		Fields:    []byte(`{"name":"Beans","quantity":2}`),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := f.store.Add(ctx, models.CollectionInventory, rec)
	require.NoError(t, err)

	f.backend.rows["inventory"] = []remote.Row{{
		"id":         "itm-1",
		"user_id":    "u1",
		"name":       "Beans",
		"quantity":   float64(9),
		"created_at": "2026-01-01T00:00:00Z",
		"updated_at": "2026-02-01T00:00:00Z",
	}}

	require.NoError(t, f.manager.SyncNow(ctx))

	got, err := f.store.Get(ctx, models.CollectionInventory, "itm-1")
	require.NoError(t, err)
	assert.True(t, got.Synced, "pulled rows are authoritative and synced")
	assert.False(t, got.Deleted)

	var item models.InventoryItem
	require.NoError(t, got.Decode(&item))
	assert.Equal(t, 9, item.Quantity)
}

func TestSyncNow_RetryCapDropsChange(t *testing.T) {
	f := setupManager(t)
	f.goOnline()
	ctx := context.Background()

	id, err := f.crud.AddRecord(ctx, models.CollectionSuppliers, "u1", models.Supplier{Name: "Proveedora Sur"})
	require.NoError(t, err)

	f.backend.mu.Lock()
	f.backend.opErr = errors.New("backend rejected the row")
	f.backend.mu.Unlock()

	for i := 0; i < maxRetryCount-1; i++ {
		require.NoError(t, f.manager.SyncNow(ctx))
		pending, err := f.store.CountPendingChanges(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, pending, "entry must survive attempt %d", i+1)
	}

	// The attempt that reaches the cap drops the entry.
	require.NoError(t, f.manager.SyncNow(ctx))
	pending, err := f.store.CountPendingChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	rec, err := f.store.Get(ctx, models.CollectionSuppliers, id)
	require.NoError(t, err)
	assert.False(t, rec.Synced, "a dropped change leaves its record unsynced")
}

func TestSyncNow_FailedEntryHoldsBackSameRecord(t *testing.T) {
	f := setupManager(t)
	f.goOnline()
	ctx := context.Background()

	id, err := f.crud.AddRecord(ctx, models.CollectionClients, "u1", models.Client{Name: "Ana"})
	require.NoError(t, err)
	require.NoError(t, f.crud.UpdateRecord(ctx, models.CollectionClients, id, map[string]any{"phone": "555-0101"}))
	otherID, err := f.crud.AddRecord(ctx, models.CollectionSuppliers, "u1", models.Supplier{Name: "Proveedora Sur"})
	require.NoError(t, err)

	f.backend.mu.Lock()
	f.backend.opErr = errors.New("backend rejected the row")
	f.backend.mu.Unlock()

	require.NoError(t, f.manager.SyncNow(ctx))

	f.backend.mu.Lock()
	attempts := f.backend.attempts
	f.backend.mu.Unlock()
	assert.Equal(t, 2, attempts, "the update depends on the failed create and must wait")

	changes, err := f.store.PendingChanges(ctx)
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.Equal(t, 1, changes[0].RetryCount, "attempted create")
	assert.Equal(t, 0, changes[1].RetryCount, "held-back update burns no attempt")
	assert.Equal(t, 1, changes[2].RetryCount, "unrelated record still attempted")
	assert.Equal(t, otherID, changes[2].RecordID)
}

func TestSyncNow_RetryThenSuccess(t *testing.T) {
	f := setupManager(t)
	f.goOnline()
	ctx := context.Background()

	id, err := f.crud.AddRecord(ctx, models.CollectionClients, "u1", models.Client{Name: "Ana"})
	require.NoError(t, err)

	f.backend.mu.Lock()
	f.backend.opErr = errors.New("temporarily unavailable")
	f.backend.mu.Unlock()

	require.NoError(t, f.manager.SyncNow(ctx))
	require.NoError(t, f.manager.SyncNow(ctx))

	f.backend.mu.Lock()
	f.backend.opErr = nil
	f.backend.mu.Unlock()

	require.NoError(t, f.manager.SyncNow(ctx))

	calls := f.backend.recorded()
	require.Len(t, calls, 1, "the change must be applied exactly once")
	assert.Equal(t, backendCall{op: "insert", table: "clients", id: id}, calls[0])

	pending, err := f.store.CountPendingChanges(ctx)
	require.NoError(t, err)
	assert.Zero(t, pending)

	rec, err := f.store.Get(ctx, models.CollectionClients, id)
	require.NoError(t, err)
	assert.True(t, rec.Synced)
}

func TestSyncNow_MutualExclusion(t *testing.T) {
	f := setupManager(t)
	f.goOnline()
	f.backend.userGate = make(chan struct{})

	firstDone := make(chan error, 1)
	go func() { firstDone <- f.manager.SyncNow(context.Background()) }()

	// Wait for the first pass to take the syncing flag.
	require.Eventually(t, func() bool {
		f.manager.mu.Lock()
		defer f.manager.mu.Unlock()
		return f.manager.syncing
	}, time.Second, 5*time.Millisecond)

	err := f.manager.SyncNow(context.Background())
	assert.ErrorIs(t, err, common.ErrSyncInProgress)

	close(f.backend.userGate)
	require.NoError(t, <-firstDone)
}

func TestSubscribe_SnapshotAndUpdates(t *testing.T) {
	f := setupManager(t)
	f.goOnline()
	ctx := context.Background()

	var mu sync.Mutex
	var seen []Status
	unsubscribe := f.manager.Subscribe(func(st Status) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})

	mu.Lock()
	require.Len(t, seen, 1, "subscription must deliver an immediate snapshot")
	assert.True(t, seen[0].Online)
	mu.Unlock()

	_, err := f.crud.AddRecord(ctx, models.CollectionClients, "u1", models.Client{Name: "Ana"})
	require.NoError(t, err)
	require.NoError(t, f.manager.SyncNow(ctx))

	mu.Lock()
	require.GreaterOrEqual(t, len(seen), 3, "pass start and end must both notify")
	assert.True(t, seen[1].Syncing)
	last := seen[len(seen)-1]
	mu.Unlock()
	assert.False(t, last.Syncing)
	assert.Zero(t, last.PendingChanges)
	assert.False(t, last.LastSync.IsZero())

	unsubscribe()
	countBefore := func() int { mu.Lock(); defer mu.Unlock(); return len(seen) }()
	require.NoError(t, f.manager.SyncNow(ctx))
	assert.Equal(t, countBefore, func() int { mu.Lock(); defer mu.Unlock(); return len(seen) }())
}
