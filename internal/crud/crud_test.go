package crud

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/tiendita-app/tiendita/internal/common"
	"github.com/tiendita-app/tiendita/internal/logging"
	"github.com/tiendita-app/tiendita/internal/models"
	"github.com/tiendita-app/tiendita/internal/store"
)

func setup(t *testing.T) (*Helper, *store.Store) {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "crud.db"), logging.NewDefault())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return New(st, logging.NewDefault()), st
}

func TestEveryMutationQueuesExactlyOneChange(t *testing.T) {
	h, st := setup(t)
	ctx := context.Background()

	id, err := h.AddRecord(ctx, models.CollectionInventory, "u1", models.InventoryItem{Name: "Beans", Quantity: 10})
	require.NoError(t, err)
	require.NoError(t, h.UpdateRecord(ctx, models.CollectionInventory, id, map[string]any{"quantity": 7}))
	require.NoError(t, h.DeleteRecord(ctx, models.CollectionInventory, id))

	pending, err := st.PendingChanges(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3, "one queue entry per mutation")

	assert.Equal(t, models.OpCreate, pending[0].Op)
	assert.Equal(t, models.OpUpdate, pending[1].Op)
	assert.Equal(t, models.OpDelete, pending[2].Op)
	for _, ch := range pending {
		assert.Equal(t, "inventory", ch.Table)
		assert.Equal(t, id, ch.RecordID)
	}
}

func TestAddRecord_StampsBookkeeping(t *testing.T) {
	h, st := setup(t)
	ctx := context.Background()

	id, err := h.AddRecord(ctx, models.CollectionExpenses, "u1", models.Expense{
		Description: "Rent",
		Category:    "fixed",
		Amount:      decimal.RequireFromString("350.00"),
		Date:        "2026-03-01",
	})
	require.NoError(t, err)

	rec, err := st.Get(ctx, models.CollectionExpenses, id)
	require.NoError(t, err)
	assert.Equal(t, "u1", rec.UserID)
	assert.False(t, rec.Synced)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.Equal(t, rec.CreatedAt, rec.UpdatedAt)
}

func TestUpdateRecord_QueuesFullSnapshot(t *testing.T) {
	h, st := setup(t)
	ctx := context.Background()

	id, err := h.AddRecord(ctx, models.CollectionClients, "u1", models.Client{Name: "Ana", Phone: "555"})
	require.NoError(t, err)
	require.NoError(t, h.UpdateRecord(ctx, models.CollectionClients, id, map[string]any{"phone": "777"}))

	pending, err := st.PendingChanges(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	// The update entry carries the whole post-update record, not a diff.
	row := map[string]any{}
	require.NoError(t, json.Unmarshal(pending[1].Data, &row))
	assert.Equal(t, "Ana", row["name"])
	assert.Equal(t, "777", row["phone"])
	assert.Equal(t, id, row["id"])
	assert.Equal(t, "u1", row["user_id"])
}

func TestDeleteRecord_SoftDeletesUntilDrained(t *testing.T) {
	h, st := setup(t)
	ctx := context.Background()

	id, err := h.AddRecord(ctx, models.CollectionSuppliers, "u1", models.Supplier{Name: "Acme"})
	require.NoError(t, err)
	require.NoError(t, h.DeleteRecord(ctx, models.CollectionSuppliers, id))

	list, err := h.GetRecords(ctx, models.CollectionSuppliers, "u1")
	require.NoError(t, err)
	assert.Empty(t, list, "soft-deleted records must not be listed")

	rec, err := st.Get(ctx, models.CollectionSuppliers, id)
	require.NoError(t, err)
	assert.True(t, rec.Deleted)
	assert.False(t, rec.Synced)
}

func TestUpdateRecord_PropagatesNotFound(t *testing.T) {
	h, _ := setup(t)

	err := h.UpdateRecord(context.Background(), models.CollectionBudgets, "missing", map[string]any{"limit": 1})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
