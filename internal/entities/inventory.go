package entities

import (
	"context"

	"github.com/tiendita-app/tiendita/internal/models"
)

// Inventory manages the stocked products collection.
type Inventory struct {
	base
}

func (s *Inventory) Add(ctx context.Context, item models.InventoryItem) (string, error) {
	return s.crud.AddRecord(ctx, models.CollectionInventory, s.userID(), item)
}

func (s *Inventory) Update(ctx context.Context, id string, item models.InventoryItem) error {
	return updateAs(ctx, s.base, models.CollectionInventory, id, item)
}

func (s *Inventory) Delete(ctx context.Context, id string) error {
	return s.crud.DeleteRecord(ctx, models.CollectionInventory, id)
}

func (s *Inventory) List(ctx context.Context) ([]Entry[models.InventoryItem], error) {
	return listAs[models.InventoryItem](ctx, s.base, models.CollectionInventory)
}

// LowStock returns items at or below their minimum stock level.
func (s *Inventory) LowStock(ctx context.Context) ([]Entry[models.InventoryItem], error) {
	items, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var low []Entry[models.InventoryItem]
	for _, e := range items {
		if e.Value.Quantity <= e.Value.MinStock {
			low = append(low, e)
		}
	}
	return low, nil
}

// Watch signals whenever the collection changes, so list views can
// re-read instead of polling.
func (s *Inventory) Watch() (<-chan struct{}, func()) {
	return s.store.Subscribe(models.CollectionInventory)
}
