package entities

import (
	"context"

	"github.com/tiendita-app/tiendita/internal/models"
)

type Suppliers struct {
	base
}

func (s *Suppliers) Add(ctx context.Context, sup models.Supplier) (string, error) {
	return s.crud.AddRecord(ctx, models.CollectionSuppliers, s.userID(), sup)
}

func (s *Suppliers) Update(ctx context.Context, id string, sup models.Supplier) error {
	return updateAs(ctx, s.base, models.CollectionSuppliers, id, sup)
}

func (s *Suppliers) Delete(ctx context.Context, id string) error {
	return s.crud.DeleteRecord(ctx, models.CollectionSuppliers, id)
}

func (s *Suppliers) List(ctx context.Context) ([]Entry[models.Supplier], error) {
	return listAs[models.Supplier](ctx, s.base, models.CollectionSuppliers)
}

func (s *Suppliers) Watch() (<-chan struct{}, func()) {
	return s.store.Subscribe(models.CollectionSuppliers)
}
