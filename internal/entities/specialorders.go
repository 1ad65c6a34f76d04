package entities

import (
	"context"

	"github.com/tiendita-app/tiendita/internal/models"
)

type SpecialOrders struct {
	base
}

func (s *SpecialOrders) Add(ctx context.Context, o models.SpecialOrder) (string, error) {
	return s.crud.AddRecord(ctx, models.CollectionSpecialOrders, s.userID(), o)
}

func (s *SpecialOrders) Update(ctx context.Context, id string, o models.SpecialOrder) error {
	return updateAs(ctx, s.base, models.CollectionSpecialOrders, id, o)
}

func (s *SpecialOrders) Delete(ctx context.Context, id string) error {
	return s.crud.DeleteRecord(ctx, models.CollectionSpecialOrders, id)
}

func (s *SpecialOrders) List(ctx context.Context) ([]Entry[models.SpecialOrder], error) {
	return listAs[models.SpecialOrder](ctx, s.base, models.CollectionSpecialOrders)
}

// ByStatus filters the user's special orders by status.
func (s *SpecialOrders) ByStatus(ctx context.Context, status string) ([]Entry[models.SpecialOrder], error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Entry[models.SpecialOrder]
	for _, o := range all {
		if o.Value.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *SpecialOrders) Watch() (<-chan struct{}, func()) {
	return s.store.Subscribe(models.CollectionSpecialOrders)
}
