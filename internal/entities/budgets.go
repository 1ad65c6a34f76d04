package entities

import (
	"context"

	"github.com/tiendita-app/tiendita/internal/models"
)

type Budgets struct {
	base
}

func (s *Budgets) Add(ctx context.Context, b models.Budget) (string, error) {
	return s.crud.AddRecord(ctx, models.CollectionBudgets, s.userID(), b)
}

func (s *Budgets) Update(ctx context.Context, id string, b models.Budget) error {
	return updateAs(ctx, s.base, models.CollectionBudgets, id, b)
}

func (s *Budgets) Delete(ctx context.Context, id string) error {
	return s.crud.DeleteRecord(ctx, models.CollectionBudgets, id)
}

func (s *Budgets) List(ctx context.Context) ([]Entry[models.Budget], error) {
	return listAs[models.Budget](ctx, s.base, models.CollectionBudgets)
}

// ForMonth returns the user's budgets for one month ("2006-01").
func (s *Budgets) ForMonth(ctx context.Context, month string) ([]Entry[models.Budget], error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Entry[models.Budget]
	for _, b := range all {
		if b.Value.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Budgets) Watch() (<-chan struct{}, func()) {
	return s.store.Subscribe(models.CollectionBudgets)
}
