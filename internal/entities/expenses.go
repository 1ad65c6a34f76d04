package entities

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tiendita-app/tiendita/internal/models"
)

// Expenses manages the expense collection and its aggregations.
type Expenses struct {
	base
}

func (s *Expenses) Add(ctx context.Context, e models.Expense) (string, error) {
	return s.crud.AddRecord(ctx, models.CollectionExpenses, s.userID(), e)
}

func (s *Expenses) Update(ctx context.Context, id string, e models.Expense) error {
	return updateAs(ctx, s.base, models.CollectionExpenses, id, e)
}

func (s *Expenses) Delete(ctx context.Context, id string) error {
	return s.crud.DeleteRecord(ctx, models.CollectionExpenses, id)
}

func (s *Expenses) List(ctx context.Context) ([]Entry[models.Expense], error) {
	return listAs[models.Expense](ctx, s.base, models.CollectionExpenses)
}

// ByCategory returns the user's expenses in one category.
func (s *Expenses) ByCategory(ctx context.Context, category string) ([]Entry[models.Expense], error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Entry[models.Expense]
	for _, e := range all {
		if e.Value.Category == category {
			out = append(out, e)
		}
	}
	return out, nil
}

// TotalBetween sums expenses dated within [from, to]. Dates are ISO
// (2006-01-02), so the comparison is lexicographic.
func (s *Expenses) TotalBetween(ctx context.Context, from, to string) (decimal.Decimal, error) {
	all, err := s.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range all {
		if e.Value.Date >= from && e.Value.Date <= to {
			total = total.Add(e.Value.Amount)
		}
	}
	return total, nil
}

// TotalsByCategory aggregates the user's expenses per category.
func (s *Expenses) TotalsByCategory(ctx context.Context) (map[string]decimal.Decimal, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]decimal.Decimal)
	for _, e := range all {
		totals[e.Value.Category] = totals[e.Value.Category].Add(e.Value.Amount)
	}
	return totals, nil
}

func (s *Expenses) Watch() (<-chan struct{}, func()) {
	return s.store.Subscribe(models.CollectionExpenses)
}
