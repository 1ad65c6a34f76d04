package entities

import (
	"context"

	"github.com/tiendita-app/tiendita/internal/models"
)

// Receipts manages sequence-numbered sale receipts.
type Receipts struct {
	base
}

// Add stores the receipt, assigning the next REC-NNN number when none is
// set.
func (s *Receipts) Add(ctx context.Context, r models.Receipt) (string, error) {
	if r.Number == "" {
		number, err := s.NextNumber(ctx)
		if err != nil {
			return "", err
		}
		r.Number = number
	}
	return s.crud.AddRecord(ctx, models.CollectionReceipts, s.userID(), r)
}

func (s *Receipts) Update(ctx context.Context, id string, r models.Receipt) error {
	return updateAs(ctx, s.base, models.CollectionReceipts, id, r)
}

func (s *Receipts) Delete(ctx context.Context, id string) error {
	return s.crud.DeleteRecord(ctx, models.CollectionReceipts, id)
}

func (s *Receipts) List(ctx context.Context) ([]Entry[models.Receipt], error) {
	return listAs[models.Receipt](ctx, s.base, models.CollectionReceipts)
}

// NextNumber returns the next receipt number for the user.
func (s *Receipts) NextNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, s.store, models.CollectionReceipts, s.userID(), "REC")
}

func (s *Receipts) Watch() (<-chan struct{}, func()) {
	return s.store.Subscribe(models.CollectionReceipts)
}
