package entities

import (
	"context"

	"github.com/tiendita-app/tiendita/internal/models"
)

// Invoices manages sequence-numbered invoices.
type Invoices struct {
	base
}

// Add stores the invoice, assigning the next INV-NNN number when none is
// set.
func (s *Invoices) Add(ctx context.Context, inv models.Invoice) (string, error) {
	if inv.Number == "" {
		number, err := s.NextNumber(ctx)
		if err != nil {
			return "", err
		}
		inv.Number = number
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceStatusDraft
	}
	return s.crud.AddRecord(ctx, models.CollectionInvoices, s.userID(), inv)
}

func (s *Invoices) Update(ctx context.Context, id string, inv models.Invoice) error {
	return updateAs(ctx, s.base, models.CollectionInvoices, id, inv)
}

func (s *Invoices) Delete(ctx context.Context, id string) error {
	return s.crud.DeleteRecord(ctx, models.CollectionInvoices, id)
}

func (s *Invoices) List(ctx context.Context) ([]Entry[models.Invoice], error) {
	return listAs[models.Invoice](ctx, s.base, models.CollectionInvoices)
}

// NextNumber returns the next invoice number for the user.
func (s *Invoices) NextNumber(ctx context.Context) (string, error) {
	return nextDocumentNumber(ctx, s.store, models.CollectionInvoices, s.userID(), "INV")
}

func (s *Invoices) Watch() (<-chan struct{}, func()) {
	return s.store.Subscribe(models.CollectionInvoices)
}
