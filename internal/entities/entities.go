// Package entities provides the typed façades over the CRUD helpers, one
// per business entity. The façades scope every operation to the session's
// user, decode the generic record payloads into their concrete types, and
// add the handful of derived queries the app's pages need.
package entities

import (
	"context"
	"fmt"

	"github.com/tiendita-app/tiendita/internal/crud"
	"github.com/tiendita-app/tiendita/internal/models"
	"github.com/tiendita-app/tiendita/internal/session"
	"github.com/tiendita-app/tiendita/internal/store"
)

// Entry pairs a decoded entity payload with its record id and sync state.
type Entry[T any] struct {
	ID     string
	Synced bool
	Value  T
}

type base struct {
	crud    *crud.Helper
	store   *store.Store
	session *session.Session
}

func (b base) userID() string { return b.session.UserID() }

// Services bundles one façade per entity collection.
type Services struct {
	Inventory     *Inventory
	Expenses      *Expenses
	Suppliers     *Suppliers
	Budgets       *Budgets
	SpecialOrders *SpecialOrders
	Clients       *Clients
	Invoices      *Invoices
	Receipts      *Receipts
}

func NewServices(h *crud.Helper, st *store.Store, sess *session.Session) *Services {
	b := base{crud: h, store: st, session: sess}
	return &Services{
		Inventory:     &Inventory{base: b},
		Expenses:      &Expenses{base: b},
		Suppliers:     &Suppliers{base: b},
		Budgets:       &Budgets{base: b},
		SpecialOrders: &SpecialOrders{base: b},
		Clients:       &Clients{base: b},
		Invoices:      &Invoices{base: b},
		Receipts:      &Receipts{base: b},
	}
}

func listAs[T any](ctx context.Context, b base, col models.Collection) ([]Entry[T], error) {
	recs, err := b.crud.GetRecords(ctx, col, b.userID())
	if err != nil {
		return nil, err
	}
	out := make([]Entry[T], 0, len(recs))
	for i := range recs {
		var v T
		if err := recs[i].Decode(&v); err != nil {
			return nil, fmt.Errorf("failed to decode %s/%s: %w", col.Table(), recs[i].ID, err)
		}
		out = append(out, Entry[T]{ID: recs[i].ID, Synced: recs[i].Synced, Value: v})
	}
	return out, nil
}

func updateAs(ctx context.Context, b base, col models.Collection, id string, payload any) error {
	fields, err := models.FieldsOf(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", col.Table(), err)
	}
	return b.crud.UpdateRecord(ctx, col, id, fields)
}
