package entities

import (
	"context"

	"github.com/tiendita-app/tiendita/internal/models"
)

type Clients struct {
	base
}

func (s *Clients) Add(ctx context.Context, c models.Client) (string, error) {
	return s.crud.AddRecord(ctx, models.CollectionClients, s.userID(), c)
}

func (s *Clients) Update(ctx context.Context, id string, c models.Client) error {
	return updateAs(ctx, s.base, models.CollectionClients, id, c)
}

func (s *Clients) Delete(ctx context.Context, id string) error {
	return s.crud.DeleteRecord(ctx, models.CollectionClients, id)
}

func (s *Clients) List(ctx context.Context) ([]Entry[models.Client], error) {
	return listAs[models.Client](ctx, s.base, models.CollectionClients)
}

// Get returns one client; invoices use it to resolve client_id lookups.
// Deleting a client does not cascade to documents referencing it.
func (s *Clients) Get(ctx context.Context, id string) (*Entry[models.Client], error) {
	rec, err := s.store.Get(ctx, models.CollectionClients, id)
	if err != nil {
		return nil, err
	}
	var c models.Client
	if err := rec.Decode(&c); err != nil {
		return nil, err
	}
	return &Entry[models.Client]{ID: rec.ID, Synced: rec.Synced, Value: c}, nil
}

func (s *Clients) Watch() (<-chan struct{}, func()) {
	return s.store.Subscribe(models.CollectionClients)
}
