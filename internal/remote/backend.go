// Package remote defines the backend collection API the sync engine talks
// to, and its HTTP implementation. The backend is an opaque remote
// collection store: rows in, rows out, keyed by table name.
package remote

import "context"

// Row is one remote collection row in wire form.
type Row map[string]any

// Backend is the surface the sync manager needs. Implementations must
// report errors distinguishably from "no rows": an empty collection is a
// nil error with an empty slice.
type Backend interface {
	// CurrentUser returns the authenticated user's id, or "" when nobody
	// is logged in. A non-nil error means the call itself failed.
	CurrentUser(ctx context.Context) (string, error)

	// SelectAll returns every row of the collection owned by userID.
	SelectAll(ctx context.Context, table string, userID string) ([]Row, error)

	// Insert adds a row to the collection.
	Insert(ctx context.Context, table string, row Row) error

	// Update replaces the row with the given id.
	Update(ctx context.Context, table string, id string, row Row) error

	// Delete removes the row with the given id.
	Delete(ctx context.Context, table string, id string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
