package entities

import (
	"context"
	"fmt"

	"github.com/tiendita-app/tiendita/internal/models"
	"github.com/tiendita-app/tiendita/internal/store"
)

// nextDocumentNumber produces the next count-based sequence number,
// PREFIX-NNN zero-padded to three digits. Counting existing rows is not
// safe when two devices generate for the same user concurrently; the
// duplicate surfaces server-side and is accepted as a known limitation.
func nextDocumentNumber(ctx context.Context, st *store.Store, col models.Collection, userID, prefix string) (string, error) {
	n, err := st.Count(ctx, col, store.ListQuery{UserID: userID})
	if err != nil {
		return "", fmt.Errorf("failed to count %s for numbering: %w", col.Table(), err)
	}
	return fmt.Sprintf("%s-%03d", prefix, n+1), nil
}
