package entities

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/tiendita-app/tiendita/internal/crud"
	"github.com/tiendita-app/tiendita/internal/logging"
	"github.com/tiendita-app/tiendita/internal/session"
	"github.com/tiendita-app/tiendita/internal/store"
)

func setupServices(t *testing.T) *Services {
	t.Helper()
	log := logging.NewDefault()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "entities.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sess := session.New()
	return NewServices(crud.New(st, log), st, sess)
}

func loginAs(t *testing.T, svcs *Services, userID string) {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": userID})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	require.NoError(t, svcs.Inventory.session.SetToken(signed))
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
