// Package cli is the interactive shell over the local store and the sync
// engine: login, per-entity add/list commands, manual sync and status.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	_ "modernc.org/sqlite"

	"github.com/tiendita-app/tiendita/internal/config"
	"github.com/tiendita-app/tiendita/internal/crud"
	"github.com/tiendita-app/tiendita/internal/entities"
	"github.com/tiendita-app/tiendita/internal/logging"
	"github.com/tiendita-app/tiendita/internal/remote"
	"github.com/tiendita-app/tiendita/internal/session"
	"github.com/tiendita-app/tiendita/internal/store"
	"github.com/tiendita-app/tiendita/internal/syncer"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	store    *store.Store
	session  *session.Session
	backend  *remote.HTTPBackend
	entities *entities.Services
	syncer   *syncer.Manager

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	st, err := store.Open(ctx, cfg.DatabasePath, log)
	if err != nil {
		return nil, err
	}

	sess := session.New()
	backend := remote.NewHTTPBackend(cfg.ServerEndpointURL, sess.Token)
	svcs := entities.NewServices(crud.New(st, log), st, sess)
	mgr := syncer.New(st, backend, log, syncer.Options{
		SyncInterval:        cfg.SyncInterval,
		OnlineCheckInterval: cfg.OnlineCheckInterval,
	})

	return &App{
		config:   cfg,
		log:      log,
		store:    st,
		session:  sess,
		backend:  backend,
		entities: svcs,
		syncer:   mgr,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run starts the background sync loops and enters the REPL. Returns when
// the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	defer a.store.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.syncer.Start(ctx)
	a.Root(ctx)
}
