// Package cli implements the interactive storefront client: a REPL over
// the session store for login, cart, wallet, and catalog operations.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/eduline/studyshop/internal/client/api"
	"github.com/eduline/studyshop/internal/client/config"
	"github.com/eduline/studyshop/internal/client/session"
	"github.com/eduline/studyshop/internal/client/storage"
	"github.com/eduline/studyshop/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config  *config.Config
	log     logging.Logger
	api     api.Client
	store   *session.Store
	storage storage.Storage
	reader  *bufio.Reader
}

// NewApp wires storage, the API client, and the session store together,
// hydrates the store, and starts the cross-client storage watch.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	st, err := storage.OpenSQLite(ctx, cfg.StoragePath, cfg.WatchInterval)
	if err != nil {
		log.Error(ctx, "failed to open storage", "path", cfg.StoragePath, "error", err)
		return nil, err
	}

	apiClient := api.NewHTTPClient(cfg.APIBaseURL, cfg.Lang, cfg.HTTPTimeout)

	store := session.New(apiClient, st, log)
	if err := store.Initialize(ctx); err != nil {
		_ = st.Close()
		return nil, err
	}
	if err := store.StartWatch(ctx); err != nil {
		log.Warn(ctx, "storage watch not started", "error", err)
	}

	return &App{
		config:  cfg,
		log:     log,
		api:     apiClient,
		store:   store,
		storage: st,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Repl(ctx)
}

func (a *App) Close() {
	a.store.WaitForRefresh()
	if err := a.storage.Close(); err != nil {
		a.log.Warn(context.Background(), "failed to close storage", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().LoggedIn()
}
