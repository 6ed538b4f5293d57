package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/budgetup/budgetup/internal/client/client"
	"github.com/budgetup/budgetup/internal/client/config"
	"github.com/budgetup/budgetup/internal/client/onboarding"
	"github.com/budgetup/budgetup/internal/client/route"
	"github.com/budgetup/budgetup/internal/client/services"
	"github.com/budgetup/budgetup/internal/client/session"
	"github.com/budgetup/budgetup/internal/client/storage"
	"github.com/budgetup/budgetup/internal/logging"
)

// Mode is the API reachability last observed by the watcher.
type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// memoryDSN keeps the session in process memory only.
const memoryDSN = ":memory:"

type App struct {
	config  *config.Config
	logger  logging.Logger
	client  client.Client
	auth    services.AuthService
	store   *session.Store
	gate    *onboarding.Gate
	arbiter *route.Arbiter
	db      *sql.DB

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the session database, connects the API client and restores
// any persisted session.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	apiClient, err := client.NewHTTPClient(c.APIURL, c.HTTPTimeout)
	if err != nil {
		return nil, err
	}

	var (
		db      *sql.DB
		backing session.Storage
	)
	if c.DBPath == memoryDSN {
		backing = session.NewMemoryStorage(session.Record{})
	} else {
		db, err = storage.Open(ctx, c.DBPath)
		if err != nil {
			logger.Error(ctx, "error initializing database", "error", err)
			return nil, err
		}
		backing = session.NewSQLiteStorage(db)
	}

	app := newApp(c, apiClient, backing, logger, os.Stdin, os.Stdout)
	app.db = db
	if err := app.store.Restore(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

// newApp wires the client core around an API client and session storage.
// The session is not restored yet.
func newApp(c *config.Config, apiClient client.Client, backing session.Storage, logger logging.Logger, in io.Reader, out io.Writer) *App {
	store := session.NewStore(backing, logger)
	gate := onboarding.NewGate(apiClient, logger)

	return &App{
		config:  c,
		logger:  logger,
		client:  apiClient,
		auth:    services.NewAuthService(apiClient, store, logger),
		store:   store,
		gate:    gate,
		arbiter: route.NewArbiter(store, gate, logger),
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Close stops background work and releases the database.
func (a *App) Close() {
	a.arbiter.Close()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()

	if changed {
		a.logger.Info(ctx, "api reachability changed", "mode", string(mode))
	}
}

// StartOnlineStatusWatcher pings the API every interval until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.auth.Ping(pctx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}

// view returns the settled view, waiting for a pending onboarding check at
// most one HTTP timeout.
func (a *App) view(ctx context.Context) route.View {
	wait := a.config.HTTPTimeout
	if wait <= 0 {
		wait = 10 * time.Second
	}
	wctx, cancel := context.WithTimeout(ctx, wait+time.Second)
	defer cancel()

	v, err := a.arbiter.Wait(wctx)
	if err != nil {
		return a.arbiter.View()
	}
	return v
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}
