// Package mockapi runs an in-memory development backend that speaks the same
// REST contract as the BudgetUp API.
package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/budgetup/budgetup/internal/logging"
	"github.com/budgetup/budgetup/internal/mockapi/config"
	"github.com/budgetup/budgetup/internal/mockapi/google"
	"github.com/budgetup/budgetup/internal/mockapi/transport"
	"github.com/budgetup/budgetup/internal/mockapi/users"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	limiter *transport.RateLimiter
	server  *http.Server
}

func NewApp(cfg *config.Config, logger logging.Logger) *App {
	verifier := google.NewVerifier(cfg.GoogleClientID)
	if _, dev := verifier.(google.DevVerifier); dev {
		logger.Warn(context.Background(), "no google client id configured, accepting any google token")
	}

	svc := users.NewService(users.NewMemoryRepository(), verifier, cfg, logger)
	limiter := transport.NewRateLimiter(rate.Limit(5), 10)

	handler := transport.NewRouter(cfg, transport.Deps{
		Users:   svc,
		Logger:  logger,
		Limiter: limiter,
	})

	return &App{
		config:  cfg,
		logger:  logger,
		limiter: limiter,
		server: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "mock api listening", "addr", app.config.ListenAddr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			cancelFunc()
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	app.logger.Info(ctx, "mock api stopped")
	return nil
}

// Run serves until ctx is cancelled or the process gets a stop signal.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.limiter.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	return runErr
}
