package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"mlsweb/internal/config"
	"mlsweb/internal/contact"
	"mlsweb/internal/db"
	"mlsweb/internal/db/mock"
	"mlsweb/internal/formspree"
	applog "mlsweb/internal/log"
	"mlsweb/internal/server"
)

const (
	defaultIdleTTL   = 30 * time.Minute
	minPruneInterval = time.Minute
)

type serverLifecycle interface {
	Start() error
	Stop() error
}

var (
	loadConfigFunc      = config.Load
	setLogLevelFunc     = applog.SetLevel
	newMockDatabaseFunc = mock.New
	configureDatabase   = db.Configure
	newServerFunc       = func(cfg server.Config) (serverLifecycle, error) {
		return server.New(cfg)
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		return ch, func() { signal.Stop(ch) }
	}
)

func main() {
	os.Exit(run(context.Background()))
}

func run(ctx context.Context) int {
	cfg, err := loadConfigFunc()
	if err != nil {
		applog.Error(ctx, "failed to load configuration", "error", err)
		return 1
	}
	if err := setLogLevelFunc(cfg.Logging.Level); err != nil {
		applog.Error(ctx, "invalid log level", "level", cfg.Logging.Level, "error", err)
		return 1
	}

	database, err := openDatabase(ctx, cfg.Database)
	if err != nil {
		applog.Error(ctx, "failed to configure database", "error", err)
		return 1
	}

	client, err := formspree.NewClient(formspree.Config{
		Endpoint: cfg.Contact.Endpoint,
		Timeout:  cfg.Contact.Timeout,
	})
	if err != nil {
		applog.Error(ctx, "failed to configure contact endpoint", "error", err)
		return 1
	}
	forms := contact.NewRegistry(client, cfg.Contact.ResetDelay)

	pruneCtx, stopPruning := context.WithCancel(ctx)
	defer stopPruning()
	ttl := cfg.Contact.IdleTTL
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	go forms.Run(pruneCtx, pruneInterval(ttl), ttl)

	srv, err := newServerFunc(server.Config{
		Addr:      cfg.Server.Addr,
		StaticDir: cfg.Server.StaticDir,
		Session: server.SessionConfig{
			Lifetime:     cfg.Session.Lifetime,
			CookieName:   cfg.Session.CookieName,
			CookieDomain: cfg.Session.CookieDomain,
			CookieSecure: cfg.Session.CookieSecure,
		},
		Database: database,
		Forms:    forms,
	})
	if err != nil {
		applog.Error(ctx, "failed to build server", "error", err)
		return 1
	}

	shutdown, unsubscribe := subscribeShutdownSig()
	defer unsubscribe()

	startErr := make(chan error, 1)
	go func() {
		applog.Info(ctx, "starting http server", "addr", cfg.Server.Addr, "contactEndpoint", client.Endpoint())
		startErr <- srv.Start()
	}()

	select {
	case err := <-startErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			applog.Error(ctx, "server encountered an error", "error", err)
			return 1
		}
		return 0
	case sig := <-shutdown:
		applog.Info(ctx, "shutting down http server", "signal", sig.String())
	case <-ctx.Done():
		applog.Info(ctx, "context cancelled, shutting down http server")
	}

	stopPruning()
	if err := srv.Stop(); err != nil {
		applog.Error(ctx, "graceful shutdown failed", "error", err)
		return 1
	}
	if err := <-startErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		applog.Error(ctx, "server exited with error", "error", err)
		return 1
	}
	return 0
}

// openDatabase selects the seeded sqlite database, the configured postgres
// database, or none at all.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig) (*gorm.DB, error) {
	switch {
	case cfg.UseMock:
		applog.Info(ctx, "using mock database")
		return newMockDatabaseFunc(ctx)
	case cfg.URL != "":
		return configureDatabase(cfg)
	default:
		applog.Info(ctx, "no database configured, preferences stay in the session")
		return nil, nil
	}
}

func pruneInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 4; interval > minPruneInterval {
		return interval
	}
	return minPruneInterval
}
