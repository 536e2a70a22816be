package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/accounts/internal/accounts/http"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/memory"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/mongo"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/postgres"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/redis"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the accounts service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Stores
	db       store.Store
	profiles store.Profiles
	sessions store.Sessions

	// Services
	sessionManager *service.SessionManager
	authService    *service.AuthService
	profileService *service.ProfileService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "accounts-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	ctx, cancel := context.WithTimeout(context.Background(), app.connectTimeout())
	defer cancel()

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initProfiles(ctx); err != nil {
		_ = app.closeStores(ctx)
		return nil, err
	}
	app.initSessions(ctx)

	app.initServices()
	app.initHTTP()

	return app, nil
}

// connectTimeout bounds the startup connection attempts of all stores.
func (app *Application) connectTimeout() time.Duration {
	return 3*app.cfg.StoreTimeout + 10*time.Second
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("accounts service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down accounts service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.closeStores(ctx); err != nil {
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

// closeStores closes whichever stores were opened. The credential store
// error, if any, is returned; the others are only logged.
func (app *Application) closeStores(ctx context.Context) error {
	if app.sessions != nil {
		if err := app.sessions.Close(); err != nil {
			app.logger.Error("error closing session store", "error", err)
		}
	}
	if app.profiles != nil {
		if err := app.profiles.Close(ctx); err != nil {
			app.logger.Error("error closing profile store", "error", err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			return err
		}
	}
	return nil
}

// initDatabase opens the credential store and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	var (
		db  store.Store
		err error
	)

	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(ctx, app.cfg.DatabaseDSN)
	default:
		db, err = sqlite.NewStore(sqliteDSN(app.cfg.DatabaseDSN))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		app.db = nil
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.DatabaseDriver)
	return nil
}

// sqliteDSN turns a bare file path into a DSN with a busy timeout and WAL
// journaling. DSNs that are already URIs or in-memory are left alone.
func sqliteDSN(dsn string) string {
	if strings.HasPrefix(dsn, "file:") || strings.Contains(dsn, ":memory:") {
		return dsn
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dsn)
}

// initProfiles builds the profile store. Only a malformed URI is fatal.
func (app *Application) initProfiles(ctx context.Context) error {
	if app.cfg.ProfileDriver == "memory" {
		app.profiles = memory.NewProfiles()
		app.logger.Warn("profile store is in-memory; profiles are lost on restart")
		return nil
	}

	profiles, err := mongo.NewStore(ctx, mongo.Config{
		URI:        app.cfg.MongoURI,
		Database:   app.cfg.MongoDatabase,
		Collection: app.cfg.MongoCollection,
		Timeout:    app.cfg.StoreTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize profile store: %w", err)
	}
	app.profiles = profiles

	if err := profiles.EnsureIndexes(ctx); err != nil {
		app.logger.Warn("profile store unreachable at startup, continuing degraded",
			"database", app.cfg.MongoDatabase, "error", err)
		return nil
	}

	app.logger.Info("profile store connected", "database", app.cfg.MongoDatabase, "collection", app.cfg.MongoCollection)
	return nil
}

// initSessions builds the session store. Redis is dialled lazily, so an
// unreachable server is only logged.
func (app *Application) initSessions(ctx context.Context) {
	if app.cfg.SessionDriver == "memory" {
		app.sessions = memory.NewSessions()
		app.logger.Warn("session store is in-memory; sessions are lost on restart")
		return
	}

	sessions := redis.NewStore(redis.Config{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
		Timeout:  app.cfg.StoreTimeout,
	})
	app.sessions = sessions

	if err := sessions.Ping(ctx); err != nil {
		app.logger.Warn("session store unreachable at startup, continuing degraded",
			"addr", app.cfg.RedisAddr, "error", err)
		return
	}

	app.logger.Info("session store connected", "addr", app.cfg.RedisAddr)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.sessionManager = &service.SessionManager{
		Store:  app.sessions,
		Prefix: app.cfg.SessionPrefix,
		TTL:    app.cfg.SessionTTL,
	}

	app.authService = &service.AuthService{
		Store:        app.db,
		Profiles:     app.profiles,
		Sessions:     app.sessionManager,
		PasswordCost: app.cfg.BcryptCost,
	}

	app.profileService = &service.ProfileService{
		Sessions: app.sessionManager,
		Store:    app.db,
		Profiles: app.profiles,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.profiles,
		app.sessions,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.ProfileService = app.profileService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// Handler exposes the fully wired router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }
