// Package server initializes and runs the anchoring gateway. It wires the
// configured backends (PostgreSQL + S3, or in-memory in dev mode) into the
// anchoring service and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/pressly/goose/v3"
	"github.com/rbagirov/medsync/internal/logging"
	"github.com/rbagirov/medsync/internal/server/anchor"
	"github.com/rbagirov/medsync/internal/server/config"
	"github.com/rbagirov/medsync/internal/server/contentstore"
	"github.com/rbagirov/medsync/internal/server/httpapi"
	"github.com/rbagirov/medsync/internal/server/ledger"
	"github.com/rbagirov/medsync/internal/server/migrations"
	"github.com/rbagirov/medsync/internal/server/records"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	http   *httpapi.Server
	db     *sql.DB
}

// NewApp wires the gateway from its configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON()

	var (
		cs contentstore.ContentStore
		l  ledger.Ledger
		rr records.Repository
		db *sql.DB
	)

	switch cfg.Mode {
	case config.ModeDev:
		logger.Info(ctx, "running with in-memory backends", "mode", cfg.Mode)
		cs = contentstore.NewMemoryStore()
		l = ledger.NewMemoryLedger()
		rr = records.NewMemoryRepository()

	default:
		var err error
		db, err = sql.Open("pgx", cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		if err := runMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}

		cs, err = contentstore.NewS3Store(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("content store init error: %w", err)
		}
		l = ledger.NewPostgresLedger(db)
		rr = records.NewPostgresRepository(db)
	}

	attestor := anchor.NewJWTAttestor([]byte(cfg.SecretKey), "medsync-gateway")
	svc := anchor.NewService(cs, l, rr, attestor, logger)
	httpServer := httpapi.NewServer(cfg.EndpointAddr, logger, svc)

	return &App{config: cfg, logger: logger, http: httpServer, db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Run serves until an OS signal or a server failure, then shuts down.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	app.logger.Info(ctx, "starting gateway...", "address", app.config.EndpointAddr, "mode", app.config.Mode)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.http.Run(ctx)
	})

	err := g.Wait()

	if app.db != nil {
		_ = app.db.Close()
	}
	return err
}
