// Package server initializes and runs the elib backend: it opens the
// database, runs migrations, builds the asset relay and the services, and
// serves the REST API until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mzfirozuddin/elib-apis/internal/logging"
	"github.com/mzfirozuddin/elib-apis/internal/server/assets"
	"github.com/mzfirozuddin/elib-apis/internal/server/config"
	"github.com/mzfirozuddin/elib-apis/internal/server/httpapi"
	"github.com/mzfirozuddin/elib-apis/internal/server/repositories/repomanager"
	"github.com/mzfirozuddin/elib-apis/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	relay, err := assets.NewS3Relay(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("asset relay init error: %w", err)
	}

	userService := services.NewUserService(db, rm, relay, logger, cfg)
	bookService := services.NewBookService(db, rm, relay, logger, cfg)

	srv, err := httpapi.NewServer(cfg, logger, userService, bookService)
	if err != nil {
		return nil, fmt.Errorf("http server init error: %w", err)
	}

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app", "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)

	if closeErr := app.db.Close(); closeErr != nil {
		app.logger.Error(ctx, "db close error", "error", closeErr)
	}

	return err
}
