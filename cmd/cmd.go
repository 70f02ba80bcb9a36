package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"social-feed-backend/internal/config"
	"social-feed-backend/internal/handlers"
	"social-feed-backend/internal/metrics"
	"social-feed-backend/internal/repository"
	"social-feed-backend/internal/repository/memstore"
	"social-feed-backend/internal/services"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Serve runs the HTTP server until ctx is canceled, then shuts it down
// gracefully
func Serve(ctx context.Context, cfg *config.Config) error {
	stores, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Namespace)
	}

	// Initialize services
	wsHub := services.NewWSHub()
	aggregator := services.NewEngagementAggregator(stores, cfg.Cache.Size, cfg.Cache.TTL, m)
	svc := handlers.Services{
		Users:      services.NewUserService(stores, cfg, m),
		Graph:      services.NewGraphService(stores, m),
		Posts:      services.NewPostService(stores, cfg, m),
		Feed:       services.NewFeedService(stores, cfg.Feed),
		Engagement: services.NewEngagementService(stores, aggregator, wsHub, cfg.Content, m),
		Aggregator: aggregator,
		Hub:        wsHub,
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handlers.NewRouter(svc, m),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Str("storage", cfg.Storage.Driver).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown; they end
	// when the process exits.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// Migrate applies the database schema
func Migrate(ctx context.Context, cfg *config.Config) error {
	db, err := connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}
	log.Info().Str("dbname", cfg.Database.DBName).Msg("Database schema applied")
	return nil
}

func openStores(ctx context.Context, cfg *config.Config) (repository.Stores, func(), error) {
	if cfg.Storage.Driver == config.DriverMemory {
		log.Warn().Msg("Using in-memory storage, data is lost on exit")
		return memstore.New().Stores(), func() {}, nil
	}

	db, err := connect(ctx, cfg.Database)
	if err != nil {
		return repository.Stores{}, nil, err
	}
	return repository.NewPostgresStores(db), db.Close, nil
}

func connect(ctx context.Context, dbCfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dbCfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if dbCfg.MaxConns > 0 {
		poolCfg.MaxConns = dbCfg.MaxConns
	}

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test database connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")
	return db, nil
}

// SetupLogger configures zerolog logger
func SetupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
