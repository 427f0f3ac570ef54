package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/facetdex/internal/config"
	"github.com/kailas-cloud/facetdex/internal/domain/index"
	logpkg "github.com/kailas-cloud/facetdex/internal/logger"
	"github.com/kailas-cloud/facetdex/internal/metrics"
	indexrepo "github.com/kailas-cloud/facetdex/internal/repository/index"
	searchrepo "github.com/kailas-cloud/facetdex/internal/repository/search"
	chiTransport "github.com/kailas-cloud/facetdex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/facetdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/facetdex/internal/usecase/search"
	"github.com/kailas-cloud/facetdex/internal/version"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP search API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logpkg.NewLogger(flags.env, logpkg.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
			})
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, flags.env, cfg, logger)
		},
	}
}

func serve(ctx context.Context, env string, cfg config.Config, logger *zap.Logger) error {
	logger.Info("Starting facetdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Search.DriverName()),
	)

	reg, err := buildRegistry(cfg.Indexes)
	if err != nil {
		return fmt.Errorf("build index registry: %w", err)
	}

	det, err := detectFaceting(cfg, reg)
	if err != nil {
		// Surfaced to the operator: the search section cannot be interpreted.
		logger.Fatal("Improperly configured search settings", zap.Error(err))
	}
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	metrics.SetFacetingEnabled(det.Allowed)
	logger.Info("Faceting detection",
		zap.Bool("allowed", det.Allowed),
		zap.Stringer("shape", det.Shape),
		zap.String("engine", det.Engine),
	)

	store, err := openStore(cfg.Search)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Search.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	if det.Allowed && !store.SupportsAggregate(ctx) {
		logger.Warn("Faceting is enabled but the store cannot aggregate; facet requests will fail",
			zap.String("driver", cfg.Search.DriverName()))
	}

	ks := index.NewKeyspace(cfg.Search.KeyPrefix)
	indexRepo := indexrepo.New(store, reg, ks)
	if cfg.Search.AutoCreateIndex {
		created, err := indexRepo.EnsureCreated(ctx)
		if err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
		logger.Info("Search index ready", zap.String("index", indexRepo.Name()), zap.Bool("created", created))
	}

	searchRepo := searchrepo.New(store, reg, searchrepo.Config{
		Keyspace:     ks,
		DefaultLimit: cfg.Search.DefaultPageSize,
		FacetLimit:   cfg.Search.FacetLimit,
	})
	searchSvc := searchuc.New(searchRepo, searchuc.Config{
		Form: searchuc.FormConfig{
			Models:         reg.Models(),
			Faceting:       det,
			MaxQueryLength: cfg.Search.MaxQueryLength,
		},
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
	})
	healthSvc := healthuc.New(store,
		healthuc.WithIndex(indexRepo),
		healthuc.WithFaceting(det.Allowed, store),
	)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(chiTransport.RouterOptions{APIKeys: cfg.Auth.APIKeys}),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
