package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go-bi-stack/internal/api"
	"go-bi-stack/internal/api/handler"
	"go-bi-stack/internal/store"
	"go-bi-stack/pkg/router"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the generation and dashboard HTTP API",
		Long: `Start the HTTP server. Datasets configured under dashboard.datasets are
loaded in the background; dashboard requests answer 503 until they load.

Examples:
  bistack serve
  bistack serve --addr :9090 --db postgres://bistack@localhost/bistack`,
		RunE: runServe,
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().String("db", "./bistack.db", "job history DSN (SQLite path or postgres:// URL)")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("database.dsn", cmd.Flags().Lookup("db"))
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	// Init DB
	db, err := store.Open(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open job store: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("Failed to close job store", "error", closeErr)
		}
	}()

	comp, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}

	// Warm the catalog so the first dashboard request doesn't pay for it
	go func() {
		names, err := comp.catalog.Names(ctx)
		if err != nil {
			logger.Warn("datasets unavailable, dashboard disabled until restart", "error", err)
			return
		}
		for _, name := range names {
			if ds, err := comp.catalog.Get(ctx, name); err == nil {
				comp.metrics.SetDatasetRows(name, ds.Len())
			}
		}
	}()

	h := handler.New(handler.Deps{
		Factory:          comp.factory,
		Exports:          comp.exports,
		Jobs:             db,
		Dashboard:        comp.dashboard,
		Metrics:          comp.metrics,
		Logger:           logger,
		MaxExportRecords: cfg.Dashboard.MaxExportRecords,
	})

	// Create router
	r := router.New(router.WithObserver(comp.metrics.ObserveRequest))

	// Register API routes
	api.RegisterRoutes(r, h)

	// Start server
	srv := r.Server(cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
	errCh := make(chan error, 1)
	go func() {
		r.Banner(cfg.Server.Addr)
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("server listening",
		"addr", cfg.Server.Addr,
		"storage", comp.exports.Store().Driver(),
		"db", db.Driver())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
