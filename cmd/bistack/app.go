package main

import (
	"context"
	"fmt"

	"go-bi-stack/internal/blob"
	"go-bi-stack/internal/config"
	"go-bi-stack/internal/dashboard"
	"go-bi-stack/internal/generator"
	"go-bi-stack/internal/metrics"
	"go-bi-stack/internal/pipeline"
	"go-bi-stack/pkg/utils"
)

// components are the long-lived services built from the config.
type components struct {
	factory   *generator.Factory
	exports   *pipeline.ExportManager
	catalog   *pipeline.Catalog
	dashboard *dashboard.Builder
	metrics   *metrics.Metrics
}

func buildComponents(ctx context.Context, c *config.Config) (*components, error) {
	store, err := blob.Open(ctx, c.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", c.Storage.Driver, err)
	}
	catalog := pipeline.NewCatalog(c.Dashboard.Datasets, logger)
	return &components{
		factory: generator.New(c.Generator, logger),
		exports: pipeline.NewExportManager(store, utils.NewOutputManager(c.Server.DownloadPrefix), logger),
		catalog: catalog,
		dashboard: dashboard.NewBuilder(catalog, dashboard.Config{
			Title:            c.Dashboard.Title,
			MaxRowsDisplayed: c.Dashboard.MaxRowsDisplayed,
			TopStates:        c.Dashboard.TopStates,
		}, logger),
		metrics: metrics.New(),
	}, nil
}
