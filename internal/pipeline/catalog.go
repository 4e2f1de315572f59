package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go-bi-stack/internal/model"

	"golang.org/x/sync/errgroup"
)

// Catalog loads a fixed set of datasets once and serves them read-only for
// the life of the process. A failed load is remembered and returned on every
// call.
type Catalog struct {
	sources []Source
	logger  *slog.Logger

	once     sync.Once
	datasets map[string]*Dataset
	order    []string
	err      error
}

// NewCatalog returns a catalog over sources. Nothing is read until the
// first call to Load or Get.
func NewCatalog(sources []Source, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{sources: sources, logger: logger}
}

// Sources returns the configured sources.
func (c *Catalog) Sources() []Source { return c.sources }

// Load reads every source concurrently. Only the first call does any work.
// Cancelling the first caller's ctx does not abort the load.
func (c *Catalog) Load(ctx context.Context) error {
	c.once.Do(func() {
		c.datasets, c.order, c.err = c.load(context.WithoutCancel(ctx))
	})
	return c.err
}

func (c *Catalog) load(ctx context.Context) (map[string]*Dataset, []string, error) {
	start := time.Now()
	loaded := make([]*Dataset, len(c.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range c.sources {
		g.Go(func() error {
			ds, err := Load(gctx, src)
			if err != nil {
				return err
			}
			loaded[i] = ds
			c.logger.Debug("dataset loaded", "name", ds.Name, "kind", ds.Kind, "rows", ds.Len())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.logger.Error("catalog load failed", "error", err)
		return nil, nil, err
	}

	out := make(map[string]*Dataset, len(loaded))
	order := make([]string, 0, len(loaded))
	for _, ds := range loaded {
		if _, dup := out[ds.Name]; dup {
			return nil, nil, fmt.Errorf("%w: dataset %q configured twice", model.ErrDataLoad, ds.Name)
		}
		out[ds.Name] = ds
		order = append(order, ds.Name)
	}
	c.logger.Info("catalog loaded", "datasets", len(out), "duration", time.Since(start))
	return out, order, nil
}

// Get returns the named dataset, loading the catalog if needed.
func (c *Catalog) Get(ctx context.Context, name string) (*Dataset, error) {
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	ds, ok := c.datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: dataset %q", model.ErrNotFound, name)
	}
	return ds, nil
}

// Names lists the loaded dataset names in source order.
func (c *Catalog) Names(ctx context.Context) ([]string, error) {
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return append([]string(nil), c.order...), nil
}
