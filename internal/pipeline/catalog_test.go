package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"go-bi-stack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T, dir, name string, kind model.EntityKind, format Format) string {
	t.Helper()
	path := filepath.Join(dir, name+"."+format.Ext())
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Write(f, batch(t, kind, 15).Records, format))
	require.NoError(t, f.Close())
	return path
}

func TestCatalog(t *testing.T) {
	dir := t.TempDir()
	sources := []Source{
		{Name: "accounts", Kind: model.KindAccount, Path: writeDataset(t, dir, "accounts", model.KindAccount, FormatCSV)},
		{Name: "opportunities", Kind: model.KindOpportunity, Path: writeDataset(t, dir, "opps", model.KindOpportunity, FormatJSON)},
		{Name: "transactions", Kind: model.KindFinancialTransaction, Path: writeDataset(t, dir, "tx", model.KindFinancialTransaction, FormatParquet)},
	}
	c := NewCatalog(sources, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ds, err := c.Get(ctx, "accounts")
			assert.NoError(t, err)
			assert.Equal(t, 15, ds.Len())
		}()
	}
	wg.Wait()

	names, err := c.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"accounts", "opportunities", "transactions"}, names)

	first, err := c.Get(ctx, "transactions")
	require.NoError(t, err)
	second, err := c.Get(ctx, "transactions")
	require.NoError(t, err)
	assert.Same(t, first, second, "datasets are loaded once")

	_, err = c.Get(ctx, "leads")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestCatalogLoadFailureIsSticky(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "accounts.csv")
	c := NewCatalog([]Source{{Name: "accounts", Kind: model.KindAccount, Path: missing}}, nil)

	_, err := c.Get(context.Background(), "accounts")
	assert.ErrorIs(t, err, model.ErrDataLoad)

	// the file showing up later does not heal the catalog
	writeDataset(t, dir, "accounts", model.KindAccount, FormatCSV)
	_, err = c.Get(context.Background(), "accounts")
	assert.ErrorIs(t, err, model.ErrDataLoad)
}

func TestCatalogDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	path := writeDataset(t, dir, "accounts", model.KindAccount, FormatCSV)
	c := NewCatalog([]Source{
		{Name: "accounts", Kind: model.KindAccount, Path: path},
		{Name: "accounts", Kind: model.KindAccount, Path: path},
	}, nil)
	assert.ErrorIs(t, c.Load(context.Background()), model.ErrDataLoad)
}

func TestCatalogIgnoresFirstCallerCancel(t *testing.T) {
	dir := t.TempDir()
	path := writeDataset(t, dir, "accounts", model.KindAccount, FormatCSV)
	c := NewCatalog([]Source{{Name: "accounts", Kind: model.KindAccount, Path: path}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, c.Load(ctx))

	ds, err := c.Get(context.Background(), "accounts")
	require.NoError(t, err)
	assert.Equal(t, 15, ds.Len())
}
