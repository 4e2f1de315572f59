package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-bi-stack/internal/blob"
	"go-bi-stack/internal/model"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/download", cfg.Server.DownloadPrefix)
	assert.Equal(t, 100000, cfg.Generator.MaxRecords)
	assert.Equal(t, 0.5, cfg.Generator.FillRates.Memo)
	assert.Equal(t, blob.DriverFilesystem, cfg.Storage.Driver)
	assert.Equal(t, 100, cfg.Dashboard.MaxRowsDisplayed)
	assert.Equal(t, 10000, cfg.Dashboard.MaxExportRecords)
	assert.Equal(t, 10, cfg.Dashboard.TopStates)
	require.Len(t, cfg.Dashboard.Datasets, 4)
	assert.Equal(t, model.KindFinancialTransaction, cfg.Dashboard.Datasets[3].Kind)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
generator:
  max_records: 500
  fill_rates:
    memo: 1
storage:
  driver: s3
  s3:
    bucket: exports
    path_style: true
dashboard:
  datasets:
    - name: accounts
      kind: Account
      path: data/accounts.csv
`)
	t.Setenv("BISTACK_SERVER_ADDR", ":7070")
	t.Setenv("BISTACK_LOGGING_LEVEL", "debug")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr, "environment wins over the file")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 500, cfg.Generator.MaxRecords)
	assert.Equal(t, 1.0, cfg.Generator.FillRates.Memo)
	assert.Equal(t, 0.3, cfg.Generator.FillRates.URL)
	assert.Equal(t, blob.DriverS3, cfg.Storage.Driver)
	assert.Equal(t, "exports", cfg.Storage.S3.Bucket)
	assert.True(t, cfg.Storage.S3.PathStyle)
	require.Len(t, cfg.Dashboard.Datasets, 1)
	assert.Equal(t, model.KindAccount, cfg.Dashboard.Datasets[0].Kind)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"fill rate above one", "generator:\n  fill_rates:\n    url: 1.5\n"},
		{"zero max records", "generator:\n  max_records: 0\n"},
		{"unknown dataset kind", "dashboard:\n  datasets:\n    - name: leads\n      kind: Lead\n      path: leads.csv\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"broken yaml", "server: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(viper.New(), writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, LoggingConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	_, err = NewLogger(&buf, LoggingConfig{Format: "xml"})
	assert.Error(t, err)
}
