// Package config loads process settings from defaults, an optional YAML
// file and BISTACK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-bi-stack/internal/blob"
	"go-bi-stack/internal/generator"
	"go-bi-stack/internal/model"
	"go-bi-stack/internal/pipeline"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BISTACK_SERVER_ADDR.
const EnvPrefix = "BISTACK"

// Config is the full process configuration.
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Logging   LoggingConfig    `mapstructure:"logging"`
	Generator generator.Config `mapstructure:"generator"`
	Storage   blob.Config      `mapstructure:"storage"`
	Database  DatabaseConfig   `mapstructure:"database"`
	Dashboard DashboardConfig  `mapstructure:"dashboard"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	DownloadPrefix  string        `mapstructure:"download_prefix"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig points at the job history. A postgres:// URL selects
// Postgres; anything else is a SQLite file path.
type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// DashboardConfig holds the dashboard's display limits and data sources.
type DashboardConfig struct {
	Title            string            `mapstructure:"title"`
	MaxRowsDisplayed int               `mapstructure:"max_rows_displayed"`
	MaxExportRecords int               `mapstructure:"max_export_records"`
	TopStates        int               `mapstructure:"top_states"`
	Datasets         []pipeline.Source `mapstructure:"datasets"`
}

// DefaultDatasets are the generated files the dashboard reads when none are
// configured.
var DefaultDatasets = []pipeline.Source{
	{Name: "accounts", Kind: model.KindAccount, Path: "rawdata/salesforce_data_20260201_121814.csv"},
	{Name: "opportunities", Kind: model.KindOpportunity, Path: "rawdata/salesforce_opportunities_data_20260201_121929.json"},
	{Name: "marketing", Kind: model.KindMarketingEvent, Path: "rawdata/sfmc_data_20260201_121958.json"},
	{Name: "transactions", Kind: model.KindFinancialTransaction, Path: "rawdata/netsuite_data_20260201_122021.parquet"},
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.download_prefix", "/download")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	fill := generator.DefaultFillRates()
	v.SetDefault("generator.max_records", generator.DefaultMaxRecords)
	v.SetDefault("generator.fill_rates.url", fill.URL)
	v.SetDefault("generator.fill_rates.link_name", fill.LinkName)
	v.SetDefault("generator.fill_rates.link_content", fill.LinkContent)
	v.SetDefault("generator.fill_rates.memo", fill.Memo)

	v.SetDefault("storage.driver", string(blob.DriverFilesystem))
	v.SetDefault("storage.root", "./temp")
	v.SetDefault("storage.s3.region", "us-east-1")

	v.SetDefault("database.dsn", "./bistack.db")

	v.SetDefault("dashboard.title", "Business Intelligence Dashboard")
	v.SetDefault("dashboard.max_rows_displayed", 100)
	v.SetDefault("dashboard.max_export_records", 10000)
	v.SetDefault("dashboard.top_states", 10)
}

// Load reads configuration into a Config. file may be empty, in which case
// config.yaml is looked up in the working directory and
// $HOME/.config/bistack; a missing file is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/bistack")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if len(cfg.Dashboard.Datasets) == 0 {
		cfg.Dashboard.Datasets = append([]pipeline.Source(nil), DefaultDatasets...)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Generator.MaxRecords <= 0 {
		return fmt.Errorf("generator.max_records must be positive, got %d", c.Generator.MaxRecords)
	}
	for _, rate := range []float64{c.Generator.FillRates.URL, c.Generator.FillRates.LinkName,
		c.Generator.FillRates.LinkContent, c.Generator.FillRates.Memo} {
		if rate < 0 || rate > 1 {
			return fmt.Errorf("generator.fill_rates must be within [0, 1], got %v", rate)
		}
	}
	for _, ds := range c.Dashboard.Datasets {
		if !ds.Kind.Valid() {
			return fmt.Errorf("dashboard dataset %q: %w: %q", ds.Name, model.ErrUnknownKind, ds.Kind)
		}
		if ds.Path == "" {
			return fmt.Errorf("dashboard dataset %q: path is required", ds.Name)
		}
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	return nil
}
