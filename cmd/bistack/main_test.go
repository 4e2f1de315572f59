package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-bi-stack/internal/dashboard"
	"go-bi-stack/internal/generator"
	"go-bi-stack/internal/model"
	"go-bi-stack/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := versionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "bistack dev\n", out.String())
}

func TestChartTable(t *testing.T) {
	c := dashboard.ChartConfig{
		ChartType: dashboard.ChartCombo,
		XAxis:     "Type",
		Series: []dashboard.ChartSeries{
			{Name: "Count", Data: []dashboard.ChartPoint{{Label: "Customer", Value: 3}, {Label: "", Value: 1}}},
			{Name: "AnnualRevenue", Data: []dashboard.ChartPoint{{Label: "Customer", Value: 1250.5}}},
		},
	}
	got := chartTable(c, 0)
	assert.Contains(t, got, "Customer")
	assert.Contains(t, got, "1250.50")
	assert.Contains(t, got, "(none)")
	assert.Contains(t, got, "AnnualRevenue")

	limited := chartTable(c, 1)
	assert.Contains(t, limited, "1 more")
	assert.NotContains(t, limited, "(none)")

	scatter := chartTable(dashboard.ChartConfig{ChartType: dashboard.ChartScatter, XAxis: "x", YAxis: "y",
		Points: make([]dashboard.ScatterPoint, 4)}, 0)
	assert.Contains(t, scatter, "4 points")
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "42", formatNumber(42))
	assert.Equal(t, "3.14", formatNumber(3.14159))
}

func TestWriteFile(t *testing.T) {
	factory := generator.New(generator.Config{}, nil)
	batch, err := factory.Generate(context.Background(), model.GenerationRequest{
		Kind:       model.KindMarketingEvent,
		Start:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:        time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		MinRecords: 10,
		MaxRecords: 10,
		Seed:       3,
	}, generator.Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "sfmc.json")
	require.NoError(t, writeFile(path, batch.Records, pipeline.FormatJSON))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, records, err := pipeline.Decode(context.Background(), f, pipeline.FormatJSON, model.KindMarketingEvent)
	require.NoError(t, err)
	assert.Len(t, records, 10)
	assert.Contains(t, model.FormatValue(records[0].Value("EmailAddress")), "@")
}
