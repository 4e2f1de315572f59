// Package dashboard turns the loaded datasets into a render-ready model of
// the BI dashboard: KPI cards, chart definitions and explorer tables.
package dashboard

import (
	"time"

	"go-bi-stack/internal/pipeline"
)

// Dataset names the dashboard reads from the catalog.
const (
	DatasetAccounts      = "accounts"
	DatasetOpportunities = "opportunities"
	DatasetMarketing     = "marketing"
	DatasetTransactions  = "transactions"
)

// Chart types.
const (
	ChartBar     = "bar"
	ChartPie     = "pie"
	ChartLine    = "line"
	ChartScatter = "scatter"
	ChartCombo   = "combo"
)

// Dashboard is the complete render model for one filter selection.
type Dashboard struct {
	Title       string        `json:"title"`
	Filters     Filters       `json:"filters"`
	Options     FilterOptions `json:"options"`
	KPIs        []KPI         `json:"kpis"`
	Sections    []Section     `json:"sections"`
	Tables      []Table       `json:"tables"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// Filters is the user's selection. Zero dates fall back to the data bounds
// and empty categories to All.
type Filters struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Industry    string    `json:"industry"`
	AccountType string    `json:"account_type"`
}

// FilterOptions lists the values the filter controls offer.
type FilterOptions struct {
	Industries   []string  `json:"industries"`
	AccountTypes []string  `json:"account_types"`
	MinDate      time.Time `json:"min_date"`
	MaxDate      time.Time `json:"max_date"`
}

// KPI is one headline number.
type KPI struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Section groups charts under a heading.
type Section struct {
	Title  string        `json:"title"`
	Charts []ChartConfig `json:"charts"`
}

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ID         string         `json:"id"`
	ChartType  string         `json:"chartType"`
	Title      string         `json:"title"`
	XAxis      string         `json:"xAxis,omitempty"`
	YAxis      string         `json:"yAxis,omitempty"`
	Y2Axis     string         `json:"y2Axis,omitempty"`
	Palette    string         `json:"palette,omitempty"`
	Series     []ChartSeries  `json:"series"`
	Points     []ScatterPoint `json:"points,omitempty"`
	ShowLegend bool           `json:"showLegend"`
	Height     int            `json:"height"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name string       `json:"name"`
	Data []ChartPoint `json:"data"`
	// Axis is "y2" for series drawn against the secondary axis.
	Axis string `json:"axis,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ScatterPoint is one marker of a scatter chart.
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Group string  `json:"group"`
	Label string  `json:"label"`
}

// Table is one data explorer tab.
type Table struct {
	Dataset string `json:"dataset"`
	Title   string `json:"title"`
	*pipeline.Table
}
