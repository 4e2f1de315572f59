package main

import (
	"fmt"
	"io"
	"time"

	"go-bi-stack/internal/dashboard"
	"go-bi-stack/internal/model"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")).MarginTop(1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func summarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Print the dashboard KPIs and aggregates for the configured datasets",
		Long: `Load the datasets under dashboard.datasets, apply the filters and print
the KPI cards and every chart's aggregates as tables.

Examples:
  bistack summarize
  bistack summarize --from 2025-06-01 --to 2025-12-31 --industry Technology`,
		RunE: runSummarize,
	}
	cmd.Flags().String("from", "", "start date (YYYY-MM-DD, default earliest CreatedDate)")
	cmd.Flags().String("to", "", "end date (YYYY-MM-DD, default latest CreatedDate)")
	cmd.Flags().String("industry", "All", "account industry")
	cmd.Flags().String("type", "All", "account type")
	cmd.Flags().Int("limit", 15, "maximum rows printed per chart")
	return cmd
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	fromStr, _ := cmd.Flags().GetString("from")
	toStr, _ := cmd.Flags().GetString("to")
	industry, _ := cmd.Flags().GetString("industry")
	accountType, _ := cmd.Flags().GetString("type")
	limit, _ := cmd.Flags().GetInt("limit")

	f := dashboard.Filters{Industry: industry, AccountType: accountType}
	for _, d := range []struct {
		name string
		val  string
		dst  *time.Time
	}{{"from", fromStr, &f.From}, {"to", toStr, &f.To}} {
		if d.val == "" {
			continue
		}
		t, err := time.Parse(model.DateLayout, d.val)
		if err != nil {
			return fmt.Errorf("invalid --%s date (use YYYY-MM-DD): %w", d.name, err)
		}
		*d.dst = t
	}

	comp, err := buildComponents(ctx, cfg)
	if err != nil {
		return err
	}
	d, err := comp.dashboard.Build(ctx, f)
	if err != nil {
		return err
	}
	printDashboard(cmd.OutOrStdout(), d, limit)
	return nil
}

func printDashboard(w io.Writer, d *dashboard.Dashboard, limit int) {
	fmt.Fprintln(w, titleStyle.Render(d.Title))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s to %s · industry %s · type %s",
		d.Filters.From.Format(model.DateLayout), d.Filters.To.Format(model.DateLayout),
		d.Filters.Industry, d.Filters.AccountType)))

	kpis := newTable("KPI", "Value")
	for _, k := range d.KPIs {
		kpis.Row(k.Label, k.Display)
	}
	fmt.Fprintln(w, kpis.Render())

	for _, s := range d.Sections {
		fmt.Fprintln(w, sectionStyle.Render(s.Title))
		for _, c := range s.Charts {
			fmt.Fprintln(w, c.Title)
			fmt.Fprintln(w, chartTable(c, limit))
		}
	}
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// chartTable lays a chart's series out side by side, one row per label.
func chartTable(c dashboard.ChartConfig, limit int) string {
	if c.ChartType == dashboard.ChartScatter {
		return mutedStyle.Render(fmt.Sprintf("  %d points (%s vs %s)", len(c.Points), c.XAxis, c.YAxis))
	}

	var labels []string
	seen := map[string]bool{}
	cells := map[string]map[string]float64{}
	headers := []string{c.XAxis}
	if headers[0] == "" {
		headers[0] = "Label"
	}
	for _, s := range c.Series {
		headers = append(headers, s.Name)
		cells[s.Name] = map[string]float64{}
		for _, p := range s.Data {
			if !seen[p.Label] {
				seen[p.Label] = true
				labels = append(labels, p.Label)
			}
			cells[s.Name][p.Label] = p.Value
		}
	}

	t := newTable(headers...)
	for i, label := range labels {
		if limit > 0 && i == limit {
			t.Row(mutedStyle.Render(fmt.Sprintf("… %d more", len(labels)-limit)))
			break
		}
		display := label
		if display == "" {
			display = "(none)"
		}
		row := []string{display}
		for _, s := range c.Series {
			v, ok := cells[s.Name][label]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatNumber(v))
		}
		t.Row(row...)
	}
	return t.Render()
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
