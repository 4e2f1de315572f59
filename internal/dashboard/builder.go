package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go-bi-stack/internal/model"
	"go-bi-stack/internal/pipeline"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Datasets resolves dataset names. *pipeline.Catalog satisfies it.
type Datasets interface {
	Get(ctx context.Context, name string) (*pipeline.Dataset, error)
}

// Config holds display limits.
type Config struct {
	Title            string
	MaxRowsDisplayed int
	TopStates        int
}

func (c Config) withDefaults() Config {
	if c.Title == "" {
		c.Title = "Business Intelligence Dashboard"
	}
	if c.MaxRowsDisplayed <= 0 {
		c.MaxRowsDisplayed = 100
	}
	if c.TopStates <= 0 {
		c.TopStates = 10
	}
	return c
}

const chartHeight = 400

// explorer columns per dataset
var (
	accountColumns     = []string{"Name", "Type", "Industry", "AnnualRevenue", "NumberOfEmployees", "BillingState", "CreatedDate"}
	opportunityColumns = []string{"Name", "StageName", "Amount", "Probability", "CloseDate", "Type", "LeadSource"}
	marketingColumns   = []string{"EmailAddress", "EventType", "EventDate", "Subject", "FromName", "SendID"}
	transactionColumns = []string{"TransactionNumber", "Type", "Status", "Amount", "TranDate", "Entity", "Subsidiary"}
)

var printer = message.NewPrinter(language.English)

// Builder renders dashboards from a dataset source.
type Builder struct {
	data   Datasets
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// NewBuilder returns a builder over data.
func NewBuilder(data Datasets, cfg Config, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{data: data, cfg: cfg.withDefaults(), logger: logger, now: time.Now}
}

// sources is the dashboard's four datasets, resolved once per build.
type sources struct {
	accounts, opportunities, marketing, transactions *pipeline.Dataset
}

func (b *Builder) load(ctx context.Context) (*sources, error) {
	var s sources
	for _, item := range []struct {
		name string
		dst  **pipeline.Dataset
	}{
		{DatasetAccounts, &s.accounts},
		{DatasetOpportunities, &s.opportunities},
		{DatasetMarketing, &s.marketing},
		{DatasetTransactions, &s.transactions},
	} {
		ds, err := b.data.Get(ctx, item.name)
		if err != nil {
			return nil, err
		}
		*item.dst = ds
	}
	return &s, nil
}

// Options computes the filter choices: All plus the sorted distinct
// industries and account types, and the CreatedDate range across accounts
// and opportunities.
func (b *Builder) Options(ctx context.Context) (FilterOptions, error) {
	src, err := b.load(ctx)
	if err != nil {
		return FilterOptions{}, err
	}
	return options(src)
}

func options(src *sources) (FilterOptions, error) {
	var opts FilterOptions
	industries, err := pipeline.Distinct(src.accounts.All(), "Industry")
	if err != nil {
		return opts, err
	}
	types, err := pipeline.Distinct(src.accounts.All(), "Type")
	if err != nil {
		return opts, err
	}
	opts.Industries = append([]string{pipeline.All}, industries...)
	opts.AccountTypes = append([]string{pipeline.All}, types...)

	for _, ds := range []*pipeline.Dataset{src.accounts, src.opportunities} {
		from, to, ok, err := pipeline.DateBounds(ds.All(), "CreatedDate")
		if err != nil {
			return opts, err
		}
		if !ok {
			continue
		}
		if opts.MinDate.IsZero() || from.Before(opts.MinDate) {
			opts.MinDate = from
		}
		if to.After(opts.MaxDate) {
			opts.MaxDate = to
		}
	}
	return opts, nil
}

// resolve fills unset filters from the options.
func (f Filters) resolve(opts FilterOptions) (Filters, error) {
	if f.From.IsZero() {
		f.From = opts.MinDate
	}
	if f.To.IsZero() {
		f.To = opts.MaxDate
	}
	if f.Industry == "" {
		f.Industry = pipeline.All
	}
	if f.AccountType == "" {
		f.AccountType = pipeline.All
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return f, fmt.Errorf("%w: from %s is after to %s", model.ErrInvalidRange,
			f.From.Format(model.DateLayout), f.To.Format(model.DateLayout))
	}
	return f, nil
}

// Views holds the filtered views one dashboard is computed from. The date
// range applies to accounts and opportunities; industry and account type to
// accounts only. Marketing and finance data are never filtered.
type Views struct {
	Filters       Filters
	Accounts      *pipeline.View
	Opportunities *pipeline.View
	Marketing     *pipeline.View
	Transactions  *pipeline.View
}

// Filter resolves f against the data and derives the filtered views.
func (b *Builder) Filter(ctx context.Context, f Filters) (*Views, FilterOptions, error) {
	src, err := b.load(ctx)
	if err != nil {
		return nil, FilterOptions{}, err
	}
	opts, err := options(src)
	if err != nil {
		return nil, opts, err
	}
	f, err = f.resolve(opts)
	if err != nil {
		return nil, opts, err
	}

	accounts, err := pipeline.ApplyFilters(src.accounts.All(),
		pipeline.DateBetween("CreatedDate", f.From, f.To),
		pipeline.Equals("Industry", f.Industry),
		pipeline.Equals("Type", f.AccountType),
	)
	if err != nil {
		return nil, opts, err
	}
	opportunities, err := pipeline.ApplyFilters(src.opportunities.All(),
		pipeline.DateBetween("CreatedDate", f.From, f.To),
	)
	if err != nil {
		return nil, opts, err
	}
	return &Views{
		Filters:       f,
		Accounts:      accounts,
		Opportunities: opportunities,
		Marketing:     src.marketing.All(),
		Transactions:  src.transactions.All(),
	}, opts, nil
}

// View returns the filtered view of the named dataset.
func (v *Views) View(name string) (*pipeline.View, error) {
	switch name {
	case DatasetAccounts:
		return v.Accounts, nil
	case DatasetOpportunities:
		return v.Opportunities, nil
	case DatasetMarketing:
		return v.Marketing, nil
	case DatasetTransactions:
		return v.Transactions, nil
	}
	return nil, fmt.Errorf("%w: dataset %q", model.ErrNotFound, name)
}

// Build computes the full dashboard for f.
func (b *Builder) Build(ctx context.Context, f Filters) (*Dashboard, error) {
	start := time.Now()
	views, opts, err := b.Filter(ctx, f)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Title:       b.cfg.Title,
		Filters:     views.Filters,
		Options:     opts,
		GeneratedAt: b.now().UTC(),
	}
	if d.KPIs, err = kpis(views); err != nil {
		return nil, err
	}

	sections := []struct {
		title string
		build func(*Views) ([]ChartConfig, error)
	}{
		{"Business Analytics", b.businessCharts},
		{"Advanced Analytics", advancedCharts},
		{"Marketing Analytics (SFMC)", marketingCharts},
		{"Financial Analytics (NetSuite)", financialCharts},
	}
	for _, s := range sections {
		charts, err := s.build(views)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.title, err)
		}
		d.Sections = append(d.Sections, Section{Title: s.title, Charts: charts})
	}

	if d.Tables, err = b.tables(views); err != nil {
		return nil, err
	}

	b.logger.Debug("dashboard built",
		"accounts", views.Accounts.Len(),
		"opportunities", views.Opportunities.Len(),
		"duration", time.Since(start))
	return d, nil
}

// ------------------- KPIs -------------------

func kpis(v *Views) ([]KPI, error) {
	accounts, err := pipeline.Totals(v.Accounts, pipeline.Count(), pipeline.Sum("AnnualRevenue"))
	if err != nil {
		return nil, err
	}
	opps, err := pipeline.Totals(v.Opportunities, pipeline.Count(), pipeline.Sum("Amount"))
	if err != nil {
		return nil, err
	}
	return []KPI{
		countKPI("Total Accounts", accounts.Value(0)),
		currencyKPI("Total Annual Revenue", accounts.Value(1)),
		countKPI("Active Opportunities", opps.Value(0)),
		currencyKPI("Pipeline Value", opps.Value(1)),
	}, nil
}

func countKPI(label string, v float64) KPI {
	return KPI{Label: label, Value: v, Display: printer.Sprintf("%d", int64(v))}
}

func currencyKPI(label string, v float64) KPI {
	whole := decimal.NewFromFloat(v).Round(0).IntPart()
	return KPI{Label: label, Value: v, Display: printer.Sprintf("$%d", whole)}
}

// round2 rounds half away from zero to cents.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ------------------- Charts -------------------

func points(s *pipeline.Summary, reduce int) []ChartPoint {
	out := make([]ChartPoint, 0, s.Len())
	for _, g := range s.Groups {
		val := float64(g.Count)
		if reduce >= 0 {
			val = g.Value(reduce)
		}
		out = append(out, ChartPoint{Label: g.Key, Value: round2(val)})
	}
	return out
}

func (b *Builder) businessCharts(v *Views) ([]ChartConfig, error) {
	byIndustry, err := pipeline.Aggregate(v.Accounts, "Industry", pipeline.Sum("AnnualRevenue"))
	if err != nil {
		return nil, err
	}
	byStage, err := pipeline.Aggregate(v.Opportunities, "StageName", pipeline.Count())
	if err != nil {
		return nil, err
	}
	monthly, err := pipeline.AggregateByMonth(v.Accounts, "CreatedDate", pipeline.MonthlyOptions{FillGaps: true}, pipeline.Count())
	if err != nil {
		return nil, err
	}
	states, err := pipeline.TopN(v.Accounts, "BillingState", b.cfg.TopStates)
	if err != nil {
		return nil, err
	}

	return []ChartConfig{
		{
			ID: "revenue_by_industry", ChartType: ChartBar, Title: "Annual Revenue by Industry",
			XAxis: "Annual Revenue ($)", YAxis: "Industry", Palette: "Blues", Height: chartHeight,
			Series: []ChartSeries{{Name: "Annual Revenue", Data: points(byIndustry.SortBy(0, true), 0)}},
		},
		{
			ID: "opportunities_by_stage", ChartType: ChartPie, Title: "Opportunities Distribution by Stage",
			Palette: "Set3", ShowLegend: true, Height: chartHeight,
			Series: []ChartSeries{{Name: "Opportunities", Data: points(byStage.SortByCount(true), -1)}},
		},
		{
			ID: "account_creation_trends", ChartType: ChartLine, Title: "Monthly Account Creation Trend",
			XAxis: "Month", YAxis: "Number of Accounts", Height: chartHeight,
			Series: []ChartSeries{{Name: "Accounts", Data: points(monthly, -1)}},
		},
		{
			ID: "geographic_distribution", ChartType: ChartBar, Title: fmt.Sprintf("Top %d States by Account Count", b.cfg.TopStates),
			XAxis: "State", YAxis: "Number of Accounts", Palette: "Viridis", Height: chartHeight,
			Series: []ChartSeries{{Name: "Accounts", Data: points(states, -1)}},
		},
	}, nil
}

func advancedCharts(v *Views) ([]ChartConfig, error) {
	scatter := ChartConfig{
		ID: "employee_vs_revenue", ChartType: ChartScatter, Title: "Employee Count vs Annual Revenue",
		XAxis: "Number of Employees", YAxis: "Annual Revenue ($)", ShowLegend: true, Height: chartHeight,
		Series: []ChartSeries{}, Points: make([]ScatterPoint, 0, v.Accounts.Len()),
	}
	v.Accounts.Each(func(_ int, rec *model.Record) {
		x, okX := model.AsFloat(rec.Value("NumberOfEmployees"))
		y, okY := model.AsFloat(rec.Value("AnnualRevenue"))
		if !okX || !okY {
			return
		}
		scatter.Points = append(scatter.Points, ScatterPoint{
			X: x, Y: y, Size: y,
			Group: model.FormatValue(rec.Value("Industry")),
			Label: fmt.Sprintf("%s (%s)", model.FormatValue(rec.Value("Name")), model.FormatValue(rec.Value("Type"))),
		})
	})

	byType, err := pipeline.Aggregate(v.Accounts, "Type", pipeline.CountOf("AnnualRevenue"), pipeline.Sum("AnnualRevenue"))
	if err != nil {
		return nil, err
	}
	byType = byType.SortByKey()
	combo := ChartConfig{
		ID: "account_type_distribution", ChartType: ChartCombo, Title: "Account Count vs Revenue by Type",
		XAxis: "Account Type", YAxis: "Number of Accounts", Y2Axis: "Total Revenue ($)", ShowLegend: true, Height: chartHeight,
		Series: []ChartSeries{
			{Name: "Account Count", Data: points(byType, 0)},
			{Name: "Total Revenue", Data: points(byType, 1), Axis: "y2"},
		},
	}
	return []ChartConfig{scatter, combo}, nil
}

func marketingCharts(v *Views) ([]ChartConfig, error) {
	events, err := pipeline.Aggregate(v.Marketing, "EventType", pipeline.Count())
	if err != nil {
		return nil, err
	}
	timeline, err := pipeline.MonthlyBreakdown(v.Marketing, "EventDate", "EventType", pipeline.MonthlyOptions{FillGaps: true})
	if err != nil {
		return nil, err
	}

	line := ChartConfig{
		ID: "email_timeline", ChartType: ChartLine, Title: "Email Events Over Time",
		XAxis: "Month", YAxis: "Number of Events", ShowLegend: true, Height: chartHeight,
		Series: make([]ChartSeries, 0, len(timeline.Series)),
	}
	for _, s := range timeline.Series {
		data := make([]ChartPoint, len(timeline.Months))
		for i, m := range timeline.Months {
			data[i] = ChartPoint{Label: m, Value: float64(s.Counts[i])}
		}
		line.Series = append(line.Series, ChartSeries{Name: s.Key, Data: data})
	}

	return []ChartConfig{
		{
			ID: "email_events", ChartType: ChartBar, Title: "Email Event Distribution",
			XAxis: "Event Type", YAxis: "Count", Palette: "Oranges", Height: chartHeight,
			Series: []ChartSeries{{Name: "Events", Data: points(events.SortByCount(true), -1)}},
		},
		line,
	}, nil
}

func financialCharts(v *Views) ([]ChartConfig, error) {
	byType, err := pipeline.Aggregate(v.Transactions, "Type",
		pipeline.CountOf("Amount"), pipeline.Sum("Amount"), pipeline.Mean("Amount"))
	if err != nil {
		return nil, err
	}
	byType = byType.SortByKey()
	status, err := pipeline.Aggregate(v.Transactions, "Status", pipeline.Count())
	if err != nil {
		return nil, err
	}

	return []ChartConfig{
		{
			ID: "transaction_types", ChartType: ChartBar, Title: "Total Amount by Transaction Type",
			XAxis: "Transaction Type", YAxis: "Total Amount ($)", Palette: "Greens", Height: chartHeight,
			Series: []ChartSeries{
				{Name: "Total Amount", Data: points(byType, 1)},
				{Name: "Count", Data: points(byType, 0)},
				{Name: "Average Amount", Data: points(byType, 2)},
			},
		},
		{
			ID: "transaction_status", ChartType: ChartPie, Title: "Transaction Status Distribution",
			Palette: "Pastel", ShowLegend: true, Height: chartHeight,
			Series: []ChartSeries{{Name: "Transactions", Data: points(status.SortByCount(true), -1)}},
		},
	}, nil
}

// ------------------- Tables -------------------

func (b *Builder) tables(v *Views) ([]Table, error) {
	specs := []struct {
		dataset, title string
		view           *pipeline.View
		columns        []string
	}{
		{DatasetAccounts, "Salesforce Accounts", v.Accounts, accountColumns},
		{DatasetOpportunities, "Sales Opportunities", v.Opportunities, opportunityColumns},
		{DatasetMarketing, "Marketing Events (SFMC)", v.Marketing, marketingColumns},
		{DatasetTransactions, "Financial Transactions (NetSuite)", v.Transactions, transactionColumns},
	}
	out := make([]Table, 0, len(specs))
	for _, s := range specs {
		t, err := pipeline.Project(s.view, s.columns, b.cfg.MaxRowsDisplayed)
		if err != nil {
			return nil, fmt.Errorf("%s table: %w", s.dataset, err)
		}
		out = append(out, Table{Dataset: s.dataset, Title: s.title, Table: t})
	}
	return out, nil
}
