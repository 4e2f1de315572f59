package pipeline

import (
	"testing"
	"time"

	"go-bi-stack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var accountFields = []string{"Id", "Name", "Type", "Industry", "AnnualRevenue", "BillingState", "CreatedDate"}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func account(id, typ, industry string, revenue any, state string, created time.Time) *model.Record {
	rec := model.NewRecord(len(accountFields))
	rec.Set("Id", id)
	rec.Set("Name", "Acme "+id)
	rec.Set("Type", typ)
	if industry == "" {
		rec.Set("Industry", nil)
	} else {
		rec.Set("Industry", industry)
	}
	rec.Set("AnnualRevenue", revenue)
	rec.Set("BillingState", state)
	if created.IsZero() {
		rec.Set("CreatedDate", nil)
	} else {
		rec.Set("CreatedDate", created)
	}
	return rec
}

func accounts() *Dataset {
	return NewDataset("accounts", model.KindAccount, accountFields, []*model.Record{
		account("a1", "Customer", "Technology", int64(1000), "CA", day(2023, time.January, 5, 9)),
		account("a2", "Prospect", "Healthcare", int64(2000), "NY", day(2023, time.January, 20, 23)),
		account("a3", "Customer", "Technology", int64(3000), "TX", day(2023, time.March, 1, 0)),
		account("a4", "Partner", "Finance", nil, "NY", day(2023, time.March, 31, 12)),
		account("a5", "Customer", "", int64(500), "CA", day(2023, time.April, 2, 8)),
		account("a6", "Prospect", "Healthcare", int64(1500), "TX", time.Time{}),
	})
}

// ------------------- Filters -------------------

func TestApplyFilters(t *testing.T) {
	ds := accounts()
	tests := []struct {
		name  string
		preds []Predicate
		want  []string
	}{
		{"no predicates", nil, []string{"a1", "a2", "a3", "a4", "a5", "a6"}},
		{"equals", []Predicate{Equals("Industry", "Technology")}, []string{"a1", "a3"}},
		{"all sentinel", []Predicate{Equals("Industry", All)}, []string{"a1", "a2", "a3", "a4", "a5", "a6"}},
		{"conjunction", []Predicate{Equals("Type", "Customer"), Equals("BillingState", "CA")}, []string{"a1", "a5"}},
		{"one of", []Predicate{OneOf("BillingState", "NY", "TX")}, []string{"a2", "a3", "a4", "a6"}},
		{"numeric equals", []Predicate{Equals("AnnualRevenue", int64(2000))}, []string{"a2"}},
		{
			"date range ignores time of day",
			[]Predicate{DateBetween("CreatedDate", day(2023, time.January, 20, 0), day(2023, time.March, 31, 0))},
			[]string{"a2", "a3", "a4"},
		},
		{
			"open upper bound",
			[]Predicate{DateBetween("CreatedDate", day(2023, time.March, 1, 0), time.Time{})},
			[]string{"a3", "a4", "a5"},
		},
		{"no match", []Predicate{Equals("Industry", "Retail")}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ApplyFilters(ds.All(), tt.preds...)
			require.NoError(t, err)
			got := make([]string, 0, v.Len())
			for _, rec := range v.Records() {
				got = append(got, rec.Value("Id").(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyFiltersChains(t *testing.T) {
	ds := accounts()
	first, err := ApplyFilters(ds.All(), Equals("Type", "Customer"))
	require.NoError(t, err)
	second, err := ApplyFilters(first, Equals("Industry", "Technology"))
	require.NoError(t, err)

	assert.Equal(t, 3, first.Len(), "derived views leave their parent untouched")
	assert.Equal(t, 2, second.Len())
	assert.Same(t, ds, second.Base())
}

func TestApplyFiltersMissingField(t *testing.T) {
	ds := accounts()
	for _, p := range []Predicate{
		Equals("Region", "West"),
		Equals("Region", All),
		DateBetween("ClosedAt", time.Time{}, time.Time{}),
	} {
		_, err := ApplyFilters(ds.All(), p)
		assert.ErrorIs(t, err, model.ErrSchemaMismatch, p.Field())
	}
}

// ------------------- Aggregation -------------------

func TestAggregate(t *testing.T) {
	ds := accounts()
	s, err := Aggregate(ds.All(), "Industry", Count(), Sum("AnnualRevenue"), Mean("AnnualRevenue"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Technology", "Healthcare", "Finance", ""}, s.Keys())

	tech, ok := s.Lookup("Technology")
	require.True(t, ok)
	assert.Equal(t, 2, tech.Count)
	assert.Equal(t, []float64{2, 4000, 2000}, tech.Values)

	fin, _ := s.Lookup("Finance")
	assert.Equal(t, []float64{1, 0, 0}, fin.Values, "nulls are skipped and the mean of nothing is 0")

	assert.Equal(t, float64(ds.Len()), s.Total(0), "counts add up to the view size")
	assert.Equal(t, "sum(AnnualRevenue)", s.Reduces[1].Name())
}

func TestAggregateKeysMatchDistinct(t *testing.T) {
	ds := accounts()
	v, err := ApplyFilters(ds.All(), Equals("Type", "Customer"))
	require.NoError(t, err)

	s, err := Aggregate(v, "BillingState", Count())
	require.NoError(t, err)
	distinct, err := Distinct(v, "BillingState")
	require.NoError(t, err)

	assert.ElementsMatch(t, distinct, s.Keys())
	assert.Equal(t, float64(v.Len()), s.Total(0))
}

func TestAggregateErrors(t *testing.T) {
	ds := accounts()
	tests := []struct {
		name    string
		groupBy string
		reduce  Reduce
	}{
		{"missing group field", "Region", Count()},
		{"missing reduce field", "Type", Sum("Revenue")},
		{"non-numeric reduce field", "Type", Mean("Industry")},
		{"unknown op", "Type", Reduce{Op: "median", Field: "AnnualRevenue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate(ds.All(), tt.groupBy, tt.reduce)
			assert.ErrorIs(t, err, model.ErrSchemaMismatch)
		})
	}
}

func TestAggregateEmptyView(t *testing.T) {
	ds := accounts()
	v, err := ApplyFilters(ds.All(), Equals("Industry", "Retail"))
	require.NoError(t, err)

	s, err := Aggregate(v, "Industry", Count(), Mean("AnnualRevenue"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())

	g, err := Totals(v, Count(), Mean("AnnualRevenue"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, g.Values)
}

func TestSummarySorting(t *testing.T) {
	ds := accounts()
	s, err := Aggregate(ds.All(), "Type", Sum("AnnualRevenue"), Min("AnnualRevenue"), Max("AnnualRevenue"))
	require.NoError(t, err)

	sorted := s.SortBy(0, true)
	assert.Equal(t, []string{"Customer", "Prospect", "Partner"}, sorted.Keys())
	assert.Equal(t, []string{"Customer", "Prospect", "Partner"}, s.Keys(), "sorting returns a copy")

	cust, _ := s.Lookup("Customer")
	assert.Equal(t, []float64{4500, 500, 3000}, cust.Values)

	assert.Equal(t, []string{"Customer", "Partner", "Prospect"}, s.SortByKey().Keys())
	assert.Equal(t, []string{"Partner"}, s.SortByCount(false).Limit(1).Keys())
	assert.Equal(t, 3, s.Limit(0).Len())
}

func TestTopNBreaksTiesByFirstAppearance(t *testing.T) {
	ds := accounts()
	// CA, NY and TX each hold two rows
	s, err := TopN(ds.All(), "BillingState", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"CA", "NY"}, s.Keys())

	// the view meets TX first, but NY comes first in the base dataset
	v, err := ApplyFilters(ds.All(), OneOf("Id", "a4", "a3"))
	require.NoError(t, err)
	s, err = TopN(v, "BillingState", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"NY", "TX"}, s.Keys())

	v, err = ApplyFilters(ds.All(), OneOf("Id", "a6", "a4", "a3"))
	require.NoError(t, err)
	s, err = TopN(v, "BillingState", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"TX", "NY"}, s.Keys())
	assert.Equal(t, 2, s.Groups[0].Count)
}

func TestParseReduceOp(t *testing.T) {
	for in, want := range map[string]ReduceOp{"count": OpCount, "sum": OpSum, "avg": OpMean, "average": OpMean, "max": OpMax} {
		got, err := ParseReduceOp(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseReduceOp("median")
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
}

// ------------------- Month buckets -------------------

func TestAggregateByMonth(t *testing.T) {
	ds := accounts()

	s, err := AggregateByMonth(ds.All(), "CreatedDate", MonthlyOptions{}, Count(), Sum("AnnualRevenue"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-01", "2023-03", "2023-04"}, s.Keys())
	jan, _ := s.Lookup("2023-01")
	assert.Equal(t, []float64{2, 3000}, jan.Values)

	filled, err := AggregateByMonth(ds.All(), "CreatedDate", MonthlyOptions{FillGaps: true}, Count())
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-01", "2023-02", "2023-03", "2023-04"}, filled.Keys())
	feb, _ := filled.Lookup("2023-02")
	assert.Equal(t, 0, feb.Count)
	assert.Equal(t, float64(5), filled.Total(0), "rows without a date are left out")

	_, err = AggregateByMonth(ds.All(), "Industry", MonthlyOptions{}, Count())
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
}

func TestMonthlyBreakdown(t *testing.T) {
	ds := accounts()
	b, err := MonthlyBreakdown(ds.All(), "CreatedDate", "Type", MonthlyOptions{FillGaps: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"2023-01", "2023-02", "2023-03", "2023-04"}, b.Months)
	require.Len(t, b.Series, 3)
	assert.Equal(t, Series{Key: "Customer", Counts: []int{1, 0, 1, 1}}, b.Series[0])
	assert.Equal(t, Series{Key: "Partner", Counts: []int{0, 0, 1, 0}}, b.Series[1])
	assert.Equal(t, Series{Key: "Prospect", Counts: []int{1, 0, 0, 0}}, b.Series[2])
}

// ------------------- Transforms -------------------

func TestProjectAndHead(t *testing.T) {
	ds := accounts()
	tbl, err := Project(ds.All(), []string{"Id", "Industry"}, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, tbl.Total)
	assert.Equal(t, [][]any{{"a1", "Technology"}, {"a2", "Healthcare"}}, tbl.Rows)

	_, err = Project(ds.All(), []string{"Id", "Region"}, 2)
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)

	assert.Equal(t, 6, Head(ds.All(), 0).Len())
	assert.Equal(t, 3, Head(ds.All(), 3).Len())
}

func TestDistinctAndBounds(t *testing.T) {
	ds := accounts()
	industries, err := Distinct(ds.All(), "Industry")
	require.NoError(t, err)
	assert.Equal(t, []string{"Finance", "Healthcare", "Technology"}, industries)

	from, to, ok, err := DateBounds(ds.All(), "CreatedDate")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, day(2023, time.January, 5, 0), from)
	assert.Equal(t, day(2023, time.April, 2, 0), to)

	empty, err := ApplyFilters(ds.All(), Equals("Industry", "Retail"))
	require.NoError(t, err)
	_, _, ok, err = DateBounds(empty, "CreatedDate")
	require.NoError(t, err)
	assert.False(t, ok)
}
