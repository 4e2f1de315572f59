package generator

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go-bi-stack/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func generate(t *testing.T, kind model.EntityKind, min, max int, seed uint64) *Batch {
	t.Helper()
	f := New(Config{}, nil)
	b, err := f.Generate(context.Background(), model.GenerationRequest{
		Kind:       kind,
		Start:      day(2022, 1, 1),
		End:        day(2022, 12, 31),
		MinRecords: min,
		MaxRecords: max,
		Seed:       seed,
	}, Options{})
	require.NoError(t, err)
	return b
}

func timeField(t *testing.T, rec *model.Record, field string) time.Time {
	t.Helper()
	ts, ok := model.AsTime(rec.Value(field))
	require.True(t, ok, "field %s is not temporal: %#v", field, rec.Value(field))
	return ts
}

func TestGenerate_JanuaryAccounts(t *testing.T) {
	f := New(Config{}, nil)
	b, err := f.Generate(context.Background(), model.GenerationRequest{
		Kind:       model.KindAccount,
		Start:      day(2022, 1, 1),
		End:        day(2022, 1, 31),
		MinRecords: 5,
		MaxRecords: 5,
	}, Options{})
	require.NoError(t, err)
	require.Len(t, b.Records, 5)
	assert.NotZero(t, b.Seed)

	for _, rec := range b.Records {
		created := timeField(t, rec, "CreatedDate")
		assert.Equal(t, 2022, created.Year())
		assert.Equal(t, time.January, created.Month())
	}
}

func TestGenerate_CountWithinBounds(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		b := generate(t, model.KindMarketingEvent, 3, 9, seed)
		assert.GreaterOrEqual(t, b.Len(), 3)
		assert.LessOrEqual(t, b.Len(), 9)
	}
}

func TestGenerate_FieldOrderMatchesSchema(t *testing.T) {
	for _, kind := range model.Kinds {
		t.Run(string(kind), func(t *testing.T) {
			schema, err := model.SchemaFor(kind)
			require.NoError(t, err)

			b := generate(t, kind, 10, 10, 42)
			assert.Equal(t, schema.Names(), b.Fields)
			for _, rec := range b.Records {
				assert.Equal(t, schema.Names(), rec.Keys())
				for _, f := range schema {
					v := rec.Value(f.Name)
					if v == nil {
						assert.True(t, f.Nullable, "%s is null but not nullable", f.Name)
						continue
					}
					coerced, err := model.Coerce(f, v)
					require.NoError(t, err, f.Name)
					assert.Equal(t, v, coerced, f.Name)
				}
			}
		})
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	for _, kind := range model.Kinds {
		a := generate(t, kind, 5, 50, 1234)
		b := generate(t, kind, 5, 50, 1234)

		ja, err := json.Marshal(a.Records)
		require.NoError(t, err)
		jb, err := json.Marshal(b.Records)
		require.NoError(t, err)
		assert.JSONEq(t, string(ja), string(jb), kind)

		c := generate(t, kind, 50, 50, 4321)
		jc, err := json.Marshal(c.Records)
		require.NoError(t, err)
		assert.NotEqual(t, string(ja), string(jc), kind)
	}
}

func TestGenerate_AccountValues(t *testing.T) {
	b := generate(t, model.KindAccount, 500, 500, 7)
	start, end := day(2022, 1, 1), day(2022, 12, 31).Add(24*time.Hour-time.Second)

	ids := map[string]bool{}
	for _, rec := range b.Records {
		created := timeField(t, rec, "CreatedDate")
		modified := timeField(t, rec, "LastModifiedDate")
		assert.False(t, created.Before(start) || created.After(end))
		assert.False(t, modified.Before(created) || modified.After(end))

		id := rec.Value("Id").(string)
		assert.False(t, ids[id], "duplicate Id %s", id)
		ids[id] = true

		rev := rec.Value("AnnualRevenue").(int64)
		assert.GreaterOrEqual(t, rev, int64(100000))
		assert.LessOrEqual(t, rev, int64(50000000))
		emp := rec.Value("NumberOfEmployees").(int64)
		assert.GreaterOrEqual(t, emp, int64(10))
		assert.LessOrEqual(t, emp, int64(10000))

		assert.Contains(t, industries, rec.Value("Industry"))
		assert.Contains(t, accountTypes, rec.Value("Type"))
	}
}

func TestGenerate_OpportunityValues(t *testing.T) {
	b := generate(t, model.KindOpportunity, 500, 500, 8)
	horizon := model.NewDate(day(2022, 12, 31).Add(closeHorizon))

	for _, rec := range b.Records {
		created := timeField(t, rec, "CreatedDate")
		closeDate := rec.Value("CloseDate").(model.Date)
		assert.False(t, closeDate.Before(model.NewDate(created).Time), "close before created")
		assert.False(t, closeDate.After(horizon.Time), "close after horizon")

		p := rec.Value("Probability").(int64)
		assert.GreaterOrEqual(t, p, int64(10))
		assert.LessOrEqual(t, p, int64(90))
		amt := rec.Value("Amount").(int64)
		assert.GreaterOrEqual(t, amt, int64(5000))
		assert.LessOrEqual(t, amt, int64(1000000))

		assert.Contains(t, stages, rec.Value("StageName"))
		assert.Contains(t, rec.Value("Name"), " - Q")
	}
}

func TestGenerate_FinancialValues(t *testing.T) {
	b := generate(t, model.KindFinancialTransaction, 2000, 2000, 9)

	internal := map[int64]bool{}
	numbers := map[string]bool{}
	memos := 0
	for _, rec := range b.Records {
		tran := rec.Value("TranDate").(model.Date)
		due := rec.Value("DueDate").(model.Date)
		days := int(due.Sub(tran.Time).Hours() / 24)
		assert.GreaterOrEqual(t, days, 15)
		assert.LessOrEqual(t, days, 90)

		created := timeField(t, rec, "CreatedDate")
		assert.Equal(t, tran, model.NewDate(created))

		amt := rec.Value("Amount").(float64)
		assert.GreaterOrEqual(t, amt, 100.0)
		assert.LessOrEqual(t, amt, 50000.0)
		assert.InDelta(t, amt*100, float64(int64(amt*100+0.5)), 1e-6)

		rate := rec.Value("ExchangeRate").(float64)
		assert.GreaterOrEqual(t, rate, 0.8)
		assert.LessOrEqual(t, rate, 1.2)

		id := rec.Value("InternalId").(int64)
		assert.False(t, internal[id], "duplicate InternalId %d", id)
		internal[id] = true
		num := rec.Value("TransactionNumber").(string)
		assert.False(t, numbers[num], "duplicate TransactionNumber %s", num)
		numbers[num] = true

		if rec.Value("Memo") != nil {
			memos++
			assert.LessOrEqual(t, len(rec.Value("Memo").(string)), 200)
		}
	}
	// 0.5 fill rate over 2000 rows
	assert.InDelta(t, 1000, memos, 150)
}

func TestGenerate_FillRates(t *testing.T) {
	f := New(Config{FillRates: FillRates{URL: 1, LinkName: 0, LinkContent: 1, Memo: 1}}, nil)
	b, err := f.Generate(context.Background(), model.GenerationRequest{
		Kind: model.KindMarketingEvent, Start: day(2022, 1, 1), End: day(2022, 1, 2),
		MinRecords: 50, MaxRecords: 50, Seed: 5,
	}, Options{})
	require.NoError(t, err)
	for _, rec := range b.Records {
		assert.NotNil(t, rec.Value("URL"))
		assert.Nil(t, rec.Value("LinkName"))
		assert.NotNil(t, rec.Value("LinkContent"))
		assert.LessOrEqual(t, len(rec.Value("LinkContent").(string)), 100)
	}
}

func TestGenerate_InvalidRange(t *testing.T) {
	f := New(Config{MaxRecords: 100}, nil)
	tests := []struct {
		name string
		req  model.GenerationRequest
	}{
		{"start after end", model.GenerationRequest{Kind: model.KindAccount, Start: day(2022, 2, 1), End: day(2022, 1, 1), MinRecords: 1, MaxRecords: 1}},
		{"min above max", model.GenerationRequest{Kind: model.KindAccount, Start: day(2022, 1, 1), End: day(2022, 2, 1), MinRecords: 5, MaxRecords: 1}},
		{"above ceiling", model.GenerationRequest{Kind: model.KindAccount, Start: day(2022, 1, 1), End: day(2022, 2, 1), MinRecords: 1, MaxRecords: 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Generate(context.Background(), tt.req, Options{})
			assert.ErrorIs(t, err, model.ErrInvalidRange)
		})
	}
}

func TestGenerate_ProgressAndCancel(t *testing.T) {
	f := New(Config{}, nil)
	req := model.GenerationRequest{
		Kind: model.KindAccount, Start: day(2022, 1, 1), End: day(2022, 1, 1),
		MinRecords: 25, MaxRecords: 25, Seed: 3,
	}

	var calls, last int
	_, err := f.Generate(context.Background(), req, Options{Progress: func(done, total int) {
		calls++
		last = done
		assert.Equal(t, 25, total)
	}})
	require.NoError(t, err)
	assert.Equal(t, 25, calls)
	assert.Equal(t, 25, last)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Generate(ctx, req, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVocabulary(t *testing.T) {
	assert.Len(t, Vocabulary(model.KindOpportunity, "StageName"), 10)
	assert.Equal(t, []string{"USD", "EUR", "GBP", "CAD"}, Vocabulary(model.KindFinancialTransaction, "Currency"))
	assert.Nil(t, Vocabulary(model.KindAccount, "Name"))
}
