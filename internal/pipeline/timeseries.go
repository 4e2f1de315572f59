package pipeline

import (
	"sort"
	"time"

	"go-bi-stack/internal/model"
)

// MonthLayout is the key format of month buckets.
const MonthLayout = "2006-01"

// MonthlyOptions tune month bucketing.
type MonthlyOptions struct {
	// FillGaps inserts empty buckets for months without rows between the
	// first and last bucket.
	FillGaps bool
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthSpan lists every month from first to last inclusive.
func monthSpan(first, last time.Time) []string {
	var out []string
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, m.Format(MonthLayout))
	}
	return out
}

// AggregateByMonth buckets the rows of v by the year-month of timeField and
// applies the reduces to each bucket. Buckets are in chronological order.
// Rows with a null time are left out.
func AggregateByMonth(v *View, timeField string, opts MonthlyOptions, reduces ...Reduce) (*Summary, error) {
	if err := requireTemporal(v, timeField); err != nil {
		return nil, err
	}
	if err := validateReduces(v, reduces); err != nil {
		return nil, err
	}

	byMonth := make(map[string][]int)
	var first, last time.Time
	v.Each(func(j int, rec *model.Record) {
		t, ok := model.AsTime(rec.Value(timeField))
		if !ok {
			return
		}
		m := monthOf(t)
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
		key := m.Format(MonthLayout)
		byMonth[key] = append(byMonth[key], j)
	})

	var keys []string
	if opts.FillGaps && !first.IsZero() {
		keys = monthSpan(first, last)
	} else {
		keys = make([]string, 0, len(byMonth))
		for k := range byMonth {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}

	out := &Summary{GroupBy: timeField, Reduces: reduces, Groups: make([]Group, 0, len(keys))}
	for _, key := range keys {
		bucket := v.derive(byMonth[key])
		g, err := Totals(bucket, reduces...)
		if err != nil {
			return nil, err
		}
		g.Key = key
		out.Groups = append(out.Groups, g)
	}
	return out, nil
}

// Series is one line of a MonthlyBreakdown.
type Series struct {
	Key    string `json:"key"`
	Counts []int  `json:"counts"`
}

// Breakdown holds per-month row counts split by a categorical field.
type Breakdown struct {
	Months []string `json:"months"`
	Series []Series `json:"series"`
}

// MonthlyBreakdown counts the rows of v per year-month of timeField and per
// value of splitField. Every series has one count per month; series are
// ordered by key.
func MonthlyBreakdown(v *View, timeField, splitField string, opts MonthlyOptions) (*Breakdown, error) {
	if err := requireTemporal(v, timeField); err != nil {
		return nil, err
	}
	if err := requireFields(v, splitField); err != nil {
		return nil, err
	}

	counts := make(map[string]map[string]int)
	months := make(map[string]struct{})
	var first, last time.Time
	v.Each(func(_ int, rec *model.Record) {
		t, ok := model.AsTime(rec.Value(timeField))
		if !ok {
			return
		}
		m := monthOf(t)
		if first.IsZero() || m.Before(first) {
			first = m
		}
		if m.After(last) {
			last = m
		}
		key := m.Format(MonthLayout)
		months[key] = struct{}{}

		split := model.FormatValue(rec.Value(splitField))
		if counts[split] == nil {
			counts[split] = make(map[string]int)
		}
		counts[split][key]++
	})

	out := &Breakdown{}
	if opts.FillGaps && !first.IsZero() {
		out.Months = monthSpan(first, last)
	} else {
		for m := range months {
			out.Months = append(out.Months, m)
		}
		sort.Strings(out.Months)
	}

	splits := make([]string, 0, len(counts))
	for s := range counts {
		splits = append(splits, s)
	}
	sort.Strings(splits)
	for _, s := range splits {
		series := Series{Key: s, Counts: make([]int, len(out.Months))}
		for i, m := range out.Months {
			series.Counts[i] = counts[s][m]
		}
		out.Series = append(out.Series, series)
	}
	return out, nil
}
