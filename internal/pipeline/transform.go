package pipeline

import (
	"sort"
	"time"

	"go-bi-stack/internal/model"
)

// Head returns the first n rows of v. n <= 0 returns v unchanged.
func Head(v *View, n int) *View {
	if n <= 0 || n >= v.Len() {
		return v
	}
	return v.derive(v.idx[:n:n])
}

// Table is a column projection of a view, ready for display.
type Table struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Total   int      `json:"total"`
}

// Project keeps the named columns of the first limit rows of v. Total is the
// row count before the limit.
func Project(v *View, columns []string, limit int) (*Table, error) {
	if err := requireFields(v, columns...); err != nil {
		return nil, err
	}
	head := Head(v, limit)
	t := &Table{Columns: columns, Rows: make([][]any, 0, head.Len()), Total: v.Len()}
	head.Each(func(_ int, rec *model.Record) {
		row := make([]any, len(columns))
		for i, c := range columns {
			row[i] = rec.Value(c)
		}
		t.Rows = append(t.Rows, row)
	})
	return t, nil
}

// Distinct returns the sorted distinct non-null values of field.
func Distinct(v *View, field string) ([]string, error) {
	if err := requireFields(v, field); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	v.Each(func(_ int, rec *model.Record) {
		if val := rec.Value(field); val != nil {
			seen[model.FormatValue(val)] = struct{}{}
		}
	})
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out, nil
}

// DateBounds returns the earliest and latest calendar dates of field in v.
// ok is false when no row has a value.
func DateBounds(v *View, field string) (from, to time.Time, ok bool, err error) {
	if err := requireTemporal(v, field); err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	v.Each(func(_ int, rec *model.Record) {
		t, has := model.AsTime(rec.Value(field))
		if !has {
			return
		}
		d := model.NewDate(t).Time
		if !ok || d.Before(from) {
			from = d
		}
		if !ok || d.After(to) {
			to = d
		}
		ok = true
	})
	return from, to, ok, nil
}
