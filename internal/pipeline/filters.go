package pipeline

import (
	"time"

	"go-bi-stack/internal/model"
)

// All is the category value that disables an equality filter.
const All = "All"

// Predicate is one conjunct of a filter.
type Predicate interface {
	// Field is the dataset field the predicate reads.
	Field() string
	// Match reports whether rec passes.
	Match(rec *model.Record) bool
}

type equals struct {
	field    string
	want     string
	matchAll bool
}

// Equals keeps rows whose field renders equal to value. The value All
// matches every row.
func Equals(field string, value any) Predicate {
	if s, ok := value.(string); ok && s == All {
		return equals{field: field, matchAll: true}
	}
	return equals{field: field, want: model.FormatValue(value)}
}

func (p equals) Field() string { return p.field }

func (p equals) Match(rec *model.Record) bool {
	if p.matchAll {
		return true
	}
	return model.FormatValue(rec.Value(p.field)) == p.want
}

type oneOf struct {
	field string
	set   map[string]struct{}
}

// OneOf keeps rows whose field equals any of values. An empty list, or one
// containing All, matches every row.
func OneOf(field string, values ...string) Predicate {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == All {
			return equals{field: field, matchAll: true}
		}
		set[v] = struct{}{}
	}
	if len(set) == 0 {
		return equals{field: field, matchAll: true}
	}
	return oneOf{field: field, set: set}
}

func (p oneOf) Field() string { return p.field }

func (p oneOf) Match(rec *model.Record) bool {
	_, ok := p.set[model.FormatValue(rec.Value(p.field))]
	return ok
}

type dateBetween struct {
	field    string
	from, to time.Time
}

// DateBetween keeps rows whose field falls within [from, to], comparing only
// the calendar date. A zero bound leaves that side open. Null or
// non-temporal values never match.
func DateBetween(field string, from, to time.Time) Predicate {
	p := dateBetween{field: field}
	if !from.IsZero() {
		p.from = model.NewDate(from).Time
	}
	if !to.IsZero() {
		p.to = model.NewDate(to).Time
	}
	return p
}

func (p dateBetween) Field() string { return p.field }

func (p dateBetween) Match(rec *model.Record) bool {
	t, ok := model.AsTime(rec.Value(p.field))
	if !ok {
		return false
	}
	d := model.NewDate(t).Time
	if !p.from.IsZero() && d.Before(p.from) {
		return false
	}
	if !p.to.IsZero() && d.After(p.to) {
		return false
	}
	return true
}

// ApplyFilters returns the rows of v that pass every predicate. It fails
// with ErrSchemaMismatch when a predicate names a field the dataset lacks,
// even if the predicate would match everything.
func ApplyFilters(v *View, preds ...Predicate) (*View, error) {
	active := make([]Predicate, 0, len(preds))
	for _, p := range preds {
		if err := requireFields(v, p.Field()); err != nil {
			return nil, err
		}
		if e, ok := p.(equals); ok && e.matchAll {
			continue
		}
		active = append(active, p)
	}
	if len(active) == 0 {
		return v.derive(v.idx), nil
	}

	idx := make([]int, 0, v.Len())
	for _, j := range v.idx {
		rec := v.base.Records[j]
		pass := true
		for _, p := range active {
			if !p.Match(rec) {
				pass = false
				break
			}
		}
		if pass {
			idx = append(idx, j)
		}
	}
	return v.derive(idx), nil
}
