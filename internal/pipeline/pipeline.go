// Package pipeline loads persisted datasets and derives filtered views and
// aggregate summaries from them.
package pipeline

import (
	"go-bi-stack/internal/model"
)

// Dataset is an immutable, loaded table of records.
type Dataset struct {
	Name    string
	Kind    model.EntityKind
	Fields  []string
	Records []*model.Record

	fields map[string]struct{}
}

// NewDataset wraps records. When fields is empty the field list is taken
// from the first record.
func NewDataset(name string, kind model.EntityKind, fields []string, records []*model.Record) *Dataset {
	if len(fields) == 0 && len(records) > 0 {
		fields = records[0].Keys()
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return &Dataset{
		Name:    name,
		Kind:    kind,
		Fields:  fields,
		Records: records,
		fields:  set,
	}
}

// HasField reports whether the dataset declares field.
func (d *Dataset) HasField(field string) bool {
	_, ok := d.fields[field]
	return ok
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.Records) }

// All returns a view over every record.
func (d *Dataset) All() *View {
	idx := make([]int, len(d.Records))
	for i := range idx {
		idx[i] = i
	}
	return &View{base: d, idx: idx}
}

// View is a row subset of a Dataset, held as indices into the base records.
// Views are never modified; every operation derives a new one.
type View struct {
	base *Dataset
	idx  []int
}

// Base returns the dataset the view was derived from.
func (v *View) Base() *Dataset { return v.base }

// Len returns the number of rows in the view.
func (v *View) Len() int { return len(v.idx) }

// Record returns row i of the view.
func (v *View) Record(i int) *model.Record { return v.base.Records[v.idx[i]] }

// Records materializes the view's rows in order.
func (v *View) Records() []*model.Record {
	out := make([]*model.Record, len(v.idx))
	for i, j := range v.idx {
		out[i] = v.base.Records[j]
	}
	return out
}

// Each calls fn for every row with its position in the base dataset.
func (v *View) Each(fn func(baseIndex int, rec *model.Record)) {
	for _, j := range v.idx {
		fn(j, v.base.Records[j])
	}
}

func (v *View) derive(idx []int) *View {
	return &View{base: v.base, idx: idx}
}
