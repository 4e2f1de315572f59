package pipeline

import (
	"fmt"

	"go-bi-stack/internal/model"
)

// requireFields checks that every named field is declared by the view's
// dataset.
func requireFields(v *View, fields ...string) error {
	for _, f := range fields {
		if f == "" {
			return fmt.Errorf("%w: empty field name", model.ErrSchemaMismatch)
		}
		if !v.base.HasField(f) {
			return fmt.Errorf("%w: field %q not in dataset %s", model.ErrSchemaMismatch, f, v.base.Name)
		}
	}
	return nil
}

// requireNumeric checks that field holds numbers (or nulls) on every row of
// the view.
func requireNumeric(v *View, field string) error {
	if err := requireFields(v, field); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		val := v.Record(i).Value(field)
		if val == nil {
			continue
		}
		if _, ok := model.AsFloat(val); !ok {
			return fmt.Errorf("%w: field %q must be numeric, got %T", model.ErrSchemaMismatch, field, val)
		}
	}
	return nil
}

// requireTemporal checks that field holds timestamps or dates (or nulls) on
// every row of the view.
func requireTemporal(v *View, field string) error {
	if err := requireFields(v, field); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		val := v.Record(i).Value(field)
		if val == nil {
			continue
		}
		if _, ok := model.AsTime(val); !ok {
			return fmt.Errorf("%w: field %q must be a timestamp or date, got %T", model.ErrSchemaMismatch, field, val)
		}
	}
	return nil
}
