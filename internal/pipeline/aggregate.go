package pipeline

import (
	"fmt"
	"math"
	"sort"

	"go-bi-stack/internal/model"
)

// ReduceOp is a reduction applied to the rows of a group.
type ReduceOp string

const (
	OpCount ReduceOp = "count"
	OpSum   ReduceOp = "sum"
	OpMean  ReduceOp = "mean"
	OpMin   ReduceOp = "min"
	OpMax   ReduceOp = "max"
)

// ParseReduceOp accepts the op names plus the "avg"/"average" aliases.
func ParseReduceOp(s string) (ReduceOp, error) {
	switch s {
	case "count":
		return OpCount, nil
	case "sum":
		return OpSum, nil
	case "mean", "avg", "average":
		return OpMean, nil
	case "min":
		return OpMin, nil
	case "max":
		return OpMax, nil
	}
	return "", fmt.Errorf("%w: unknown reduce op %q", model.ErrSchemaMismatch, s)
}

// Reduce pairs an op with the field it reads. A count with no field counts
// rows; with a field it counts non-null values.
type Reduce struct {
	Op    ReduceOp `json:"op"`
	Field string   `json:"field,omitempty"`
}

func Count() Reduce               { return Reduce{Op: OpCount} }
func CountOf(field string) Reduce { return Reduce{Op: OpCount, Field: field} }
func Sum(field string) Reduce     { return Reduce{Op: OpSum, Field: field} }
func Mean(field string) Reduce    { return Reduce{Op: OpMean, Field: field} }
func Min(field string) Reduce     { return Reduce{Op: OpMin, Field: field} }
func Max(field string) Reduce     { return Reduce{Op: OpMax, Field: field} }

// Name labels the reduce, e.g. "sum(Amount)".
func (r Reduce) Name() string {
	if r.Field == "" {
		return string(r.Op)
	}
	return fmt.Sprintf("%s(%s)", r.Op, r.Field)
}

// Group is one row of a Summary.
type Group struct {
	Key    string    `json:"key"`
	Count  int       `json:"count"`
	Values []float64 `json:"values"`

	first int
}

// Value returns the result of reduce i.
func (g Group) Value(i int) float64 { return g.Values[i] }

// Summary maps group keys to reduced values. Groups keep the order in which
// their keys first appear in the view unless sorted.
type Summary struct {
	GroupBy string   `json:"group_by"`
	Reduces []Reduce `json:"reduces"`
	Groups  []Group  `json:"groups"`
}

// Len returns the number of groups.
func (s *Summary) Len() int { return len(s.Groups) }

// Keys returns the group keys in order.
func (s *Summary) Keys() []string {
	keys := make([]string, len(s.Groups))
	for i, g := range s.Groups {
		keys[i] = g.Key
	}
	return keys
}

// Lookup finds a group by key.
func (s *Summary) Lookup(key string) (Group, bool) {
	for _, g := range s.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

// Total sums reduce i over every group.
func (s *Summary) Total(i int) float64 {
	var t float64
	for _, g := range s.Groups {
		t += g.Values[i]
	}
	return t
}

// SortBy returns a copy ordered by reduce i. Ties keep their current order.
func (s *Summary) SortBy(i int, desc bool) *Summary {
	out := s.clone()
	sort.SliceStable(out.Groups, func(a, b int) bool {
		if desc {
			return out.Groups[a].Values[i] > out.Groups[b].Values[i]
		}
		return out.Groups[a].Values[i] < out.Groups[b].Values[i]
	})
	return out
}

// SortByCount returns a copy ordered by row count. Ties keep their current
// order.
func (s *Summary) SortByCount(desc bool) *Summary {
	out := s.clone()
	sort.SliceStable(out.Groups, func(a, b int) bool {
		if desc {
			return out.Groups[a].Count > out.Groups[b].Count
		}
		return out.Groups[a].Count < out.Groups[b].Count
	})
	return out
}

// SortByKey returns a copy ordered by group key.
func (s *Summary) SortByKey() *Summary {
	out := s.clone()
	sort.SliceStable(out.Groups, func(a, b int) bool {
		return out.Groups[a].Key < out.Groups[b].Key
	})
	return out
}

// Limit returns a copy with at most n groups. n <= 0 keeps everything.
func (s *Summary) Limit(n int) *Summary {
	out := s.clone()
	if n > 0 && len(out.Groups) > n {
		out.Groups = out.Groups[:n]
	}
	return out
}

func (s *Summary) clone() *Summary {
	groups := make([]Group, len(s.Groups))
	copy(groups, s.Groups)
	return &Summary{GroupBy: s.GroupBy, Reduces: s.Reduces, Groups: groups}
}

// ------------------- Aggregation -------------------

// accumulator folds the values of one reduce within one group.
type accumulator struct {
	n        int
	sum      float64
	min, max float64
}

func (a *accumulator) add(v float64) {
	if a.n == 0 || v < a.min {
		a.min = v
	}
	if a.n == 0 || v > a.max {
		a.max = v
	}
	a.n++
	a.sum += v
}

func (a *accumulator) result(op ReduceOp, rows int, field string) float64 {
	switch op {
	case OpCount:
		if field == "" {
			return float64(rows)
		}
		return float64(a.n)
	case OpSum:
		return a.sum
	case OpMean:
		if a.n == 0 {
			return 0
		}
		return a.sum / float64(a.n)
	case OpMin:
		return a.min
	case OpMax:
		return a.max
	}
	return math.NaN()
}

func validateReduces(v *View, reduces []Reduce) error {
	for _, r := range reduces {
		switch r.Op {
		case OpCount:
			if r.Field != "" {
				if err := requireFields(v, r.Field); err != nil {
					return err
				}
			}
		case OpSum, OpMean, OpMin, OpMax:
			if err := requireNumeric(v, r.Field); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown reduce op %q", model.ErrSchemaMismatch, r.Op)
		}
	}
	return nil
}

// Aggregate groups the rows of v by groupBy and applies every reduce to each
// group. Rows whose group field is null fall into the "" group, so group
// counts always add up to v.Len(). Nulls are skipped by the numeric reduces;
// a reduce over no values yields 0.
func Aggregate(v *View, groupBy string, reduces ...Reduce) (*Summary, error) {
	if err := requireFields(v, groupBy); err != nil {
		return nil, err
	}
	if err := validateReduces(v, reduces); err != nil {
		return nil, err
	}

	type state struct {
		rows  int
		first int
		accs  []accumulator
	}
	groups := make(map[string]*state)
	order := make([]string, 0)

	v.Each(func(j int, rec *model.Record) {
		key := model.FormatValue(rec.Value(groupBy))
		st, ok := groups[key]
		if !ok {
			st = &state{first: j, accs: make([]accumulator, len(reduces))}
			groups[key] = st
			order = append(order, key)
		}
		st.rows++
		for i, r := range reduces {
			if r.Field == "" {
				continue
			}
			if f, ok := model.AsFloat(rec.Value(r.Field)); ok {
				st.accs[i].add(f)
			} else if r.Op == OpCount && rec.Value(r.Field) != nil {
				st.accs[i].n++
			}
		}
	})

	out := &Summary{GroupBy: groupBy, Reduces: reduces, Groups: make([]Group, 0, len(order))}
	for _, key := range order {
		st := groups[key]
		vals := make([]float64, len(reduces))
		for i, r := range reduces {
			vals[i] = st.accs[i].result(r.Op, st.rows, r.Field)
		}
		out.Groups = append(out.Groups, Group{Key: key, Count: st.rows, Values: vals, first: st.first})
	}
	return out, nil
}

// Totals applies the reduces to the whole view as a single group.
func Totals(v *View, reduces ...Reduce) (Group, error) {
	if err := validateReduces(v, reduces); err != nil {
		return Group{}, err
	}
	accs := make([]accumulator, len(reduces))
	v.Each(func(_ int, rec *model.Record) {
		for i, r := range reduces {
			if r.Field == "" {
				continue
			}
			if f, ok := model.AsFloat(rec.Value(r.Field)); ok {
				accs[i].add(f)
			} else if r.Op == OpCount && rec.Value(r.Field) != nil {
				accs[i].n++
			}
		}
	})
	vals := make([]float64, len(reduces))
	for i, r := range reduces {
		vals[i] = accs[i].result(r.Op, v.Len(), r.Field)
	}
	return Group{Key: "", Count: v.Len(), Values: vals}, nil
}

// TopN returns the n groups of groupBy with the most rows in v. Equal counts
// are ordered by where the key first appears in the unfiltered base dataset.
func TopN(v *View, groupBy string, n int) (*Summary, error) {
	s, err := Aggregate(v, groupBy, Count())
	if err != nil {
		return nil, err
	}

	firstSeen := make(map[string]int, s.Len())
	for j, rec := range v.base.Records {
		key := model.FormatValue(rec.Value(groupBy))
		if _, ok := firstSeen[key]; !ok {
			firstSeen[key] = j
		}
	}
	for i := range s.Groups {
		s.Groups[i].first = firstSeen[s.Groups[i].Key]
	}
	sort.SliceStable(s.Groups, func(a, b int) bool {
		ga, gb := s.Groups[a], s.Groups[b]
		if ga.Count != gb.Count {
			return ga.Count > gb.Count
		}
		return ga.first < gb.first
	})
	return s.Limit(n), nil
}
