package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

// ErrNoFields is returned when an aggregation is requested without keys.
var ErrNoFields = errors.New("at least one grouping field is required")

// ValueError reports a cell that could not be read as a number.
type ValueError struct {
	Row   int
	Field string
	Value string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("row %d: field %q: %q is not numeric", e.Row+1, e.Field, e.Value)
}

// Row is one group of an Aggregate.
type Row struct {
	Keys    []string
	Count   int
	Sum     float64
	Percent float64
}

// Aggregate is a table keyed by one or more grouping fields. Keys are
// unique within an aggregate and rows are kept in natural key order.
type Aggregate struct {
	Fields []string
	Rows   []Row
}

// Index returns the position of field in a.Fields, or -1.
func (a *Aggregate) Index(field string) int {
	for i, f := range a.Fields {
		if f == field {
			return i
		}
	}
	return -1
}

// Key returns the value of field for row r.
func (a *Aggregate) Key(r Row, field string) string {
	if i := a.Index(field); i >= 0 && i < len(r.Keys) {
		return r.Keys[i]
	}
	return ""
}

// TotalCount sums Count over every row.
func (a *Aggregate) TotalCount() int {
	n := 0
	for _, r := range a.Rows {
		n += r.Count
	}
	return n
}

// Distinct returns the distinct values of field in row order.
func (a *Aggregate) Distinct(field string) []string {
	i := a.Index(field)
	if i < 0 {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	for _, r := range a.Rows {
		if !seen[r.Keys[i]] {
			seen[r.Keys[i]] = true
			out = append(out, r.Keys[i])
		}
	}
	return out
}

func (a *Aggregate) require(fields ...string) error {
	for _, f := range fields {
		if a.Index(f) < 0 {
			return &dataset.SchemaError{Field: f, Available: append([]string(nil), a.Fields...)}
		}
	}
	return nil
}

// GroupCount groups t by fields and counts records per distinct key. The
// sum of counts equals t.Len().
func GroupCount(t *dataset.Table, fields ...string) (*Aggregate, error) {
	return group(t, "", fields)
}

// GroupSum groups t by fields, counting records and summing valueField.
func GroupSum(t *dataset.Table, valueField string, fields ...string) (*Aggregate, error) {
	if err := t.Require(valueField); err != nil {
		return nil, err
	}
	return group(t, valueField, fields)
}

func group(t *dataset.Table, valueField string, fields []string) (*Aggregate, error) {
	if len(fields) == 0 {
		return nil, ErrNoFields
	}
	if err := t.Require(fields...); err != nil {
		return nil, err
	}
	idx := map[string]int{}
	agg := &Aggregate{Fields: append([]string(nil), fields...)}
	for i, rec := range t.Rows {
		keys := make([]string, len(fields))
		for j, f := range fields {
			keys[j] = rec[f]
		}
		k := joinKey(keys)
		pos, ok := idx[k]
		if !ok {
			pos = len(agg.Rows)
			idx[k] = pos
			agg.Rows = append(agg.Rows, Row{Keys: keys})
		}
		agg.Rows[pos].Count++
		if valueField != "" {
			v, ok := dataset.ParseNumber(rec[valueField])
			if !ok {
				return nil, &ValueError{Row: i, Field: valueField, Value: rec[valueField]}
			}
			agg.Rows[pos].Sum += v
		}
	}
	sortRows(agg.Rows)
	return agg, nil
}

// WithPercent returns a copy of a where each row's Percent is its share of
// Count within the partition identified by the given fields. An empty
// partition means the whole aggregate. Percentages sum to 100 within each
// non-empty partition.
func (a *Aggregate) WithPercent(partition ...string) (*Aggregate, error) {
	if err := a.require(partition...); err != nil {
		return nil, err
	}
	pidx := make([]int, len(partition))
	for i, f := range partition {
		pidx[i] = a.Index(f)
	}
	totals := map[string]int{}
	for _, r := range a.Rows {
		totals[partKey(r, pidx)] += r.Count
	}
	out := a.clone()
	for i := range out.Rows {
		if tot := totals[partKey(out.Rows[i], pidx)]; tot > 0 {
			out.Rows[i].Percent = float64(out.Rows[i].Count) / float64(tot) * 100
		} else {
			out.Rows[i].Percent = 0
		}
	}
	return out, nil
}

// CollapseTopN keeps the n values of field with the largest total Count
// across the whole aggregate and folds every other value into a single
// synthetic key (other) per partition of the remaining fields, summing
// Count, Sum and Percent.
//
// Ties at the n-th position are broken by first-seen order in a, which is
// ascending natural key order for aggregates built by GroupCount. A real
// value equal to other never takes a top slot; its rows are folded into
// the synthetic key so keys stay unique.
func CollapseTopN(a *Aggregate, field string, n int, other string) (*Aggregate, error) {
	if err := a.require(field); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("top-n: n must be >= 0, got %d", n)
	}
	fi := a.Index(field)

	type total struct {
		key   string
		count int
	}
	var totals []total
	pos := map[string]int{}
	for _, r := range a.Rows {
		k := r.Keys[fi]
		p, ok := pos[k]
		if !ok {
			p = len(totals)
			pos[k] = p
			totals = append(totals, total{key: k})
		}
		totals[p].count += r.Count
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].count > totals[j].count })
	top := map[string]bool{}
	for _, t := range totals {
		if len(top) == n {
			break
		}
		if t.key != other {
			top[t.key] = true
		}
	}

	rest := make([]int, 0, len(a.Fields)-1)
	for i := range a.Fields {
		if i != fi {
			rest = append(rest, i)
		}
	}
	out := &Aggregate{Fields: append([]string(nil), a.Fields...)}
	others := map[string]int{}
	var otherRows []Row
	for _, r := range a.Rows {
		if top[r.Keys[fi]] {
			out.Rows = append(out.Rows, cloneRow(r))
			continue
		}
		pk := partKey(r, rest)
		p, ok := others[pk]
		if !ok {
			keys := append([]string(nil), r.Keys...)
			keys[fi] = other
			p = len(otherRows)
			others[pk] = p
			otherRows = append(otherRows, Row{Keys: keys})
		}
		otherRows[p].Count += r.Count
		otherRows[p].Sum += r.Sum
		otherRows[p].Percent += r.Percent
	}
	out.Rows = append(out.Rows, otherRows...)
	return out, nil
}

// Map returns a copy of a with fn applied to every key of field.
func (a *Aggregate) Map(field string, fn func(string) string) (*Aggregate, error) {
	if err := a.require(field); err != nil {
		return nil, err
	}
	i := a.Index(field)
	out := a.clone()
	for j := range out.Rows {
		out.Rows[j].Keys[i] = fn(out.Rows[j].Keys[i])
	}
	return out, nil
}

func (a *Aggregate) clone() *Aggregate {
	out := &Aggregate{Fields: append([]string(nil), a.Fields...), Rows: make([]Row, len(a.Rows))}
	for i, r := range a.Rows {
		out.Rows[i] = cloneRow(r)
	}
	return out
}

func cloneRow(r Row) Row {
	r.Keys = append([]string(nil), r.Keys...)
	return r
}

func partKey(r Row, idx []int) string {
	parts := make([]string, len(idx))
	for i, j := range idx {
		parts[i] = r.Keys[j]
	}
	return joinKey(parts)
}

func joinKey(parts []string) string { return strings.Join(parts, "\x1f") }

func sortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		for k := range rows[i].Keys {
			if c := CompareNatural(rows[i].Keys[k], rows[j].Keys[k]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}
