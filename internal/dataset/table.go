package dataset

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrMissingField is matched by SchemaError when a required column is absent.
var ErrMissingField = errors.New("missing field")

// SchemaError reports a field that a table was expected to carry.
type SchemaError struct {
	Field     string
	Available []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema: missing field %q (have: %s)", e.Field, strings.Join(e.Available, ", "))
}

func (e *SchemaError) Is(target error) bool { return target == ErrMissingField }

// Record is one input row keyed by column name.
type Record map[string]string

// Table is an ordered sequence of records sharing a column schema.
// Operations that reshape a table return a new one; the receiver is never
// modified.
type Table struct {
	Columns []string
	Rows    []Record
}

// NewTable builds a table from a header and positional rows. Short rows are
// padded with empty values; extra cells are ignored.
func NewTable(header []string, rows [][]string) *Table {
	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}
	t := &Table{Columns: cols, Rows: make([]Record, 0, len(rows))}
	for _, row := range rows {
		rec := make(Record, len(cols))
		for i, c := range cols {
			if i < len(row) {
				rec[c] = row[i]
			} else {
				rec[c] = ""
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether name is part of the schema.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Require returns a *SchemaError for the first field not present in t.
func (t *Table) Require(fields ...string) error {
	for _, f := range fields {
		if !t.HasColumn(f) {
			avail := append([]string(nil), t.Columns...)
			sort.Strings(avail)
			return &SchemaError{Field: f, Available: avail}
		}
	}
	return nil
}

// Values returns the column values in row order.
func (t *Table) Values(field string) ([]string, error) {
	if err := t.Require(field); err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[field]
	}
	return out, nil
}

// Filter returns the records for which keep reports true.
func (t *Table) Filter(keep func(Record) bool) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...)}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// WithColumn returns a copy of t with a derived column appended (or
// replaced when name already exists).
func (t *Table) WithColumn(name string, derive func(Record) string) *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...), Rows: make([]Record, len(t.Rows))}
	if !out.HasColumn(name) {
		out.Columns = append(out.Columns, name)
	}
	for i, r := range t.Rows {
		nr := make(Record, len(r)+1)
		for k, v := range r {
			nr[k] = v
		}
		nr[name] = derive(r)
		out.Rows[i] = nr
	}
	return out
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	out := &Table{Columns: append([]string(nil), t.Columns...), Rows: make([]Record, len(t.Rows))}
	for i, r := range t.Rows {
		nr := make(Record, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows[i] = nr
	}
	return out
}
