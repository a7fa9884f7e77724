package analysis

import (
	"errors"
	"fmt"
	"math"
)

// ErrFractional is returned when a pivot cell would not be a whole number.
var ErrFractional = errors.New("pivot value is not integral")

// ErrDuplicateCell is returned when two aggregate rows map to the same cell.
var ErrDuplicateCell = errors.New("duplicate pivot cell")

// Measure selects which aggregate column fills the pivot cells.
type Measure string

const (
	MeasureCount   Measure = "count"
	MeasureSum     Measure = "sum"
	MeasurePercent Measure = "percent"
)

// ParseMeasure validates a measure name.
func ParseMeasure(s string) (Measure, error) {
	switch m := Measure(s); m {
	case MeasureCount, MeasureSum, MeasurePercent:
		return m, nil
	}
	return "", fmt.Errorf("unknown measure %q (want count, sum or percent)", s)
}

// Grid is a two-way table of integer cells. Missing combinations are 0.
type Grid struct {
	RowField string
	ColField string
	Rows     []string
	Cols     []string
	Cells    [][]int
}

// At returns the cell for (row, col).
func (g *Grid) At(row, col string) (int, bool) {
	ri, ci := indexOf(g.Rows, row), indexOf(g.Cols, col)
	if ri < 0 || ci < 0 {
		return 0, false
	}
	return g.Cells[ri][ci], true
}

// Total sums every cell.
func (g *Grid) Total() int {
	n := 0
	for _, r := range g.Cells {
		for _, v := range r {
			n += v
		}
	}
	return n
}

// Empty reports whether the grid has no rows or no columns.
func (g *Grid) Empty() bool { return g == nil || len(g.Rows) == 0 || len(g.Cols) == 0 }

// Pivot reshapes a two-field aggregate into a grid with rowField values as
// rows and colField values as columns, both in natural order.
func Pivot(a *Aggregate, rowField, colField string, m Measure) (*Grid, error) {
	if len(a.Fields) != 2 {
		return nil, fmt.Errorf("pivot: aggregate has %d key fields, want 2", len(a.Fields))
	}
	if err := a.require(rowField, colField); err != nil {
		return nil, err
	}
	if rowField == colField {
		return nil, fmt.Errorf("pivot: row and column field are both %q", rowField)
	}
	ri, ci := a.Index(rowField), a.Index(colField)

	rows := a.Distinct(rowField)
	cols := a.Distinct(colField)
	SortNatural(rows)
	SortNatural(cols)
	g := &Grid{RowField: rowField, ColField: colField, Rows: rows, Cols: cols, Cells: make([][]int, len(rows))}
	seen := make([][]bool, len(rows))
	for i := range g.Cells {
		g.Cells[i] = make([]int, len(cols))
		seen[i] = make([]bool, len(cols))
	}
	for _, r := range a.Rows {
		v, err := cellValue(r, m)
		if err != nil {
			return nil, fmt.Errorf("pivot %s=%s %s=%s: %w", rowField, r.Keys[ri], colField, r.Keys[ci], err)
		}
		y, x := indexOf(rows, r.Keys[ri]), indexOf(cols, r.Keys[ci])
		if seen[y][x] {
			return nil, fmt.Errorf("pivot %s=%s %s=%s: %w", rowField, r.Keys[ri], colField, r.Keys[ci], ErrDuplicateCell)
		}
		seen[y][x] = true
		g.Cells[y][x] = v
	}
	return g, nil
}

func cellValue(r Row, m Measure) (int, error) {
	var f float64
	switch m {
	case MeasureCount, "":
		return r.Count, nil
	case MeasureSum:
		f = r.Sum
	case MeasurePercent:
		f = r.Percent
	default:
		return 0, fmt.Errorf("unknown measure %q", m)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %g", ErrFractional, f)
	}
	return int(f), nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
