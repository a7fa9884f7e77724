package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

// Options controls profiling of a loaded table.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// TopValues caps the categorical values listed per column.
	TopValues int
	// GroupBy adds a count/percent aggregate over these columns.
	GroupBy []string
	// TopN collapses the first GroupBy field to its n largest values; 0 keeps all.
	TopN int
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopValues: 5}
}

// Report is a markdown-friendly profile of a tabular dataset.
type Report struct {
	Name      string
	Rows      int
	Cols      []ColumnSummary
	Samples   [][]string
	Warnings  []string
	Aggregate *Aggregate
	Grid      *Grid
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    string // numeric|datetime|categorical|text|unknown
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Datetime span
	First string
	Last  string
	// Categorical top values
	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

type colAcc struct {
	numCnt, dtCnt, txtCnt int
	n                     int
	min, max, mean, m2    float64
	first, last           string
	firstT, lastT         int64
	cats                  map[string]int
	exText                []string
}

// Profile summarizes every column of t and, when opt.GroupBy is set, adds
// a count/percent aggregate over those columns (pivoted when there are two).
func Profile(name string, t *dataset.Table, opt Options) (*Report, error) {
	rep := &Report{Name: name, Rows: t.Len()}
	accs := make([]*colAcc, len(t.Columns))
	for i := range accs {
		accs[i] = &colAcc{min: math.Inf(1), max: math.Inf(-1), cats: map[string]int{}}
	}
	sums := make([]ColumnSummary, len(t.Columns))
	for i, c := range t.Columns {
		sums[i].Name = c
	}
	for ri, rec := range t.Rows {
		if ri < opt.SampleRows {
			row := make([]string, len(t.Columns))
			for j, c := range t.Columns {
				row[j] = rec[c]
			}
			rep.Samples = append(rep.Samples, row)
		}
		for j, c := range t.Columns {
			v := strings.TrimSpace(rec[c])
			if v == "" {
				sums[j].Missing++
				continue
			}
			sums[j].NonNull++
			a := accs[j]
			if len(a.cats) <= 10000 {
				a.cats[v]++
			}
			if x, ok := dataset.ParseNumber(v); ok {
				a.numCnt++
				// Welford update
				a.n++
				if x < a.min {
					a.min = x
				}
				if x > a.max {
					a.max = x
				}
				delta := x - a.mean
				a.mean += delta / float64(a.n)
				a.m2 += delta * (x - a.mean)
				continue
			}
			if d, ok := dataset.ParseDate(v); ok {
				a.dtCnt++
				u := d.Unix()
				if a.first == "" || u < a.firstT {
					a.first, a.firstT = v, u
				}
				if a.last == "" || u > a.lastT {
					a.last, a.lastT = v, u
				}
				continue
			}
			a.txtCnt++
			if len(a.exText) < 3 {
				a.exText = append(a.exText, v)
			}
		}
	}

	for j, a := range accs {
		s := &sums[j]
		s.Unique = len(a.cats)
		switch {
		case a.numCnt > 0 && a.numCnt >= a.dtCnt && a.numCnt >= a.txtCnt:
			s.Kind = "numeric"
			s.Min, s.Max, s.Mean = a.min, a.max, a.mean
			if a.n > 1 {
				s.Std = math.Sqrt(a.m2 / float64(a.n-1))
			}
		case a.dtCnt > 0 && a.dtCnt >= a.txtCnt:
			s.Kind = "datetime"
			s.First, s.Last = a.first, a.last
			if skipped := a.numCnt + a.txtCnt; skipped > 0 {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %d value(s) are not dates and will be excluded by year filters", s.Name, skipped))
			}
		case a.txtCnt > 0:
			// Few distinct short values reads as a category; everything else is prose.
			if s.Unique <= 50 || s.Unique*2 <= s.NonNull {
				s.Kind = "categorical"
				s.TopValues = topValues(a.cats, opt.TopValues)
			} else {
				s.Kind = "text"
				s.ExampleTexts = a.exText
			}
		default:
			s.Kind = "unknown"
		}
		if s.Missing > 0 && s.NonNull == 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: column is empty", s.Name))
		}
	}
	rep.Cols = sums

	if len(opt.GroupBy) > 0 {
		agg, err := GroupCount(t, opt.GroupBy...)
		if err != nil {
			return nil, fmt.Errorf("group by: %w", err)
		}
		var partition []string
		if len(opt.GroupBy) > 1 {
			partition = opt.GroupBy[1:]
		}
		if agg, err = agg.WithPercent(partition...); err != nil {
			return nil, err
		}
		if opt.TopN > 0 {
			if agg, err = CollapseTopN(agg, opt.GroupBy[0], opt.TopN, "OTHER"); err != nil {
				return nil, err
			}
		}
		rep.Aggregate = agg
		if len(opt.GroupBy) == 2 {
			if rep.Grid, err = Pivot(agg, opt.GroupBy[0], opt.GroupBy[1], MeasureCount); err != nil {
				return nil, err
			}
		}
	}
	return rep, nil
}

func topValues(cats map[string]int, n int) []CategoryCount {
	out := make([]CategoryCount, 0, len(cats))
	for v, c := range cats {
		out = append(out, CategoryCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(r.Cols)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case "numeric":
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		case "datetime":
			b.WriteString(fmt.Sprintf(" — from %s to %s", safeVal(c.First), safeVal(c.Last)))
		case "categorical":
			if len(c.TopValues) > 0 {
				b.WriteString(" — top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		case "text":
			if len(c.ExampleTexts) > 0 {
				b.WriteString(" — e.g., ")
				for i, ex := range c.ExampleTexts {
					if i > 0 {
						b.WriteString(" | ")
					}
					b.WriteString(safeVal(ex))
				}
			}
		}
		b.WriteString("\n")
	}
	if r.Aggregate != nil {
		b.WriteString("\n")
		b.WriteString(r.Aggregate.Markdown())
	}
	if !r.Grid.Empty() {
		b.WriteString("\n")
		b.WriteString(r.Grid.Markdown())
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		header := make([]string, len(r.Cols))
		for i, c := range r.Cols {
			header[i] = safeName(c.Name)
		}
		writeTable(&b, header, r.Samples)
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Markdown renders the aggregate as a table with count and percent columns.
func (a *Aggregate) Markdown() string {
	var b strings.Builder
	b.WriteString("[GROUP-BY SUMMARY]\n")
	header := append(append([]string(nil), a.Fields...), "Count", "Percent")
	rows := make([][]string, 0, len(a.Rows))
	for _, r := range a.Rows {
		row := append(append([]string(nil), r.Keys...), fmt.Sprintf("%d", r.Count), fmt.Sprintf("%.2f", r.Percent))
		rows = append(rows, row)
	}
	writeTable(&b, header, rows)
	b.WriteString(fmt.Sprintf("Total: %d\n", a.TotalCount()))
	return b.String()
}

// Markdown renders the grid with row labels in the first column.
func (g *Grid) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[PIVOT %s × %s]\n", g.RowField, g.ColField))
	header := append([]string{g.RowField}, g.Cols...)
	rows := make([][]string, len(g.Rows))
	for i, label := range g.Rows {
		row := []string{label}
		for _, v := range g.Cells[i] {
			row = append(row, fmt.Sprintf("%d", v))
		}
		rows[i] = row
	}
	writeTable(&b, header, rows)
	return b.String()
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(header, " | "))
	b.WriteString(" |\n|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range header {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if r := []rune(val); len(r) > 80 {
				val = string(r[:77]) + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
