// Package heatmap builds the trees-planted heatmap (neighborhood × year)
// and the daily line chart shown when a cell is selected.
package heatmap

import (
	"fmt"
	"strconv"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

// Column names of the tree plantation dataset.
const (
	DateField   = "Date_Plantation"
	ArrondField = "Arrond_Nom"
	YearField   = "Year"
)

// FilterYears keeps trees planted in r. See analysis.FilterYears for how
// unparsable dates are handled.
func FilterYears(t *dataset.Table, r analysis.YearRange, opt analysis.FilterOptions) (*dataset.Table, analysis.FilterStats, error) {
	return analysis.FilterYears(t, DateField, r, opt)
}

// SummarizeYearlyCounts counts trees per neighborhood and year. Rows whose
// date cannot be parsed are not counted; their number is returned.
func SummarizeYearlyCounts(t *dataset.Table) (*analysis.Aggregate, int, error) {
	if err := t.Require(ArrondField); err != nil {
		return nil, 0, err
	}
	withYear, dropped, err := analysis.WithYear(t, DateField, YearField)
	if err != nil {
		return nil, 0, err
	}
	agg, err := analysis.GroupCount(withYear, ArrondField, YearField)
	if err != nil {
		return nil, 0, fmt.Errorf("summarize yearly counts: %w", err)
	}
	return agg, dropped, nil
}

// Restructure pivots yearly counts into neighborhoods × years, zero-filled.
func Restructure(a *analysis.Aggregate) (*analysis.Grid, error) {
	return analysis.Pivot(a, ArrondField, YearField, analysis.MeasureCount)
}

// DailyInfo returns the daily tree counts for one neighborhood and year,
// with every day between the first and last planting present. No match
// yields an empty series.
func DailyInfo(t *dataset.Table, arrond string, year int) ([]analysis.DailyCount, error) {
	if err := t.Require(ArrondField, DateField); err != nil {
		return nil, err
	}
	sel := t.Filter(func(rec dataset.Record) bool {
		if rec[ArrondField] != arrond {
			return false
		}
		d, ok := dataset.ParseDate(rec[DateField])
		return ok && d.Year() == year
	})
	return analysis.FillDaily(sel, DateField)
}

// Prepare runs the year filter, the yearly summary and the pivot. The
// returned table is the filtered input, reused by DailyInfo.
func Prepare(t *dataset.Table, r analysis.YearRange, opt analysis.FilterOptions) (*dataset.Table, *analysis.Grid, analysis.FilterStats, error) {
	filtered, st, err := FilterYears(t, r, opt)
	if err != nil {
		return nil, nil, st, err
	}
	agg, _, err := SummarizeYearlyCounts(filtered)
	if err != nil {
		return nil, nil, st, err
	}
	grid, err := Restructure(agg)
	if err != nil {
		return nil, nil, st, err
	}
	return filtered, grid, st, nil
}

func yearTicks(labels []string) []any {
	out := make([]any, len(labels))
	for i, l := range labels {
		if y, err := strconv.Atoi(l); err == nil {
			out[i] = y
		} else {
			out[i] = l
		}
	}
	return out
}
