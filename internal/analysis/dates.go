package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

// ErrBadDate matches DateError values with errors.Is.
var ErrBadDate = errors.New("unparsable date")

// DateError reports a date cell that could not be parsed.
type DateError struct {
	Row   int
	Field string
	Value string
}

func (e *DateError) Error() string {
	return fmt.Sprintf("row %d: field %q: unparsable date %q", e.Row+1, e.Field, e.Value)
}

func (e *DateError) Is(target error) bool { return target == ErrBadDate }

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	Start int
	End   int
}

// Contains reports whether y lies in the range.
func (r YearRange) Contains(y int) bool { return y >= r.Start && y <= r.End }

// Validate rejects inverted ranges.
func (r YearRange) Validate() error {
	if r.Start > r.End {
		return fmt.Errorf("year range %d-%d: start after end", r.Start, r.End)
	}
	return nil
}

// FilterOptions controls how FilterYears treats unparsable dates.
type FilterOptions struct {
	// Strict turns the first unparsable date into a DateError instead of
	// excluding the row.
	Strict bool
}

// FilterStats counts what FilterYears did with each record.
type FilterStats struct {
	Kept       int
	OutOfRange int
	Unparsable int
}

// Dropped is OutOfRange + Unparsable.
func (s FilterStats) Dropped() int { return s.OutOfRange + s.Unparsable }

// FilterYears keeps records whose dateField falls in r (inclusive). Records
// with unparsable dates are excluded and counted unless opt.Strict is set.
func FilterYears(t *dataset.Table, dateField string, r YearRange, opt FilterOptions) (*dataset.Table, FilterStats, error) {
	var st FilterStats
	if err := t.Require(dateField); err != nil {
		return nil, st, err
	}
	if err := r.Validate(); err != nil {
		return nil, st, err
	}
	out := &dataset.Table{Columns: append([]string(nil), t.Columns...)}
	for i, rec := range t.Rows {
		d, ok := dataset.ParseDate(rec[dateField])
		if !ok {
			if opt.Strict {
				return nil, st, &DateError{Row: i, Field: dateField, Value: rec[dateField]}
			}
			st.Unparsable++
			continue
		}
		if !r.Contains(d.Year()) {
			st.OutOfRange++
			continue
		}
		out.Rows = append(out.Rows, rec)
		st.Kept++
	}
	return out, st, nil
}

// WithYear derives yearField from dateField. Rows whose date cannot be
// parsed are dropped; the number dropped is returned.
func WithYear(t *dataset.Table, dateField, yearField string) (*dataset.Table, int, error) {
	if err := t.Require(dateField); err != nil {
		return nil, 0, err
	}
	dropped := 0
	kept := t.Filter(func(rec dataset.Record) bool {
		if _, ok := dataset.ParseDate(rec[dateField]); ok {
			return true
		}
		dropped++
		return false
	})
	out := kept.WithColumn(yearField, func(rec dataset.Record) string {
		d, _ := dataset.ParseDate(rec[dateField])
		return strconv.Itoa(d.Year())
	})
	return out, dropped, nil
}

// DailyCount is the number of records on one calendar day.
type DailyCount struct {
	Date  time.Time
	Count int
}

// FillDaily counts records per day of dateField and returns one entry for
// every day between the earliest and latest date, with 0 for days without
// records. Unparsable dates are ignored. An empty table yields an empty
// series.
func FillDaily(t *dataset.Table, dateField string) ([]DailyCount, error) {
	if err := t.Require(dateField); err != nil {
		return nil, err
	}
	counts := map[time.Time]int{}
	var lo, hi time.Time
	for _, rec := range t.Rows {
		d, ok := dataset.ParseDate(rec[dateField])
		if !ok {
			continue
		}
		d = dataset.Day(d)
		if len(counts) == 0 || d.Before(lo) {
			lo = d
		}
		if len(counts) == 0 || d.After(hi) {
			hi = d
		}
		counts[d]++
	}
	if len(counts) == 0 {
		return []DailyCount{}, nil
	}
	var out []DailyCount
	for d := lo; !d.After(hi); d = d.AddDate(0, 0, 1) {
		out = append(out, DailyCount{Date: d, Count: counts[d]})
	}
	return out, nil
}
