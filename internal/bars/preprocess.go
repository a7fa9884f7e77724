// Package bars builds the "lines per act" bar chart: one bar per player and
// act, stacked, showing either line counts or each player's share of the
// act.
package bars

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

// Column names read from the script dataset.
const (
	ActField    = "Act"
	PlayerField = "Player"
)

// OtherLabel replaces every player outside the top N.
const OtherLabel = "OTHER"

// DefaultTopN is the number of players kept by ReplaceOthers.
const DefaultTopN = 5

// ErrUnknownMode is returned for display modes other than Count and Percent.
var ErrUnknownMode = errors.New("unknown display mode")

// Mode selects what the y axis shows.
type Mode string

const (
	ModeCount   Mode = "Count"
	ModePercent Mode = "Percent"
)

// ParseMode accepts "count" or "percent" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "count":
		return ModeCount, nil
	case "percent":
		return ModePercent, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Column is the name of the aggregate column plotted for m.
func (m Mode) Column() string {
	switch m {
	case ModeCount:
		return "LineCount"
	case ModePercent:
		return "LinePercent"
	}
	return ""
}

func (m Mode) value(r analysis.Row) (any, error) {
	switch m {
	case ModeCount:
		return r.Count, nil
	case ModePercent:
		return r.Percent, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, string(m))
}

// SummarizeLines counts lines per (Act, Player) and each player's percent
// of the act's lines.
func SummarizeLines(t *dataset.Table) (*analysis.Aggregate, error) {
	agg, err := analysis.GroupCount(t, ActField, PlayerField)
	if err != nil {
		return nil, fmt.Errorf("summarize lines: %w", err)
	}
	return agg.WithPercent(ActField)
}

// ReplaceOthers keeps the n players with the most lines over the whole play
// and merges the rest into OTHER within each act.
func ReplaceOthers(a *analysis.Aggregate, n int) (*analysis.Aggregate, error) {
	return analysis.CollapseTopN(a, PlayerField, n, OtherLabel)
}

// CleanNames title-cases player names and prefixes acts with "Act ".
func CleanNames(a *analysis.Aggregate) (*analysis.Aggregate, error) {
	title := cases.Title(language.Und)
	out, err := a.Map(PlayerField, func(s string) string { return title.String(strings.ToLower(s)) })
	if err != nil {
		return nil, err
	}
	return out.Map(ActField, func(s string) string { return "Act " + s })
}

// Preprocess runs SummarizeLines, ReplaceOthers and CleanNames in order.
func Preprocess(t *dataset.Table, topN int) (*analysis.Aggregate, error) {
	agg, err := SummarizeLines(t)
	if err != nil {
		return nil, err
	}
	if agg, err = ReplaceOthers(agg, topN); err != nil {
		return nil, err
	}
	return CleanNames(agg)
}
