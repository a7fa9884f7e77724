package bars

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// Title is the chart title.
const Title = "Lines per Act"

// InitFigure returns an empty stacked bar figure styled with theme on a
// simple_white base.
func InitFigure(theme figure.Theme) (*figure.Figure, error) {
	fig := figure.New()
	fig.Layout.Title = figure.Text(Title)
	fig.Layout.DragMode = false
	fig.Layout.BarMode = "relative"
	if err := theme.WithBase("simple_white").Apply(fig); err != nil {
		return nil, err
	}
	return fig, nil
}

// Draw replaces the figure's traces with one bar trace per player, in
// alphabetical order, plotting the column selected by mode. Every bar of a
// trace carries the same hover template.
func Draw(fig *figure.Figure, a *analysis.Aggregate, mode Mode) error {
	for _, f := range []string{ActField, PlayerField} {
		if a.Index(f) < 0 {
			return &dataset.SchemaError{Field: f, Available: a.Fields}
		}
	}
	if mode.Column() == "" {
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}

	players := a.Distinct(PlayerField)
	sort.Strings(players)
	fig.Data = nil
	for _, p := range players {
		tpl, _ := HoverTemplate(p, mode)
		tr := &figure.Trace{Type: figure.KindBar, Name: p}
		var hovers []string
		for _, r := range a.Rows {
			if a.Key(r, PlayerField) != p {
				continue
			}
			v, err := mode.value(r)
			if err != nil {
				return err
			}
			tr.X = append(tr.X, a.Key(r, ActField))
			tr.Y = append(tr.Y, v)
			hovers = append(hovers, tpl)
		}
		tr.HoverTemplate = hovers
		fig.AddTrace(tr)
	}
	return nil
}

// HoverTemplate returns the tooltip for a player's bars.
func HoverTemplate(name string, mode Mode) (string, error) {
	var sentence string
	switch mode {
	case ModeCount:
		sentence = "%{y} lines"
	case ModePercent:
		sentence = "%{y:.2f}% of lines"
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
	return "<span style='font-family: Grenze Gotisch; font-size: 24px; color: black;'>" +
		name + "</span><br>" + sentence + "<extra></extra>", nil
}

// UpdateYAxis titles the y axis for mode.
func UpdateYAxis(fig *figure.Figure, mode Mode) error {
	var title string
	switch mode {
	case ModeCount:
		title = "Lines (Count)"
	case ModePercent:
		title = "Lines (%)"
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
	if fig.Layout.YAxis == nil {
		fig.Layout.YAxis = &figure.Axis{}
	}
	fig.Layout.YAxis.Title = figure.Text(title)
	return nil
}

// Build preprocesses t and returns the finished chart for mode.
func Build(t *dataset.Table, theme figure.Theme, mode Mode, topN int) (*figure.Figure, error) {
	agg, err := Preprocess(t, topN)
	if err != nil {
		return nil, err
	}
	fig, err := InitFigure(theme)
	if err != nil {
		return nil, err
	}
	if err := Draw(fig, agg, mode); err != nil {
		return nil, err
	}
	if err := UpdateYAxis(fig, mode); err != nil {
		return nil, err
	}
	return fig, nil
}
