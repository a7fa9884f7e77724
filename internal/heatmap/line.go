package heatmap

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// EmptyText is shown when no heatmap cell is selected or the selection has
// no plantings.
const EmptyText = "No data to display. Select a cell in the heatmap for more information."

// LineFigure draws the daily counts for arrond in year. A single day is
// drawn as a point; an empty series gives EmptyFigure.
func LineFigure(series []analysis.DailyCount, arrond string, year int, theme figure.Theme) (*figure.Figure, error) {
	if len(series) == 0 {
		return EmptyFigure(theme)
	}
	tr := &figure.Trace{
		Type:          figure.KindScatter,
		Mode:          "lines",
		Line:          &figure.Line{Color: theme.LineChartColor},
		HoverTemplate: LineHoverTemplate(theme),
	}
	if len(series) == 1 {
		tr.Mode = "markers"
		tr.Marker = &figure.Marker{Color: theme.LineChartColor}
	}
	for _, d := range series {
		tr.X = append(tr.X, d.Date.Format("2006-01-02"))
		tr.Y = append(tr.Y, d.Count)
	}
	fig := figure.New()
	fig.AddTrace(tr)
	fig.Layout.Title = figure.Text(fmt.Sprintf("%s - %d", arrond, year))
	fig.Layout.XAxis = &figure.Axis{TickFormat: "%d\n%b"}
	fig.Layout.YAxis = &figure.Axis{Title: figure.Text("Trees")}
	fig.Layout.DragMode = false
	if err := theme.Apply(fig); err != nil {
		return nil, err
	}
	return fig, nil
}

// EmptyFigure is the placeholder line chart: centred text over a pale band
// with the axes hidden.
func EmptyFigure(theme figure.Theme) (*figure.Figure, error) {
	return emptyFigure(theme, EmptyText)
}

func emptyFigure(theme figure.Theme, text string) (*figure.Figure, error) {
	fig := figure.New()
	fig.Layout.Annotations = []figure.Annotation{{
		Text:  text,
		XRef:  "paper",
		YRef:  "paper",
		X:     0.5,
		Y:     0.5,
		Font:  &figure.Font{Size: 16, Color: theme.DarkColor},
		Align: "center",
	}}
	fig.Layout.DragMode = false
	fig.Layout.XAxis = &figure.Axis{Visible: figure.Bool(false)}
	fig.Layout.YAxis = &figure.Axis{Visible: figure.Bool(false)}
	fig.Layout.PlotBGColor = theme.BackgroundColor
	fig.Layout.PaperBGColor = theme.BackgroundColor
	fig.Layout.Shapes = []figure.Shape{{
		Type:      "rect",
		XRef:      "paper",
		YRef:      "paper",
		X0:        0,
		X1:        1,
		Y0:        0.25,
		Y1:        0.75,
		FillColor: theme.PaleColor,
		Line:      &figure.Line{Width: figure.Float(0)},
		Layer:     "below",
	}}
	if err := theme.Apply(fig); err != nil {
		return nil, err
	}
	return fig, nil
}

// CellClick identifies a heatmap cell: x is the year, y the neighborhood.
// The year may arrive as a JSON number or a numeric string.
type CellClick struct {
	X json.Number `json:"x" validate:"required"`
	Y string      `json:"y" validate:"required"`
}

// HandleClick returns the line chart for the clicked cell of t (already
// year-filtered), or the placeholder when click is nil.
func HandleClick(t *dataset.Table, click *CellClick, theme figure.Theme) (*figure.Figure, error) {
	if click == nil {
		return EmptyFigure(theme)
	}
	year, err := strconv.Atoi(click.X.String())
	if err != nil {
		return nil, fmt.Errorf("heatmap click: year %q: %w", click.X, err)
	}
	series, err := DailyInfo(t, click.Y, year)
	if err != nil {
		return nil, err
	}
	return LineFigure(series, click.Y, year, theme)
}
