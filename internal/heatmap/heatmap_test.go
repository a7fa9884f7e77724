package heatmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

func trees() *dataset.Table {
	return dataset.NewTable([]string{"Arrond_Nom", "Date_Plantation"}, [][]string{
		{"Verdun", "2016-05-01"},
		{"Verdun", "2016-05-03"},
		{"Verdun", "2016-05-03"},
		{"Verdun", "2018-01-10"},
		{"Anjou", "2017-04-20"},
		{"Anjou", "2009-04-20"},
		{"Anjou", "unknown"},
	})
}

func TestPrepare(t *testing.T) {
	filtered, grid, st, err := Prepare(trees(), analysis.YearRange{Start: 2010, End: 2020}, analysis.FilterOptions{})
	require.NoError(t, err)
	assert.Equal(t, analysis.FilterStats{Kept: 5, OutOfRange: 1, Unparsable: 1}, st)
	assert.Equal(t, 5, filtered.Len())

	assert.Equal(t, []string{"Anjou", "Verdun"}, grid.Rows)
	assert.Equal(t, []string{"2016", "2017", "2018"}, grid.Cols)
	assert.Equal(t, [][]int{{0, 1, 0}, {3, 0, 1}}, grid.Cells)
	assert.Equal(t, filtered.Len(), grid.Total())
}

func TestSummarizeYearlyCountsDropsBadDates(t *testing.T) {
	agg, dropped, err := SummarizeYearlyCounts(trees())
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, 6, agg.TotalCount())
}

func TestSummarizeYearlyCountsSchema(t *testing.T) {
	tbl := dataset.NewTable([]string{"Date_Plantation"}, [][]string{{"2016-01-01"}})
	_, _, err := SummarizeYearlyCounts(tbl)
	var se *dataset.SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, ArrondField, se.Field)
}

func TestDailyInfo(t *testing.T) {
	series, err := DailyInfo(trees(), "Verdun", 2016)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.Equal(t, []int{1, 0, 2}, []int{series[0].Count, series[1].Count, series[2].Count})

	none, err := DailyInfo(trees(), "Outremont", 2016)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHeatmapFigure(t *testing.T) {
	_, grid, _, err := Prepare(trees(), analysis.YearRange{Start: 2010, End: 2020}, analysis.FilterOptions{})
	require.NoError(t, err)
	fig, err := Figure(grid, figure.DefaultTheme())
	require.NoError(t, err)

	require.Len(t, fig.Data, 1)
	tr := fig.Data[0]
	assert.Equal(t, figure.KindHeatmap, tr.Type)
	assert.Equal(t, []any{2016, 2017, 2018}, tr.X)
	assert.Equal(t, "Trees", tr.ColorBar.Title.Text)
	assert.Equal(t, "Year", fig.Layout.XAxis.Title.Text)
	assert.Equal(t, "Neighborhood", fig.Layout.YAxis.Title.Text)
	assert.Equal(t, 1, fig.Layout.XAxis.DTick)
	assert.Equal(t, false, fig.Layout.DragMode)
	assert.Equal(t, HeatmapHoverTemplate(figure.DefaultTheme()), tr.HoverTemplate)
}

func TestHeatmapFigureEmptyGrid(t *testing.T) {
	fig, err := Figure(&analysis.Grid{}, figure.DefaultTheme())
	require.NoError(t, err)
	assert.Empty(t, fig.Data)
	require.Len(t, fig.Layout.Annotations, 1)
}

func TestHoverTemplates(t *testing.T) {
	th := figure.DefaultTheme()
	assert.Equal(t,
		"<span style='font-family:Roboto Slab'><b>Neighborhood:</b></span> <span style='font-family:Roboto'>%{y}</span><br>"+
			"<span style='font-family:Roboto Slab'><b>Year:</b></span> <span style='font-family:Roboto'>%{x}</span><br>"+
			"<span style='font-family:Roboto Slab'><b>Trees:</b></span> <span style='font-family:Roboto'>%{z}</span><extra></extra>",
		HeatmapHoverTemplate(th))
	assert.Contains(t, LineHoverTemplate(th), "<b>Date:</b>")
}

func TestLineFigure(t *testing.T) {
	series, err := DailyInfo(trees(), "Verdun", 2016)
	require.NoError(t, err)
	fig, err := LineFigure(series, "Verdun", 2016, figure.DefaultTheme())
	require.NoError(t, err)
	require.Len(t, fig.Data, 1)
	assert.Equal(t, "lines", fig.Data[0].Mode)
	assert.Equal(t, "black", fig.Data[0].Line.Color)
	assert.Equal(t, []any{"2016-05-01", "2016-05-02", "2016-05-03"}, fig.Data[0].X)
	assert.Equal(t, "Verdun - 2016", fig.Layout.Title.Text)
	assert.Equal(t, "%d\n%b", fig.Layout.XAxis.TickFormat)
	assert.Equal(t, "Trees", fig.Layout.YAxis.Title.Text)
}

func TestLineFigureSinglePoint(t *testing.T) {
	series, err := DailyInfo(trees(), "Verdun", 2018)
	require.NoError(t, err)
	fig, err := LineFigure(series, "Verdun", 2018, figure.DefaultTheme())
	require.NoError(t, err)
	assert.Equal(t, "markers", fig.Data[0].Mode)
}

func TestEmptyFigure(t *testing.T) {
	th := figure.DefaultTheme()
	fig, err := LineFigure(nil, "Verdun", 2016, th)
	require.NoError(t, err)
	assert.Empty(t, fig.Data)
	require.Len(t, fig.Layout.Annotations, 1)
	ann := fig.Layout.Annotations[0]
	assert.Equal(t, EmptyText, ann.Text)
	assert.Equal(t, 16.0, ann.Font.Size)
	assert.Equal(t, th.DarkColor, ann.Font.Color)
	assert.False(t, *fig.Layout.XAxis.Visible)
	assert.False(t, *fig.Layout.YAxis.Visible)

	require.Len(t, fig.Layout.Shapes, 1)
	rect := fig.Layout.Shapes[0]
	assert.Equal(t, figure.Shape{
		Type: "rect", XRef: "paper", YRef: "paper", X0: 0, X1: 1, Y0: 0.25, Y1: 0.75,
		FillColor: th.PaleColor, Line: &figure.Line{Width: figure.Float(0)}, Layer: "below",
	}, rect)
}

func TestHandleClick(t *testing.T) {
	th := figure.DefaultTheme()
	fig, err := HandleClick(trees(), nil, th)
	require.NoError(t, err)
	assert.Equal(t, EmptyText, fig.Layout.Annotations[0].Text)

	fig, err = HandleClick(trees(), &CellClick{X: "2016", Y: "Verdun"}, th)
	require.NoError(t, err)
	assert.Equal(t, "Verdun - 2016", fig.Layout.Title.Text)

	_, err = HandleClick(trees(), &CellClick{X: "year", Y: "Verdun"}, th)
	assert.Error(t, err)
}
