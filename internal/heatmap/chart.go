package heatmap

import (
	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// Figure draws grid as a heatmap with one x tick per year.
func Figure(g *analysis.Grid, theme figure.Theme) (*figure.Figure, error) {
	if g.Empty() {
		return emptyFigure(theme, "No data to display.")
	}
	stops, err := figure.Colorscale(theme.Colorscale)
	if err != nil {
		return nil, err
	}
	fig := figure.New()
	y := make([]any, len(g.Rows))
	for i, r := range g.Rows {
		y[i] = r
	}
	fig.AddTrace(&figure.Trace{
		Type:          figure.KindHeatmap,
		X:             yearTicks(g.Cols),
		Y:             y,
		Z:             g.Cells,
		Colorscale:    stops,
		ColorBar:      &figure.ColorBar{Title: figure.Text("Trees")},
		HoverTemplate: HeatmapHoverTemplate(theme),
	})
	fig.Layout.DragMode = false
	fig.Layout.XAxis = &figure.Axis{Title: figure.Text("Year"), TickMode: "linear", DTick: 1}
	fig.Layout.YAxis = &figure.Axis{Title: figure.Text("Neighborhood")}
	if err := theme.Apply(fig); err != nil {
		return nil, err
	}
	return fig, nil
}
