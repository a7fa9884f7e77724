package render

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// writeHTML draws fig as an ECharts page. Bars share one chart, each
// heatmap gets its own, and scatter-like traces (map markers included)
// share a line or scatter chart. Choropleths are skipped.
func writeHTML(w io.Writer, fig *figure.Figure) error {
	page := components.NewPage()
	page.PageTitle = titleOf(fig)
	if page.PageTitle == "" {
		page.PageTitle = "chartloom"
	}
	size := sizeOf(fig)

	var bars, points []series
	var heatmaps []*figure.Trace
	for _, tr := range fig.Data {
		switch tr.Type {
		case figure.KindChoroplethMapbox:
			continue
		case figure.KindHeatmap:
			heatmaps = append(heatmaps, tr)
			continue
		}
		s, err := xy(tr)
		if err != nil {
			return err
		}
		if s.Kind == figure.KindBar {
			bars = append(bars, s)
		} else {
			points = append(points, s)
		}
	}

	added := 0
	if len(bars) > 0 {
		page.AddCharts(barChart(fig, bars, size))
		added++
	}
	for _, tr := range heatmaps {
		hm, err := heatmapChart(fig, tr, size)
		if err != nil {
			return err
		}
		page.AddCharts(hm)
		added++
	}
	if len(points) > 0 {
		if numericX(points) {
			page.AddCharts(scatterChart(fig, points, size))
		} else {
			page.AddCharts(lineChart(fig, points, size))
		}
		added++
	}
	if added == 0 {
		if len(fig.Data) > 0 {
			return fmt.Errorf("%w: html has no drawable trace among %d", ErrUnsupported, len(fig.Data))
		}
		page.AddCharts(emptyChart(fig, size))
	}
	return page.Render(w)
}

func globals(fig *figure.Figure, size Size, legend bool) []charts.GlobalOpts {
	var xa, ya *figure.Axis
	if fig.Layout != nil {
		xa, ya = fig.Layout.XAxis, fig.Layout.YAxis
	}
	xType, yType := "", ""
	if logAxis(xa) {
		xType = "log"
	}
	if logAxis(ya) {
		yType = "log"
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: titleOf(fig)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(legend)}),
		charts.WithXAxisOpts(opts.XAxis{Name: axisTitle(xa), Type: xType}),
		charts.WithYAxisOpts(opts.YAxis{Name: axisTitle(ya), Type: yType}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  strconv.Itoa(size.Width) + "px",
			Height: strconv.Itoa(size.Height) + "px",
		}),
	}
}

func barChart(fig *figure.Figure, ss []series, size Size) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globals(fig, size, len(ss) > 1)...)
	cats := categories(ss)
	bar.SetXAxis(cats)
	stack := ""
	if stacked(fig) {
		stack = "total"
	}
	for _, s := range ss {
		at := map[string]float64{}
		for i, x := range s.X {
			at[label(x)] += s.Y[i]
		}
		data := make([]opts.BarData, len(cats))
		for i, c := range cats {
			data[i] = opts.BarData{Value: at[c]}
		}
		sopts := []charts.SeriesOpts{charts.WithBarChartOpts(opts.BarChart{Stack: stack})}
		if s.Color != "" {
			sopts = append(sopts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}
		bar.AddSeries(s.Name, data, sopts...)
	}
	return bar
}

func heatmapChart(fig *figure.Figure, tr *figure.Trace, size Size) (*charts.HeatMap, error) {
	if len(tr.Z) != len(tr.Y) {
		return nil, fmt.Errorf("heatmap: %d rows but %d y labels", len(tr.Z), len(tr.Y))
	}
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(globals(fig, size, false)...)
	xs, ys := labels(tr.X), labels(tr.Y)
	var data []opts.HeatMapData
	maxVal := 0
	for yi, row := range tr.Z {
		if len(row) != len(xs) {
			return nil, fmt.Errorf("heatmap: row %d has %d cells but %d x labels", yi, len(row), len(xs))
		}
		for xi, v := range row {
			if v > maxVal {
				maxVal = v
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{xi, yi, v}})
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}
	var xa, ya *figure.Axis
	if fig.Layout != nil {
		xa, ya = fig.Layout.XAxis, fig.Layout.YAxis
	}
	hm.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{
			Name:      axisTitle(xa),
			Type:      "category",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      axisTitle(ya),
			Type:      "category",
			Data:      ys,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxVal),
			InRange:    &opts.VisualMapInRange{Color: scaleColors(fig, tr)},
		}),
	)
	name := tr.Name
	if name == "" {
		name = "Count"
	}
	hm.SetXAxis(xs).AddSeries(name, data)
	return hm, nil
}

func lineChart(fig *figure.Figure, ss []series, size Size) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globals(fig, size, len(ss) > 1)...)
	cats := categories(ss)
	line.SetXAxis(cats)
	for _, s := range ss {
		at := map[string]float64{}
		for i, x := range s.X {
			at[label(x)] = s.Y[i]
		}
		data := make([]opts.LineData, 0, len(cats))
		for _, c := range cats {
			if v, ok := at[c]; ok {
				data = append(data, opts.LineData{Value: v})
			} else {
				data = append(data, opts.LineData{Value: "-"})
			}
		}
		sopts := []charts.SeriesOpts{charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(s.markers())})}
		if s.Color != "" {
			sopts = append(sopts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}
		line.AddSeries(s.Name, data, sopts...)
	}
	return line
}

func scatterChart(fig *figure.Figure, ss []series, size Size) *charts.Scatter {
	sc := charts.NewScatter()
	g := globals(fig, size, len(ss) > 1)
	var xa, ya *figure.Axis
	if fig.Layout != nil {
		xa, ya = fig.Layout.XAxis, fig.Layout.YAxis
	}
	xType, yType := "value", "value"
	if logAxis(xa) {
		xType = "log"
	}
	if logAxis(ya) {
		yType = "log"
	}
	g = append(g,
		charts.WithXAxisOpts(opts.XAxis{Name: axisTitle(xa), Type: xType, Scale: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: axisTitle(ya), Type: yType, Scale: opts.Bool(true)}),
	)
	sc.SetGlobalOptions(g...)
	for _, s := range ss {
		data := make([]opts.ScatterData, len(s.X))
		for i, x := range s.X {
			xv, _ := number(x)
			data[i] = opts.ScatterData{Value: []interface{}{xv, s.Y[i]}}
		}
		var sopts []charts.SeriesOpts
		if s.Color != "" {
			sopts = append(sopts, charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}))
		}
		sc.AddSeries(s.Name, data, sopts...)
	}
	return sc
}

// emptyChart is an axis-less chart titled with the placeholder text.
func emptyChart(fig *figure.Figure, size Size) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: placeholder(fig), Left: "center", Top: "middle"}),
		charts.WithXAxisOpts(opts.XAxis{Show: opts.Bool(false)}),
		charts.WithYAxisOpts(opts.YAxis{Show: opts.Bool(false)}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  strconv.Itoa(size.Width) + "px",
			Height: strconv.Itoa(size.Height) + "px",
		}),
	)
	return bar
}
