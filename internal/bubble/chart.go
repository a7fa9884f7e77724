package bubble

import (
	"strconv"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// Marker sizing: bubble area is proportional to population, the largest
// bubble is SizeMax pixels across and none is smaller than SizeMin.
const (
	SizeMax = 30
	SizeMin = 5
)

// HoverTemplate shows country, population, GDP and CO2 from customdata.
const HoverTemplate = `<span style="font-weight:bold">Country : </span><span>%{customdata[0]}</span><br>` +
	`<span style="font-weight:bold">Population : </span><span>%{customdata[3]}</span><br>` +
	`<span style="font-weight:bold">GDP : </span><span>%{customdata[1]} $ (USD)</span><br>` +
	`<span style="font-weight:bold">CO2 : </span><span>%{customdata[2]} metric tonnes</span><extra></extra>`

// Plot builds the animated scatter: one trace per continent, one frame per
// year (ascending), log axes fixed to the given ranges. The figure shows the
// first year until the animation starts.
func Plot(points []Point, gdp, co2 Range) *figure.Figure {
	fig := figure.New()
	maxPop := 0.0
	for _, p := range points {
		if p.Population > maxPop {
			maxPop = p.Population
		}
	}
	sizeRef := 1.0
	if maxPop > 0 {
		sizeRef = 2 * maxPop / (SizeMax * SizeMax)
	}
	conts := continents(points)
	yrs := years(points)

	for i, y := range yrs {
		var traces []*figure.Trace
		for ci, c := range conts {
			tr := &figure.Trace{
				Type:        figure.KindScatter,
				Mode:        "markers",
				Name:        c,
				LegendGroup: c,
				ShowLegend:  figure.Bool(true),
				Marker: &figure.Marker{
					Color:    figure.Cycle(figure.Set1, ci),
					SizeMode: "area",
					SizeRef:  sizeRef,
					SizeMin:  SizeMin,
				},
			}
			sizes := []float64{}
			for _, p := range points {
				if p.Year != y || p.Continent != c {
					continue
				}
				tr.X = append(tr.X, p.GDP)
				tr.Y = append(tr.Y, p.CO2)
				tr.IDs = append(tr.IDs, p.Country)
				tr.CustomData = append(tr.CustomData, []any{p.Country, p.GDP, p.CO2, p.Population})
				sizes = append(sizes, p.Population)
			}
			tr.Marker.Size = sizes
			traces = append(traces, tr)
		}
		name := strconv.Itoa(y)
		fig.AddFrame(figure.Frame{Name: name, Data: traces})
		if i == 0 {
			for _, tr := range traces {
				cp := *tr
				cp.UID = ""
				fig.AddTrace(&cp)
			}
		}
	}

	fig.Layout.XAxis = &figure.Axis{Type: "log", Range: gdp.Log10(), Title: figure.Text(GDPField)}
	fig.Layout.YAxis = &figure.Axis{Type: "log", Range: co2.Log10(), Title: figure.Text(CO2Field)}
	fig.Layout.Legend = &figure.Legend{Title: figure.Text(ContinentField), ItemSizing: "constant"}

	play := figure.Button{
		Label:  "&#9654;",
		Method: "animate",
		Args: []any{nil, map[string]any{
			"frame":       map[string]any{"duration": 500, "redraw": false},
			"mode":        "immediate",
			"fromcurrent": true,
			"transition":  map[string]any{"duration": 500, "easing": "linear"},
		}},
	}
	stop := figure.Button{
		Label:  "&#9724;",
		Method: "animate",
		Args: []any{[]any{nil}, map[string]any{
			"frame":       map[string]any{"duration": 0, "redraw": false},
			"mode":        "immediate",
			"fromcurrent": true,
			"transition":  map[string]any{"duration": 0, "easing": "linear"},
		}},
	}
	fig.Layout.UpdateMenus = []figure.UpdateMenu{{
		Type:       "buttons",
		Direction:  "left",
		ShowActive: figure.Bool(false),
		X:          figure.Float(0.1),
		Y:          figure.Float(0),
		XAnchor:    "right",
		YAnchor:    "top",
		Pad:        &figure.Pad{T: 70, R: 10},
		Buttons:    []figure.Button{play, stop},
	}}
	slider := figure.Slider{
		CurrentValue: &figure.CurrentValue{Prefix: YearField + "="},
		Pad:          &figure.Pad{T: 60, B: 10},
		X:            figure.Float(0.1),
		Y:            figure.Float(0),
		Len:          figure.Float(0.9),
		XAnchor:      "left",
		YAnchor:      "top",
	}
	for _, y := range yrs {
		name := strconv.Itoa(y)
		slider.Steps = append(slider.Steps, figure.SliderStep{
			Label:  name,
			Method: "animate",
			Args: []any{[]any{name}, map[string]any{
				"frame":      map[string]any{"duration": 0, "redraw": false},
				"mode":       "immediate",
				"transition": map[string]any{"duration": 0, "easing": "linear"},
			}},
		})
	}
	fig.Layout.Sliders = []figure.Slider{slider}
	return fig
}

// UpdateHoverTemplate sets the hover template on every trace, including the
// traces of each animation frame.
func UpdateHoverTemplate(fig *figure.Figure) {
	fig.ForEachTrace(func(tr *figure.Trace) { tr.HoverTemplate = HoverTemplate })
}

// UpdateAnimationMenu relabels the play button "Animate", hides the stop
// button and prefixes the slider value with "Data for year : ".
func UpdateAnimationMenu(fig *figure.Figure) {
	animate := figure.Button{Label: "Animate", Method: "animate", Args: []any{nil}}
	stop := figure.Button{Visible: figure.Bool(false)}
	if len(fig.Layout.UpdateMenus) == 0 {
		fig.Layout.UpdateMenus = []figure.UpdateMenu{{Type: "buttons"}}
	}
	m := &fig.Layout.UpdateMenus[0]
	m.Type = "buttons"
	if len(m.Buttons) >= 2 {
		stop = m.Buttons[1]
		stop.Visible = figure.Bool(false)
	}
	m.Buttons = []figure.Button{animate, stop}

	if len(fig.Layout.Sliders) == 0 {
		fig.Layout.Sliders = []figure.Slider{{}}
	}
	fig.Layout.Sliders[0].CurrentValue = &figure.CurrentValue{Prefix: "Data for year : ", Visible: figure.Bool(true)}
}

// UpdateAxesLabels titles both axes with their units.
func UpdateAxesLabels(fig *figure.Figure) {
	if fig.Layout.XAxis == nil {
		fig.Layout.XAxis = &figure.Axis{}
	}
	if fig.Layout.YAxis == nil {
		fig.Layout.YAxis = &figure.Axis{}
	}
	fig.Layout.XAxis.Title = figure.Text("GDP per capita ($ USD)")
	fig.Layout.YAxis.Title = figure.Text("CO2 emissions per capita (metric tonnes)")
}

// UpdateTemplate styles fig with theme on a simple_white base.
func UpdateTemplate(fig *figure.Figure, theme figure.Theme) error {
	return theme.WithBase("simple_white").Apply(fig)
}

// UpdateLegend titles the legend.
func UpdateLegend(fig *figure.Figure) {
	if fig.Layout.Legend == nil {
		fig.Layout.Legend = &figure.Legend{}
	}
	fig.Layout.Legend.Title = figure.Text("Legend")
}

// Build runs the whole bubble pipeline on t.
func Build(t *dataset.Table, theme figure.Theme) (*figure.Figure, error) {
	points, err := Prepare(t)
	if err != nil {
		return nil, err
	}
	gdp, co2, err := Ranges(points)
	if err != nil {
		return nil, err
	}
	fig := Plot(points, gdp, co2)
	UpdateHoverTemplate(fig)
	UpdateAnimationMenu(fig)
	UpdateAxesLabels(fig)
	if err := UpdateTemplate(fig, theme); err != nil {
		return nil, err
	}
	UpdateLegend(fig)
	return fig, nil
}
