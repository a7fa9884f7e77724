package render

import (
	"fmt"
	"io"
	"math"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	svg "github.com/ajstarks/svgo"

	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// writeSVG draws fig with go-gg: the first heatmap as tiles, or every
// scatter-like trace as lines and points. Bars are not supported. A figure
// without traces, or with an empty heatmap, gets the placeholder text.
func writeSVG(w io.Writer, fig *figure.Figure) error {
	if len(fig.Data) == 0 {
		return writeSVGPlaceholder(w, fig)
	}
	var p *gg.Plot
	var err error
	for _, tr := range fig.Data {
		if tr.Type == figure.KindHeatmap {
			if cells(tr) == 0 {
				return writeSVGPlaceholder(w, fig)
			}
			p, err = tilePlot(fig, tr)
			break
		}
	}
	if p == nil && err == nil {
		var ss []series
		for _, tr := range fig.Data {
			switch tr.Type {
			case figure.KindChoroplethMapbox:
				continue
			case figure.KindBar:
				return fmt.Errorf("%w: svg cannot draw bar traces", ErrUnsupported)
			}
			s, err := xy(tr)
			if err != nil {
				return err
			}
			ss = append(ss, s)
		}
		if len(ss) == 0 {
			return fmt.Errorf("%w: svg has nothing to draw", ErrUnsupported)
		}
		p, err = pointPlot(fig, ss)
	}
	if err != nil {
		return err
	}
	if t := titleOf(fig); t != "" {
		p.Add(gg.Title(t))
	}
	size := sizeOf(fig)
	return p.WriteSVG(w, size.Width, size.Height)
}

// writeSVGPlaceholder draws a blank canvas with the placeholder centred.
func writeSVGPlaceholder(w io.Writer, fig *figure.Figure) error {
	size := sizeOf(fig)
	bg, fg := "#ffffff", "#444444"
	fontSize := 16
	if l := fig.Layout; l != nil {
		if l.PaperBGColor != "" {
			bg = l.PaperBGColor
		}
		for _, a := range l.Annotations {
			if a.Text != "" && a.Font != nil {
				if a.Font.Color != "" {
					fg = a.Font.Color
				}
				if a.Font.Size > 0 {
					fontSize = int(a.Font.Size)
				}
				break
			}
		}
	}
	canvas := svg.New(w)
	canvas.Start(size.Width, size.Height)
	canvas.Rect(0, 0, size.Width, size.Height, "fill:"+bg)
	canvas.Text(size.Width/2, size.Height/2, placeholder(fig),
		fmt.Sprintf(`text-anchor="middle" dy=".3em" font-size="%dpx" fill="%s"`, fontSize, fg))
	canvas.End()
	return nil
}

func cells(tr *figure.Trace) int {
	n := 0
	for _, row := range tr.Z {
		n += len(row)
	}
	return n + len(tr.ZValues)
}

func tilePlot(fig *figure.Figure, tr *figure.Trace) (*gg.Plot, error) {
	if len(tr.Z) != len(tr.Y) {
		return nil, fmt.Errorf("heatmap: %d rows but %d y labels", len(tr.Z), len(tr.Y))
	}
	xs, ys := labels(tr.X), labels(tr.Y)
	var cx, cy []string
	var cz []float64
	for yi, row := range tr.Z {
		if len(row) != len(xs) {
			return nil, fmt.Errorf("heatmap: row %d has %d cells but %d x labels", yi, len(row), len(xs))
		}
		for xi, v := range row {
			cx = append(cx, xs[xi])
			cy = append(cy, ys[yi])
			cz = append(cz, float64(v))
		}
	}
	if len(cz) == 0 {
		return nil, fmt.Errorf("%w: svg heatmap is empty", ErrUnsupported)
	}
	tab := new(table.Builder).Add("x", cx).Add("y", cy).Add("z", cz).Done()
	p := gg.NewPlot(tab)
	p.Add(gg.LayerTiles{X: "x", Y: "y", Fill: "z"})
	addAxisLabels(p, fig, false, false)
	return p, nil
}

func pointPlot(fig *figure.Figure, ss []series) (*gg.Plot, error) {
	var logX, logY bool
	if fig.Layout != nil {
		logX, logY = logAxis(fig.Layout.XAxis), logAxis(fig.Layout.YAxis)
	}
	numeric := numericX(ss)
	var xf, ys []float64
	var xl, names []string
	lines, points := false, false
	for _, s := range ss {
		lines = lines || s.lines()
		points = points || s.markers()
		for i, x := range s.X {
			y := s.Y[i]
			if numeric {
				v, _ := number(x)
				if logX {
					if v <= 0 {
						continue
					}
					v = math.Log10(v)
				}
				xf = append(xf, v)
			} else {
				xl = append(xl, label(x))
			}
			if logY {
				if y <= 0 {
					if numeric {
						xf = xf[:len(xf)-1]
					} else {
						xl = xl[:len(xl)-1]
					}
					continue
				}
				y = math.Log10(y)
			}
			ys = append(ys, y)
			names = append(names, s.Name)
		}
	}
	b := new(table.Builder)
	if numeric {
		b.Add("x", xf)
	} else {
		b.Add("x", xl)
	}
	tab := b.Add("y", ys).Add("series", names).Done()
	p := gg.NewPlot(tab)
	color := ""
	if len(ss) > 1 {
		color = "series"
	}
	if lines {
		p.Add(gg.LayerLines{X: "x", Y: "y", Color: color})
	}
	if points {
		p.Add(gg.LayerPoints{X: "x", Y: "y", Color: color})
	}
	addAxisLabels(p, fig, logX, logY)
	return p, nil
}

func addAxisLabels(p *gg.Plot, fig *figure.Figure, logX, logY bool) {
	if fig.Layout == nil {
		return
	}
	if t := axisTitle(fig.Layout.XAxis); t != "" {
		if logX {
			t = "log10 " + t
		}
		p.Add(gg.AxisLabel("x", t))
	}
	if t := axisTitle(fig.Layout.YAxis); t != "" {
		if logY {
			t = "log10 " + t
		}
		p.Add(gg.AxisLabel("y", t))
	}
}
