package render

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// pxPerInch converts layout pixels to plot lengths.
const pxPerInch = 96

func px(n int) vg.Length { return vg.Length(n) * vg.Inch / pxPerInch }

// writePNG draws fig with gonum/plot. A figure mixes at most one family:
// bars, a heatmap, or scatter-like traces.
func writePNG(w io.Writer, fig *figure.Figure) error {
	p := plot.New()
	p.Title.Text = titleOf(fig)
	if fig.Layout != nil {
		p.X.Label.Text = axisTitle(fig.Layout.XAxis)
		p.Y.Label.Text = axisTitle(fig.Layout.YAxis)
	}

	var bars, points []series
	var heat *figure.Trace
	for _, tr := range fig.Data {
		switch tr.Type {
		case figure.KindChoroplethMapbox:
			continue
		case figure.KindHeatmap:
			heat = tr
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

	var err error
	switch {
	case heat != nil:
		err = plotHeatmap(p, fig, heat)
	case len(bars) > 0:
		err = plotBars(p, fig, bars)
	case len(points) > 0:
		err = plotPoints(p, fig, points)
	case len(fig.Data) > 0:
		return fmt.Errorf("%w: png has no drawable trace among %d", ErrUnsupported, len(fig.Data))
	default:
		p.Title.Text = placeholder(fig)
		p.HideAxes()
	}
	if err != nil {
		return err
	}

	size := sizeOf(fig)
	wt, err := p.WriterTo(px(size.Width), px(size.Height), "png")
	if err != nil {
		return fmt.Errorf("png: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

func plotBars(p *plot.Plot, fig *figure.Figure, ss []series) error {
	cats := categories(ss)
	width := px(40)
	if !stacked(fig) && len(ss) > 1 {
		width = px(40) / vg.Length(len(ss))
	}
	var prev *plotter.BarChart
	for i, s := range ss {
		at := map[string]float64{}
		for j, x := range s.X {
			at[label(x)] += s.Y[j]
		}
		vals := make(plotter.Values, len(cats))
		for j, c := range cats {
			vals[j] = at[c]
		}
		bc, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return fmt.Errorf("bar %q: %w", s.Name, err)
		}
		bc.LineStyle.Width = 0
		bc.Color = plotutil.Color(i)
		if c, ok := rgba(s.Color); ok {
			bc.Color = c
		}
		if stacked(fig) {
			if prev != nil {
				bc.StackOn(prev)
			}
			prev = bc
		} else {
			bc.Offset = vg.Length(i)*width - vg.Length(len(ss)-1)*width/2
		}
		p.Add(bc)
		if s.Name != "" {
			p.Legend.Add(s.Name, bc)
		}
	}
	p.NominalX(cats...)
	return nil
}

// grid adapts a heatmap trace to plotter.GridXYZ with rows and columns at
// integer positions.
type grid struct{ z [][]int }

func (g grid) Dims() (c, r int) {
	if len(g.z) == 0 {
		return 0, 0
	}
	return len(g.z[0]), len(g.z)
}
func (g grid) Z(c, r int) float64 { return float64(g.z[r][c]) }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// stops is a palette built from colorscale colours.
type stops []color.Color

func (s stops) Colors() []color.Color { return s }

// heatPalette uses the colorscale when every colour parses, and the heat
// palette otherwise.
func heatPalette(names []string) palette.Palette {
	out := make(stops, 0, len(names))
	for _, n := range names {
		c, ok := rgba(n)
		if !ok {
			return palette.Heat(12, 1)
		}
		out = append(out, c)
	}
	if len(out) < 2 {
		return palette.Heat(12, 1)
	}
	return out
}

func plotHeatmap(p *plot.Plot, fig *figure.Figure, tr *figure.Trace) error {
	if len(tr.Z) == 0 || len(tr.Z) != len(tr.Y) {
		return fmt.Errorf("heatmap: %d rows but %d y labels", len(tr.Z), len(tr.Y))
	}
	for i, row := range tr.Z {
		if len(row) != len(tr.X) {
			return fmt.Errorf("heatmap: row %d has %d cells but %d x labels", i, len(row), len(tr.X))
		}
	}
	p.Add(plotter.NewHeatMap(grid{tr.Z}, heatPalette(scaleColors(fig, tr))))
	p.NominalX(labels(tr.X)...)
	p.NominalY(labels(tr.Y)...)
	return nil
}

func plotPoints(p *plot.Plot, fig *figure.Figure, ss []series) error {
	dates := !numericX(ss)
	var logX, logY bool
	if fig.Layout != nil {
		logX, logY = logAxis(fig.Layout.XAxis), logAxis(fig.Layout.YAxis)
	}
	if dates {
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02", Time: plot.UTCUnixTime}
	}
	kept := 0
	for i, s := range ss {
		pts := make(plotter.XYs, 0, len(s.X))
		for j, x := range s.X {
			var pt plotter.XY
			if dates {
				t, ok := dataset.ParseDate(label(x))
				if !ok {
					return fmt.Errorf("trace %q point %d: x %v is neither a number nor a date", s.Name, j, x)
				}
				pt.X = float64(t.Unix())
			} else {
				pt.X, _ = number(x)
			}
			pt.Y = s.Y[j]
			// Log axes cannot place non-positive values.
			if (logX && pt.X <= 0) || (logY && pt.Y <= 0) {
				continue
			}
			pts = append(pts, pt)
		}
		if len(pts) == 0 {
			continue
		}
		kept += len(pts)
		c := plotutil.Color(i)
		if rc, ok := rgba(s.Color); ok {
			c = rc
		}
		if s.lines() {
			l, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("line %q: %w", s.Name, err)
			}
			l.LineStyle.Width = vg.Points(2)
			l.LineStyle.Color = c
			p.Add(l)
			if s.Name != "" {
				p.Legend.Add(s.Name, l)
			}
		}
		if s.markers() {
			sc, err := plotter.NewScatter(pts)
			if err != nil {
				return fmt.Errorf("scatter %q: %w", s.Name, err)
			}
			sc.GlyphStyle.Color = c
			sc.GlyphStyle.Shape = draw.CircleGlyph{}
			sc.GlyphStyle.Radius = vg.Points(3)
			p.Add(sc)
			if s.Name != "" && !s.lines() {
				p.Legend.Add(s.Name, sc)
			}
		}
	}
	if kept == 0 {
		return nil
	}
	if logX {
		p.X.Scale = plot.LogScale{}
		p.X.Tick.Marker = plot.LogTicks{}
	}
	if logY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{}
	}
	return nil
}
