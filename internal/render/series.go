package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// series is a drawable trace reduced to what every backend needs.
type series struct {
	Name  string
	Kind  string
	Mode  string
	Color string
	X     []any
	Y     []float64
}

// xy flattens a scatter or bar trace. Map markers are drawn at lon/lat.
func xy(tr *figure.Trace) (series, error) {
	s := series{Name: tr.Name, Kind: tr.Type, Mode: tr.Mode}
	if tr.Marker != nil {
		if c, ok := tr.Marker.Color.(string); ok {
			s.Color = c
		}
	}
	if s.Color == "" && tr.Line != nil {
		s.Color = tr.Line.Color
	}
	switch tr.Type {
	case figure.KindScatterMapbox:
		if len(tr.Lat) != len(tr.Lon) {
			return s, fmt.Errorf("trace %q: %d lat but %d lon", tr.Name, len(tr.Lat), len(tr.Lon))
		}
		for i := range tr.Lon {
			s.X = append(s.X, tr.Lon[i])
			s.Y = append(s.Y, tr.Lat[i])
		}
		if s.Mode == "" {
			s.Mode = "markers"
		}
		return s, nil
	case figure.KindScatter, figure.KindBar:
	default:
		return s, fmt.Errorf("%w trace type %q", ErrUnsupported, tr.Type)
	}
	if len(tr.X) != len(tr.Y) {
		return s, fmt.Errorf("trace %q: %d x but %d y", tr.Name, len(tr.X), len(tr.Y))
	}
	for i, v := range tr.Y {
		f, ok := number(v)
		if !ok {
			return s, fmt.Errorf("trace %q point %d: y %v is not numeric", tr.Name, i, v)
		}
		s.X = append(s.X, tr.X[i])
		s.Y = append(s.Y, f)
	}
	if s.Mode == "" && tr.Type == figure.KindScatter {
		s.Mode = "lines"
	}
	return s, nil
}

// numericX reports whether every x of every series is a number.
func numericX(ss []series) bool {
	for _, s := range ss {
		for _, v := range s.X {
			if _, ok := number(v); !ok {
				return false
			}
		}
	}
	return true
}

func (s series) lines() bool   { return strings.Contains(s.Mode, "lines") }
func (s series) markers() bool { return s.Mode == "" || strings.Contains(s.Mode, "markers") }

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		return dataset.ParseNumber(n)
	}
	return 0, false
}

func label(v any) string {
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

func labels(vs []any) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = label(v)
	}
	return out
}

// categories returns the distinct x labels of ss in first-seen order.
func categories(ss []series) []string {
	var out []string
	seen := map[string]bool{}
	for _, s := range ss {
		for _, v := range s.X {
			l := label(v)
			if !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	return out
}

func titleOf(fig *figure.Figure) string {
	if fig.Layout != nil && fig.Layout.Title != nil {
		return fig.Layout.Title.Text
	}
	return ""
}

func axisTitle(a *figure.Axis) string {
	if a == nil || a.Title == nil {
		return ""
	}
	return a.Title.Text
}

func logAxis(a *figure.Axis) bool { return a != nil && a.Type == "log" }

// placeholder is the text of a figure that has no traces, usually the
// "no data" annotation.
func placeholder(fig *figure.Figure) string {
	if fig.Layout != nil {
		for _, a := range fig.Layout.Annotations {
			if a.Text != "" {
				return a.Text
			}
		}
	}
	return "No data to display."
}

func stacked(fig *figure.Figure) bool {
	return fig.Layout != nil && (fig.Layout.BarMode == "relative" || fig.Layout.BarMode == "stack")
}

// scaleColors resolves the colours of a heatmap trace: its own colorscale,
// then the template default, then the default sequential scale.
func scaleColors(fig *figure.Figure, tr *figure.Trace) []string {
	stops := asStops(tr.Colorscale)
	if len(stops) == 0 && fig.Layout != nil && fig.Layout.Template != nil {
		for _, d := range fig.Layout.Template.Data[figure.KindHeatmap] {
			if s := asStops(d.Colorscale); len(s) > 0 {
				stops = s
			}
		}
	}
	if len(stops) == 0 {
		stops, _ = figure.Colorscale(figure.DefaultTheme().Colorscale)
	}
	out := make([]string, len(stops))
	for i, s := range stops {
		out[i] = s.Color
	}
	return out
}

// asStops reads a colorscale built in memory or decoded from JSON, where
// each stop is an [at, colour] pair.
func asStops(v any) []figure.Stop {
	switch cs := v.(type) {
	case []figure.Stop:
		return cs
	case []any:
		var out []figure.Stop
		for _, e := range cs {
			pair, ok := e.([]any)
			if !ok || len(pair) != 2 {
				return nil
			}
			at, ok1 := number(pair[0])
			c, ok2 := pair[1].(string)
			if !ok1 || !ok2 {
				return nil
			}
			out = append(out, figure.Stop{At: at, Color: c})
		}
		return out
	}
	return nil
}

// rgba parses "#rrggbb" and "rgb(r, g, b)" colours.
func rgba(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return color.RGBA{}, false
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, true
	}
	if strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")") {
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return color.RGBA{}, false
		}
		var c [3]uint8
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return color.RGBA{}, false
			}
			c[i] = uint8(n)
		}
		return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}, true
	}
	return color.RGBA{}, false
}
