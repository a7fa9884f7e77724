package figure

import (
	"fmt"
	"sort"
	"strings"
)

// Plotly is the default qualitative colour sequence.
var Plotly = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// Set1 is the ColorBrewer Set1 qualitative sequence.
var Set1 = []string{
	"#E41A1C", "#377EB8", "#4DAF4A", "#984EA3", "#FF7F00",
	"#FFFF33", "#A65628", "#F781BF", "#999999",
}

var sequential = map[string][]string{
	"bluyl": {"#f7feae", "#b7e6a5", "#7ccba2", "#46aea0", "#089099", "#00718b", "#045275"},
	"greys": {"#ffffff", "#f0f0f0", "#d9d9d9", "#bdbdbd", "#969696", "#737373", "#525252", "#252525", "#000000"},
}

// Stop is one entry of a continuous colour scale.
type Stop struct {
	At    float64
	Color string
}

// MarshalJSON writes a stop as Plotly's [position, colour] pair.
func (s Stop) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("[%g,%q]", s.At, s.Color)), nil
}

// Colorscale resolves a named sequential scale into evenly spaced stops.
// Names are case-insensitive.
func Colorscale(name string) ([]Stop, error) {
	colors, ok := sequential[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown colorscale %q (known: %s)", name, strings.Join(ColorscaleNames(), ", "))
	}
	stops := make([]Stop, len(colors))
	for i, c := range colors {
		stops[i] = Stop{At: float64(i) / float64(len(colors)-1), Color: c}
	}
	return stops, nil
}

// ColorscaleNames lists the known sequential scales.
func ColorscaleNames() []string {
	names := make([]string, 0, len(sequential))
	for n := range sequential {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Cycle returns the i-th colour of palette, wrapping around.
func Cycle(palette []string, i int) string {
	if len(palette) == 0 {
		return ""
	}
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}
