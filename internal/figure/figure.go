// Package figure holds the declarative, Plotly-compatible figure model that
// every chart builder fills in and every renderer reads.
package figure

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Trace kinds emitted by the builders.
const (
	KindBar              = "bar"
	KindHeatmap          = "heatmap"
	KindScatter          = "scatter"
	KindScatterMapbox    = "scattermapbox"
	KindChoroplethMapbox = "choroplethmapbox"
)

// Figure is the top-level plot description: traces, layout, and optional
// animation frames.
type Figure struct {
	Data   []*Trace `json:"data"`
	Layout *Layout  `json:"layout"`
	Frames []Frame  `json:"frames,omitempty"`
}

// Frame is one step of an animated figure.
type Frame struct {
	Name   string   `json:"name"`
	Data   []*Trace `json:"data"`
	Layout *Layout  `json:"layout,omitempty"`
}

// Trace is a single data series. Only the attributes a given kind uses are
// set; the rest are omitted from the JSON.
type Trace struct {
	Type          string          `json:"type"`
	UID           string          `json:"uid,omitempty"`
	Name          string          `json:"name,omitempty"`
	Mode          string          `json:"mode,omitempty"`
	Orientation   string          `json:"orientation,omitempty"`
	X             []any           `json:"x,omitempty"`
	Y             []any           `json:"y,omitempty"`
	Z             [][]int         `json:"z,omitempty"`
	IDs           []string        `json:"ids,omitempty"`
	Text          []string        `json:"text,omitempty"`
	Lat           []float64       `json:"lat,omitempty"`
	Lon           []float64       `json:"lon,omitempty"`
	Locations     []string        `json:"locations,omitempty"`
	ZValues       []float64       `json:"-"`
	GeoJSON       json.RawMessage `json:"geojson,omitempty"`
	FeatureIDKey  string          `json:"featureidkey,omitempty"`
	CustomData    [][]any         `json:"customdata,omitempty"`
	HoverTemplate any             `json:"hovertemplate,omitempty"`
	HoverLabel    *HoverLabel     `json:"hoverlabel,omitempty"`
	Marker        *Marker         `json:"marker,omitempty"`
	Line          *Line           `json:"line,omitempty"`
	Colorscale    any             `json:"colorscale,omitempty"`
	ColorBar      *ColorBar       `json:"colorbar,omitempty"`
	ColorAxis     string          `json:"coloraxis,omitempty"`
	ShowScale     *bool           `json:"showscale,omitempty"`
	ShowLegend    *bool           `json:"showlegend,omitempty"`
	LegendGroup   string          `json:"legendgroup,omitempty"`
	Opacity       *float64        `json:"opacity,omitempty"`
	XAxis         string          `json:"xaxis,omitempty"`
	YAxis         string          `json:"yaxis,omitempty"`
}

// MarshalJSON writes ZValues under "z" for traces (choropleths) whose z is
// a flat numeric vector rather than a grid.
func (t *Trace) MarshalJSON() ([]byte, error) {
	type plain Trace
	if t.ZValues == nil {
		return json.Marshal((*plain)(t))
	}
	return json.Marshal(struct {
		*plain
		Z []float64 `json:"z"`
	}{plain: (*plain)(t), Z: t.ZValues})
}

// UnmarshalJSON accepts "z" either as a grid (heatmaps) or as a flat
// vector (choropleths).
func (t *Trace) UnmarshalJSON(b []byte) error {
	type plain Trace
	aux := struct {
		*plain
		Z json.RawMessage `json:"z"`
	}{plain: (*plain)(t)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.Z, t.ZValues = nil, nil
	if len(aux.Z) == 0 || string(aux.Z) == "null" {
		return nil
	}
	if err := json.Unmarshal(aux.Z, &t.Z); err == nil {
		return nil
	}
	t.Z = nil
	if err := json.Unmarshal(aux.Z, &t.ZValues); err != nil {
		return fmt.Errorf("trace z: %w", err)
	}
	return nil
}

// HoverLabel styles the tooltip box.
type HoverLabel struct {
	BGColor     string `json:"bgcolor,omitempty"`
	BorderColor string `json:"bordercolor,omitempty"`
	Font        *Font  `json:"font,omitempty"`
}

// Marker styles trace points and bars.
type Marker struct {
	Color    any      `json:"color,omitempty"`
	Size     any      `json:"size,omitempty"`
	SizeMode string   `json:"sizemode,omitempty"`
	SizeRef  float64  `json:"sizeref,omitempty"`
	SizeMin  float64  `json:"sizemin,omitempty"`
	Opacity  *float64 `json:"opacity,omitempty"`
	Line     *Line    `json:"line,omitempty"`
}

// Line styles a trace line or a shape outline.
type Line struct {
	Color string   `json:"color,omitempty"`
	Width *float64 `json:"width,omitempty"`
}

// ColorBar describes a trace colour bar.
type ColorBar struct {
	Title *Title `json:"title,omitempty"`
}

// New returns an empty figure with an empty layout.
func New() *Figure {
	return &Figure{Layout: &Layout{}}
}

// AddTrace appends tr, assigning it a uid when it has none.
func (f *Figure) AddTrace(tr *Trace) *Trace {
	if tr.UID == "" {
		tr.UID = uuid.NewString()
	}
	f.Data = append(f.Data, tr)
	return tr
}

// AddFrame appends an animation frame; its traces get uids too.
func (f *Figure) AddFrame(fr Frame) {
	for _, tr := range fr.Data {
		if tr.UID == "" {
			tr.UID = uuid.NewString()
		}
	}
	f.Frames = append(f.Frames, fr)
}

// ForEachTrace applies fn to every trace of the figure and its frames.
func (f *Figure) ForEachTrace(fn func(*Trace)) {
	for _, tr := range f.Data {
		fn(tr)
	}
	for _, fr := range f.Frames {
		for _, tr := range fr.Data {
			fn(tr)
		}
	}
}

// Trace returns the trace at index i.
func (f *Figure) Trace(i int) (*Trace, error) {
	if i < 0 || i >= len(f.Data) {
		return nil, fmt.Errorf("trace %d out of range (figure has %d)", i, len(f.Data))
	}
	return f.Data[i], nil
}

// JSON returns the figure as indented JSON.
func (f *Figure) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal figure: %w", err)
	}
	return b, nil
}

// Bool returns a pointer to b, for optional layout flags.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
