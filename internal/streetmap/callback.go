package streetmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// ErrInvalidEvent is returned when a click refers to a trace or point the
// figure does not have.
var ErrInvalidEvent = errors.New("invalid click event")

// ClickEvent identifies a clicked point: Curve is the trace index, Point
// the index within that trace.
type ClickEvent struct {
	Curve int `json:"curve" validate:"gte=0"`
	Point int `json:"point" validate:"gte=0"`
}

// PanelTitle is the project name, coloured like its marker.
type PanelTitle struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// ThemeList is the "Theme:" heading followed by one item per line of the
// project's thematic objective.
type ThemeList struct {
	Heading string   `json:"heading"`
	Items   []string `json:"items"`
}

// PanelStyle is the CSS applied to the info panel once a project is shown.
type PanelStyle struct {
	Border  string `json:"border"`
	Padding string `json:"padding"`
}

// DisplayState is the content of the info panel. A nil field means the
// corresponding element is cleared.
type DisplayState struct {
	Title *PanelTitle `json:"title"`
	Mode  *string     `json:"mode"`
	Theme *ThemeList  `json:"theme"`
	Style *PanelStyle `json:"style"`
}

// HandleClick computes the panel content after a click on fig.
//
//   - no event: everything is cleared;
//   - the base layer (a trace without customdata): state is returned as is;
//   - a marker: title, mode, theme and style describe the clicked project.
func HandleClick(fig *figure.Figure, ev *ClickEvent, state DisplayState) (DisplayState, error) {
	if ev == nil {
		return DisplayState{}, nil
	}
	if ev.Curve < 0 || ev.Curve >= len(fig.Data) {
		return state, fmt.Errorf("%w: curve %d, figure has %d traces", ErrInvalidEvent, ev.Curve, len(fig.Data))
	}
	tr := fig.Data[ev.Curve]
	if len(tr.CustomData) == 0 {
		return state, nil
	}
	if ev.Point < 0 || ev.Point >= len(tr.CustomData) {
		return state, fmt.Errorf("%w: point %d, trace %d has %d points", ErrInvalidEvent, ev.Point, ev.Curve, len(tr.CustomData))
	}
	row := tr.CustomData[ev.Point]
	if len(row) < 3 {
		return state, fmt.Errorf("%w: point %d of trace %d has %d customdata fields, want 3", ErrInvalidEvent, ev.Point, ev.Curve, len(row))
	}

	out := DisplayState{
		Title: &PanelTitle{Text: str(row[0])},
		Style: &PanelStyle{Border: "1px solid black", Padding: "10px"},
	}
	if tr.Marker != nil && tr.Marker.Color != nil {
		out.Title.Color = fmt.Sprint(tr.Marker.Color)
	}
	mode := str(row[2])
	out.Mode = &mode
	if objective := str(row[1]); objective != "" {
		out.Theme = &ThemeList{Heading: "Theme:", Items: strings.Split(objective, "\n")}
	}
	return out, nil
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
