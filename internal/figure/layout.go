package figure

// Layout is the figure-wide presentation: titles, axes, menus, map view
// and the inline template.
type Layout struct {
	Title        *Title       `json:"title,omitempty"`
	XAxis        *Axis        `json:"xaxis,omitempty"`
	YAxis        *Axis        `json:"yaxis,omitempty"`
	BarMode      string       `json:"barmode,omitempty"`
	DragMode     any          `json:"dragmode,omitempty"`
	HoverMode    string       `json:"hovermode,omitempty"`
	Font         *Font        `json:"font,omitempty"`
	HoverLabel   *HoverLabel  `json:"hoverlabel,omitempty"`
	PaperBGColor string       `json:"paper_bgcolor,omitempty"`
	PlotBGColor  string       `json:"plot_bgcolor,omitempty"`
	Margin       *Margin      `json:"margin,omitempty"`
	ShowLegend   *bool        `json:"showlegend,omitempty"`
	Legend       *Legend      `json:"legend,omitempty"`
	Annotations  []Annotation `json:"annotations,omitempty"`
	Shapes       []Shape      `json:"shapes,omitempty"`
	UpdateMenus  []UpdateMenu `json:"updatemenus,omitempty"`
	Sliders      []Slider     `json:"sliders,omitempty"`
	Mapbox       *Mapbox      `json:"mapbox,omitempty"`
	ColorAxis    *ColorAxis   `json:"coloraxis,omitempty"`
	Height       int          `json:"height,omitempty"`
	Width        int          `json:"width,omitempty"`
	Template     *Template    `json:"template,omitempty"`
}

// Template is an inline Plotly template: layout defaults plus per-kind
// trace defaults.
type Template struct {
	Layout *Layout             `json:"layout,omitempty"`
	Data   map[string][]*Trace `json:"data,omitempty"`
}

// Title is a chart, axis, legend or colour bar title.
type Title struct {
	Text string   `json:"text"`
	Font *Font    `json:"font,omitempty"`
	X    *float64 `json:"x,omitempty"`
}

// Text returns a title with only text set.
func Text(s string) *Title { return &Title{Text: s} }

// Font is a text style.
type Font struct {
	Family string  `json:"family,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Color  string  `json:"color,omitempty"`
}

// Axis configures a cartesian axis.
type Axis struct {
	Title          *Title    `json:"title,omitempty"`
	Type           string    `json:"type,omitempty"`
	Range          []float64 `json:"range,omitempty"`
	TickFormat     string    `json:"tickformat,omitempty"`
	TickAngle      *int      `json:"tickangle,omitempty"`
	TickMode       string    `json:"tickmode,omitempty"`
	TickVals       []any     `json:"tickvals,omitempty"`
	DTick          any       `json:"dtick,omitempty"`
	Visible        *bool     `json:"visible,omitempty"`
	ShowGrid       *bool     `json:"showgrid,omitempty"`
	GridColor      string    `json:"gridcolor,omitempty"`
	ZeroLine       *bool     `json:"zeroline,omitempty"`
	ShowLine       *bool     `json:"showline,omitempty"`
	LineColor      string    `json:"linecolor,omitempty"`
	Ticks          string    `json:"ticks,omitempty"`
	ShowTickLabels *bool     `json:"showticklabels,omitempty"`
	AutoRange      any       `json:"autorange,omitempty"`
}

// Margin is the plot margin in pixels. Zero values are written.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Legend configures the legend box.
type Legend struct {
	Title       *Title   `json:"title,omitempty"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	TraceOrder  string   `json:"traceorder,omitempty"`
	ItemSizing  string   `json:"itemsizing,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
}

// Annotation is free text placed on the figure.
type Annotation struct {
	Text      string  `json:"text"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ShowArrow bool    `json:"showarrow"`
	Font      *Font   `json:"font,omitempty"`
	Align     string  `json:"align,omitempty"`
}

// Shape is a drawn primitive such as a background rectangle.
type Shape struct {
	Type      string  `json:"type"`
	XRef      string  `json:"xref,omitempty"`
	YRef      string  `json:"yref,omitempty"`
	X0        float64 `json:"x0"`
	X1        float64 `json:"x1"`
	Y0        float64 `json:"y0"`
	Y1        float64 `json:"y1"`
	FillColor string  `json:"fillcolor,omitempty"`
	Line      *Line   `json:"line,omitempty"`
	Layer     string  `json:"layer,omitempty"`
}

// UpdateMenu is a group of buttons (e.g. play controls).
type UpdateMenu struct {
	Type       string   `json:"type,omitempty"`
	Direction  string   `json:"direction,omitempty"`
	ShowActive *bool    `json:"showactive,omitempty"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	XAnchor    string   `json:"xanchor,omitempty"`
	YAnchor    string   `json:"yanchor,omitempty"`
	Pad        *Pad     `json:"pad,omitempty"`
	Buttons    []Button `json:"buttons"`
}

// Button triggers a Plotly method with args.
type Button struct {
	Label   string `json:"label"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
	Visible *bool  `json:"visible,omitempty"`
}

// Pad is padding in pixels.
type Pad struct {
	T int `json:"t,omitempty"`
	R int `json:"r,omitempty"`
	B int `json:"b,omitempty"`
	L int `json:"l,omitempty"`
}

// Slider selects an animation frame.
type Slider struct {
	Active       int           `json:"active"`
	CurrentValue *CurrentValue `json:"currentvalue,omitempty"`
	Pad          *Pad          `json:"pad,omitempty"`
	X            *float64      `json:"x,omitempty"`
	Y            *float64      `json:"y,omitempty"`
	Len          *float64      `json:"len,omitempty"`
	XAnchor      string        `json:"xanchor,omitempty"`
	YAnchor      string        `json:"yanchor,omitempty"`
	Steps        []SliderStep  `json:"steps"`
}

// CurrentValue is the label shown above a slider.
type CurrentValue struct {
	Prefix  string `json:"prefix"`
	Visible *bool  `json:"visible,omitempty"`
}

// SliderStep is one slider position.
type SliderStep struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// Mapbox configures the map view shared by mapbox traces.
type Mapbox struct {
	Style  string  `json:"style,omitempty"`
	Center *LatLon `json:"center,omitempty"`
	Zoom   float64 `json:"zoom,omitempty"`
}

// LatLon is a geographic coordinate.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ColorAxis is a shared colour axis.
type ColorAxis struct {
	ShowScale  *bool `json:"showscale,omitempty"`
	Colorscale any   `json:"colorscale,omitempty"`
}
