package figure

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Theme is the visual configuration passed explicitly to figure builders.
type Theme struct {
	BackgroundColor      string `mapstructure:"background_color" yaml:"background_color" json:"background_color" validate:"required,hexcolor"`
	FontFamily           string `mapstructure:"font_family" yaml:"font_family" json:"font_family" validate:"required"`
	AccentFontFamily     string `mapstructure:"accent_font_family" yaml:"accent_font_family" json:"accent_font_family" validate:"required"`
	DarkColor            string `mapstructure:"dark_color" yaml:"dark_color" json:"dark_color" validate:"required,hexcolor"`
	PaleColor            string `mapstructure:"pale_color" yaml:"pale_color" json:"pale_color" validate:"required,hexcolor"`
	LineChartColor       string `mapstructure:"line_chart_color" yaml:"line_chart_color" json:"line_chart_color" validate:"required"`
	LabelFontSize        int    `mapstructure:"label_font_size" yaml:"label_font_size" json:"label_font_size" validate:"gte=6,lte=72"`
	LabelBackgroundColor string `mapstructure:"label_background_color" yaml:"label_background_color" json:"label_background_color" validate:"required,hexcolor"`
	Colorscale           string `mapstructure:"colorscale" yaml:"colorscale" json:"colorscale" validate:"required"`
	BaseTemplate         string `mapstructure:"base_template" yaml:"base_template" json:"base_template" validate:"oneof=plotly plotly_white simple_white"`
}

// DefaultTheme returns the stock chartloom look.
func DefaultTheme() Theme {
	return Theme{
		BackgroundColor:      "#ffffff",
		FontFamily:           "Roboto",
		AccentFontFamily:     "Roboto Slab",
		DarkColor:            "#2A2B2E",
		PaleColor:            "#DFD9E2",
		LineChartColor:       "black",
		LabelFontSize:        14,
		LabelBackgroundColor: "#ffffff",
		Colorscale:           "Bluyl",
		BaseTemplate:         "plotly_white",
	}
}

var validate = validator.New()

// Validate checks colours, sizes, and that the colour scale resolves.
func (t Theme) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}
	if _, err := Colorscale(t.Colorscale); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}
	return nil
}

// WithBase returns a copy of t using another base template.
func (t Theme) WithBase(base string) Theme {
	t.BaseTemplate = base
	return t
}

// Template builds the inline template for one rendering call: the base
// template's axis styling overlaid with the theme's fonts, backgrounds,
// hover label and per-kind trace defaults.
func (t Theme) Template() (*Template, error) {
	stops, err := Colorscale(t.Colorscale)
	if err != nil {
		return nil, err
	}
	lay := baseLayout(t.BaseTemplate)
	lay.Font = &Font{Family: t.FontFamily, Color: t.DarkColor}
	lay.PaperBGColor = t.BackgroundColor
	lay.PlotBGColor = t.BackgroundColor
	lay.HoverLabel = &HoverLabel{
		BGColor: t.LabelBackgroundColor,
		Font:    &Font{Family: t.FontFamily, Size: float64(t.LabelFontSize), Color: t.DarkColor},
	}
	lay.HoverMode = "closest"
	lay.XAxis.TickAngle = Int(45)
	return &Template{
		Layout: lay,
		Data: map[string][]*Trace{
			KindScatter: {{Type: KindScatter, Line: &Line{Color: t.LineChartColor}}},
			KindHeatmap: {{Type: KindHeatmap, Colorscale: stops}},
		},
	}, nil
}

// Apply installs the theme's template on fig, replacing any previous one.
func (t Theme) Apply(fig *Figure) error {
	tpl, err := t.Template()
	if err != nil {
		return err
	}
	if fig.Layout == nil {
		fig.Layout = &Layout{}
	}
	fig.Layout.Template = tpl
	return nil
}

func baseLayout(name string) *Layout {
	switch name {
	case "simple_white":
		axis := func() *Axis {
			return &Axis{ShowGrid: Bool(false), ShowLine: Bool(true), LineColor: "rgb(36,36,36)", Ticks: "outside", ZeroLine: Bool(false)}
		}
		return &Layout{XAxis: axis(), YAxis: axis()}
	case "plotly_white":
		axis := func() *Axis {
			return &Axis{GridColor: "#EBF0F8", LineColor: "#EBF0F8", ZeroLine: Bool(true)}
		}
		return &Layout{XAxis: axis(), YAxis: axis()}
	default:
		axis := func() *Axis { return &Axis{GridColor: "white", LineColor: "white"} }
		return &Layout{XAxis: axis(), YAxis: axis(), PlotBGColor: "#E5ECF6"}
	}
}
