package streetmap

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

// MarkerSize is the pixel size of project markers.
const MarkerSize = 20

// BaseColor fills every neighborhood of the base layer.
const BaseColor = "#CDD1C4"

// BaseColorscale paints every z value in BaseColor.
var BaseColorscale = []figure.Stop{{At: 0, Color: BaseColor}, {At: 1, Color: BaseColor}}

// View is the initial map viewport.
type View struct {
	Style  string  `mapstructure:"map_style" validate:"required"`
	Lat    float64 `mapstructure:"map_center_lat" validate:"gte=-90,lte=90"`
	Lon    float64 `mapstructure:"map_center_lon" validate:"gte=-180,lte=180"`
	Zoom   float64 `mapstructure:"map_zoom" validate:"gte=0,lte=22"`
	Height int     `mapstructure:"map_height" validate:"gte=0"`
}

// DefaultView frames the island of Montreal.
func DefaultView() View {
	return View{Style: "carto-positron", Lat: 45.569, Lon: -73.69, Zoom: 9.5, Height: 725}
}

// BaseHoverTemplate shows the neighborhood name.
func BaseHoverTemplate() string {
	return `<span style="font-family:Oswald">%{location}</span><extra></extra>`
}

// MarkerHoverTemplate shows the intervention type of a marker trace.
func MarkerHoverTemplate(name string) string {
	return `<span style="font-family:Oswald">` + name + `</span><extra></extra>`
}

// AddChoroTrace adds the neighborhood base layer. z and colorscale are
// expected to paint every location the same colour.
func AddChoroTrace(fig *figure.Figure, base *dataset.FeatureCollection, locations []string, z []float64, colorscale any) error {
	if len(z) != len(locations) {
		return fmt.Errorf("choropleth: %d locations but %d z values", len(locations), len(z))
	}
	if base == nil || len(base.Raw) == 0 {
		return fmt.Errorf("choropleth: empty geojson")
	}
	fig.AddTrace(&figure.Trace{
		Type:          figure.KindChoroplethMapbox,
		GeoJSON:       base.Raw,
		FeatureIDKey:  NameField,
		Locations:     locations,
		ZValues:       z,
		ColorAxis:     "coloraxis",
		Marker:        &figure.Marker{Opacity: figure.Float(0.2)},
		HoverTemplate: BaseHoverTemplate(),
	})
	fig.Layout.ColorAxis = &figure.ColorAxis{ShowScale: figure.Bool(false), Colorscale: colorscale}
	fig.Layout.Margin = &figure.Margin{R: 0, T: 110, L: 0, B: 0}
	return nil
}

// AddScatterTraces adds one marker trace per intervention type of t, in
// alphabetical order. Each point carries [project name, thematic
// objective, implantation mode] as customdata.
func AddScatterTraces(fig *figure.Figure, t *dataset.Table) error {
	if err := t.Require(TypeField, LatField, LonField, ProjectField, ObjectiveField, ModeField); err != nil {
		return err
	}
	var types []string
	groups := map[string][]dataset.Record{}
	for _, rec := range t.Rows {
		k := rec[TypeField]
		if _, ok := groups[k]; !ok {
			types = append(types, k)
		}
		groups[k] = append(groups[k], rec)
	}
	sort.Strings(types)
	for _, name := range types {
		color, err := ColorFor(name)
		if err != nil {
			return err
		}
		tr := &figure.Trace{
			Type:          figure.KindScatterMapbox,
			Name:          name,
			Mode:          "markers",
			Marker:        &figure.Marker{Size: MarkerSize, Color: color},
			HoverTemplate: MarkerHoverTemplate(name),
		}
		for i, rec := range groups[name] {
			lat, ok := dataset.ParseNumber(rec[LatField])
			if !ok {
				return fmt.Errorf("%s row %d: latitude %q is not numeric", name, i+1, rec[LatField])
			}
			lon, ok := dataset.ParseNumber(rec[LonField])
			if !ok {
				return fmt.Errorf("%s row %d: longitude %q is not numeric", name, i+1, rec[LonField])
			}
			tr.Lat = append(tr.Lat, lat)
			tr.Lon = append(tr.Lon, lon)
			tr.CustomData = append(tr.CustomData, []any{rec[ProjectField], rec[ObjectiveField], rec[ModeField]})
		}
		fig.AddTrace(tr)
	}
	return nil
}

// Build assembles the full map: base layer from neighborhoods, markers
// from streets, viewport from view.
func Build(neighborhoods, streets *dataset.FeatureCollection, view View, theme figure.Theme) (*figure.Figure, error) {
	locations, err := Neighborhoods(neighborhoods)
	if err != nil {
		return nil, fmt.Errorf("neighborhoods: %w", err)
	}
	t, err := Prepare(streets)
	if err != nil {
		return nil, fmt.Errorf("streets: %w", err)
	}
	fig := figure.New()
	z := make([]float64, len(locations))
	if err := AddChoroTrace(fig, neighborhoods, locations, z, BaseColorscale); err != nil {
		return nil, err
	}
	if err := AddScatterTraces(fig, t); err != nil {
		return nil, err
	}
	fig.Layout.Mapbox = &figure.Mapbox{Style: view.Style, Center: &figure.LatLon{Lat: view.Lat, Lon: view.Lon}, Zoom: view.Zoom}
	fig.Layout.Height = view.Height
	fig.Layout.Legend = &figure.Legend{ItemSizing: "constant"}
	if err := theme.Apply(fig); err != nil {
		return nil, err
	}
	return fig, nil
}
