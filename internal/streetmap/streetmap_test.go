package streetmap

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

const neighborhoodsJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"NOM":"Verdun"},"geometry":{"type":"Polygon","coordinates":[[[-73.6,45.4],[-73.5,45.4],[-73.5,45.5],[-73.6,45.4]]]}},
 {"type":"Feature","properties":{"NOM":"Outremont"},"geometry":{"type":"Polygon","coordinates":[[[-73.6,45.5],[-73.5,45.5],[-73.5,45.6],[-73.6,45.5]]]}}
]}`

const streetsJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"TYPE_SITE_INTERVENTION":"7. Passage entre rues résidentielles","LATITUDE":45.46,"LONGITUDE":-73.57,"NOM_PROJET":"Ruelle verte","OBJECTIF_THEMATIQUE":"Verdir\nApaiser","MODE_IMPLANTATION":"Permanent"}},
 {"type":"Feature","properties":{"TYPE_SITE_INTERVENTION":"1. Noyau villageois","LATITUDE":45.52,"LONGITUDE":-73.61,"NOM_PROJET":"Place du village","OBJECTIF_THEMATIQUE":"","MODE_IMPLANTATION":"Transitoire"}},
 {"type":"Feature","properties":{"TYPE_SITE_INTERVENTION":"1. Noyau villageois","LATITUDE":45.53,"LONGITUDE":-73.62,"NOM_PROJET":"Rue Bernard","OBJECTIF_THEMATIQUE":"Animer","MODE_IMPLANTATION":"Saisonnier"}}
]}`

func collections(t *testing.T) (*dataset.FeatureCollection, *dataset.FeatureCollection) {
	t.Helper()
	base, err := dataset.ParseGeoJSON([]byte(neighborhoodsJSON))
	require.NoError(t, err)
	streets, err := dataset.ParseGeoJSON([]byte(streetsJSON))
	require.NoError(t, err)
	return base, streets
}

func TestInterventionMapping(t *testing.T) {
	require.Len(t, Interventions, 7)
	title, err := TitleFor(Interventions[3].Label)
	require.NoError(t, err)
	assert.Equal(t, "Rue bordant un bâtiment public ou institutionnel", title)

	c, err := ColorFor("Noyau villageois")
	require.NoError(t, err)
	assert.Equal(t, figure.Plotly[0], c)
	c, err = ColorFor("Passage entre rues résidentielles")
	require.NoError(t, err)
	assert.Equal(t, figure.Plotly[1], c)

	_, err = TitleFor("8. Autre")
	assert.ErrorIs(t, err, ErrUnknownIntervention)
}

func TestUpdateTitlesFailsFast(t *testing.T) {
	tbl := dataset.NewTable([]string{TypeField}, [][]string{{"1. Noyau villageois"}, {"9. Inconnu"}})
	_, err := UpdateTitles(tbl)
	assert.ErrorIs(t, err, ErrUnknownIntervention)
	assert.Equal(t, "1. Noyau villageois", tbl.Rows[0][TypeField], "input untouched")

	_, err = UpdateTitles(dataset.NewTable([]string{"x"}, nil))
	assert.ErrorIs(t, err, dataset.ErrMissingField)
}

func TestPrepareSortsByType(t *testing.T) {
	_, streets := collections(t)
	tbl, err := Prepare(streets)
	require.NoError(t, err)
	types, err := tbl.Values(TypeField)
	require.NoError(t, err)
	assert.Equal(t, []string{"Noyau villageois", "Noyau villageois", "Passage entre rues résidentielles"}, types)
	names, err := tbl.Values(ProjectField)
	require.NoError(t, err)
	assert.Equal(t, []string{"Place du village", "Rue Bernard", "Ruelle verte"}, names)
}

func TestNeighborhoods(t *testing.T) {
	base, _ := collections(t)
	locs, err := Neighborhoods(base)
	require.NoError(t, err)
	assert.Equal(t, []string{"Verdun", "Outremont"}, locs)
}

func TestBuildMap(t *testing.T) {
	base, streets := collections(t)
	fig, err := Build(base, streets, DefaultView(), figure.DefaultTheme())
	require.NoError(t, err)
	require.Len(t, fig.Data, 3)

	choro := fig.Data[0]
	assert.Equal(t, figure.KindChoroplethMapbox, choro.Type)
	assert.Equal(t, NameField, choro.FeatureIDKey)
	assert.Equal(t, 0.2, *choro.Marker.Opacity)
	assert.Equal(t, BaseHoverTemplate(), choro.HoverTemplate)
	assert.False(t, *fig.Layout.ColorAxis.ShowScale)
	assert.Equal(t, &figure.Margin{R: 0, T: 110, L: 0, B: 0}, fig.Layout.Margin)

	noyau := fig.Data[1]
	assert.Equal(t, "Noyau villageois", noyau.Name)
	assert.Equal(t, MarkerSize, noyau.Marker.Size)
	assert.Equal(t, figure.Plotly[0], noyau.Marker.Color)
	assert.Equal(t, []float64{45.52, 45.53}, noyau.Lat)
	assert.Equal(t, []any{"Rue Bernard", "Animer", "Saisonnier"}, noyau.CustomData[1])
	assert.Equal(t, `<span style="font-family:Oswald">Noyau villageois</span><extra></extra>`, noyau.HoverTemplate)

	b, err := fig.JSON()
	require.NoError(t, err)
	var doc struct {
		Data []struct {
			GeoJSON json.RawMessage `json:"geojson"`
			Z       []float64       `json:"z"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	assert.NotEmpty(t, doc.Data[0].GeoJSON)
	assert.Equal(t, []float64{0, 0}, doc.Data[0].Z)
}

func TestHandleClick(t *testing.T) {
	base, streets := collections(t)
	fig, err := Build(base, streets, DefaultView(), figure.DefaultTheme())
	require.NoError(t, err)

	mode := "Permanent"
	current := DisplayState{Title: &PanelTitle{Text: "old"}, Mode: &mode}

	got, err := HandleClick(fig, nil, current)
	require.NoError(t, err)
	assert.Equal(t, DisplayState{}, got)

	got, err = HandleClick(fig, &ClickEvent{Curve: 0, Point: 1}, current)
	require.NoError(t, err)
	assert.Equal(t, current, got, "base map click keeps state")

	got, err = HandleClick(fig, &ClickEvent{Curve: 2, Point: 0}, current)
	require.NoError(t, err)
	assert.Equal(t, &PanelTitle{Text: "Ruelle verte", Color: figure.Plotly[1]}, got.Title)
	assert.Equal(t, "Permanent", *got.Mode)
	assert.Equal(t, &ThemeList{Heading: "Theme:", Items: []string{"Verdir", "Apaiser"}}, got.Theme)
	assert.Equal(t, &PanelStyle{Border: "1px solid black", Padding: "10px"}, got.Style)

	got, err = HandleClick(fig, &ClickEvent{Curve: 1, Point: 0}, current)
	require.NoError(t, err)
	assert.Nil(t, got.Theme, "empty objective clears the theme")
	assert.Equal(t, "Transitoire", *got.Mode)
}

func TestHandleClickInvalid(t *testing.T) {
	base, streets := collections(t)
	fig, err := Build(base, streets, DefaultView(), figure.DefaultTheme())
	require.NoError(t, err)

	_, err = HandleClick(fig, &ClickEvent{Curve: 9}, DisplayState{})
	assert.ErrorIs(t, err, ErrInvalidEvent)
	_, err = HandleClick(fig, &ClickEvent{Curve: 1, Point: 5}, DisplayState{})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}
