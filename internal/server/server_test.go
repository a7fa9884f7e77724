package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
	"github.com/KaramelBytes/chartloom-cli/internal/heatmap"
	"github.com/KaramelBytes/chartloom-cli/internal/streetmap"
)

const neighborhoodsJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"NOM":"Verdun"},"geometry":{"type":"Polygon","coordinates":[[[-73.6,45.4],[-73.5,45.4],[-73.5,45.5],[-73.6,45.4]]]}}
]}`

const streetsJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"TYPE_SITE_INTERVENTION":"1. Noyau villageois","LATITUDE":45.52,"LONGITUDE":-73.61,"NOM_PROJET":"Place du village","OBJECTIF_THEMATIQUE":"Animer\nVerdir","MODE_IMPLANTATION":"Transitoire"}}
]}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	base, err := dataset.ParseGeoJSON([]byte(neighborhoodsJSON))
	require.NoError(t, err)
	streets, err := dataset.ParseGeoJSON([]byte(streetsJSON))
	require.NoError(t, err)
	trees := dataset.NewTable([]string{heatmap.ArrondField, heatmap.DateField}, [][]string{
		{"Verdun", "2016-05-01"},
		{"Verdun", "2016-05-03"},
		{"Anjou", "2017-04-20"},
		{"Anjou", "not a date"},
	})
	s, err := New(Options{
		Theme:         figure.DefaultTheme(),
		View:          streetmap.DefaultView(),
		Years:         analysis.YearRange{Start: 2010, End: 2020},
		Neighborhoods: base,
		Streets:       streets,
		Trees:         trees,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestFigures(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/api/map/figure")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fig figure.Figure
	require.NoError(t, json.Unmarshal(body, &fig))
	require.Len(t, fig.Data, 2)
	assert.Equal(t, figure.KindChoroplethMapbox, fig.Data[0].Type)
	assert.Equal(t, []float64{0}, fig.Data[0].ZValues)

	resp, body = get(t, ts.URL+"/api/heatmap/figure")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fig = figure.Figure{}
	require.NoError(t, json.Unmarshal(body, &fig))
	require.Len(t, fig.Data, 1)
	assert.Equal(t, [][]int{{0, 1}, {2, 0}}, fig.Data[0].Z)
}

func TestMapClick(t *testing.T) {
	ts := newTestServer(t)

	resp, body := post(t, ts.URL+"/api/map/click", `{"event":{"curve":1,"point":0},"state":{}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var got streetmap.DisplayState
	require.NoError(t, json.Unmarshal(body, &got))
	require.NotNil(t, got.Title)
	assert.Equal(t, "Place du village", got.Title.Text)
	assert.Equal(t, figure.Plotly[0], got.Title.Color)
	assert.Equal(t, "Transitoire", *got.Mode)
	assert.Equal(t, []string{"Animer", "Verdir"}, got.Theme.Items)

	resp, body = post(t, ts.URL+"/api/map/click", `{"event":{"curve":0,"point":0},"state":{"mode":"Permanent"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got = streetmap.DisplayState{}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Permanent", *got.Mode)

	resp, body = post(t, ts.URL+"/api/map/click", `{"event":null}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"title":null,"mode":null,"theme":null,"style":null}`, string(body))
}

func TestMapClickErrors(t *testing.T) {
	ts := newTestServer(t)

	resp, body := post(t, ts.URL+"/api/map/click", `{"event":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"error"`)

	resp, body = post(t, ts.URL+"/api/map/click", `{"event":{"curve":-1,"point":0}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "curve")

	resp, _ = post(t, ts.URL+"/api/map/click", `{"event":{"curve":7,"point":0}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHeatmapClick(t *testing.T) {
	ts := newTestServer(t)

	resp, body := post(t, ts.URL+"/api/heatmap/click", `{"cell":{"x":2016,"y":"Verdun"}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var fig figure.Figure
	require.NoError(t, json.Unmarshal(body, &fig))
	assert.Equal(t, "Verdun - 2016", fig.Layout.Title.Text)
	require.Len(t, fig.Data, 1)
	assert.Len(t, fig.Data[0].X, 3)

	resp, body = post(t, ts.URL+"/api/heatmap/click", `{}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fig = figure.Figure{}
	require.NoError(t, json.Unmarshal(body, &fig))
	assert.Empty(t, fig.Data)
	assert.Equal(t, heatmap.EmptyText, fig.Layout.Annotations[0].Text)

	resp, _ = post(t, ts.URL+"/api/heatmap/click", `{"cell":{"y":"Verdun"}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = post(t, ts.URL+"/api/heatmap/click", `{"cell":{"x":"20x6","y":"Verdun"}}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRoutesWithoutData(t *testing.T) {
	s, err := New(Options{Theme: figure.DefaultTheme(), Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)
	ts := httptest.NewServer(s.Routes())
	defer ts.Close()

	resp, body := get(t, ts.URL+"/api/map/figure")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"map data not loaded"}`, string(body))

	resp, _ = post(t, ts.URL+"/api/heatmap/click", `{}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
