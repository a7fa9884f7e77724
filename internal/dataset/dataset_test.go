package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSV(t *testing.T) {
	p := write(t, "lines.csv", "\ufeffAct, Player,PlayerLine\n1,HAMLET,\"To be, or not\"\n2,OPHELIA\n")
	tbl, err := Load(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Act", "Player", "PlayerLine"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "To be, or not", tbl.Rows[0]["PlayerLine"])
	assert.Equal(t, "", tbl.Rows[1]["PlayerLine"], "short rows are padded")
}

func TestLoadTSVAndDelimiter(t *testing.T) {
	p := write(t, "trees.tsv", "Arrond_Nom\tDate_Plantation\nVerdun\t2016-05-01\n")
	tbl, err := Load(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, "2016-05-01", tbl.Rows[0]["Date_Plantation"])

	p = write(t, "semi.csv", "a;b\n1;2\n3;4\n5;6\n")
	tbl, err = Load(p, Options{Delimiter: ';', MaxRows: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, "3", tbl.Rows[1]["a"])
}

func TestReadCSVEmpty(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(""), ',', 0)
	require.NoError(t, err)
	assert.Zero(t, tbl.Len())
}

func TestParseGeoJSON(t *testing.T) {
	fc, err := ParseGeoJSON([]byte(`{"type":"FeatureCollection","features":[
	 {"type":"Feature","properties":{"NOM":"Verdun","LATITUDE":45.52,"ACTIF":true},"geometry":{"type":"Point","coordinates":[-73.6,45.5]}},
	 {"type":"Feature","properties":{"NOM":"Anjou","EXTRA":null}}
	]}`))
	require.NoError(t, err)
	tbl := fc.Table
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Verdun", tbl.Rows[0]["properties.NOM"])
	assert.Equal(t, "45.52", tbl.Rows[0]["properties.LATITUDE"])
	assert.Equal(t, "true", tbl.Rows[0]["properties.ACTIF"])
	assert.Equal(t, "[-73.6,45.5]", tbl.Rows[0]["geometry.coordinates"])
	assert.Equal(t, "", tbl.Rows[1]["geometry.type"], "missing columns are filled")
	assert.True(t, tbl.HasColumn("properties.EXTRA"))
	assert.NotEmpty(t, fc.Raw)
}

func TestParseGeoJSONErrors(t *testing.T) {
	_, err := ParseGeoJSON([]byte(`{"type":"FeatureCollection"}`))
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = ParseGeoJSON([]byte(`{"features":`))
	assert.Error(t, err)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Country Name", "Year", "GDP"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Canada", 2000, 742.3}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{"France", 2000, 1362.2}))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Other", "A1", &[]any{"x"}))
	require.NoError(t, f.SetSheetRow("Other", "A2", &[]any{"y"}))
	p := filepath.Join(t.TempDir(), "countries.xlsx")
	require.NoError(t, f.SaveAs(p))

	tbl, err := Load(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Country Name", "Year", "GDP"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "France", tbl.Rows[1]["Country Name"])
	assert.Equal(t, "2000", tbl.Rows[0]["Year"])

	tbl, err = Load(p, Options{Sheet: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "y", tbl.Rows[0]["x"])

	tbl, err = Load(p, Options{MaxRows: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = Load(p, Options{Sheet: "Missing"})
	assert.Error(t, err)
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load("data.parquet", Options{})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestTableRequire(t *testing.T) {
	tbl := NewTable([]string{"b", "a"}, nil)
	err := tbl.Require("a", "c")
	require.ErrorIs(t, err, ErrMissingField)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "c", se.Field)
	assert.Equal(t, []string{"a", "b"}, se.Available)
}

func TestTableReshapeLeavesInputUntouched(t *testing.T) {
	tbl := NewTable([]string{"n"}, [][]string{{"1"}, {"2"}, {"3"}})
	odd := tbl.Filter(func(r Record) bool { return r["n"] != "2" })
	assert.Equal(t, 2, odd.Len())

	doubled := tbl.WithColumn("m", func(r Record) string { return r["n"] + r["n"] })
	assert.Equal(t, []string{"n", "m"}, doubled.Columns)
	assert.Equal(t, "22", doubled.Rows[1]["m"])
	assert.Equal(t, []string{"n"}, tbl.Columns)
	_, ok := tbl.Rows[1]["m"]
	assert.False(t, ok)

	c := tbl.Clone()
	c.Rows[0]["n"] = "x"
	assert.Equal(t, "1", tbl.Rows[0]["n"])
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2016-05-01", "2016/05/01", "2016-05-01 10:30", "2016-05-01T10:30:00Z", " 2016-05-01 "} {
		d, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC), Day(d), s)
	}
	for _, s := range []string{"05/01/2016", "5/1/2016", "5/1/2016 08:15"} {
		d, ok := ParseDate(s)
		require.True(t, ok, s)
		assert.Equal(t, time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC), Day(d), "slash dates are month first: %s", s)
	}
	for _, s := range []string{"", "not a date", "2016-13-45", "25/12/2016"} {
		_, ok := ParseDate(s)
		assert.False(t, ok, s)
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"42":         42,
		"1,234.5":    1234.5,
		"1.234,5":    1234.5,
		"3,5":        3.5,
		"12%":        12,
		"1 000":      1000,
		"1\u00a0000": 1000,
		" -7.25 ":    -7.25,
	}
	for in, want := range cases {
		got, ok := ParseNumber(in)
		require.True(t, ok, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	for _, s := range []string{"", "abc", "%"} {
		_, ok := ParseNumber(s)
		assert.False(t, ok, s)
	}
}
