package streetmap

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

// Flattened GeoJSON property columns.
const (
	NameField      = "properties.NOM"
	TypeField      = "properties.TYPE_SITE_INTERVENTION"
	LatField       = "properties.LATITUDE"
	LonField       = "properties.LONGITUDE"
	ProjectField   = "properties.NOM_PROJET"
	ObjectiveField = "properties.OBJECTIF_THEMATIQUE"
	ModeField      = "properties.MODE_IMPLANTATION"
)

// ToTable returns a copy of the flattened feature table of fc.
func ToTable(fc *dataset.FeatureCollection) *dataset.Table {
	if fc == nil || fc.Table == nil {
		return &dataset.Table{}
	}
	return fc.Table.Clone()
}

// UpdateTitles replaces raw intervention labels with display titles. Every
// label is checked before anything is rewritten; the first unknown label
// is reported with its row.
func UpdateTitles(t *dataset.Table) (*dataset.Table, error) {
	if err := t.Require(TypeField); err != nil {
		return nil, err
	}
	for i, rec := range t.Rows {
		if _, err := TitleFor(rec[TypeField]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return t.WithColumn(TypeField, func(rec dataset.Record) string {
		title, _ := TitleFor(rec[TypeField])
		return title
	}), nil
}

// SortByType orders records alphabetically by intervention type, keeping
// the input order within a type.
func SortByType(t *dataset.Table) (*dataset.Table, error) {
	if err := t.Require(TypeField); err != nil {
		return nil, err
	}
	out := t.Clone()
	sort.SliceStable(out.Rows, func(i, j int) bool { return out.Rows[i][TypeField] < out.Rows[j][TypeField] })
	return out, nil
}

// Neighborhoods returns the neighborhood names of the base map features.
func Neighborhoods(fc *dataset.FeatureCollection) ([]string, error) {
	return ToTable(fc).Values(NameField)
}

// Prepare loads street features into a table ready for AddScatterTraces.
func Prepare(streets *dataset.FeatureCollection) (*dataset.Table, error) {
	t, err := UpdateTitles(ToTable(streets))
	if err != nil {
		return nil, err
	}
	return SortByType(t)
}
