package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

type geoJSONLoader struct{}

func (geoJSONLoader) CanLoad(path string) bool { return hasSuffix(path, ".json", ".geojson") }

func (geoJSONLoader) Load(path string, _ Options) (*Table, error) {
	fc, err := LoadGeoJSON(path)
	if err != nil {
		return nil, err
	}
	return fc.Table, nil
}

// FeatureCollection keeps the raw GeoJSON document next to a flattened
// table with one record per feature.
type FeatureCollection struct {
	Raw   json.RawMessage
	Table *Table
}

// LoadGeoJSON reads a GeoJSON-like file with a top-level "features" array.
func LoadGeoJSON(path string) (*FeatureCollection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	return ParseGeoJSON(b)
}

// ParseGeoJSON flattens each feature into dotted column names
// ("properties.NOM", "geometry.type"). Arrays are kept as compact JSON.
func ParseGeoJSON(b []byte) (*FeatureCollection, error) {
	var doc struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	if doc.Features == nil {
		return nil, &SchemaError{Field: "features"}
	}
	t := &Table{}
	seen := map[string]bool{}
	for i, raw := range doc.Features {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("parse feature %d: %w", i, err)
		}
		rec := Record{}
		var order []string
		flatten("", obj, rec, &order)
		for _, k := range order {
			if !seen[k] {
				seen[k] = true
				t.Columns = append(t.Columns, k)
			}
		}
		t.Rows = append(t.Rows, rec)
	}
	for _, r := range t.Rows {
		for _, c := range t.Columns {
			if _, ok := r[c]; !ok {
				r[c] = ""
			}
		}
	}
	return &FeatureCollection{Raw: json.RawMessage(b), Table: t}, nil
}

func flatten(prefix string, obj map[string]any, rec Record, order *[]string) {
	for _, k := range sortedKeys(obj) {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		switch v := obj[k].(type) {
		case map[string]any:
			flatten(name, v, rec, order)
			continue
		case nil:
			rec[name] = ""
		case string:
			rec[name] = v
		case json.Number:
			rec[name] = v.String()
		case bool:
			if v {
				rec[name] = "true"
			} else {
				rec[name] = "false"
			}
		default:
			b, _ := json.Marshal(v)
			rec[name] = string(b)
		}
		*order = append(*order, name)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
