// Package bubble builds the animated GDP-versus-CO2 bubble chart, one
// frame per year.
package bubble

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
)

// Column names of the emissions dataset.
const (
	CountryField    = "Country Name"
	YearField       = "Year"
	GDPField        = "GDP"
	CO2Field        = "CO2"
	PopulationField = "Population"
	ContinentField  = "Continent"
)

// Point is one country in one year.
type Point struct {
	Country    string
	Continent  string
	Year       int
	GDP        float64
	CO2        float64
	Population float64
}

// Prepare reads every row of t as a Point. Numeric columns must parse.
func Prepare(t *dataset.Table) ([]Point, error) {
	if err := t.Require(CountryField, YearField, GDPField, CO2Field, PopulationField, ContinentField); err != nil {
		return nil, err
	}
	points := make([]Point, 0, t.Len())
	for i, rec := range t.Rows {
		p := Point{
			Country:   strings.TrimSpace(rec[CountryField]),
			Continent: strings.TrimSpace(rec[ContinentField]),
		}
		y, err := strconv.Atoi(strings.TrimSpace(rec[YearField]))
		if err != nil {
			return nil, &analysis.ValueError{Row: i, Field: YearField, Value: rec[YearField]}
		}
		p.Year = y
		for _, f := range []struct {
			name string
			dst  *float64
		}{{GDPField, &p.GDP}, {CO2Field, &p.CO2}, {PopulationField, &p.Population}} {
			v, ok := dataset.ParseNumber(rec[f.name])
			if !ok {
				return nil, &analysis.ValueError{Row: i, Field: f.name, Value: rec[f.name]}
			}
			*f.dst = v
		}
		points = append(points, p)
	}
	return points, nil
}

// Range is an axis range in data units.
type Range struct {
	Min float64
	Max float64
}

// Log10 converts r to the log-axis units Plotly expects.
func (r Range) Log10() []float64 { return []float64{math.Log10(r.Min), math.Log10(r.Max)} }

// ErrNoPositive is returned when a log axis has no positive value to show.
var ErrNoPositive = errors.New("no positive values for a log axis")

// rangePad widens each log range by this fraction of a decade on both ends.
const rangePad = 0.1

// Ranges computes padded GDP and CO2 ranges over every year so the axes
// stay fixed during the animation. Non-positive values are ignored.
func Ranges(points []Point) (gdp, co2 Range, err error) {
	if gdp, err = logRange(points, func(p Point) float64 { return p.GDP }); err != nil {
		return gdp, co2, fmt.Errorf("gdp range: %w", err)
	}
	if co2, err = logRange(points, func(p Point) float64 { return p.CO2 }); err != nil {
		return gdp, co2, fmt.Errorf("co2 range: %w", err)
	}
	return gdp, co2, nil
}

func logRange(points []Point, val func(Point) float64) (Range, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		v := val(p)
		if v <= 0 {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return Range{}, ErrNoPositive
	}
	f := math.Pow(10, rangePad)
	return Range{Min: lo / f, Max: hi * f}, nil
}

func years(points []Point) []int {
	seen := map[int]bool{}
	var out []int
	for _, p := range points {
		if !seen[p.Year] {
			seen[p.Year] = true
			out = append(out, p.Year)
		}
	}
	sort.Ints(out)
	return out
}

func continents(points []Point) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range points {
		if !seen[p.Continent] {
			seen[p.Continent] = true
			out = append(out, p.Continent)
		}
	}
	sort.Strings(out)
	return out
}
