package analysis

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// CompareNatural orders two labels numerically when both parse as finite
// numbers and lexically otherwise. Numbers sort before text.
func CompareNatural(a, b string) int {
	fa, okA := finite(a)
	fb, okB := finite(b)
	switch {
	case okA && okB:
		if fa < fb {
			return -1
		}
		if fa > fb {
			return 1
		}
		return 0
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(a, b)
}

// finite parses s as a number; "NaN" and "Inf" count as text.
func finite(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// SortNatural sorts labels in place with CompareNatural.
func SortNatural(labels []string) {
	sort.SliceStable(labels, func(i, j int) bool { return CompareNatural(labels[i], labels[j]) < 0 })
}
