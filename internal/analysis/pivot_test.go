package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPivotZeroFillsAndSumsMatch(t *testing.T) {
	tbl := table([]string{"Arrond_Nom", "Year"},
		[]string{"Verdun", "2016"}, []string{"Verdun", "2016"},
		[]string{"Anjou", "2015"}, []string{"Anjou", "2016"})
	agg, err := GroupCount(tbl, "Arrond_Nom", "Year")
	require.NoError(t, err)

	g, err := Pivot(agg, "Arrond_Nom", "Year", MeasureCount)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anjou", "Verdun"}, g.Rows)
	assert.Equal(t, []string{"2015", "2016"}, g.Cols)
	assert.Equal(t, [][]int{{1, 1}, {0, 2}}, g.Cells)
	assert.Equal(t, agg.TotalCount(), g.Total())

	v, ok := g.At("Verdun", "2015")
	assert.True(t, ok)
	assert.Zero(t, v)
	_, ok = g.At("Outremont", "2015")
	assert.False(t, ok)
}

func TestPivotRejectsBadShapes(t *testing.T) {
	agg, err := GroupCount(table([]string{"A", "B", "C"}, []string{"1", "2", "3"}), "A", "B", "C")
	require.NoError(t, err)
	_, err = Pivot(agg, "A", "B", MeasureCount)
	assert.Error(t, err)

	agg2, err := GroupCount(table([]string{"A", "B"}, []string{"1", "2"}), "A", "B")
	require.NoError(t, err)
	_, err = Pivot(agg2, "A", "Z", MeasureCount)
	assert.Error(t, err)
	_, err = Pivot(agg2, "A", "A", MeasureCount)
	assert.Error(t, err)
}

func TestPivotFractional(t *testing.T) {
	agg, err := GroupSum(table([]string{"A", "B", "V"}, []string{"x", "y", "1.5"}), "V", "A", "B")
	require.NoError(t, err)
	_, err = Pivot(agg, "A", "B", MeasureSum)
	assert.ErrorIs(t, err, ErrFractional)
}

func TestPivotDuplicateCell(t *testing.T) {
	agg := &Aggregate{Fields: []string{"Act", "Player"}, Rows: []Row{
		{Keys: []string{"1", "OTHER"}, Count: 3},
		{Keys: []string{"1", "OTHER"}, Count: 2},
	}}
	_, err := Pivot(agg, "Act", "Player", MeasureCount)
	assert.ErrorIs(t, err, ErrDuplicateCell)
}

func TestParseMeasure(t *testing.T) {
	m, err := ParseMeasure("percent")
	require.NoError(t, err)
	assert.Equal(t, MeasurePercent, m)
	_, err = ParseMeasure("median")
	assert.Error(t, err)
}
