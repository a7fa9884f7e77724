package bars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

func script(t *testing.T, lines map[[2]string]int) *dataset.Table {
	t.Helper()
	var rows [][]string
	for k, n := range lines {
		for i := 0; i < n; i++ {
			rows = append(rows, []string{k[0], k[1], "..."})
		}
	}
	return dataset.NewTable([]string{"Act", "Player", "PlayerLine"}, rows)
}

func TestSummarizeLinesPercent(t *testing.T) {
	tbl := script(t, map[[2]string]int{{"1", "A"}: 2, {"1", "B"}: 1})
	agg, err := SummarizeLines(tbl)
	require.NoError(t, err)
	require.Len(t, agg.Rows, 2)
	assert.Equal(t, 2, agg.Rows[0].Count)
	assert.InDelta(t, 66.67, agg.Rows[0].Percent, 0.01)
	assert.InDelta(t, 33.33, agg.Rows[1].Percent, 0.01)
}

func TestSummarizeLinesMissingColumn(t *testing.T) {
	tbl := dataset.NewTable([]string{"Act"}, [][]string{{"1"}})
	_, err := SummarizeLines(tbl)
	assert.ErrorIs(t, err, dataset.ErrMissingField)
}

func TestPreprocessCollapsesAndCleans(t *testing.T) {
	tbl := script(t, map[[2]string]int{
		{"1", "HAMLET"}: 20, {"1", "HORATIO"}: 8, {"1", "MARCELLUS"}: 6, {"1", "BERNARDO"}: 5,
		{"1", "GHOST"}: 4, {"1", "FRANCISCO"}: 2, {"2", "LORD POLONIUS"}: 3, {"2", "HAMLET"}: 9,
	})
	agg, err := Preprocess(tbl, DefaultTopN)
	require.NoError(t, err)
	assert.Equal(t, tbl.Len(), agg.TotalCount())

	players := agg.Distinct(PlayerField)
	assert.Len(t, players, DefaultTopN+1)
	assert.Contains(t, players, "Hamlet")
	assert.Contains(t, players, "Other")
	assert.NotContains(t, players, "Francisco")
	for _, a := range agg.Distinct(ActField) {
		assert.Regexp(t, `^Act \d+$`, a)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("percent")
	require.NoError(t, err)
	assert.Equal(t, ModePercent, m)
	assert.Equal(t, "LinePercent", m.Column())
	assert.Equal(t, "LineCount", ModeCount.Column())

	_, err = ParseMode("ratio")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestHoverTemplate(t *testing.T) {
	got, err := HoverTemplate("Hamlet", ModeCount)
	require.NoError(t, err)
	assert.Equal(t, "<span style='font-family: Grenze Gotisch; font-size: 24px; color: black;'>Hamlet</span><br>%{y} lines<extra></extra>", got)

	got, err = HoverTemplate("Hamlet", ModePercent)
	require.NoError(t, err)
	assert.Contains(t, got, "%{y:.2f}% of lines")

	_, err = HoverTemplate("Hamlet", Mode("Ratio"))
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestBuildFigure(t *testing.T) {
	tbl := script(t, map[[2]string]int{{"1", "B"}: 1, {"1", "A"}: 3, {"2", "A"}: 1})
	fig, err := Build(tbl, figure.DefaultTheme(), ModePercent, DefaultTopN)
	require.NoError(t, err)

	assert.Equal(t, Title, fig.Layout.Title.Text)
	assert.Equal(t, false, fig.Layout.DragMode)
	assert.Equal(t, "relative", fig.Layout.BarMode)
	assert.Equal(t, "Lines (%)", fig.Layout.YAxis.Title.Text)
	require.NotNil(t, fig.Layout.Template)

	require.Len(t, fig.Data, 2)
	a := fig.Data[0]
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, figure.KindBar, a.Type)
	assert.Equal(t, []any{"Act 1", "Act 2"}, a.X)
	assert.InDelta(t, 75.0, a.Y[0], 1e-9)
	assert.InDelta(t, 100.0, a.Y[1], 1e-9)
	hovers, ok := a.HoverTemplate.([]string)
	require.True(t, ok)
	assert.Len(t, hovers, 2)
	assert.Equal(t, "B", fig.Data[1].Name)
}

func TestDrawReplacesTraces(t *testing.T) {
	agg := &analysis.Aggregate{Fields: []string{ActField, PlayerField}, Rows: []analysis.Row{{Keys: []string{"Act 1", "A"}, Count: 2}}}
	fig := figure.New()
	fig.AddTrace(&figure.Trace{Type: figure.KindBar, Name: "stale"})
	require.NoError(t, Draw(fig, agg, ModeCount))
	require.Len(t, fig.Data, 1)
	assert.Equal(t, []any{2}, fig.Data[0].Y)

	assert.ErrorIs(t, Draw(fig, agg, Mode("x")), ErrUnknownMode)
	assert.ErrorIs(t, UpdateYAxis(fig, Mode("x")), ErrUnknownMode)
}
