package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/chartloom-cli/internal/bubble"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

func TestWritePNGBubbleWithZeroValues(t *testing.T) {
	tbl := dataset.NewTable(
		[]string{bubble.CountryField, bubble.YearField, bubble.GDPField, bubble.CO2Field, bubble.PopulationField, bubble.ContinentField},
		[][]string{
			{"Canada", "2015", "43000", "15.1", "35000000", "North America"},
			{"Nauru", "2015", "0", "3.2", "11000", "Oceania"},
			{"Tuvalu", "2015", "3500", "0", "11000", "Oceania"},
		})
	fig, err := bubble.Build(tbl, figure.DefaultTheme())
	require.NoError(t, err)

	var got []byte
	require.NotPanics(t, func() {
		got, err = Bytes(fig, PNG)
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(got, []byte("\x89PNG")), "png signature")
}

func TestWritePNGLogAxisWithoutPositiveValues(t *testing.T) {
	fig := scatterFigure()
	fig.Data = fig.Data[:1]
	fig.Data[0].X = []any{0.0, -5.0}

	var err error
	require.NotPanics(t, func() {
		_, err = Bytes(fig, PNG)
	})
	assert.NoError(t, err)
}
