package heatmap

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/chartloom-cli/internal/figure"
)

func hoverLine(theme figure.Theme, label, value string) string {
	return fmt.Sprintf("<span style='font-family:%s'><b>%s:</b></span> <span style='font-family:%s'>%s</span>",
		theme.AccentFontFamily, label, theme.FontFamily, value)
}

// HeatmapHoverTemplate labels neighborhood, year and trees; labels use the
// accent font in bold, values the body font.
func HeatmapHoverTemplate(theme figure.Theme) string {
	return strings.Join([]string{
		hoverLine(theme, "Neighborhood", "%{y}"),
		hoverLine(theme, "Year", "%{x}"),
		hoverLine(theme, "Trees", "%{z}"),
	}, "<br>") + "<extra></extra>"
}

// LineHoverTemplate labels date and trees.
func LineHoverTemplate(theme figure.Theme) string {
	return strings.Join([]string{
		hoverLine(theme, "Date", "%{x}"),
		hoverLine(theme, "Trees", "%{y}"),
	}, "<br>") + "<extra></extra>"
}
