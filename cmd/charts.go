package cmd

import (
	"fmt"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/bars"
	"github.com/KaramelBytes/chartloom-cli/internal/bubble"
	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
	"github.com/KaramelBytes/chartloom-cli/internal/heatmap"
	"github.com/KaramelBytes/chartloom-cli/internal/streetmap"
	"github.com/spf13/cobra"
)

var (
	barsOut  outputFlags
	barsLoad loadFlags
	barsMode string
	barsTopN int
)

var barsCmd = &cobra.Command{
	Use:   "bars <lines.csv>",
	Short: "Stacked bar chart of lines per act for the top players",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := bars.ParseMode(barsMode)
		if err != nil {
			return err
		}
		c, err := config()
		if err != nil {
			return err
		}
		topN := c.TopN
		if cmd.Flags().Changed("top-n") {
			topN = barsTopN
		}
		t, err := barsLoad.load(args[0])
		if err != nil {
			return err
		}
		fig, err := bars.Build(t, c.Theme, mode, topN)
		if err != nil {
			return err
		}
		return barsOut.write(cmd, fig)
	},
}

var (
	heatOut    outputFlags
	heatLoad   loadFlags
	heatStart  int
	heatEnd    int
	heatStrict bool
)

var heatmapCmd = &cobra.Command{
	Use:   "heatmap <trees.csv>",
	Short: "Heatmap of trees planted per neighborhood and year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, years, opt, err := loadTrees(cmd, args[0], &heatLoad, heatStart, heatEnd, heatStrict)
		if err != nil {
			return err
		}
		_, grid, st, err := heatmap.Prepare(t, years, opt)
		if err != nil {
			return err
		}
		reportFilter(st)
		c, err := config()
		if err != nil {
			return err
		}
		fig, err := heatmap.Figure(grid, c.Theme)
		if err != nil {
			return err
		}
		return heatOut.write(cmd, fig)
	},
}

// loadTrees reads the plantings table and resolves the year window and
// date policy from flags over config.
func loadTrees(cmd *cobra.Command, path string, lf *loadFlags, start, end int, strict bool) (*dataset.Table, analysis.YearRange, analysis.FilterOptions, error) {
	c, err := config()
	if err != nil {
		return nil, analysis.YearRange{}, analysis.FilterOptions{}, err
	}
	years := c.Years()
	if cmd.Flags().Changed("start") {
		years.Start = start
	}
	if cmd.Flags().Changed("end") {
		years.End = end
	}
	if err := years.Validate(); err != nil {
		return nil, years, analysis.FilterOptions{}, err
	}
	opt := analysis.FilterOptions{Strict: c.StrictDates}
	if cmd.Flags().Changed("strict-dates") {
		opt.Strict = strict
	}
	t, err := lf.load(path)
	if err != nil {
		return nil, years, opt, err
	}
	return t, years, opt, nil
}

func reportFilter(st analysis.FilterStats) {
	logger.Debug("year filter", "kept", st.Kept, "out_of_range", st.OutOfRange, "unparsable", st.Unparsable)
	if st.Unparsable > 0 {
		logger.Warn("excluded rows with unparsable dates", "rows", st.Unparsable, "field", heatmap.DateField)
	}
}

func registerTreeFlags(cmd *cobra.Command, start, end *int, strict *bool) {
	cmd.Flags().IntVar(start, "start", 0, "first year to include (default from config)")
	cmd.Flags().IntVar(end, "end", 0, "last year to include (default from config)")
	cmd.Flags().BoolVar(strict, "strict-dates", false, "fail on unparsable dates instead of excluding them")
}

var (
	bubbleOut  outputFlags
	bubbleLoad loadFlags
)

var bubbleCmd = &cobra.Command{
	Use:   "bubble <countries.csv>",
	Short: "Animated bubble chart of GDP vs CO2 emissions per year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		th, err := theme()
		if err != nil {
			return err
		}
		t, err := bubbleLoad.load(args[0])
		if err != nil {
			return err
		}
		fig, err := bubble.Build(t, th)
		if err != nil {
			return err
		}
		logger.Debug("bubble chart built", "frames", len(fig.Frames))
		return bubbleOut.write(cmd, fig)
	},
}

var streetOut outputFlags

var streetmapCmd = &cobra.Command{
	Use:   "streetmap <neighborhoods.geojson> <streets.geojson>",
	Short: "Map of pedestrian street projects over the neighborhoods",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fig, err := buildStreetmap(args[0], args[1])
		if err != nil {
			return err
		}
		return streetOut.write(cmd, fig)
	},
}

func buildStreetmap(neighborhoodsPath, streetsPath string) (*figure.Figure, error) {
	c, err := config()
	if err != nil {
		return nil, err
	}
	base, err := dataset.LoadGeoJSON(neighborhoodsPath)
	if err != nil {
		return nil, fmt.Errorf("neighborhoods: %w", err)
	}
	streets, err := dataset.LoadGeoJSON(streetsPath)
	if err != nil {
		return nil, fmt.Errorf("streets: %w", err)
	}
	return streetmap.Build(base, streets, c.View(), c.Theme)
}

func init() {
	rootCmd.AddCommand(barsCmd, heatmapCmd, bubbleCmd, streetmapCmd)

	barsOut.register(barsCmd)
	barsLoad.register(barsCmd)
	barsCmd.Flags().StringVarP(&barsMode, "mode", "m", string(bars.ModeCount), "bar values: Count | Percent")
	barsCmd.Flags().IntVar(&barsTopN, "top-n", bars.DefaultTopN, "players kept per act before grouping the rest as OTHER (default from config)")

	heatOut.register(heatmapCmd)
	heatLoad.register(heatmapCmd)
	registerTreeFlags(heatmapCmd, &heatStart, &heatEnd, &heatStrict)

	bubbleOut.register(bubbleCmd)
	bubbleLoad.register(bubbleCmd)

	streetOut.register(streetmapCmd)
}
