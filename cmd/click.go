package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/KaramelBytes/chartloom-cli/internal/heatmap"
	"github.com/KaramelBytes/chartloom-cli/internal/streetmap"
	"github.com/KaramelBytes/chartloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Replay a click callback without a browser",
}

var (
	clickCurve int
	clickPoint int
	clickState string
	clickNone  bool
)

var clickMapCmd = &cobra.Command{
	Use:   "map <neighborhoods.geojson> <streets.geojson>",
	Short: "Info panel content after clicking a point of the streets map",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fig, err := buildStreetmap(args[0], args[1])
		if err != nil {
			return err
		}
		var state streetmap.DisplayState
		if clickState != "" {
			b, err := os.ReadFile(clickState)
			if err != nil {
				return fmt.Errorf("read state: %w", err)
			}
			if err := json.Unmarshal(b, &state); err != nil {
				return fmt.Errorf("parse state: %w", err)
			}
		}
		var ev *streetmap.ClickEvent
		if !clickNone {
			ev = &streetmap.ClickEvent{Curve: clickCurve, Point: clickPoint}
		}
		next, err := streetmap.HandleClick(fig, ev, state)
		if err != nil {
			return err
		}
		b, err := utils.PrettyJSON(next)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var (
	clickHeatOut    outputFlags
	clickHeatLoad   loadFlags
	clickHeatStart  int
	clickHeatEnd    int
	clickHeatStrict bool
	clickYear       string
	clickArrond     string
)

var clickHeatmapCmd = &cobra.Command{
	Use:   "heatmap <trees.csv>",
	Short: "Daily line chart for one heatmap cell (--x year, --y neighborhood)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, years, opt, err := loadTrees(cmd, args[0], &clickHeatLoad, clickHeatStart, clickHeatEnd, clickHeatStrict)
		if err != nil {
			return err
		}
		filtered, _, st, err := heatmap.Prepare(t, years, opt)
		if err != nil {
			return err
		}
		reportFilter(st)
		th, err := theme()
		if err != nil {
			return err
		}
		var click *heatmap.CellClick
		if clickYear != "" || clickArrond != "" {
			if clickYear == "" || clickArrond == "" {
				return fmt.Errorf("--x and --y must be given together")
			}
			click = &heatmap.CellClick{X: json.Number(clickYear), Y: clickArrond}
		}
		fig, err := heatmap.HandleClick(filtered, click, th)
		if err != nil {
			return err
		}
		return clickHeatOut.write(cmd, fig)
	},
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.AddCommand(clickMapCmd, clickHeatmapCmd)

	clickMapCmd.Flags().IntVar(&clickCurve, "curve", 0, "index of the clicked trace")
	clickMapCmd.Flags().IntVar(&clickPoint, "point", 0, "index of the clicked point within the trace")
	clickMapCmd.Flags().StringVar(&clickState, "state", "", "JSON file with the current panel state")
	clickMapCmd.Flags().BoolVar(&clickNone, "none", false, "simulate a callback without a click event")

	clickHeatOut.register(clickHeatmapCmd)
	clickHeatLoad.register(clickHeatmapCmd)
	registerTreeFlags(clickHeatmapCmd, &clickHeatStart, &clickHeatEnd, &clickHeatStrict)
	clickHeatmapCmd.Flags().StringVar(&clickYear, "x", "", "clicked year")
	clickHeatmapCmd.Flags().StringVar(&clickArrond, "y", "", "clicked neighborhood")
}
