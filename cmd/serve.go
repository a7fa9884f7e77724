package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveAddr          string
	serveNeighborhoods string
	serveStreets       string
	serveTrees         string
	serveLoad          loadFlags
	serveStart         int
	serveEnd           int
	serveStrict        bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive figures and their click callbacks over HTTP",
	Long: `Serve the streets map (--neighborhoods and --streets) and the trees heatmap
(--trees) with their click callbacks:

  GET  /api/map/figure        POST /api/map/click
  GET  /api/heatmap/figure    POST /api/heatmap/click`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config()
		if err != nil {
			return err
		}
		opt := server.Options{
			Theme:  c.Theme,
			View:   c.View(),
			Logger: logger,
		}
		if (serveNeighborhoods == "") != (serveStreets == "") {
			return fmt.Errorf("--neighborhoods and --streets must be given together")
		}
		if serveNeighborhoods != "" {
			if opt.Neighborhoods, err = dataset.LoadGeoJSON(serveNeighborhoods); err != nil {
				return fmt.Errorf("neighborhoods: %w", err)
			}
			if opt.Streets, err = dataset.LoadGeoJSON(serveStreets); err != nil {
				return fmt.Errorf("streets: %w", err)
			}
		}
		if serveTrees != "" {
			t, years, fo, err := loadTrees(cmd, serveTrees, &serveLoad, serveStart, serveEnd, serveStrict)
			if err != nil {
				return err
			}
			opt.Trees, opt.Years, opt.Dates = t, years, fo
		}
		if opt.Streets == nil && opt.Trees == nil {
			return fmt.Errorf("nothing to serve: pass --neighborhoods/--streets and/or --trees")
		}
		s, err := server.New(opt)
		if err != nil {
			return err
		}
		addr := c.ServerAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving on http://%s (Ctrl+C to stop)\n", addr)
		return s.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config server_addr)")
	serveCmd.Flags().StringVar(&serveNeighborhoods, "neighborhoods", "", "neighborhoods GeoJSON for the streets map")
	serveCmd.Flags().StringVar(&serveStreets, "streets", "", "pedestrian streets GeoJSON for the streets map")
	serveCmd.Flags().StringVar(&serveTrees, "trees", "", "tree plantings dataset for the heatmap")
	serveLoad.register(serveCmd)
	registerTreeFlags(serveCmd, &serveStart, &serveEnd, &serveStrict)
}
