package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/chartloom-cli/internal/figure"
	"github.com/spf13/cobra"
)

var renderOut outputFlags

var renderCmd = &cobra.Command{
	Use:   "render <figure.json|->",
	Short: "Render a saved figure spec to HTML, PNG or SVG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			b   []byte
			err error
		)
		if args[0] == "-" {
			b, err = io.ReadAll(cmd.InOrStdin())
		} else {
			b, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("read figure: %w", err)
		}
		var fig figure.Figure
		if err := json.Unmarshal(b, &fig); err != nil {
			return fmt.Errorf("parse figure: %w", err)
		}
		return renderOut.write(cmd, &fig)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderOut.register(renderCmd)
}
