package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/chartloom-cli/internal/analysis"
	"github.com/KaramelBytes/chartloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	insLoad       loadFlags
	insOutputDir  string
	insSampleRows int
	insTopValues  int
	insGroupBy    []string
	insTopN       int
	insQuiet      bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <files...>",
	Short: "Profile CSV/TSV/XLSX/GeoJSON datasets as Markdown summaries",
	Long: `Profile one or more datasets (globs allowed): inferred column types, numeric
statistics, date spans, top categorical values and sample rows. With --group-by
the rows are also counted per group, and pivoted when two columns are given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.ExpandInputs(args)
		if err != nil {
			return err
		}
		opt := analysis.DefaultOptions()
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = insSampleRows
		}
		if insTopValues > 0 {
			opt.TopValues = insTopValues
		}
		opt.GroupBy = insGroupBy
		opt.TopN = insTopN

		out := cmd.OutOrStdout()
		total := len(files)
		for i, path := range files {
			if !insQuiet && total > 1 {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			t, err := insLoad.load(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			rep, err := analysis.Profile(filepath.Base(path), t, opt)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			md := rep.Markdown()
			if insOutputDir == "" {
				fmt.Fprintln(out, md)
				continue
			}
			outFile := utils.UniquePath(insOutputDir, utils.Stem(path), ".summary.md")
			if err := utils.SafeWriteFile(outFile, []byte(md)); err != nil {
				return err
			}
			if !insQuiet {
				fmt.Fprintf(out, "✓ Wrote summary to %s\n", outFile)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	insLoad.register(inspectCmd)
	inspectCmd.Flags().StringVar(&insOutputDir, "output-dir", "", "write <name>.summary.md files here instead of stdout")
	inspectCmd.Flags().IntVar(&insSampleRows, "sample-rows", 5, "number of sample rows to include")
	inspectCmd.Flags().IntVar(&insTopValues, "top-values", 5, "categorical values listed per column")
	inspectCmd.Flags().StringSliceVar(&insGroupBy, "group-by", nil, "comma-separated column names to group by (repeatable)")
	inspectCmd.Flags().IntVar(&insTopN, "top-n", 0, "keep only the n largest groups of the first --group-by column (0 = all)")
	inspectCmd.Flags().BoolVarP(&insQuiet, "quiet", "q", false, "suppress progress output")
}
