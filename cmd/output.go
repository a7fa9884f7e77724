package cmd

import (
	"fmt"

	"github.com/KaramelBytes/chartloom-cli/internal/dataset"
	"github.com/KaramelBytes/chartloom-cli/internal/figure"
	"github.com/KaramelBytes/chartloom-cli/internal/render"
	"github.com/KaramelBytes/chartloom-cli/internal/utils"
	"github.com/spf13/cobra"
)

// outputFlags are shared by every command that produces a figure.
type outputFlags struct {
	path   string
	format string
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.path, "output", "o", "", "write the figure to this file (default: JSON on stdout)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: json|html|png|svg (default: from --output extension, then config)")
}

// resolve picks the output format: explicit flag, then the output file
// extension, then the configured default.
func (o *outputFlags) resolve() (render.Format, error) {
	if o.format != "" {
		return render.ParseFormat(o.format)
	}
	def := render.JSON
	if c, err := config(); err == nil && c.OutputFormat != "" {
		f, err := render.ParseFormat(c.OutputFormat)
		if err != nil {
			return "", err
		}
		def = f
	}
	if o.path == "" {
		return render.JSON, nil
	}
	return render.FormatFor(o.path, def), nil
}

// write renders fig and writes it to --output, or prints the JSON spec.
func (o *outputFlags) write(cmd *cobra.Command, fig *figure.Figure) error {
	f, err := o.resolve()
	if err != nil {
		return err
	}
	if o.path == "" && f != render.JSON {
		return fmt.Errorf("--format %s needs --output", f)
	}
	b, err := render.Bytes(fig, f)
	if err != nil {
		return fmt.Errorf("render %s: %w", f, err)
	}
	if o.path == "" {
		_, err := cmd.OutOrStdout().Write(b)
		return err
	}
	if err := utils.SafeWriteFile(o.path, b); err != nil {
		return err
	}
	logger.Debug("figure written", "path", o.path, "format", f, "bytes", len(b), "traces", len(fig.Data))
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s figure to %s\n", f, o.path)
	return nil
}

// loadFlags configure dataset reading.
type loadFlags struct {
	delimiter string
	sheet     string
	maxRows   int
}

func (l *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&l.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default: by extension)")
	cmd.Flags().StringVar(&l.sheet, "sheet", "", "XLSX: sheet name (default: first sheet)")
	cmd.Flags().IntVar(&l.maxRows, "max-rows", 0, "maximum rows to read (0 = unlimited)")
}

func (l *loadFlags) options() (dataset.Options, error) {
	opt := dataset.Options{Sheet: l.sheet, MaxRows: l.maxRows}
	switch l.delimiter {
	case "":
	case ",":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", l.delimiter)
	}
	return opt, nil
}

func (l *loadFlags) load(path string) (*dataset.Table, error) {
	opt, err := l.options()
	if err != nil {
		return nil, err
	}
	t, err := dataset.Load(path, opt)
	if err != nil {
		return nil, err
	}
	logger.Debug("dataset loaded", "path", path, "rows", t.Len(), "columns", len(t.Columns))
	return t, nil
}
