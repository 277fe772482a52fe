package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/hivetox-cli/internal/dataset"
	"github.com/KaramelBytes/hivetox-cli/internal/export"
	"github.com/KaramelBytes/hivetox-cli/internal/frame"
	"github.com/KaramelBytes/hivetox-cli/internal/pipeline"
	"github.com/KaramelBytes/hivetox-cli/internal/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildOutputPath   string
	buildMarkdownPath string
	buildMaxRows      int
	buildMaxCols      int
	buildWithMeasured bool
	buildDescribe     bool
	buildQuiet        bool
	buildChartPath    string
	buildChartDomain  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the features and to_predict tables from the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		maxRows, maxCols := c.MaxRows, c.MaxCols
		if cmd.Flags().Changed("max-rows") {
			maxRows = buildMaxRows
		}
		if cmd.Flags().Changed("max-cols") {
			maxCols = buildMaxCols
		}
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

		env := pipeline.Env{Config: c, Log: logger}
		if !buildQuiet {
			env.Progress = func(cat dataset.Category, done, total int, path string) {
				fmt.Fprintf(out, "[%d/%d] Processing %s/%s...\n", done, total, cat, filepath.Base(path))
			}
		}
		res, err := pipeline.Run(env, pipeline.Options{WithMeasured: buildWithMeasured})
		if err != nil {
			return err
		}
		logger.Debug("run finished", zap.String("run_id", res.RunID.String()))
		for _, w := range res.Warnings {
			fmt.Fprintf(errOut, "⚠ %s\n", w)
		}

		report := renderResult(res, maxRows, maxCols)
		if !buildQuiet {
			fmt.Fprintln(out, report)
		}
		if buildDescribe {
			b, err := utils.PrettyJSON(map[string][]frame.ColumnSummary{
				"features":   res.Features.Describe(),
				"to_predict": res.ToPredict.Describe(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(b))
		}
		if buildMarkdownPath != "" {
			if err := utils.SafeWriteFile(buildMarkdownPath, []byte(report)); err != nil {
				return fmt.Errorf("write markdown: %w", err)
			}
			fmt.Fprintf(out, "✓ Wrote tables to %s\n", buildMarkdownPath)
		}
		if buildOutputPath != "" {
			if err := export.WriteWorkbook(buildOutputPath, res); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote workbook to %s (run %s)\n", buildOutputPath, res.RunID)
		}
		if buildChartPath != "" {
			if err := export.WriteExceedanceChart(buildChartPath, res, buildChartDomain); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote %s chart to %s\n", buildChartDomain, buildChartPath)
		}
		return nil
	},
}

// renderResult prints the column levels of both frames followed by the
// to_predict and features tables.
func renderResult(res *pipeline.Result, maxRows, maxCols int) string {
	var b strings.Builder
	writeLevels(&b, "Features categories", res.Features, 0)
	writeLevels(&b, "To predict categories", res.ToPredict, 0)
	writeLevels(&b, "To predict subcategories", res.ToPredict, 1)
	b.WriteString("\n")
	b.WriteString(res.ToPredict.Markdown(maxRows, maxCols))
	b.WriteString("\n")
	b.WriteString(res.Features.Markdown(maxRows, maxCols))
	return b.String()
}

func writeLevels(w io.Writer, label string, f *frame.Frame, level int) {
	var vals []string
	if level < len(f.Levels) {
		vals = f.LevelValues(level)
	}
	fmt.Fprintf(w, "%s: [%s]\n", label, strings.Join(vals, ", "))
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringVarP(&buildOutputPath, "output", "o", "", "optional .xlsx path to write features, to_predict, legend and run sheets")
	buildCmd.Flags().StringVar(&buildMarkdownPath, "markdown", "", "optional path to write the rendered tables (Markdown)")
	buildCmd.Flags().IntVar(&buildMaxRows, "max-rows", 20, "rows shown per table (0 = all; default from config)")
	buildCmd.Flags().IntVar(&buildMaxCols, "max-cols", 12, "columns shown per table (0 = all; default from config)")
	buildCmd.Flags().BoolVar(&buildWithMeasured, "with-measured", false, "add a measured column telling never-measured zeros apart")
	buildCmd.Flags().BoolVar(&buildDescribe, "describe", false, "print per-column statistics as JSON")
	buildCmd.Flags().BoolVar(&buildQuiet, "quiet", false, "suppress progress and tables")
	buildCmd.Flags().StringVar(&buildChartPath, "chart", "", "optional .png path for a bar chart of sites above LMR")
	buildCmd.Flags().StringVar(&buildChartDomain, "chart-domain", pipeline.DomainPesticide, "to_predict domain charted by --chart")
}
