package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/hivetox-cli/internal/dataset"
	"github.com/spf13/cobra"
)

var periodsQuiet bool

var periodsCmd = &cobra.Command{
	Use:   "periods <HM|Pesticides>",
	Short: "Load one measurement category across all years and report rows and duplicates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
		l := dataset.NewLoader(c, logger)
		if !periodsQuiet {
			l.OnFile = func(done, total int, path string) {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", done, total, filepath.Base(path))
			}
		}
		t, err := l.Periods(args[0])
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "✓ %s: %d rows from %d files, %d sites, %d substances\n",
			t.Category, len(t.Rows), len(t.Files), len(t.Sites()), len(t.Substances))
		perFile := map[string]int{}
		for _, o := range t.Rows {
			perFile[o.Source]++
		}
		if !periodsQuiet {
			for _, f := range t.Files {
				src := filepath.ToSlash(f)
				if rel, err := filepath.Rel(c.DataDir, f); err == nil {
					src = filepath.ToSlash(rel)
				}
				fmt.Fprintf(out, "  %s: %d rows\n", src, perFile[src])
			}
		}
		if n := len(t.Skipped); n > 0 {
			fmt.Fprintf(out, "  %d non-numeric level cells read as not measured (use --debug to list them)\n", n)
		}
		for _, d := range t.Duplicates() {
			fmt.Fprintf(errOut, "⚠ duplicate site %s period %s in %s\n", d.Site, d.Period, strings.Join(d.Sources, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(periodsCmd)
	periodsCmd.Flags().BoolVar(&periodsQuiet, "quiet", false, "suppress progress and per-file counts")
}
