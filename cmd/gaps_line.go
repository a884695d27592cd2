package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/enserv-geo/survey-cli/internal/gaps"
	"github.com/enserv-geo/survey-cli/internal/model"
)

var gapsLineCmd = &cobra.Command{
	Use:   "line <line>",
	Short: "Show coverage gaps on a single line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		line, err := parseLineArg(args[0])
		if err != nil {
			return err
		}
		minGapSize, _ := cmd.Flags().GetInt64("min-gap-size")
		if minGapSize == 0 {
			minGapSize = cfg.Gaps.MinGapSize
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		coverage, err := st.LineCoverage(ctx, line)
		if err != nil {
			return eris.Wrap(err, "gaps line")
		}
		if len(coverage) == 0 {
			fmt.Fprintf(os.Stderr, "No source points for line %d.\n", line)
			return nil
		}

		found, err := gaps.Detect(line, coverage, minGapSize)
		if err != nil {
			return eris.Wrap(err, "gaps line")
		}

		if len(found) == 0 {
			fmt.Printf("Line %d: no gaps of %d+ shotpoints (%d source points)\n",
				line, minGapSize, len(coverage))
			return nil
		}

		var total int64
		for _, g := range found {
			total += g.Size
		}
		fmt.Printf("Line %d: %d gaps, %d missing shotpoints (%d source points)\n",
			line, len(found), total, len(coverage))
		formatGaps(os.Stdout, found)
		return nil
	},
}

func parseLineArg(s string) (int64, error) {
	var line int64
	if _, err := fmt.Sscanf(s, "%d", &line); err != nil {
		return 0, eris.Errorf("invalid line number %q", s)
	}
	return line, nil
}

func formatGaps(w io.Writer, found []model.Gap) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tSIZE")
	for _, g := range found {
		fmt.Fprintf(tw, "%d\t%d\t%d\n", g.StartShotpoint, g.EndShotpoint, g.Size)
	}
	_ = tw.Flush()
}

func init() {
	gapsLineCmd.Flags().Int64("min-gap-size", 0, "minimum gap size to report (default from config)")
	gapsCmd.AddCommand(gapsLineCmd)
}
