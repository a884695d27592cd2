package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/enserv-geo/survey-cli/internal/export"
	"github.com/enserv-geo/survey-cli/internal/gaps"
)

var gapsSwathCmd = &cobra.Command{
	Use:   "swath <swath>",
	Short: "Show coverage gaps across all lines of a swath",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var swath int
		if _, err := fmt.Sscanf(args[0], "%d", &swath); err != nil {
			return eris.Errorf("invalid swath number %q", args[0])
		}
		minGapSize, _ := cmd.Flags().GetInt64("min-gap-size")
		if minGapSize == 0 {
			minGapSize = cfg.Gaps.MinGapSize
		}
		csvPath, _ := cmd.Flags().GetString("csv")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		lines, err := st.SwathLines(ctx, swath)
		if err != nil {
			return eris.Wrap(err, "gaps swath")
		}
		if len(lines) == 0 {
			fmt.Fprintf(os.Stderr, "No source points for swath %d.\n", swath)
			return nil
		}

		withGaps, err := gaps.AnalyzeLines(ctx, st, lines, minGapSize)
		if err != nil {
			return eris.Wrap(err, "gaps swath")
		}

		if len(withGaps) == 0 {
			fmt.Printf("Swath %d: no gaps of %d+ shotpoints across %d lines\n",
				swath, minGapSize, len(lines))
			return nil
		}

		fmt.Printf("Swath %d: %d of %d lines have gaps\n", swath, len(withGaps), len(lines))
		for _, lg := range withGaps {
			fmt.Printf("\nLine %d: %d gaps, %d missing shotpoints [%s]\n",
				lg.Line, lg.GapCount, lg.TotalGapPoints, gaps.Classify(lg.TotalGapPoints))
			formatGaps(os.Stdout, lg.Gaps)
		}

		if csvPath != "" {
			f, err := os.Create(csvPath)
			if err != nil {
				return eris.Wrapf(err, "gaps swath: create %s", csvPath)
			}
			defer f.Close() //nolint:errcheck
			if err := export.WriteGapsCSV(f, withGaps); err != nil {
				return err
			}
			fmt.Printf("\nWrote %s\n", csvPath)
		}
		return nil
	},
}

func init() {
	gapsSwathCmd.Flags().Int64("min-gap-size", 0, "minimum gap size to report (default from config)")
	gapsSwathCmd.Flags().String("csv", "", "also write gaps to this CSV file")
	gapsCmd.AddCommand(gapsSwathCmd)
}
