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
	"github.com/enserv-geo/survey-cli/internal/model"
)

var gapsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Survey-wide gap statistics",
	Long:  "Scans every line in the store for significant gaps and summarizes them by severity.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		csvPath, _ := cmd.Flags().GetString("csv")

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		lines, err := st.Lines(ctx)
		if err != nil {
			return eris.Wrap(err, "gaps report")
		}
		if len(lines) == 0 {
			fmt.Fprintln(os.Stderr, "No source points in store.")
			return nil
		}

		withGaps, err := gaps.AnalyzeLines(ctx, st, lines, gaps.StatisticsMinGapSize)
		if err != nil {
			return eris.Wrap(err, "gaps report")
		}
		stats := gaps.Statistics(withGaps)

		fmt.Printf("Surveyed lines:       %d\n", len(lines))
		fmt.Printf("Lines with gaps:      %d (gaps of %d+ shotpoints)\n",
			stats.TotalLinesWithGaps, gaps.StatisticsMinGapSize)
		fmt.Printf("Total gaps:           %d\n", stats.TotalGaps)
		fmt.Printf("Total missing points: %d\n", stats.TotalGapPoints)

		for _, sev := range []model.Severity{
			model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow,
		} {
			affected := stats.LinesBySeverity[sev]
			if len(affected) == 0 {
				continue
			}
			fmt.Printf("\n%s (%d lines):", sev, len(affected))
			for _, line := range affected {
				fmt.Printf(" %d", line)
			}
			fmt.Println()
		}

		if csvPath != "" {
			f, err := os.Create(csvPath)
			if err != nil {
				return eris.Wrapf(err, "gaps report: create %s", csvPath)
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
	gapsReportCmd.Flags().String("csv", "", "also write all gaps to this CSV file")
	gapsCmd.AddCommand(gapsReportCmd)
}
