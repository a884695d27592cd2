package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/enserv-geo/survey-cli/internal/export"
	"github.com/enserv-geo/survey-cli/internal/loader"
	"github.com/enserv-geo/survey-cli/internal/model"
)

var controlPointsCmd = &cobra.Command{
	Use:   "controlpoints",
	Short: "Control point extraction",
	Long:  "Extract matched control points from survey files for transformation fitting.",
}

var controlPointsExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract matched control points to CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s01Path, _ := cmd.Flags().GetString("s01")
		basePath, _ := cmd.Flags().GetString("base")
		outPath, _ := cmd.Flags().GetString("out")
		count, _ := cmd.Flags().GetInt("count")

		matched, err := loadMatchedControlPoints(s01Path, basePath)
		if err != nil {
			return err
		}
		selected := loader.SelectDistributed(matched, resolveControlPointCount(count))

		local, geographic := loader.Extent(selected)
		fmt.Printf("Matched %d control points, selected %d\n", len(matched), len(selected))
		fmt.Printf("  X extent:   %.1f - %.1f\n", local.Min(0), local.Max(0))
		fmt.Printf("  Y extent:   %.1f - %.1f\n", local.Min(1), local.Max(1))
		fmt.Printf("  Lon extent: %.6f - %.6f\n", geographic.Min(0), geographic.Max(0))
		fmt.Printf("  Lat extent: %.6f - %.6f\n", geographic.Min(1), geographic.Max(1))

		f, err := os.Create(outPath)
		if err != nil {
			return eris.Wrapf(err, "controlpoints extract: create %s", outPath)
		}
		defer f.Close() //nolint:errcheck

		if err := export.WriteControlPointsCSV(f, selected); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", outPath)
		return nil
	},
}

// resolveControlPointCount falls back to the configured target when the
// --count flag was left at its zero default.
func resolveControlPointCount(n int) int {
	if n > 0 {
		return n
	}
	return cfg.Loader.ControlPointCount
}

// loadMatchedControlPoints parses both survey files and joins them on
// (line, shotpoint).
func loadMatchedControlPoints(s01Path, basePath string) ([]model.ControlPoint, error) {
	s01File, err := os.Open(s01Path)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", s01Path)
	}
	defer s01File.Close() //nolint:errcheck

	source, err := loader.ParseS01(s01File)
	if err != nil {
		return nil, err
	}

	baseFile, err := os.Open(basePath)
	if err != nil {
		return nil, eris.Wrapf(err, "open %s", basePath)
	}
	defer baseFile.Close() //nolint:errcheck

	base, err := loader.ParseBaseCSV(baseFile)
	if err != nil {
		return nil, err
	}

	matched := loader.MatchControlPoints(source, base)
	if len(matched) == 0 {
		return nil, eris.New("no control points matched between source and base files")
	}

	zap.L().Debug("control points matched",
		zap.Int("source_points", len(source)),
		zap.Int("base_points", len(base)),
		zap.Int("matched", len(matched)),
	)
	return matched, nil
}

func init() {
	controlPointsExtractCmd.Flags().String("s01", "", "path to .s01 source listing (required)")
	controlPointsExtractCmd.Flags().String("base", "", "path to base coordinate CSV (required)")
	controlPointsExtractCmd.Flags().String("out", "control_points.csv", "output CSV path")
	controlPointsExtractCmd.Flags().Int("count", 0, "target number of distributed control points (default from config)")
	_ = controlPointsExtractCmd.MarkFlagRequired("s01")
	_ = controlPointsExtractCmd.MarkFlagRequired("base")

	controlPointsCmd.AddCommand(controlPointsExtractCmd)
	rootCmd.AddCommand(controlPointsCmd)
}
