package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/enserv-geo/survey-cli/internal/transform"
)

var transformValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a stored transformation against control points",
	Long:  "Re-evaluates a stored transformation over independently matched control points and reports residual errors.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s01Path, _ := cmd.Flags().GetString("s01")
		basePath, _ := cmd.Flags().GetString("base")
		name, _ := cmd.Flags().GetString("transform")

		if name == "" {
			name = cfg.Transform.DefaultName
		}

		matched, err := loadMatchedControlPoints(s01Path, basePath)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		rec, err := st.GetTransform(ctx, name)
		if err != nil {
			return eris.Wrap(err, "transform validate")
		}
		tr, err := transform.FromRecord(rec)
		if err != nil {
			return eris.Wrap(err, "transform validate")
		}

		report, err := tr.Validate(matched)
		if err != nil {
			return eris.Wrap(err, "transform validate")
		}

		fmt.Printf("Transformation %q validated against %d control points\n", name, report.PointCount)
		fmt.Printf("  RMSE lat:     %.3e deg\n", report.RMSELat)
		fmt.Printf("  RMSE lon:     %.3e deg\n", report.RMSELon)
		fmt.Printf("  RMSE ground:  %.3f m\n", report.RMSEMeters)
		fmt.Printf("  Max error:    %.3f m\n", report.MaxErrorMeters)
		fmt.Printf("  Mean err lat: %.3e deg\n", report.MeanErrorLat)
		fmt.Printf("  Mean err lon: %.3e deg\n", report.MeanErrorLon)
		return nil
	},
}

func init() {
	transformValidateCmd.Flags().String("s01", "", "path to .s01 source listing (required)")
	transformValidateCmd.Flags().String("base", "", "path to base coordinate CSV (required)")
	transformValidateCmd.Flags().String("transform", "", "stored transformation name (default from config)")
	_ = transformValidateCmd.MarkFlagRequired("s01")
	_ = transformValidateCmd.MarkFlagRequired("base")

	transformCmd.AddCommand(transformValidateCmd)
}
