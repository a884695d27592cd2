package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/enserv-geo/survey-cli/internal/loader"
	"github.com/enserv-geo/survey-cli/internal/transform"
)

var transformFitCmd = &cobra.Command{
	Use:   "fit",
	Short: "Fit a transformation from control points",
	Long:  "Matches a .s01 source listing against a base coordinate CSV, selects distributed control points, fits a 3rd-order polynomial transformation, and stores it.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s01Path, _ := cmd.Flags().GetString("s01")
		basePath, _ := cmd.Flags().GetString("base")
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		createdBy, _ := cmd.Flags().GetString("created-by")
		count, _ := cmd.Flags().GetInt("count")
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		if name == "" {
			name = cfg.Transform.DefaultName
		}

		matched, err := loadMatchedControlPoints(s01Path, basePath)
		if err != nil {
			return err
		}
		selected := loader.SelectDistributed(matched, resolveControlPointCount(count))
		zap.L().Info("control points selected",
			zap.Int("matched", len(matched)),
			zap.Int("selected", len(selected)),
		)

		tr := transform.New(name)
		summary, err := tr.Fit(selected)
		if err != nil {
			return eris.Wrap(err, "transform fit")
		}

		fmt.Printf("Transformation %q fitted from %d control points\n", name, summary.ControlPointCount)
		fmt.Printf("  RMSE lat:    %.3e deg\n", summary.RMSELat)
		fmt.Printf("  RMSE lon:    %.3e deg\n", summary.RMSELon)
		fmt.Printf("  RMSE ground: %.3f m\n", summary.RMSEMeters)

		if dryRun {
			fmt.Fprintln(os.Stderr, "Dry run: transformation not saved.")
			return nil
		}

		rec, err := tr.Record(description, createdBy)
		if err != nil {
			return eris.Wrap(err, "transform fit")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		if err := st.SaveTransform(ctx, rec); err != nil {
			return eris.Wrap(err, "transform fit")
		}
		fmt.Printf("Saved transformation %q\n", name)
		return nil
	},
}

func init() {
	transformFitCmd.Flags().String("s01", "", "path to .s01 source listing (required)")
	transformFitCmd.Flags().String("base", "", "path to base coordinate CSV (required)")
	transformFitCmd.Flags().String("name", "", "transformation name (default from config)")
	transformFitCmd.Flags().String("description", "", "free-form description")
	transformFitCmd.Flags().String("created-by", "cli", "author recorded with the transformation")
	transformFitCmd.Flags().Int("count", 0, "target number of distributed control points (default from config)")
	transformFitCmd.Flags().Bool("dry-run", false, "fit and report without saving")
	_ = transformFitCmd.MarkFlagRequired("s01")
	_ = transformFitCmd.MarkFlagRequired("base")

	transformCmd.AddCommand(transformFitCmd)
}
