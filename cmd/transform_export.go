package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/enserv-geo/survey-cli/internal/export"
	"github.com/enserv-geo/survey-cli/internal/loader"
	"github.com/enserv-geo/survey-cli/internal/transform"
)

var transformExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Transform a .s01 file to a WGS84 point shapefile",
	Long:  "Applies a stored transformation to a .s01 source listing and writes the points as an ESRI shapefile, without loading them into the store.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		s01Path, _ := cmd.Flags().GetString("s01")
		name, _ := cmd.Flags().GetString("transform")
		outPath, _ := cmd.Flags().GetString("out")

		if name == "" {
			name = cfg.Transform.DefaultName
		}

		f, err := os.Open(s01Path)
		if err != nil {
			return eris.Wrapf(err, "open %s", s01Path)
		}
		defer f.Close() //nolint:errcheck

		source, err := loader.ParseS01(f)
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
			return eris.Wrap(err, "transform export")
		}
		tr, err := transform.FromRecord(rec)
		if err != nil {
			return eris.Wrap(err, "transform export")
		}

		points, err := tr.TransformBatch(source)
		if err != nil {
			return eris.Wrap(err, "transform export")
		}

		if err := export.WritePointShapefile(outPath, points); err != nil {
			return err
		}
		fmt.Printf("Wrote %d points to %s\n", len(points), outPath)
		return nil
	},
}

func init() {
	transformExportCmd.Flags().String("s01", "", "path to .s01 source listing (required)")
	transformExportCmd.Flags().String("transform", "", "stored transformation name (default from config)")
	transformExportCmd.Flags().String("out", "points.shp", "output shapefile path")
	_ = transformExportCmd.MarkFlagRequired("s01")

	transformCmd.AddCommand(transformExportCmd)
}
