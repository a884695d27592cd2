package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/enserv-geo/survey-cli/internal/loader"
	"github.com/enserv-geo/survey-cli/internal/model"
)

var acquisitionCmd = &cobra.Command{
	Use:   "acquisition",
	Short: "Acquisition report management",
	Long:  "Load daily acquisition reports marking which shotpoints were deployed.",
}

var acquisitionLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load an acquisition report (.csv or .xlsx)",
	Long:  "Parses a Line/Station acquisition report and upserts the deployment records. The swath number is taken from --swath or the filename.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		path := args[0]
		swath, _ := cmd.Flags().GetInt("swath")
		if swath == 0 {
			n, err := loader.SwathFromFilename(filepath.Base(path))
			if err != nil {
				return eris.Wrap(err, "acquisition load: provide --swath or use a swathN filename")
			}
			swath = n
		}

		recs, err := parseAcquisitionFile(path)
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

		n, err := st.InsertDeployments(ctx, swath, recs)
		if err != nil {
			return eris.Wrap(err, "acquisition load")
		}

		zap.L().Info("deployments loaded",
			zap.Int("swath", swath),
			zap.Int64("records", n),
			zap.String("file", filepath.Base(path)),
		)
		fmt.Printf("Loaded %d deployment records for swath %d\n", n, swath)
		return nil
	},
}

func parseAcquisitionFile(path string) ([]model.AcquisitionRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loader.ParseAcquisitionXLSX(path)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", path)
		}
		defer f.Close() //nolint:errcheck
		return loader.ParseAcquisitionCSV(f)
	default:
		return nil, eris.Errorf("unsupported acquisition file type %q (expected .csv or .xlsx)", filepath.Ext(path))
	}
}

func init() {
	acquisitionLoadCmd.Flags().Int("swath", 0, "swath number 1-8 (default parsed from filename)")
	acquisitionCmd.AddCommand(acquisitionLoadCmd)
	rootCmd.AddCommand(acquisitionCmd)
}
