package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/enserv-geo/survey-cli/internal/model"
)

var transformListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored transformations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		infos, err := st.ListTransforms(ctx)
		if err != nil {
			return eris.Wrap(err, "transform list")
		}

		if len(infos) == 0 {
			fmt.Fprintln(os.Stderr, "No transformations stored.")
			return nil
		}

		formatTransformList(os.Stdout, infos)
		return nil
	},
}

func formatTransformList(w io.Writer, infos []model.TransformInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRMSE (m)\tPOINTS\tCREATED BY\tCREATED AT\tDESCRIPTION")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%.3f\t%d\t%s\t%s\t%s\n",
			info.Name,
			info.RMSEMeters,
			info.ControlPointCount,
			info.CreatedBy,
			info.CreatedAt.Format("2006-01-02 15:04"),
			info.Description,
		)
	}
	_ = tw.Flush()
}

func init() {
	transformCmd.AddCommand(transformListCmd)
}
