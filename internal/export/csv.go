package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// WriteControlPointsCSV writes matched control points with both local and
// geographic coordinates, in the column order used by downstream fitting
// scripts.
func WriteControlPointsCSV(w io.Writer, points []model.ControlPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"line", "shotpoint", "x", "y", "lat", "lon"}); err != nil {
		return eris.Wrap(err, "export: write control point header")
	}
	for _, p := range points {
		row := []string{
			strconv.FormatInt(p.Line, 10),
			strconv.FormatInt(p.Shotpoint, 10),
			formatFloat(p.X),
			formatFloat(p.Y),
			formatFloat(p.Lat),
			formatFloat(p.Lon),
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "export: write control point row")
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush control points")
}

// WriteGapsCSV writes detected gaps one per row, ordered as given.
func WriteGapsCSV(w io.Writer, lines []model.LineGaps) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"line", "start_shotpoint", "end_shotpoint", "size"}); err != nil {
		return eris.Wrap(err, "export: write gaps header")
	}
	for _, lg := range lines {
		for _, g := range lg.Gaps {
			row := []string{
				strconv.FormatInt(g.Line, 10),
				strconv.FormatInt(g.StartShotpoint, 10),
				strconv.FormatInt(g.EndShotpoint, 10),
				strconv.FormatInt(g.Size, 10),
			}
			if err := cw.Write(row); err != nil {
				return eris.Wrap(err, "export: write gap row")
			}
		}
	}
	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush gaps")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
