package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// baseColumns maps accepted header spellings to canonical column names.
// Base listings come from different contractors, so headers vary between
// "Shotpoint"/"shotpoint" and "Latitude"/"lat".
var baseColumns = map[string]string{
	"line":      "line",
	"shotpoint": "shotpoint",
	"station":   "shotpoint",
	"lat":       "lat",
	"latitude":  "lat",
	"lon":       "lon",
	"longitude": "lon",
}

// ParseBaseCSV reads a base coordinate CSV with Line, Shotpoint, Latitude and
// Longitude columns (header names matched case-insensitively). Rows must be
// unique per (line, shotpoint) and coordinates must be in geographic range.
func ParseBaseCSV(r io.Reader) ([]model.BasePoint, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, eris.Wrap(ErrInvalidFormat, "loader: base csv is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "loader: read base csv header")
	}

	cols := map[string]int{}
	for i, h := range header {
		if canonical, ok := baseColumns[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[canonical]; !dup {
				cols[canonical] = i
			}
		}
	}
	var missing []string
	for _, want := range []string{"line", "shotpoint", "lat", "lon"} {
		if _, ok := cols[want]; !ok {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Wrapf(ErrInvalidFormat,
			"loader: base csv missing required columns: %s", strings.Join(missing, ", "))
	}

	seen := map[[2]int64]bool{}
	var points []model.BasePoint
	rowNum := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, eris.Wrapf(err, "loader: base csv row %d", rowNum)
		}

		line, err1 := strconv.ParseInt(strings.TrimSpace(row[cols["line"]]), 10, 64)
		shotpoint, err2 := strconv.ParseInt(strings.TrimSpace(row[cols["shotpoint"]]), 10, 64)
		lat, err3 := strconv.ParseFloat(strings.TrimSpace(row[cols["lat"]]), 64)
		lon, err4 := strconv.ParseFloat(strings.TrimSpace(row[cols["lon"]]), 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			return nil, eris.Wrapf(ErrInvalidFormat, "loader: base csv row %d: non-numeric value", rowNum)
		}
		if math.IsNaN(lat) || math.IsNaN(lon) {
			return nil, eris.Wrapf(ErrInvalidFormat, "loader: base csv row %d: missing coordinate", rowNum)
		}
		if lat < -90 || lat > 90 {
			return nil, eris.Wrapf(ErrInvalidFormat,
				"loader: base csv row %d: latitude %v out of range [-90, 90]", rowNum, lat)
		}
		if lon < -180 || lon > 180 {
			return nil, eris.Wrapf(ErrInvalidFormat,
				"loader: base csv row %d: longitude %v out of range [-180, 180]", rowNum, lon)
		}

		key := [2]int64{line, shotpoint}
		if seen[key] {
			return nil, eris.Wrapf(ErrInvalidFormat,
				"loader: base csv row %d: duplicate (line, shotpoint) pair %s", rowNum, fmtKey(key))
		}
		seen[key] = true

		points = append(points, model.BasePoint{Line: line, Shotpoint: shotpoint, Lat: lat, Lon: lon})
	}

	if len(points) == 0 {
		return nil, eris.Wrap(ErrInvalidFormat, "loader: base csv has no data rows")
	}
	return points, nil
}

func fmtKey(key [2]int64) string {
	return fmt.Sprintf("(%d, %d)", key[0], key[1])
}
