package loader

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// ParseAcquisitionCSV reads an acquisition report CSV with one acquired
// shotpoint per row. Required columns: Line, Station (case-insensitive).
func ParseAcquisitionCSV(r io.Reader) ([]model.AcquisitionRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, eris.Wrap(ErrInvalidFormat, "loader: acquisition csv is empty")
	}
	if err != nil {
		return nil, eris.Wrap(err, "loader: read acquisition csv header")
	}

	lineCol, stationCol, err := acquisitionColumns(header)
	if err != nil {
		return nil, err
	}

	var recs []model.AcquisitionRecord
	rowNum := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, eris.Wrapf(err, "loader: acquisition csv row %d", rowNum)
		}

		rec, ok, err := parseAcquisitionRow(row[lineCol], row[stationCol])
		if err != nil {
			return nil, eris.Wrapf(err, "loader: acquisition csv row %d", rowNum)
		}
		if ok {
			recs = append(recs, rec)
		}
	}

	if len(recs) == 0 {
		return nil, eris.Wrap(ErrInvalidFormat, "loader: no valid acquisition records found")
	}
	return recs, nil
}

// ParseAcquisitionXLSX reads an acquisition report from the first sheet of an
// Excel workbook. Same column requirements as ParseAcquisitionCSV; rows with
// blank Line or Station cells are skipped.
func ParseAcquisitionXLSX(path string) ([]model.AcquisitionRecord, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "loader: open acquisition xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Wrap(ErrInvalidFormat, "loader: acquisition xlsx has no sheets")
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Wrap(ErrInvalidFormat, "loader: acquisition xlsx is empty")
	}

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		header[i] = cell.String()
	}
	lineCol, stationCol, err := acquisitionColumns(header)
	if err != nil {
		return nil, err
	}

	var recs []model.AcquisitionRecord
	for i, row := range sheet.Rows[1:] {
		var lineVal, stationVal string
		if lineCol < len(row.Cells) {
			lineVal = row.Cells[lineCol].String()
		}
		if stationCol < len(row.Cells) {
			stationVal = row.Cells[stationCol].String()
		}

		rec, ok, err := parseAcquisitionRow(lineVal, stationVal)
		if err != nil {
			return nil, eris.Wrapf(err, "loader: acquisition xlsx row %d", i+2)
		}
		if ok {
			recs = append(recs, rec)
		}
	}

	if len(recs) == 0 {
		return nil, eris.Wrap(ErrInvalidFormat, "loader: no valid acquisition records found")
	}
	return recs, nil
}

func acquisitionColumns(header []string) (lineCol, stationCol int, err error) {
	lineCol, stationCol = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "line":
			if lineCol == -1 {
				lineCol = i
			}
		case "station":
			if stationCol == -1 {
				stationCol = i
			}
		}
	}
	if lineCol == -1 || stationCol == -1 {
		return 0, 0, eris.Wrapf(ErrInvalidFormat,
			"loader: acquisition file missing required columns Line, Station (found: %s)",
			strings.Join(header, ", "))
	}
	return lineCol, stationCol, nil
}

// parseAcquisitionRow parses one Line/Station pair. Blank cells are skipped
// (ok=false); non-blank but non-integer values are an error. Excel tends to
// store integers as floats, so "5231.0" is accepted.
func parseAcquisitionRow(lineVal, stationVal string) (model.AcquisitionRecord, bool, error) {
	lineVal = strings.TrimSpace(lineVal)
	stationVal = strings.TrimSpace(stationVal)
	if lineVal == "" || stationVal == "" {
		return model.AcquisitionRecord{}, false, nil
	}

	line, err := parseIntCell(lineVal)
	if err != nil {
		return model.AcquisitionRecord{}, false, eris.Wrapf(ErrInvalidFormat, "line %q is not an integer", lineVal)
	}
	station, err := parseIntCell(stationVal)
	if err != nil {
		return model.AcquisitionRecord{}, false, eris.Wrapf(ErrInvalidFormat, "station %q is not an integer", stationVal)
	}
	return model.AcquisitionRecord{Line: line, Station: station}, true, nil
}

func parseIntCell(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	n := int64(f)
	if float64(n) != f {
		return 0, eris.Errorf("loader: %q is not an integer", s)
	}
	return n, nil
}
