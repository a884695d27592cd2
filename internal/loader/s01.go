// Package loader parses survey field files: .s01 source listings,
// base coordinate CSVs, and acquisition reports.
package loader

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/charmap"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// ErrInvalidFormat indicates a file that could not be parsed as its expected format.
var ErrInvalidFormat = eris.New("loader: invalid file format")

// maxParseErrors aborts .s01 parsing when the file is clearly not in the
// expected format rather than silently skipping everything.
const maxParseErrors = 100

// UTM coordinate sanity bounds. Source files carry projected easting/northing;
// values outside these ranges mean the wrong columns were picked up.
const (
	minValidEasting  = 100000
	maxValidEasting  = 1000000
	minValidNorthing = 100000
	maxValidNorthing = 10000000
)

var swathPatternRe = regexp.MustCompile(`(?i)swath(\d+)`)

// SwathFromFilename extracts the swath number from filenames like
// "swath04-BININ.s01" or "Swath4_Acquisition.csv".
func SwathFromFilename(name string) (int, error) {
	m := swathPatternRe.FindStringSubmatch(name)
	if m == nil {
		return 0, eris.Wrapf(ErrInvalidFormat, "loader: no swath number in filename %q", name)
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, eris.Wrapf(ErrInvalidFormat, "loader: bad swath number in filename %q", name)
	}
	if n < 1 || n > 8 {
		return 0, eris.Wrapf(ErrInvalidFormat, "loader: swath number %d out of range (must be 1-8)", n)
	}
	return n, nil
}

// decodeText reads r as UTF-8, falling back to Latin-1 for files written by
// older survey software.
func decodeText(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", eris.Wrap(err, "loader: read file")
	}
	if !utf8.Valid(data) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return "", eris.Wrap(err, "loader: decode latin-1")
		}
		data = decoded
	}
	return string(data), nil
}

// ParseS01 reads an SPS-style .s01 source listing and returns the source
// points in file order. Each record line looks like:
//
//	S      2112      5231  1                       480457.0  173961.0  16.1
//
// Only "S" (source) records are kept. X and Y are taken as the third- and
// second-from-last numeric fields so that variations in the field file ID
// columns do not shift the coordinates.
func ParseS01(r io.Reader) ([]model.SourcePoint, error) {
	text, err := decodeText(r)
	if err != nil {
		return nil, err
	}

	var points []model.SourcePoint
	parseErrors := 0

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 7 {
			continue
		}
		if fields[0] != "S" {
			continue
		}

		line, err1 := strconv.ParseInt(fields[1], 10, 64)
		shotpoint, err2 := strconv.ParseInt(fields[2], 10, 64)
		if err1 != nil || err2 != nil {
			parseErrors++
			if parseErrors > maxParseErrors {
				return nil, eris.Wrapf(ErrInvalidFormat,
					"loader: too many parse errors (%d), not a valid .s01 file", parseErrors)
			}
			continue
		}

		var numeric []float64
		for _, f := range fields[1:] {
			if v, err := strconv.ParseFloat(f, 64); err == nil {
				numeric = append(numeric, v)
			}
		}
		if len(numeric) < 4 {
			continue
		}

		points = append(points, model.SourcePoint{
			Line:      line,
			Shotpoint: shotpoint,
			X:         numeric[len(numeric)-3],
			Y:         numeric[len(numeric)-2],
		})
	}

	if len(points) == 0 {
		return nil, eris.Wrap(ErrInvalidFormat, "loader: no valid source points found")
	}

	if err := checkUTMRange(points); err != nil {
		return nil, err
	}
	return points, nil
}

func checkUTMRange(points []model.SourcePoint) error {
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	if minX < minValidEasting || minX > maxValidEasting ||
		minY < minValidNorthing || minY > maxValidNorthing {
		return eris.Wrapf(ErrInvalidFormat,
			"loader: coordinates appear invalid (X range %.0f-%.0f, Y range %.0f-%.0f), expected UTM",
			minX, maxX, minY, maxY)
	}
	return nil
}
