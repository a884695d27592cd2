package loader

import (
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enserv-geo/survey-cli/internal/model"
)

func TestParseBaseCSV(t *testing.T) {
	input := `Line,Shotpoint,Latitude,Longitude
2112,5231,4.901,101.312
2112,5232,4.902,101.313
2114,5231,4.921,101.312
`
	points, err := ParseBaseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []model.BasePoint{
		{Line: 2112, Shotpoint: 5231, Lat: 4.901, Lon: 101.312},
		{Line: 2112, Shotpoint: 5232, Lat: 4.902, Lon: 101.313},
		{Line: 2114, Shotpoint: 5231, Lat: 4.921, Lon: 101.312},
	}, points)
}

func TestParseBaseCSV_AlternateHeaders(t *testing.T) {
	// Lowercase short-form headers as exported by some contractors.
	input := `line,shotpoint,lat,lon
2112,5231,4.901,101.312
`
	points, err := ParseBaseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, int64(2112), points[0].Line)
}

func TestParseBaseCSV_MissingColumns(t *testing.T) {
	input := `Line,Shotpoint,Elevation
2112,5231,16.1
`
	_, err := ParseBaseCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidFormat))
	assert.Contains(t, err.Error(), "lat")
	assert.Contains(t, err.Error(), "lon")
}

func TestParseBaseCSV_DuplicateRows(t *testing.T) {
	input := `Line,Shotpoint,Latitude,Longitude
2112,5231,4.901,101.312
2112,5231,4.902,101.313
`
	_, err := ParseBaseCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidFormat))
	assert.Contains(t, err.Error(), "duplicate")
}

func TestParseBaseCSV_CoordinateRanges(t *testing.T) {
	badLat := `Line,Shotpoint,Latitude,Longitude
2112,5231,91.0,101.312
`
	_, err := ParseBaseCSV(strings.NewReader(badLat))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")

	badLon := `Line,Shotpoint,Latitude,Longitude
2112,5231,4.901,181.0
`
	_, err = ParseBaseCSV(strings.NewReader(badLon))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longitude")
}

func TestParseBaseCSV_NonNumeric(t *testing.T) {
	input := `Line,Shotpoint,Latitude,Longitude
2112,abc,4.901,101.312
`
	_, err := ParseBaseCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidFormat))
}

func TestParseBaseCSV_Empty(t *testing.T) {
	_, err := ParseBaseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidFormat))

	headerOnly := "Line,Shotpoint,Latitude,Longitude\n"
	_, err = ParseBaseCSV(strings.NewReader(headerOnly))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidFormat))
}
