package loader

import (
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enserv-geo/survey-cli/internal/model"
)

const sampleS01 = `H26 SURVEY AREA BININ BLOCK
S      2112      5231  1                       480457.0  173961.0  16.1
S      2112      5232  1                       480482.0  173961.0  16.2
R      2112      5233  1                       480507.0  173961.0  16.0
S      2114      5231  2                       480457.0  174011.0  15.9

S      2114      5232  2                       480482.0  174011.0  16.0
`

func TestParseS01(t *testing.T) {
	points, err := ParseS01(strings.NewReader(sampleS01))
	require.NoError(t, err)

	assert.Equal(t, []model.SourcePoint{
		{Line: 2112, Shotpoint: 5231, X: 480457.0, Y: 173961.0},
		{Line: 2112, Shotpoint: 5232, X: 480482.0, Y: 173961.0},
		{Line: 2114, Shotpoint: 5231, X: 480457.0, Y: 174011.0},
		{Line: 2114, Shotpoint: 5232, X: 480482.0, Y: 174011.0},
	}, points)
}

func TestParseS01_SkipsHeaderAndReceivers(t *testing.T) {
	points, err := ParseS01(strings.NewReader(sampleS01))
	require.NoError(t, err)
	for _, p := range points {
		assert.NotEqual(t, int64(5233), p.Shotpoint, "receiver record should be skipped")
	}
}

func TestParseS01_Latin1Fallback(t *testing.T) {
	// 0xD8 is not valid UTF-8 on its own; a Latin-1 header byte must not
	// break parsing of the records that follow.
	input := "H26 PROJE\xd8T\nS      2112      5231  1          480457.0  173961.0  16.1\n"

	points, err := ParseS01(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, model.SourcePoint{Line: 2112, Shotpoint: 5231, X: 480457.0, Y: 173961.0}, points[0])
}

func TestParseS01_Empty(t *testing.T) {
	_, err := ParseS01(strings.NewReader(""))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidFormat))
}

func TestParseS01_NoSourceRecords(t *testing.T) {
	input := "R      2112      5231  1          480457.0  173961.0  16.1\n"
	_, err := ParseS01(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidFormat))
}

func TestParseS01_RejectsNonUTMCoordinates(t *testing.T) {
	// Coordinates in degree range instead of projected meters.
	input := "S      2112      5231  1          101.3  4.9  16.1\n"
	_, err := ParseS01(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrInvalidFormat))
	assert.Contains(t, err.Error(), "expected UTM")
}

func TestSwathFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     int
		wantErr  bool
	}{
		{"s01 style", "swath04-BININ.s01", 4, false},
		{"acquisition style", "Swath4_Acquisition.csv", 4, false},
		{"uppercase", "SWATH8-final.s01", 8, false},
		{"no swath", "BININ.s01", 0, true},
		{"out of range", "swath9-BININ.s01", 0, true},
		{"zero", "swath0-BININ.s01", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SwathFromFilename(tt.filename)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, eris.Is(err, ErrInvalidFormat))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
