package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enserv-geo/survey-cli/internal/model"
)

func TestWriteControlPointsCSV(t *testing.T) {
	var buf bytes.Buffer
	points := []model.ControlPoint{
		{Line: 2112, Shotpoint: 5231, X: 480457, Y: 173961, Lat: 4.901, Lon: 101.312},
		{Line: 2114, Shotpoint: 5232, X: 480482, Y: 174011, Lat: 4.921, Lon: 101.313},
	}

	require.NoError(t, WriteControlPointsCSV(&buf, points))

	want := "line,shotpoint,x,y,lat,lon\n" +
		"2112,5231,480457,173961,4.901,101.312\n" +
		"2114,5232,480482,174011,4.921,101.313\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteGapsCSV(t *testing.T) {
	var buf bytes.Buffer
	lines := []model.LineGaps{
		{
			Line: 2112,
			Gaps: []model.Gap{
				{Line: 2112, StartShotpoint: 5232, EndShotpoint: 5234, Size: 3},
				{Line: 2112, StartShotpoint: 5240, EndShotpoint: 5241, Size: 2},
			},
		},
		{
			Line: 2114,
			Gaps: []model.Gap{
				{Line: 2114, StartShotpoint: 5231, EndShotpoint: 5231, Size: 1},
			},
		},
	}

	require.NoError(t, WriteGapsCSV(&buf, lines))

	want := "line,start_shotpoint,end_shotpoint,size\n" +
		"2112,5232,5234,3\n" +
		"2112,5240,5241,2\n" +
		"2114,5231,5231,1\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteGapsCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGapsCSV(&buf, nil))
	assert.Equal(t, "line,start_shotpoint,end_shotpoint,size\n", buf.String())
}
