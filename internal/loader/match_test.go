package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enserv-geo/survey-cli/internal/model"
)

func TestMatchControlPoints(t *testing.T) {
	source := []model.SourcePoint{
		{Line: 2114, Shotpoint: 5231, X: 480457, Y: 174011},
		{Line: 2112, Shotpoint: 5231, X: 480457, Y: 173961},
		{Line: 2112, Shotpoint: 5299, X: 482157, Y: 173961}, // no base match
	}
	base := []model.BasePoint{
		{Line: 2112, Shotpoint: 5231, Lat: 4.901, Lon: 101.312},
		{Line: 2114, Shotpoint: 5231, Lat: 4.921, Lon: 101.312},
		{Line: 2116, Shotpoint: 5231, Lat: 4.941, Lon: 101.312}, // no source match
	}

	points := MatchControlPoints(source, base)
	assert.Equal(t, []model.ControlPoint{
		{Line: 2112, Shotpoint: 5231, X: 480457, Y: 173961, Lat: 4.901, Lon: 101.312},
		{Line: 2114, Shotpoint: 5231, X: 480457, Y: 174011, Lat: 4.921, Lon: 101.312},
	}, points)
}

func TestMatchControlPoints_DuplicateSourceKeepsLast(t *testing.T) {
	source := []model.SourcePoint{
		{Line: 2112, Shotpoint: 5231, X: 480457, Y: 173961},
		{Line: 2112, Shotpoint: 5231, X: 480458, Y: 173962}, // re-shot
	}
	base := []model.BasePoint{
		{Line: 2112, Shotpoint: 5231, Lat: 4.901, Lon: 101.312},
	}

	points := MatchControlPoints(source, base)
	require.Len(t, points, 1)
	assert.Equal(t, 480458.0, points[0].X)
	assert.Equal(t, 173962.0, points[0].Y)
}

func TestMatchControlPoints_NoMatches(t *testing.T) {
	source := []model.SourcePoint{{Line: 1, Shotpoint: 1, X: 480457, Y: 173961}}
	base := []model.BasePoint{{Line: 2, Shotpoint: 2, Lat: 4.9, Lon: 101.3}}

	points := MatchControlPoints(source, base)
	assert.Empty(t, points)
}

func gridControlPoints(n int) []model.ControlPoint {
	points := make([]model.ControlPoint, n)
	for i := range points {
		points[i] = model.ControlPoint{
			Line:      int64(2112 + 2*(i/100)),
			Shotpoint: int64(5231 + i%100),
			X:         480457 + float64(i%100)*25,
			Y:         173961 + float64(i/100)*50,
			Lat:       4.901 + float64(i/100)*0.0005,
			Lon:       101.312 + float64(i%100)*0.0002,
		}
	}
	return points
}

func TestSelectDistributed(t *testing.T) {
	points := gridControlPoints(1000)

	selected := SelectDistributed(points, 100)
	require.Len(t, selected, 100)

	// Every 10th point in order: first selected is the first point, spacing
	// is uniform.
	assert.Equal(t, points[0], selected[0])
	assert.Equal(t, points[10], selected[1])
	assert.Equal(t, points[990], selected[99])
}

func TestSelectDistributed_SmallInputUnchanged(t *testing.T) {
	points := gridControlPoints(50)
	selected := SelectDistributed(points, 100)
	assert.Equal(t, points, selected)
}

func TestSelectDistributed_NonDivisibleCount(t *testing.T) {
	points := gridControlPoints(250)
	selected := SelectDistributed(points, 100)
	require.Len(t, selected, 100)
	assert.Equal(t, points[0], selected[0])
	assert.Equal(t, points[2], selected[1])
}

func TestExtent(t *testing.T) {
	points := []model.ControlPoint{
		{X: 480457, Y: 173961, Lat: 4.901, Lon: 101.312},
		{X: 482457, Y: 175961, Lat: 4.921, Lon: 101.332},
		{X: 481457, Y: 174961, Lat: 4.911, Lon: 101.322},
	}

	local, geographic := Extent(points)

	assert.Equal(t, 480457.0, local.Min(0))
	assert.Equal(t, 173961.0, local.Min(1))
	assert.Equal(t, 482457.0, local.Max(0))
	assert.Equal(t, 175961.0, local.Max(1))

	assert.Equal(t, 101.312, geographic.Min(0))
	assert.Equal(t, 4.901, geographic.Min(1))
	assert.Equal(t, 101.332, geographic.Max(0))
	assert.Equal(t, 4.921, geographic.Max(1))
}
