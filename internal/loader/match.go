package loader

import (
	"sort"

	"github.com/twpayne/go-geom"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// MatchControlPoints joins source points (local X/Y) with base points
// (geographic lat/lon) on (line, shotpoint). Duplicate source keys keep the
// last occurrence, matching re-shot points later in the file. Results are
// sorted by line then shotpoint.
func MatchControlPoints(source []model.SourcePoint, base []model.BasePoint) []model.ControlPoint {
	baseByKey := make(map[[2]int64]model.BasePoint, len(base))
	for _, b := range base {
		baseByKey[[2]int64{b.Line, b.Shotpoint}] = b
	}

	matched := make(map[[2]int64]model.ControlPoint)
	for _, s := range source {
		key := [2]int64{s.Line, s.Shotpoint}
		b, ok := baseByKey[key]
		if !ok {
			continue
		}
		matched[key] = model.ControlPoint{
			Line:      s.Line,
			Shotpoint: s.Shotpoint,
			X:         s.X,
			Y:         s.Y,
			Lat:       b.Lat,
			Lon:       b.Lon,
		}
	}

	points := make([]model.ControlPoint, 0, len(matched))
	for _, cp := range matched {
		points = append(points, cp)
	}
	sort.Slice(points, func(i, j int) bool {
		if points[i].Line != points[j].Line {
			return points[i].Line < points[j].Line
		}
		return points[i].Shotpoint < points[j].Shotpoint
	})
	return points
}

// SelectDistributed picks roughly targetCount control points spread evenly
// across the survey by taking every nth point in (line, shotpoint) order.
// Returns the input unchanged when it is already within the target.
func SelectDistributed(points []model.ControlPoint, targetCount int) []model.ControlPoint {
	if targetCount < 1 || len(points) <= targetCount {
		return points
	}

	step := len(points) / targetCount
	selected := make([]model.ControlPoint, 0, targetCount)
	for i := 0; i < len(points); i += step {
		selected = append(selected, points[i])
		if len(selected) >= targetCount {
			break
		}
	}
	return selected
}

// Extent returns the bounding boxes of a control point set in both coordinate
// spaces: local is in easting/northing, geographic is in lon/lat order.
func Extent(points []model.ControlPoint) (local, geographic *geom.Bounds) {
	local = geom.NewBounds(geom.XY)
	geographic = geom.NewBounds(geom.XY)
	for _, p := range points {
		local.Extend(geom.NewPointFlat(geom.XY, []float64{p.X, p.Y}))
		geographic.Extend(geom.NewPointFlat(geom.XY, []float64{p.Lon, p.Lat}))
	}
	return local, geographic
}
