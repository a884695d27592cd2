package transform

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// ValidationReport holds error metrics from re-applying a fitted transform to
// a labeled point set, typically held-out control points. Mean signed errors
// separate systematic bias from random scatter.
type ValidationReport struct {
	RMSELat        float64 `json:"rmse_lat"`
	RMSELon        float64 `json:"rmse_lon"`
	RMSEMeters     float64 `json:"rmse_meters"`
	MaxErrorLat    float64 `json:"max_error_lat"`
	MaxErrorLon    float64 `json:"max_error_lon"`
	MaxErrorMeters float64 `json:"max_error_meters"`
	MeanErrorLat   float64 `json:"mean_error_lat"`
	MeanErrorLon   float64 `json:"mean_error_lon"`
	PointCount     int     `json:"point_count"`
}

// Validate re-applies the fitted transform to labeled points and reports
// per-axis error metrics. Read-only; the transform is not mutated.
func (t *CoordinateTransform) Validate(points []model.ControlPoint) (*ValidationReport, error) {
	if !t.Fitted() {
		return nil, eris.Wrap(ErrNotFitted, "validate")
	}
	if len(points) == 0 {
		return nil, eris.Wrap(ErrInvalidInput, "validate: empty point set")
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if !finite(p.X, p.Y, p.Lat, p.Lon) {
			return nil, eris.Wrapf(ErrInvalidInput, "control point %d has non-finite coordinates", i)
		}
		xs[i], ys[i] = p.X, p.Y
	}

	predLat, predLon, err := t.evalBatch(xs, ys)
	if err != nil {
		return nil, err
	}

	var sumSqLat, sumSqLon, sumLat, sumLon, maxLat, maxLon float64
	for i, p := range points {
		errLat := predLat[i] - p.Lat
		errLon := predLon[i] - p.Lon

		sumSqLat += errLat * errLat
		sumSqLon += errLon * errLon
		sumLat += errLat
		sumLon += errLon
		maxLat = math.Max(maxLat, math.Abs(errLat))
		maxLon = math.Max(maxLon, math.Abs(errLon))
	}

	n := float64(len(points))
	rmseLat := math.Sqrt(sumSqLat / n)
	return &ValidationReport{
		RMSELat:        rmseLat,
		RMSELon:        math.Sqrt(sumSqLon / n),
		RMSEMeters:     rmseLat * metersPerDegreeLat,
		MaxErrorLat:    maxLat,
		MaxErrorLon:    maxLon,
		MaxErrorMeters: maxLat * metersPerDegreeLat,
		MeanErrorLat:   sumLat / n,
		MeanErrorLon:   sumLon / n,
		PointCount:     len(points),
	}, nil
}
