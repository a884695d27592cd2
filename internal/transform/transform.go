// Package transform implements the 3rd-order polynomial coordinate
// transformation that maps local survey (Easting/Northing) coordinates to
// geographic latitude/longitude, fitted from control points by least squares.
//
// Transformation equations:
//
//	lon = a0 + a1·X + a2·Y + a3·X² + a4·XY + a5·Y² + a6·X³ + a7·X²Y + a8·XY² + a9·Y³
//	lat = b0 + b1·X + b2·Y + b3·X² + b4·XY + b5·Y² + b6·X³ + b7·X²Y + b8·XY² + b9·Y³
package transform

import (
	"math"

	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/mat"

	"github.com/enserv-geo/survey-cli/internal/model"
)

// MinControlPoints is the minimum number of control points for a fit. The ten
// polynomial terms leave the system under-determined below this.
const MinControlPoints = NumTerms

// metersPerDegreeLat converts latitude RMSE in degrees to approximate meters.
// Not geodetically exact; used consistently for human-readable quality reporting.
const metersPerDegreeLat = 111000

// CoordinateTransform holds a fitted 3rd-order polynomial transformation.
//
// Not internally thread-safe: coefficients are written once by Fit or
// FromRecord and read thereafter. Concurrent reads are safe; concurrent fits
// on the same instance must be serialized by the caller.
type CoordinateTransform struct {
	Name string

	coeffsLon []float64
	coeffsLat []float64

	RMSELon           float64
	RMSELat           float64
	RMSEMeters        float64
	ControlPointCount int
}

// New returns an unfitted transform with the given name.
func New(name string) *CoordinateTransform {
	return &CoordinateTransform{Name: name}
}

// FitSummary reports the quality of a completed fit.
type FitSummary struct {
	RMSELat           float64 `json:"rmse_lat"`
	RMSELon           float64 `json:"rmse_lon"`
	RMSEMeters        float64 `json:"rmse_meters"`
	ControlPointCount int     `json:"control_point_count"`
}

// Fit computes transformation coefficients from control points by solving two
// decoupled linear least-squares problems over the shared polynomial basis,
// then evaluates RMSE by re-applying the fit to the same points.
func (t *CoordinateTransform) Fit(points []model.ControlPoint) (*FitSummary, error) {
	if len(points) < MinControlPoints {
		return nil, eris.Wrapf(ErrInsufficientControlPoints, "need at least %d points, got %d", MinControlPoints, len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	lats := make([]float64, len(points))
	lons := make([]float64, len(points))
	for i, p := range points {
		if !finite(p.X, p.Y, p.Lat, p.Lon) {
			return nil, eris.Wrapf(ErrInvalidInput, "control point %d has non-finite coordinates", i)
		}
		xs[i], ys[i], lats[i], lons[i] = p.X, p.Y, p.Lat, p.Lon
	}

	a := designMatrix(xs, ys)

	coeffsLon, err := solveLeastSquares(a, lons)
	if err != nil {
		return nil, eris.Wrap(err, "solve longitude coefficients")
	}
	coeffsLat, err := solveLeastSquares(a, lats)
	if err != nil {
		return nil, eris.Wrap(err, "solve latitude coefficients")
	}

	t.coeffsLon = coeffsLon
	t.coeffsLat = coeffsLat
	t.ControlPointCount = len(points)

	// RMSE on the control points themselves.
	predLat, predLon, err := t.evalBatch(xs, ys)
	if err != nil {
		return nil, err
	}
	t.RMSELat = rmse(predLat, lats)
	t.RMSELon = rmse(predLon, lons)
	t.RMSEMeters = t.RMSELat * metersPerDegreeLat

	return &FitSummary{
		RMSELat:           t.RMSELat,
		RMSELon:           t.RMSELon,
		RMSEMeters:        t.RMSEMeters,
		ControlPointCount: t.ControlPointCount,
	}, nil
}

// Fitted reports whether coefficients are available.
func (t *CoordinateTransform) Fitted() bool {
	return t.coeffsLon != nil && t.coeffsLat != nil
}

// Transform maps a single (x, y) coordinate to (lat, lon) by evaluating the
// polynomial basis against both coefficient vectors.
func (t *CoordinateTransform) Transform(x, y float64) (lat, lon float64, err error) {
	if !t.Fitted() {
		return 0, 0, eris.Wrap(ErrNotFitted, "transform point")
	}
	if !finite(x, y) {
		return 0, 0, eris.Wrapf(ErrInvalidInput, "non-finite input (%v, %v)", x, y)
	}

	terms := basis(x, y)
	for i := 0; i < NumTerms; i++ {
		lat += t.coeffsLat[i] * terms[i]
		lon += t.coeffsLon[i] * terms[i]
	}
	return lat, lon, nil
}

// TransformBatch maps source points to geographic coordinates. Results are
// numerically consistent with calling Transform per point.
func (t *CoordinateTransform) TransformBatch(points []model.SourcePoint) ([]model.TransformedPoint, error) {
	if !t.Fitted() {
		return nil, eris.Wrap(ErrNotFitted, "transform batch")
	}
	if len(points) == 0 {
		return nil, nil
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		if !finite(p.X, p.Y) {
			return nil, eris.Wrapf(ErrInvalidInput, "source point %d has non-finite coordinates", i)
		}
		xs[i], ys[i] = p.X, p.Y
	}

	lats, lons, err := t.evalBatch(xs, ys)
	if err != nil {
		return nil, err
	}

	out := make([]model.TransformedPoint, len(points))
	for i, p := range points {
		out[i] = model.TransformedPoint{
			Line:      p.Line,
			Shotpoint: p.Shotpoint,
			Lat:       lats[i],
			Lon:       lons[i],
		}
	}
	return out, nil
}

// Record packages the fitted coefficients and quality metrics for persistence.
func (t *CoordinateTransform) Record(description, createdBy string) (*model.TransformRecord, error) {
	if !t.Fitted() {
		return nil, eris.Wrap(ErrNotFitted, "no coefficients to save")
	}
	rec := &model.TransformRecord{
		Name:              t.Name,
		Description:       description,
		CoeffsLon:         append([]float64(nil), t.coeffsLon...),
		CoeffsLat:         append([]float64(nil), t.coeffsLat...),
		RMSELon:           t.RMSELon,
		RMSELat:           t.RMSELat,
		RMSEMeters:        t.RMSEMeters,
		ControlPointCount: t.ControlPointCount,
		CreatedBy:         createdBy,
	}
	return rec, nil
}

// FromRecord reconstructs a transform from a persisted record.
func FromRecord(rec *model.TransformRecord) (*CoordinateTransform, error) {
	if len(rec.CoeffsLon) != NumTerms || len(rec.CoeffsLat) != NumTerms {
		return nil, eris.Wrapf(ErrInvalidInput, "record %q has %d/%d coefficients, want %d each",
			rec.Name, len(rec.CoeffsLon), len(rec.CoeffsLat), NumTerms)
	}
	return &CoordinateTransform{
		Name:              rec.Name,
		coeffsLon:         append([]float64(nil), rec.CoeffsLon...),
		coeffsLat:         append([]float64(nil), rec.CoeffsLat...),
		RMSELon:           rec.RMSELon,
		RMSELat:           rec.RMSELat,
		RMSEMeters:        rec.RMSEMeters,
		ControlPointCount: rec.ControlPointCount,
	}, nil
}

// evalBatch evaluates the fitted polynomial over coordinate columns using the
// design-matrix product, mirroring the least-squares formulation.
func (t *CoordinateTransform) evalBatch(xs, ys []float64) (lats, lons []float64, err error) {
	if !t.Fitted() {
		return nil, nil, eris.Wrap(ErrNotFitted, "evaluate batch")
	}

	a := designMatrix(xs, ys)

	var latVec, lonVec mat.VecDense
	latVec.MulVec(a, mat.NewVecDense(NumTerms, t.coeffsLat))
	lonVec.MulVec(a, mat.NewVecDense(NumTerms, t.coeffsLon))

	lats = make([]float64, len(xs))
	lons = make([]float64, len(xs))
	for i := range xs {
		lats[i] = latVec.AtVec(i)
		lons[i] = lonVec.AtVec(i)
	}
	return lats, lons, nil
}

// solveLeastSquares solves the overdetermined system A·c ≈ b via QR
// factorization. Exact singularity surfaces as ErrSingularSystem. A large but
// finite condition number is accepted: the cubed-coordinate basis over raw UTM
// eastings/northings is inherently ill-conditioned yet solves fine.
func solveLeastSquares(a *mat.Dense, b []float64) ([]float64, error) {
	var qr mat.QR
	qr.Factorize(a)

	var c mat.VecDense
	err := qr.SolveVecTo(&c, false, mat.NewVecDense(len(b), b))
	if err != nil {
		// A rank-deficient system reports an infinite condition number and a
		// zero solution vector, which the finiteness check below would accept.
		cond, conditioned := err.(mat.Condition)
		if !conditioned || math.IsInf(float64(cond), 0) {
			return nil, eris.Wrap(ErrSingularSystem, err.Error())
		}
	}

	coeffs := make([]float64, NumTerms)
	for i := 0; i < NumTerms; i++ {
		v := c.AtVec(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, eris.Wrapf(ErrSingularSystem, "coefficient %d is non-finite", i)
		}
		coeffs[i] = v
	}
	return coeffs, nil
}

func rmse(predicted, actual []float64) float64 {
	var sum float64
	for i := range predicted {
		d := predicted[i] - actual[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(predicted)))
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
