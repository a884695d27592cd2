package transform

import "github.com/rotisserie/eris"

// Sentinel errors reported by the transform core. All are recoverable; callers
// decide whether to retry with different control points or surface to a user.
var (
	// ErrInsufficientControlPoints is returned when a fit is attempted with
	// fewer than the ten points a 3rd-order bivariate polynomial requires.
	ErrInsufficientControlPoints = eris.New("transform: insufficient control points")

	// ErrSingularSystem is returned when the least-squares solve cannot
	// produce finite coefficients (degenerate or collinear control points).
	ErrSingularSystem = eris.New("transform: singular system")

	// ErrNotFitted is returned when a transform is used before Fit or a load
	// from the store.
	ErrNotFitted = eris.New("transform: coefficients not fitted or loaded")

	// ErrInvalidInput is returned for malformed input such as non-finite
	// coordinates.
	ErrInvalidInput = eris.New("transform: invalid input")
)
