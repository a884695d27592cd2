package transform

import "gonum.org/v1/gonum/mat"

// NumTerms is the number of basis terms in the 3rd-order bivariate polynomial.
const NumTerms = 10

// basis evaluates the polynomial basis [1, X, Y, X², XY, Y², X³, X²Y, XY², Y³]
// at a single point. Coefficient vectors follow the same ordering.
func basis(x, y float64) [NumTerms]float64 {
	return [NumTerms]float64{
		1,
		x, y,
		x * x, x * y, y * y,
		x * x * x, x * x * y, x * y * y, y * y * y,
	}
}

// designMatrix builds the (n, 10) least-squares design matrix for the given
// coordinate columns. xs and ys must be the same length.
func designMatrix(xs, ys []float64) *mat.Dense {
	a := mat.NewDense(len(xs), NumTerms, nil)
	for i := range xs {
		row := basis(xs[i], ys[i])
		a.SetRow(i, row[:])
	}
	return a
}
