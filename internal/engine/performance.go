package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// negVarianceTolerance is how far below zero the quadratic form wᵀΣw may
// fall before it is treated as a broken (non-PSD) covariance rather than
// floating-point noise. Values in (negVarianceTolerance, 0) clamp to 0.
const negVarianceTolerance = -1e-10

// Evaluate maps a weight vector and statistics snapshot to the portfolio's
// expected return and risk (standard deviation). This is the objective and
// constraint evaluator shared by every portfolio search.
func Evaluate(weights []float64, s *Statistics) (expectedReturn, risk float64, err error) {
	n := s.NumAssets()
	if len(weights) != n {
		return 0, 0, fmt.Errorf("weight count %d does not match %d assets", len(weights), n)
	}

	w := mat.NewVecDense(n, weights)
	expectedReturn = mat.Dot(w, mat.NewVecDense(n, s.Mean))

	variance := mat.Inner(w, s.Cov, w)
	if variance < negVarianceTolerance {
		return 0, 0, &NumericalInstabilityError{Variance: variance}
	}
	risk = sqrtClamped(variance)
	return expectedReturn, risk, nil
}

// portfolioRisk is the unchecked fast path used inside optimizer objective
// closures, where an error cannot propagate. Callers are expected to have
// validated the covariance via Evaluate on a feasible start first.
func portfolioRisk(weights []float64, s *Statistics) float64 {
	w := mat.NewVecDense(len(weights), weights)
	return sqrtClamped(mat.Inner(w, s.Cov, w))
}

func portfolioReturn(weights []float64, s *Statistics) float64 {
	var r float64
	for i, w := range weights {
		r += w * s.Mean[i]
	}
	return r
}

// sqrtClamped treats small negative variances as exactly zero before the
// square root.
func sqrtClamped(variance float64) float64 {
	if variance < 0 {
		return 0
	}
	return math.Sqrt(variance)
}
