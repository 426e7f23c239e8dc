package engine

import (
	"errors"
	"fmt"
)

// ErrNoConvergence is returned by the portfolio searches when the solver
// cannot satisfy the constraints within its iteration budget. Inside a
// frontier sweep the same condition is handled locally by dropping the
// affected target instead.
var ErrNoConvergence = errors.New("optimization did not converge")

// InsufficientDataError reports that too few aligned periods (or too few
// assets) were supplied for the requested statistic.
type InsufficientDataError struct {
	Periods  int
	Required int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d periods, need at least %d", e.Periods, e.Required)
}

// DegenerateRegressionError reports a zero-variance benchmark series, for
// which the market-model slope is undefined.
type DegenerateRegressionError struct{}

func (e *DegenerateRegressionError) Error() string {
	return "degenerate regression: benchmark series has zero variance"
}

// NumericalInstabilityError reports a portfolio variance that came out
// negative beyond floating-point tolerance, which means the covariance
// matrix is not positive semidefinite.
type NumericalInstabilityError struct {
	Variance float64
}

func (e *NumericalInstabilityError) Error() string {
	return fmt.Sprintf("numerical instability: portfolio variance %g is negative beyond tolerance", e.Variance)
}

// ZeroDenominatorError reports a ratio whose denominator is too close to
// zero to produce a meaningful value (beta or standard deviation).
type ZeroDenominatorError struct {
	Quantity string
}

func (e *ZeroDenominatorError) Error() string {
	return fmt.Sprintf("cannot divide by %s: value is zero within tolerance", e.Quantity)
}
