package engine

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// benchmarkVarianceTol is the smallest benchmark variance for which the
// regression slope is considered defined.
const benchmarkVarianceTol = 1e-15

// RegressionResult holds the market-model OLS fit of an asset (or
// portfolio) return series against a benchmark: asset = Alpha + Beta *
// benchmark + residual. Beta is deliberately unclipped; negative or >1
// slopes are legitimate.
type RegressionResult struct {
	Alpha     float64
	Beta      float64
	Residuals []float64
}

// Regress fits a single-predictor ordinary-least-squares line of asset on
// benchmark. Both series must have equal length of at least two, and the
// benchmark must not be constant.
func Regress(asset, benchmark []float64) (*RegressionResult, error) {
	if len(asset) != len(benchmark) {
		return nil, fmt.Errorf("series length mismatch: asset %d, benchmark %d", len(asset), len(benchmark))
	}
	if len(asset) < 2 {
		return nil, &InsufficientDataError{Periods: len(asset), Required: 2}
	}
	if stat.Variance(benchmark, nil) < benchmarkVarianceTol {
		return nil, &DegenerateRegressionError{}
	}

	alpha, beta := stat.LinearRegression(benchmark, asset, nil, false)

	residuals := make([]float64, len(asset))
	for i := range asset {
		residuals[i] = asset[i] - (alpha + beta*benchmark[i])
	}

	return &RegressionResult{Alpha: alpha, Beta: beta, Residuals: residuals}, nil
}
