package engine

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Statistics is an immutable snapshot of per-asset return moments: mean
// vector, sample covariance matrix (Bessel-corrected) and per-asset
// standard deviation. Recompute from a fresh ReturnMatrix instead of
// mutating in place.
type Statistics struct {
	Assets  []string
	Mean    []float64
	Cov     *mat.SymDense
	Stdev   []float64
	Periods int
}

// ComputeStatistics derives Statistics from an aligned return matrix.
// Fewer than two periods cannot produce a sample covariance and fail with
// InsufficientDataError.
func ComputeStatistics(rm *ReturnMatrix) (*Statistics, error) {
	n := len(rm.Assets)
	T := rm.Periods()
	if n == 0 || T < minReturnPeriods {
		return nil, &InsufficientDataError{Periods: T, Required: minReturnPeriods}
	}

	// gonum expects observations in rows, assets in columns.
	obs := mat.NewDense(T, n, nil)
	for i := 0; i < n; i++ {
		for t := 0; t < T; t++ {
			obs.Set(t, i, rm.Returns[i][t])
		}
	}

	cov := mat.NewSymDense(n, nil)
	stat.CovarianceMatrix(cov, obs, nil)

	means := make([]float64, n)
	stdevs := make([]float64, n)
	for i := 0; i < n; i++ {
		means[i] = stat.Mean(rm.Returns[i], nil)
		stdevs[i] = math.Sqrt(cov.At(i, i))
	}

	return &Statistics{
		Assets:  rm.Assets,
		Mean:    means,
		Cov:     cov,
		Stdev:   stdevs,
		Periods: T,
	}, nil
}

// NumAssets reports the number of assets covered by the snapshot.
func (s *Statistics) NumAssets() int {
	return len(s.Assets)
}
