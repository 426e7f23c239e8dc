package engine

import (
	"errors"
	"math"
	"testing"
)

func TestRegressSelf(t *testing.T) {
	series := []float64{0.01, -0.02, 0.015, 0.003, -0.007}
	res, err := Regress(series, series)
	if err != nil {
		t.Fatalf("Regress: %v", err)
	}
	if math.Abs(res.Beta-1) > 1e-12 {
		t.Errorf("beta = %g, want 1", res.Beta)
	}
	if math.Abs(res.Alpha) > 1e-12 {
		t.Errorf("alpha = %g, want 0", res.Alpha)
	}
	for i, r := range res.Residuals {
		if math.Abs(r) > 1e-12 {
			t.Errorf("residual[%d] = %g, want 0", i, r)
		}
	}
}

func TestRegressExactLine(t *testing.T) {
	benchmark := []float64{-0.01, 0.0, 0.01, 0.02}
	asset := make([]float64, len(benchmark))
	for i, b := range benchmark {
		asset[i] = 0.001 + 2*b
	}

	res, err := Regress(asset, benchmark)
	if err != nil {
		t.Fatalf("Regress: %v", err)
	}
	if math.Abs(res.Beta-2) > 1e-12 {
		t.Errorf("beta = %g, want 2", res.Beta)
	}
	if math.Abs(res.Alpha-0.001) > 1e-12 {
		t.Errorf("alpha = %g, want 0.001", res.Alpha)
	}
}

func TestRegressNegativeBetaAllowed(t *testing.T) {
	benchmark := []float64{-0.01, 0.0, 0.01, 0.02}
	asset := make([]float64, len(benchmark))
	for i, b := range benchmark {
		asset[i] = -1.5 * b
	}

	res, err := Regress(asset, benchmark)
	if err != nil {
		t.Fatalf("Regress: %v", err)
	}
	if math.Abs(res.Beta+1.5) > 1e-12 {
		t.Errorf("beta = %g, want -1.5 (no clipping)", res.Beta)
	}
}

func TestRegressErrors(t *testing.T) {
	if _, err := Regress([]float64{1, 2}, []float64{1, 2, 3}); err == nil {
		t.Error("expected length mismatch error")
	}

	var ide *InsufficientDataError
	if _, err := Regress([]float64{1}, []float64{1}); !errors.As(err, &ide) {
		t.Errorf("err = %v, want InsufficientDataError", err)
	}

	var dre *DegenerateRegressionError
	flat := []float64{0.004, 0.004, 0.004, 0.004}
	if _, err := Regress([]float64{0.01, 0.02, 0.03, 0.04}, flat); !errors.As(err, &dre) {
		t.Errorf("err = %v, want DegenerateRegressionError", err)
	}
}
