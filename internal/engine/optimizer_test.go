package engine

import (
	"math"
	"testing"
)

func TestUniformWeights(t *testing.T) {
	w := UniformWeights(4)
	if len(w) != 4 {
		t.Fatalf("len = %d, want 4", len(w))
	}
	for _, v := range w {
		if math.Abs(v-0.25) > 1e-15 {
			t.Errorf("weight = %g, want 0.25", v)
		}
	}
}

func TestMinimizeStructuralConstraints(t *testing.T) {
	opt := NewOptimizer()

	// Σ wᵢ² over the simplex is minimized by the uniform portfolio.
	w, converged := opt.Minimize(func(x []float64) float64 {
		var s float64
		for _, v := range x {
			s += v * v
		}
		return s
	}, 3, nil, nil)
	if !converged {
		t.Fatal("expected convergence")
	}

	var sum float64
	for i, v := range w {
		if v < 0 || v > 1 {
			t.Errorf("weight[%d] = %g outside [0,1]", i, v)
		}
		sum += v
		if math.Abs(v-1.0/3) > 1e-3 {
			t.Errorf("weight[%d] = %g, want ~1/3", i, v)
		}
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum to %g, want 1 after normalization", sum)
	}
}

func TestMinimizeHonorsEquality(t *testing.T) {
	opt := NewOptimizer()
	means := []float64{0.001, 0.002}
	target := 0.0015

	w, converged := opt.Minimize(func(x []float64) float64 {
		var s float64
		for _, v := range x {
			s += v * v
		}
		return s
	}, 2, []Equality{{Coeffs: means, Target: target}}, nil)
	if !converged {
		t.Fatal("expected convergence for feasible target")
	}

	got := w[0]*means[0] + w[1]*means[1]
	if math.Abs(got-target) > DefaultConstraintTol {
		t.Errorf("achieved %g, want %g within %g", got, target, DefaultConstraintTol)
	}
}

func TestMinimizeInfeasibleTarget(t *testing.T) {
	opt := NewOptimizer()
	means := []float64{0.001, 0.002}

	// No long-only combination reaches five times the best asset mean.
	_, converged := opt.Minimize(func(x []float64) float64 {
		var s float64
		for _, v := range x {
			s += v * v
		}
		return s
	}, 2, []Equality{{Coeffs: means, Target: 0.01}}, nil)
	if converged {
		t.Fatal("expected converged=false for an unreachable target")
	}
}

func TestMinimizeDegenerateInputs(t *testing.T) {
	opt := NewOptimizer()
	identity := func(x []float64) float64 { return x[0] }

	if _, converged := opt.Minimize(identity, 0, nil, nil); converged {
		t.Error("n=0 must not converge")
	}
	if _, converged := opt.Minimize(identity, 2, []Equality{{Coeffs: []float64{1}, Target: 1}}, nil); converged {
		t.Error("mismatched coefficient length must not converge")
	}
}

func TestMinimizeSingleAsset(t *testing.T) {
	opt := NewOptimizer()
	w, converged := opt.Minimize(func(x []float64) float64 { return x[0] * x[0] }, 1, nil, nil)
	if !converged {
		t.Fatal("expected convergence")
	}
	if math.Abs(w[0]-1) > 1e-9 {
		t.Errorf("single-asset weight = %g, want 1", w[0])
	}
}
