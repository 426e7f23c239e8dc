package chart

import (
	"bytes"
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"frontier/internal/engine"
)

// sampleCurve includes a folded lower branch: the first point has a lower
// target return but higher risk than the minimum-variance point after it.
func sampleCurve() engine.FrontierCurve {
	return engine.FrontierCurve{
		{TargetReturn: 0.0008, Portfolio: engine.Portfolio{ExpectedReturn: 0.0008, Risk: 0.0100}},
		{TargetReturn: 0.0010, Portfolio: engine.Portfolio{ExpectedReturn: 0.0010, Risk: 0.0090}},
		{TargetReturn: 0.0013, Portfolio: engine.Portfolio{ExpectedReturn: 0.0013, Risk: 0.0095}},
		{TargetReturn: 0.0016, Portfolio: engine.Portfolio{ExpectedReturn: 0.0016, Risk: 0.0110}},
		{TargetReturn: 0.0020, Portfolio: engine.Portfolio{ExpectedReturn: 0.0020, Risk: 0.0140}},
	}
}

func sampleStats() *engine.Statistics {
	return &engine.Statistics{
		Assets:  []string{"AAA", "BBB"},
		Mean:    []float64{0.0010, 0.0020},
		Cov:     mat.NewSymDense(2, []float64{1e-4, 0, 0, 4e-4}),
		Stdev:   []float64{0.0100, 0.0200},
		Periods: 100,
	}
}

func TestRenderFrontier(t *testing.T) {
	tangent := &engine.Portfolio{ExpectedReturn: 0.0016, Risk: 0.011}
	png, err := RenderFrontier(sampleCurve(), tangent, sampleStats(), 0.00005)
	if err != nil {
		t.Fatalf("RenderFrontier: %v", err)
	}
	if len(png) == 0 {
		t.Fatal("empty image")
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("output does not start with a PNG signature")
	}
}

func TestRenderFrontierRejectsDegenerateInput(t *testing.T) {
	tangent := &engine.Portfolio{ExpectedReturn: 0.0016, Risk: 0.011}
	stats := sampleStats()

	if _, err := RenderFrontier(sampleCurve()[:2], tangent, stats, 0); err == nil {
		t.Error("expected error when the efficient branch has a single point")
	}
	if _, err := RenderFrontier(sampleCurve(), nil, stats, 0); err == nil {
		t.Error("expected error for nil tangent")
	}
	if _, err := RenderFrontier(sampleCurve(), &engine.Portfolio{Risk: 0}, stats, 0); err == nil {
		t.Error("expected error for zero-risk tangent")
	}
	if _, err := RenderFrontier(sampleCurve(), tangent, nil, 0); err == nil {
		t.Error("expected error for missing statistics")
	}
}

func TestEfficientBranch(t *testing.T) {
	branch := efficientBranch(sampleCurve())
	if len(branch) != 4 {
		t.Fatalf("branch has %d points, want 4 (folded point trimmed)", len(branch))
	}
	if branch[0].Portfolio.Risk != 0.0090 {
		t.Errorf("branch starts at risk %g, want the minimum 0.0090", branch[0].Portfolio.Risk)
	}
	for i := 1; i < len(branch); i++ {
		if branch[i].Portfolio.Risk < branch[i-1].Portfolio.Risk {
			t.Errorf("branch risk decreases at %d", i)
		}
	}

	if efficientBranch(nil) != nil {
		t.Error("empty curve should yield nil branch")
	}
}

func TestBranchValue(t *testing.T) {
	branch := efficientBranch(sampleCurve())
	null := -1.0

	// Exact knots.
	if got := branchValue(branch, 0.0090, null); math.Abs(got-0.0010) > 1e-15 {
		t.Errorf("value at first knot = %g, want 0.0010", got)
	}
	if got := branchValue(branch, 0.0140, null); math.Abs(got-0.0020) > 1e-15 {
		t.Errorf("value at last knot = %g, want 0.0020", got)
	}

	// Midpoint between the 0.0095 and 0.0110 knots.
	got := branchValue(branch, 0.01025, null)
	want := (0.0013 + 0.0016) / 2
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("interpolated value = %g, want %g", got, want)
	}

	// Outside the branch range.
	if got := branchValue(branch, 0.005, null); got != null {
		t.Errorf("value below range = %g, want null", got)
	}
	if got := branchValue(branch, 0.05, null); got != null {
		t.Errorf("value above range = %g, want null", got)
	}
}
