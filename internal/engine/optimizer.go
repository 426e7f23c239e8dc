package engine

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/optimize"
)

// Optimizer tuning defaults. All tolerances are explicit so runs are
// reproducible across machines and library versions.
const (
	// DefaultMaxIterations bounds the inner solver's major iterations.
	DefaultMaxIterations = 2000
	// DefaultTolerance is the absolute function-value convergence
	// threshold for the inner solver.
	DefaultTolerance = 1e-10
	// DefaultConstraintTol is the largest equality-constraint residual
	// (including the sum-to-one budget) accepted as "satisfied".
	DefaultConstraintTol = 1e-6
	// defaultPenaltyWeight scales the quadratic penalty attached to each
	// equality constraint. At the penalized optimum the residual is
	// roughly |∇f| / (2·penalty·|coeff|); return-target constraints have
	// coefficients near 1e-3 (daily means), so the weight must be large
	// enough to push that residual under DefaultConstraintTol.
	defaultPenaltyWeight = 1e8
)

// Equality is a linear equality constraint dot(Coeffs, w) = Target,
// supplied per call on top of the fixed budget constraint.
type Equality struct {
	Coeffs []float64
	Target float64
}

// Optimizer minimizes a scalar objective over long-only, fully-invested
// weight vectors: every component in [0,1] and Σw = 1, plus any extra
// linear equality constraints. Box bounds are enforced by projection and
// equalities by a quadratic penalty, solved with Nelder-Mead and a BFGS
// fallback. The zero value is not usable; construct with NewOptimizer.
type Optimizer struct {
	MaxIterations int
	Tolerance     float64
	ConstraintTol float64
	PenaltyWeight float64
}

// NewOptimizer returns an Optimizer with the package defaults.
func NewOptimizer() *Optimizer {
	return &Optimizer{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		ConstraintTol: DefaultConstraintTol,
		PenaltyWeight: defaultPenaltyWeight,
	}
}

// UniformWeights is the deterministic 1/n starting point shared by every
// search. A fixed start avoids random-seed dependence between runs.
func UniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}

// Minimize finds weights minimizing objective subject to the structural
// constraints and the supplied equalities. initial may be nil to start
// from the uniform portfolio. The second return value reports whether the
// solution satisfies every constraint within ConstraintTol; callers must
// discard weights returned with false rather than treat them as a
// portfolio. Infeasible equality targets are an expected occurrence, so
// non-convergence is a flag, never a panic or error.
func (o *Optimizer) Minimize(objective func([]float64) float64, n int, eqs []Equality, initial []float64) ([]float64, bool) {
	if n == 0 {
		return nil, false
	}
	for _, eq := range eqs {
		if len(eq.Coeffs) != n {
			return nil, false
		}
	}
	if initial == nil {
		initial = UniformWeights(n)
	}

	penalized := func(x []float64) float64 {
		w := clampToBox(x)
		val := objective(w)
		val += o.PenaltyWeight * square(sumOf(w)-1)
		for _, eq := range eqs {
			val += o.PenaltyWeight * square(dot(eq.Coeffs, w)-eq.Target)
		}
		return val
	}

	problem := optimize.Problem{
		Func: penalized,
		Grad: func(grad, x []float64) {
			fd.Gradient(grad, penalized, x, nil)
		},
	}
	settings := &optimize.Settings{
		MajorIterations: o.MaxIterations,
		Converger: &optimize.FunctionConverge{
			Absolute:   o.Tolerance,
			Iterations: 50,
		},
	}

	start := append([]float64(nil), initial...)
	result, err := optimize.Minimize(problem, start, settings, &optimize.NelderMead{})
	if err != nil || !acceptableStatus(result.Status) {
		// Simplex search can stall on stiff penalty surfaces; retry with a
		// quasi-Newton step from the same start.
		start = append([]float64(nil), initial...)
		retry, retryErr := optimize.Minimize(problem, start, settings, &optimize.BFGS{})
		if retryErr == nil && retry != nil && acceptableStatus(retry.Status) {
			result, err = retry, nil
		} else if result == nil {
			result, err = retry, retryErr
		}
	}
	if result == nil || len(result.X) != n {
		return nil, false
	}

	weights := clampToBox(result.X)
	sum := sumOf(weights)

	converged := err == nil && math.Abs(sum-1) <= o.ConstraintTol
	if sum > 0 {
		for i := range weights {
			weights[i] /= sum
		}
	}
	for _, eq := range eqs {
		if math.Abs(dot(eq.Coeffs, weights)-eq.Target) > o.ConstraintTol {
			converged = false
		}
	}
	return weights, converged
}

// acceptableStatus whitelists the gonum statuses that mean the solver
// actually settled, rather than hitting a budget or failing outright.
func acceptableStatus(s optimize.Status) bool {
	switch s {
	case optimize.Success, optimize.FunctionConvergence, optimize.GradientThreshold, optimize.StepConvergence:
		return true
	}
	return false
}

// clampToBox copies x with every component clipped to [0,1].
func clampToBox(x []float64) []float64 {
	w := make([]float64, len(x))
	for i, v := range x {
		switch {
		case v < 0:
			w[i] = 0
		case v > 1:
			w[i] = 1
		default:
			w[i] = v
		}
	}
	return w
}

func sumOf(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func square(v float64) float64 { return v * v }
