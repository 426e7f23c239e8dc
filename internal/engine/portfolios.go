package engine

import (
	"math"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Portfolio is an immutable optimizer result: long-only weights over the
// statistics' asset ordering plus the point they occupy in risk/return
// space.
type Portfolio struct {
	Weights        []float64
	ExpectedReturn float64
	Risk           float64
}

// FrontierPoint pairs a requested target return with the minimum-risk
// portfolio attaining it.
type FrontierPoint struct {
	TargetReturn float64
	Portfolio    Portfolio
}

// FrontierCurve is an efficient frontier, ordered by ascending target
// return. Targets whose solve did not converge are absent, so the curve
// may be shorter than the requested sweep.
type FrontierCurve []FrontierPoint

// MinVariancePortfolio finds the long-only, fully-invested portfolio with
// the smallest risk. It is the leftmost point of the efficient frontier.
func MinVariancePortfolio(s *Statistics, opt *Optimizer) (*Portfolio, error) {
	// Surfaces a non-PSD covariance before the solver runs.
	if _, _, err := Evaluate(UniformWeights(s.NumAssets()), s); err != nil {
		return nil, err
	}

	weights, converged := opt.Minimize(func(w []float64) float64 {
		return portfolioRisk(w, s)
	}, s.NumAssets(), nil, nil)
	if !converged {
		return nil, ErrNoConvergence
	}
	return newPortfolio(weights, s)
}

// TargetSweep generates an evenly spaced run of target returns between the
// smallest and largest per-asset mean return. Targets near the ends may be
// infeasible under the no-short-sale bound; the frontier solve drops those.
func TargetSweep(s *Statistics, points int) []float64 {
	if points < 2 || s.NumAssets() == 0 {
		return nil
	}
	lo, hi := s.Mean[0], s.Mean[0]
	for _, m := range s.Mean[1:] {
		if m < lo {
			lo = m
		}
		if m > hi {
			hi = m
		}
	}
	targets := make([]float64, points)
	step := (hi - lo) / float64(points-1)
	for i := range targets {
		targets[i] = lo + float64(i)*step
	}
	return targets
}

// EfficientFrontier solves one minimum-risk portfolio per target return
// and assembles the surviving points into a curve sorted by target return.
// Each target's solve is independent, so the sweep fans out across up to
// workers goroutines; ordering is restored afterwards. Non-converged
// targets (infeasible returns) are dropped silently — the caller sees a
// shorter curve, not an error.
func EfficientFrontier(s *Statistics, targets []float64, opt *Optimizer, workers int) (FrontierCurve, error) {
	if _, _, err := Evaluate(UniformWeights(s.NumAssets()), s); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	points := make([]*FrontierPoint, len(targets))
	var g errgroup.Group
	g.SetLimit(workers)

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			weights, converged := opt.Minimize(func(w []float64) float64 {
				return portfolioRisk(w, s)
			}, s.NumAssets(), []Equality{{Coeffs: s.Mean, Target: target}}, nil)
			if !converged {
				return nil
			}
			p, err := newPortfolio(weights, s)
			if err != nil {
				return err
			}
			points[i] = &FrontierPoint{TargetReturn: target, Portfolio: *p}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curve := make(FrontierCurve, 0, len(targets))
	for _, p := range points {
		if p != nil {
			curve = append(curve, *p)
		}
	}
	sort.Slice(curve, func(i, j int) bool {
		return curve[i].TargetReturn < curve[j].TargetReturn
	})
	return curve, nil
}

// TangentPortfolio finds the maximum-Sharpe portfolio by minimizing the
// negated Sharpe ratio under the same long-only budget constraints.
// riskFreeRate must be expressed per return period (see PeriodRate). When
// every feasible portfolio has non-positive excess return the solver may
// settle on a boundary portfolio such as the minimum-variance one; that is
// accepted output, not an error.
func TangentPortfolio(s *Statistics, riskFreeRate float64, opt *Optimizer) (*Portfolio, error) {
	if _, _, err := Evaluate(UniformWeights(s.NumAssets()), s); err != nil {
		return nil, err
	}

	weights, converged := opt.Minimize(func(w []float64) float64 {
		risk := portfolioRisk(w, s)
		if risk < 1e-12 {
			risk = 1e-12
		}
		return -(portfolioReturn(w, s) - riskFreeRate) / risk
	}, s.NumAssets(), nil, nil)
	if !converged {
		return nil, ErrNoConvergence
	}
	return newPortfolio(weights, s)
}

// newPortfolio snapshots converged weights into an immutable Portfolio.
func newPortfolio(weights []float64, s *Statistics) (*Portfolio, error) {
	ret, risk, err := Evaluate(weights, s)
	if err != nil {
		return nil, err
	}
	return &Portfolio{
		Weights:        append([]float64(nil), weights...),
		ExpectedReturn: ret,
		Risk:           risk,
	}, nil
}

// MaxWeight reports the largest single allocation, a quick concentration
// check for display.
func (p *Portfolio) MaxWeight() float64 {
	m := math.Inf(-1)
	for _, w := range p.Weights {
		if w > m {
			m = w
		}
	}
	if math.IsInf(m, -1) {
		return 0
	}
	return m
}
