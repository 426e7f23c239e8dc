package chart

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vicanso/go-charts/v2"

	"frontier/internal/engine"
)

// RenderFrontier draws the efficient frontier together with the Capital
// Allocation Line through the tangent portfolio, a marker for the tangent
// portfolio itself and one labeled point per asset. The x axis is
// portfolio risk (standard deviation per period), ascending; the y axis is
// expected return per period. Only the upper (efficient) branch of the
// curve is drawn: below the minimum-variance return the frontier folds
// back on itself and the risk axis would stop being monotone.
func RenderFrontier(curve engine.FrontierCurve, tangent *engine.Portfolio, stats *engine.Statistics, riskFreeRate float64) ([]byte, error) {
	branch := efficientBranch(curve)
	if len(branch) < 2 {
		return nil, errors.New("not enough efficient frontier points to draw")
	}
	if tangent == nil || tangent.Risk <= 0 {
		return nil, errors.New("tangent portfolio with positive risk required for the CAL")
	}
	if stats == nil || stats.NumAssets() == 0 {
		return nil, errors.New("asset statistics required for the asset markers")
	}

	// Shared x grid: every risk value that must carry a point, ascending.
	xs := make([]float64, 0, len(branch)+stats.NumAssets()+1)
	for _, p := range branch {
		xs = append(xs, p.Portfolio.Risk)
	}
	xs = append(xs, stats.Stdev...)
	xs = append(xs, tangent.Risk)
	sort.Float64s(xs)
	xs = dedupe(xs)

	null := charts.GetNullValue()
	calSlope := (tangent.ExpectedReturn - riskFreeRate) / tangent.Risk

	frontierY := make([]float64, len(xs))
	calY := make([]float64, len(xs))
	xLabels := make([]string, len(xs))
	for i, x := range xs {
		xLabels[i] = fmt.Sprintf("%.4f", x)
		frontierY[i] = branchValue(branch, x, null)
		calY[i] = riskFreeRate + calSlope*x
	}

	pointSeries := func(x, y float64) []float64 {
		vals := make([]float64, len(xs))
		for i := range vals {
			vals[i] = null
		}
		vals[nearestIndex(xs, x)] = y
		return vals
	}

	values := [][]float64{frontierY, calY, pointSeries(tangent.Risk, tangent.ExpectedReturn)}
	names := []string{"Efficient Frontier", "CAL", "Tangent Portfolio"}
	for i, asset := range stats.Assets {
		values = append(values, pointSeries(stats.Stdev[i], stats.Mean[i]))
		names = append(names, asset)
	}

	seriesList := charts.NewSeriesListDataFromValues(values, charts.ChartTypeLine)
	for i := range seriesList {
		seriesList[i].Name = names[i]
		if i >= 2 {
			// Single-point marker series: label the dot.
			seriesList[i].Label = charts.SeriesLabel{Show: true}
		}
	}

	yMin, yMax := rangeOf(values, null)
	pad := (yMax - yMin) * 0.05
	if pad <= 0 {
		pad = 1e-6
	}
	yMin -= pad
	yMax += pad

	painter, err := charts.Render(charts.ChartOption{
		SeriesList: seriesList,
		SymbolShow: charts.TrueFlag(),
	},
		charts.TitleTextOptionFunc("Efficient Frontier & Capital Allocation Line"),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			BoundaryGap: charts.FalseFlag(),
			SplitNumber: 10,
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
	)
	if err != nil {
		return nil, err
	}
	return painter.Bytes()
}

// efficientBranch cuts a frontier curve down to its upper branch: the
// points from the minimum-risk portfolio upward in target return.
func efficientBranch(curve engine.FrontierCurve) engine.FrontierCurve {
	if len(curve) == 0 {
		return nil
	}
	minIdx := 0
	for i, p := range curve {
		if p.Portfolio.Risk < curve[minIdx].Portfolio.Risk {
			minIdx = i
		}
	}
	return curve[minIdx:]
}

// branchValue linearly interpolates the branch's return at risk x; null
// outside the branch's risk range.
func branchValue(branch engine.FrontierCurve, x, null float64) float64 {
	first, last := branch[0].Portfolio, branch[len(branch)-1].Portfolio
	if x < first.Risk || x > last.Risk {
		return null
	}
	for i := 1; i < len(branch); i++ {
		lo, hi := branch[i-1].Portfolio, branch[i].Portfolio
		if x > hi.Risk {
			continue
		}
		if hi.Risk == lo.Risk {
			return hi.ExpectedReturn
		}
		t := (x - lo.Risk) / (hi.Risk - lo.Risk)
		return lo.ExpectedReturn + t*(hi.ExpectedReturn-lo.ExpectedReturn)
	}
	return last.ExpectedReturn
}

func nearestIndex(xs []float64, x float64) int {
	best := 0
	for i, v := range xs {
		if abs(v-x) < abs(xs[best]-x) {
			best = i
		}
	}
	return best
}

func dedupe(sorted []float64) []float64 {
	out := sorted[:0]
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			out = append(out, v)
		}
	}
	return out
}

func rangeOf(values [][]float64, null float64) (float64, float64) {
	lo, hi := 0.0, 0.0
	seen := false
	for _, series := range values {
		for _, v := range series {
			if v == null {
				continue
			}
			if !seen || v < lo {
				lo = v
			}
			if !seen || v > hi {
				hi = v
			}
			seen = true
		}
	}
	return lo, hi
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
