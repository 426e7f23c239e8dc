package engine

import (
	"fmt"
	"sort"

	"frontier/internal/quote"
)

// minReturnPeriods is the smallest aligned return count the statistics
// accept: sample covariance needs at least two observations.
const minReturnPeriods = 2

// ReturnMatrix holds fractional period-over-period returns for a set of
// assets on a shared, strictly increasing date index. Rows are assets,
// columns are periods. All series have identical length by construction.
type ReturnMatrix struct {
	Assets  []string
	Dates   []string    // YYYY-MM-DD, ascending; one entry per return period
	Returns [][]float64 // [asset][period]
}

// BuildReturnMatrix converts raw daily close series into an aligned return
// matrix. Series are inner-joined on date first (sources do not guarantee
// identical trading calendars), then each price run is turned into
// fractional changes with the first, undefined period dropped.
func BuildReturnMatrix(series map[string][]quote.Bar) (*ReturnMatrix, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no price series supplied")
	}

	assets := make([]string, 0, len(series))
	for sym := range series {
		assets = append(assets, sym)
	}
	sort.Strings(assets)

	// Inner join: keep only dates present with a usable close in every series.
	count := make(map[string]int)
	closes := make(map[string]map[string]float64, len(assets))
	for _, sym := range assets {
		bySym := make(map[string]float64, len(series[sym]))
		for _, bar := range series[sym] {
			if bar.Close <= 0 {
				continue
			}
			if _, dup := bySym[bar.Date]; dup {
				continue
			}
			bySym[bar.Date] = bar.Close
			count[bar.Date]++
		}
		closes[sym] = bySym
	}

	common := make([]string, 0, len(count))
	for date, c := range count {
		if c == len(assets) {
			common = append(common, date)
		}
	}
	sort.Strings(common)

	// T prices produce T-1 returns.
	periods := len(common) - 1
	if periods < minReturnPeriods {
		return nil, &InsufficientDataError{Periods: periods, Required: minReturnPeriods}
	}

	returns := make([][]float64, len(assets))
	for i, sym := range assets {
		row := make([]float64, periods)
		for t := 0; t < periods; t++ {
			prev := closes[sym][common[t]]
			cur := closes[sym][common[t+1]]
			row[t] = cur/prev - 1
		}
		returns[i] = row
	}

	return &ReturnMatrix{
		Assets:  assets,
		Dates:   common[1:],
		Returns: returns,
	}, nil
}

// Periods reports the number of aligned return periods.
func (rm *ReturnMatrix) Periods() int {
	if len(rm.Returns) == 0 {
		return 0
	}
	return len(rm.Returns[0])
}

// Series returns one asset's aligned return series.
func (rm *ReturnMatrix) Series(asset string) ([]float64, bool) {
	for i, a := range rm.Assets {
		if a == asset {
			return rm.Returns[i], true
		}
	}
	return nil, false
}

// Select builds a sub-matrix restricted to the given assets, preserving the
// shared date index. Asset order follows the argument order.
func (rm *ReturnMatrix) Select(assets []string) (*ReturnMatrix, error) {
	sub := &ReturnMatrix{
		Assets:  make([]string, 0, len(assets)),
		Dates:   rm.Dates,
		Returns: make([][]float64, 0, len(assets)),
	}
	for _, a := range assets {
		row, ok := rm.Series(a)
		if !ok {
			return nil, fmt.Errorf("asset %q not in return matrix", a)
		}
		sub.Assets = append(sub.Assets, a)
		sub.Returns = append(sub.Returns, row)
	}
	return sub, nil
}

// WeightedReturns collapses the matrix into a single portfolio return
// series under the given weight vector.
func (rm *ReturnMatrix) WeightedReturns(weights []float64) ([]float64, error) {
	if len(weights) != len(rm.Assets) {
		return nil, fmt.Errorf("weight count %d does not match %d assets", len(weights), len(rm.Assets))
	}
	out := make([]float64, rm.Periods())
	for t := range out {
		for i, w := range weights {
			out[t] += w * rm.Returns[i][t]
		}
	}
	return out, nil
}
