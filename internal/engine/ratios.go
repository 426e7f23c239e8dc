package engine

import "math"

// zeroDenominatorTol is the magnitude below which beta or stdev counts as
// zero for ratio purposes. Ratios fail explicitly instead of returning a
// silently huge or NaN value.
const zeroDenominatorTol = 1e-12

// PeriodsPerYear is the trading-day count used to convert annualized rates
// into per-period rates. The tool standardizes on trading-day compounding
// throughout; calendar-day (365) scaling is intentionally not used.
const PeriodsPerYear = 252

// WeeksPerYear is the period count for weekly return series.
const WeeksPerYear = 52

// PeriodRate converts an annualized rate into a per-period rate via
// compounding: (1+annual)^(1/periodsPerYear) - 1. The result is in the
// same period unit as the return series it will be combined with.
func PeriodRate(annualRate float64, periodsPerYear int) float64 {
	return math.Pow(1+annualRate, 1/float64(periodsPerYear)) - 1
}

// ReturnToRisk is mean return per unit of total risk.
func ReturnToRisk(mean, stdev float64) (float64, error) {
	if math.Abs(stdev) < zeroDenominatorTol {
		return 0, &ZeroDenominatorError{Quantity: "standard deviation"}
	}
	return mean / stdev, nil
}

// SharpeRatio is excess return over the risk-free rate per unit of total
// risk. Negative when the mean return is below the risk-free rate.
func SharpeRatio(mean, riskFreeRate, stdev float64) (float64, error) {
	if math.Abs(stdev) < zeroDenominatorTol {
		return 0, &ZeroDenominatorError{Quantity: "standard deviation"}
	}
	return (mean - riskFreeRate) / stdev, nil
}

// TreynorRatio is excess return per unit of systematic risk (beta). A beta
// within tolerance of zero has no defined Treynor ratio.
func TreynorRatio(mean, riskFreeRate, beta float64) (float64, error) {
	if math.Abs(beta) < zeroDenominatorTol {
		return 0, &ZeroDenominatorError{Quantity: "beta"}
	}
	return (mean - riskFreeRate) / beta, nil
}

// JensenAlpha is the realized excess return beyond what the market model
// predicts: mean - (rf + beta*(benchmarkMean - rf)).
func JensenAlpha(mean, riskFreeRate, beta, benchmarkMean float64) float64 {
	return mean - (riskFreeRate + beta*(benchmarkMean-riskFreeRate))
}
