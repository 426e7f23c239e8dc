package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"frontier/internal/chart"
	"frontier/internal/db"
	"frontier/internal/engine"
	"frontier/internal/export"
	"frontier/internal/logger"
	"frontier/internal/quote"
)

var version = "dev"

func main() {
	tickers := flag.String("tickers", "", "comma-separated asset tickers (e.g. AAPL,MSFT,NVDA)")
	benchmark := flag.String("benchmark", "", "benchmark symbol for beta and ratios")
	start := flag.String("start", "", "start date YYYY-MM-DD")
	end := flag.String("end", "", "end date YYYY-MM-DD")
	interval := flag.String("interval", "", "bar interval: 1d (daily) or 1wk (weekly last price)")
	riskFree := flag.Float64("rf", -1, "annualized risk-free rate (e.g. 0.017)")
	points := flag.Int("points", 0, "number of frontier target returns")
	workers := flag.Int("workers", 0, "parallel frontier solves")
	outDir := flag.String("out", "", "output directory for CSVs and the chart")
	save := flag.Bool("save", false, "persist these settings as future defaults")
	flag.Parse()

	logger.Banner(version)

	database, err := db.Open()
	if err != nil {
		fail("DB", err)
	}
	defer database.Close()
	database.CleanupStaleQuotes()

	cfg := database.LoadConfig()
	if *tickers != "" {
		cfg.Tickers = splitList(*tickers)
	}
	if *benchmark != "" {
		cfg.Benchmark = *benchmark
	}
	if *start != "" {
		cfg.StartDate = *start
	}
	if *end != "" {
		cfg.EndDate = *end
	}
	if *interval != "" {
		cfg.Interval = *interval
	}
	if *riskFree >= 0 {
		cfg.AnnualRiskFree = *riskFree
	}
	if *points > 0 {
		cfg.FrontierPoints = *points
	}
	if *workers > 0 {
		cfg.Workers = *workers
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		fail("Config", err)
	}
	if *save {
		if err := database.SaveConfig(cfg); err != nil {
			logger.Warn("Config", fmt.Sprintf("Save failed: %v", err))
		} else {
			logger.Success("Config", "Settings saved as defaults")
		}
	}

	client := quote.NewClient(database)

	logger.Section("Fetch")
	symbols := append([]string{}, cfg.Tickers...)
	if !contains(symbols, cfg.Benchmark) {
		symbols = append(symbols, cfg.Benchmark)
	}
	logger.Info("FETCH", fmt.Sprintf("%d symbols, %s .. %s, interval %s", len(symbols), cfg.StartDate, cfg.EndDate, cfg.Interval))
	series, err := client.FetchAll(symbols, cfg.Interval, cfg.StartDate, cfg.EndDate)
	if err != nil {
		fail("FETCH", err)
	}
	logger.Success("FETCH", "Price history ready")

	rmAll, err := engine.BuildReturnMatrix(series)
	if err != nil {
		fail("RETURNS", err)
	}
	rmAssets, err := rmAll.Select(cfg.Tickers)
	if err != nil {
		fail("RETURNS", err)
	}
	stats, err := engine.ComputeStatistics(rmAssets)
	if err != nil {
		fail("STATS", err)
	}
	logger.Info("STATS", fmt.Sprintf("%d assets, %d aligned periods", stats.NumAssets(), stats.Periods))

	opt := engine.NewOptimizer()
	opt.MaxIterations = cfg.MaxIterations
	opt.Tolerance = cfg.Tolerance
	periodsPerYear := engine.PeriodsPerYear
	if cfg.Interval == quote.IntervalWeekly {
		periodsPerYear = engine.WeeksPerYear
	}
	periodRiskFree := engine.PeriodRate(cfg.AnnualRiskFree, periodsPerYear)

	logger.Section("Optimize")
	minVar, err := engine.MinVariancePortfolio(stats, opt)
	if err != nil {
		fail("MINVAR", err)
	}
	targets := engine.TargetSweep(stats, cfg.FrontierPoints)
	curve, err := engine.EfficientFrontier(stats, targets, opt, cfg.Workers)
	if err != nil {
		fail("FRONTIER", err)
	}
	if dropped := len(targets) - len(curve); dropped > 0 {
		logger.Warn("FRONTIER", fmt.Sprintf("%d of %d targets infeasible without short selling, dropped", dropped, len(targets)))
	}
	tangent, err := engine.TangentPortfolio(stats, periodRiskFree, opt)
	if err != nil {
		fail("TANGENT", err)
	}

	// Market-model regression of the tangent portfolio on the benchmark.
	portReturns, err := rmAssets.WeightedReturns(tangent.Weights)
	if err != nil {
		fail("BETA", err)
	}
	benchReturns, ok := rmAll.Series(cfg.Benchmark)
	if !ok {
		fail("BETA", fmt.Errorf("benchmark %s missing from return matrix", cfg.Benchmark))
	}
	reg, err := engine.Regress(portReturns, benchReturns)
	if err != nil {
		fail("BETA", err)
	}
	benchMean := meanOf(benchReturns)

	logger.Section("Results")
	logger.Stats("min-variance risk", fmt.Sprintf("%.5f", minVar.Risk))
	logger.Stats("min-variance return", fmt.Sprintf("%.5f", minVar.ExpectedReturn))
	logger.Stats("frontier points", fmt.Sprintf("%d / %d targets", len(curve), len(targets)))
	logger.Stats("tangent return", fmt.Sprintf("%.5f", tangent.ExpectedReturn))
	logger.Stats("tangent risk", fmt.Sprintf("%.5f", tangent.Risk))
	logger.Stats("tangent max weight", fmt.Sprintf("%.2f%%", tangent.MaxWeight()*100))
	for i, asset := range stats.Assets {
		logger.Stats("  w("+asset+")", fmt.Sprintf("%.4f", tangent.Weights[i]))
	}
	logger.Stats("beta vs "+cfg.Benchmark, fmt.Sprintf("%.4f", reg.Beta))
	logger.Stats("regression alpha", fmt.Sprintf("%.6f", reg.Alpha))

	printRatio("return/risk", func() (float64, error) {
		return engine.ReturnToRisk(tangent.ExpectedReturn, tangent.Risk)
	})
	printRatio("Sharpe ratio", func() (float64, error) {
		return engine.SharpeRatio(tangent.ExpectedReturn, periodRiskFree, tangent.Risk)
	})
	printRatio("Treynor ratio", func() (float64, error) {
		return engine.TreynorRatio(tangent.ExpectedReturn, periodRiskFree, reg.Beta)
	})
	logger.Stats("Jensen alpha", fmt.Sprintf("%.6f",
		engine.JensenAlpha(tangent.ExpectedReturn, periodRiskFree, reg.Beta, benchMean)))

	logger.Section("Export")
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fail("EXPORT", err)
	}
	returnsName := "daily_returns.csv"
	if cfg.Interval == quote.IntervalWeekly {
		returnsName = "weekly_returns.csv"
	}
	writes := []struct {
		name string
		fn   func(string) error
	}{
		{returnsName, func(p string) error { return export.WriteReturns(p, rmAll) }},
		{"frontier.csv", func(p string) error { return export.WriteFrontier(p, curve, stats.Assets) }},
		{"tangent_weights.csv", func(p string) error { return export.WriteWeights(p, stats.Assets, tangent) }},
		{"min_variance_weights.csv", func(p string) error { return export.WriteWeights(p, stats.Assets, minVar) }},
	}
	for _, wr := range writes {
		path := filepath.Join(cfg.OutputDir, wr.name)
		if err := wr.fn(path); err != nil {
			fail("EXPORT", err)
		}
		logger.Success("EXPORT", path)
	}

	png, err := chart.RenderFrontier(curve, tangent, stats, periodRiskFree)
	if err != nil {
		logger.Warn("CHART", fmt.Sprintf("Render skipped: %v", err))
	} else {
		path := filepath.Join(cfg.OutputDir, "frontier.png")
		if err := os.WriteFile(path, png, 0644); err != nil {
			fail("CHART", err)
		}
		logger.Success("CHART", path)
	}
}

func printRatio(name string, fn func() (float64, error)) {
	v, err := fn()
	if err != nil {
		logger.Warn("RATIOS", name+": "+err.Error())
		return
	}
	logger.Stats(name, fmt.Sprintf("%.4f", v))
}

func fail(tag string, err error) {
	logger.Error(tag, err.Error())
	os.Exit(1)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func meanOf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}
