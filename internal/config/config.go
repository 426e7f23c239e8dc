package config

import (
	"fmt"
	"time"
)

// Config holds run settings (in-memory representation). Persistence is
// handled by the internal/db package; flags in main override whatever was
// persisted.
type Config struct {
	Tickers        []string `json:"tickers"`
	Benchmark      string   `json:"benchmark"`
	StartDate      string   `json:"start_date"` // YYYY-MM-DD
	EndDate        string   `json:"end_date"`   // YYYY-MM-DD
	Interval       string   `json:"interval"`   // 1d or 1wk
	AnnualRiskFree float64  `json:"annual_risk_free"`
	FrontierPoints int      `json:"frontier_points"`
	Workers        int      `json:"workers"`
	MaxIterations  int      `json:"max_iterations"`
	Tolerance      float64  `json:"tolerance"`
	OutputDir      string   `json:"output_dir"`
}

// Default returns a Config with sensible defaults. Tickers and the date
// range have no meaningful default and must come from flags or the saved
// config.
func Default() *Config {
	return &Config{
		Benchmark:      "^GSPC",
		Interval:       "1d",
		AnnualRiskFree: 0.017,
		FrontierPoints: 50,
		Workers:        4,
		MaxIterations:  2000,
		Tolerance:      1e-10,
		OutputDir:      "out",
	}
}

// Validate checks the config is complete enough to run an analysis.
func (c *Config) Validate() error {
	if len(c.Tickers) == 0 {
		return fmt.Errorf("at least one ticker is required")
	}
	if c.Benchmark == "" {
		return fmt.Errorf("benchmark symbol is required")
	}
	start, err := time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return fmt.Errorf("bad start date %q: %w", c.StartDate, err)
	}
	end, err := time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return fmt.Errorf("bad end date %q: %w", c.EndDate, err)
	}
	if !end.After(start) {
		return fmt.Errorf("end date %s is not after start date %s", c.EndDate, c.StartDate)
	}
	if c.Interval != "1d" && c.Interval != "1wk" {
		return fmt.Errorf("interval must be 1d or 1wk, got %q", c.Interval)
	}
	if c.FrontierPoints < 2 {
		return fmt.Errorf("frontier points must be at least 2, got %d", c.FrontierPoints)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max iterations must be positive, got %d", c.MaxIterations)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive, got %g", c.Tolerance)
	}
	return nil
}
