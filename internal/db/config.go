package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	"frontier/internal/config"
)

// LoadConfig reads config from SQLite. Missing keys keep their defaults.
func (d *DB) LoadConfig() *config.Config {
	cfg := config.Default()

	rows, err := d.sql.Query("SELECT key, value FROM config")
	if err != nil {
		return cfg
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var k, v string
		rows.Scan(&k, &v)
		m[k] = v
	}
	if len(m) == 0 {
		return cfg
	}

	if v, ok := m["tickers"]; ok {
		var tickers []string
		if err := json.Unmarshal([]byte(v), &tickers); err == nil {
			cfg.Tickers = tickers
		}
	}
	if v, ok := m["benchmark"]; ok {
		cfg.Benchmark = v
	}
	if v, ok := m["start_date"]; ok {
		cfg.StartDate = v
	}
	if v, ok := m["end_date"]; ok {
		cfg.EndDate = v
	}
	if v, ok := m["interval"]; ok {
		cfg.Interval = v
	}
	if v, ok := m["annual_risk_free"]; ok {
		cfg.AnnualRiskFree, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["frontier_points"]; ok {
		cfg.FrontierPoints, _ = strconv.Atoi(v)
	}
	if v, ok := m["workers"]; ok {
		cfg.Workers, _ = strconv.Atoi(v)
	}
	if v, ok := m["max_iterations"]; ok {
		cfg.MaxIterations, _ = strconv.Atoi(v)
	}
	if v, ok := m["tolerance"]; ok {
		cfg.Tolerance, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := m["output_dir"]; ok {
		cfg.OutputDir = v
	}

	return cfg
}

// SaveConfig writes config to SQLite (upsert all fields).
func (d *DB) SaveConfig(cfg *config.Config) error {
	tickersJSON := "[]"
	if b, err := json.Marshal(cfg.Tickers); err == nil {
		tickersJSON = string(b)
	}

	pairs := map[string]string{
		"tickers":          tickersJSON,
		"benchmark":        cfg.Benchmark,
		"start_date":       cfg.StartDate,
		"end_date":         cfg.EndDate,
		"interval":         cfg.Interval,
		"annual_risk_free": fmt.Sprintf("%g", cfg.AnnualRiskFree),
		"frontier_points":  strconv.Itoa(cfg.FrontierPoints),
		"workers":          strconv.Itoa(cfg.Workers),
		"max_iterations":   strconv.Itoa(cfg.MaxIterations),
		"tolerance":        fmt.Sprintf("%g", cfg.Tolerance),
		"output_dir":       cfg.OutputDir,
	}

	tx, err := d.sql.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for k, v := range pairs {
		if _, err := stmt.Exec(k, v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}
