package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"frontier/internal/engine"
)

// WriteReturns writes the aligned daily return matrix as CSV: one row per
// date, one column per asset.
func WriteReturns(path string, rm *engine.ReturnMatrix) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := append([]string{"date"}, rm.Assets...)
		if err := w.Write(header); err != nil {
			return err
		}
		for t, date := range rm.Dates {
			row := make([]string, 0, len(rm.Assets)+1)
			row = append(row, date)
			for i := range rm.Assets {
				row = append(row, formatFloat(rm.Returns[i][t]))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteFrontier writes the efficient frontier curve as CSV: target return,
// achieved return, risk, then one weight column per asset.
func WriteFrontier(path string, curve engine.FrontierCurve, assets []string) error {
	return writeCSV(path, func(w *csv.Writer) error {
		header := []string{"target_return", "expected_return", "risk"}
		for _, a := range assets {
			header = append(header, "w_"+a)
		}
		if err := w.Write(header); err != nil {
			return err
		}
		for _, p := range curve {
			row := []string{
				formatFloat(p.TargetReturn),
				formatFloat(p.Portfolio.ExpectedReturn),
				formatFloat(p.Portfolio.Risk),
			}
			for _, wt := range p.Portfolio.Weights {
				row = append(row, formatFloat(wt))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteWeights writes one portfolio's allocation as CSV: asset, weight.
func WriteWeights(path string, assets []string, p *engine.Portfolio) error {
	if len(assets) != len(p.Weights) {
		return fmt.Errorf("asset count %d does not match %d weights", len(assets), len(p.Weights))
	}
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"asset", "weight"}); err != nil {
			return err
		}
		for i, a := range assets {
			if err := w.Write([]string{a, formatFloat(p.Weights[i])}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, fill func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := fill(w); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
