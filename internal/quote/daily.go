package quote

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Bar is one period's closing price for a symbol. For daily data the date
// is the trading day; for weekly data it is the week's first trading day
// and the close is the week's last price, matching the upstream feed.
type Bar struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Close float64 `json:"close"`
}

// Supported sampling intervals for close series.
const (
	IntervalDaily  = "1d"
	IntervalWeekly = "1wk"
)

// ValidInterval reports whether the client can fetch the given interval.
func ValidInterval(interval string) bool {
	return interval == IntervalDaily || interval == IntervalWeekly
}

// chartResponse mirrors the Yahoo Finance v8 chart payload, trimmed to the
// fields we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyCloses fetches the daily closing prices for symbol between start
// and end (inclusive, YYYY-MM-DD).
func (c *Client) DailyCloses(symbol, start, end string) ([]Bar, error) {
	return c.Closes(symbol, IntervalDaily, start, end)
}

// WeeklyCloses fetches one close per week (the week's last traded price)
// for symbol between start and end.
func (c *Client) WeeklyCloses(symbol, start, end string) ([]Bar, error) {
	return c.Closes(symbol, IntervalWeekly, start, end)
}

// Closes fetches closing prices for symbol at the given sampling interval
// between start and end (inclusive, YYYY-MM-DD). Served from the cache
// when a fresh entry for the exact symbol, interval and range exists.
func (c *Client) Closes(symbol, interval, start, end string) ([]Bar, error) {
	if !ValidInterval(interval) {
		return nil, fmt.Errorf("unsupported interval %q", interval)
	}
	if c.cache != nil {
		if bars, ok := c.cache.GetCloses(symbol, interval, start, end); ok {
			return bars, nil
		}
	}

	startT, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("bad start date %q: %w", start, err)
	}
	endT, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("bad end date %q: %w", end, err)
	}
	if !endT.After(startT) {
		return nil, fmt.Errorf("end date %s is not after start date %s", end, start)
	}

	// period2 is exclusive on the API side; push it one day past the end
	// so the end date's close is included.
	reqURL := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=%s&events=history",
		c.base, url.PathEscape(symbol), startT.Unix(), endT.AddDate(0, 0, 1).Unix(), url.QueryEscape(interval))

	var payload chartResponse
	if err := c.getJSON(reqURL, &payload); err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	bars, err := parseChart(&payload)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}

	if c.cache != nil {
		c.cache.SetCloses(symbol, interval, start, end, bars)
	}
	return bars, nil
}

// parseChart extracts sorted daily bars from a chart payload, skipping
// null/zero closes (holidays and half-day gaps in the feed).
func parseChart(payload *chartResponse) ([]Bar, error) {
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("quote API error %s: %s", payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, errors.New("empty chart result")
	}

	res := payload.Chart.Result[0]
	closes := res.Indicators.Quote[0].Close
	bars := make([]Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] <= 0 {
			continue
		}
		bars = append(bars, Bar{
			Date:  time.Unix(ts, 0).UTC().Format("2006-01-02"),
			Close: closes[i],
		})
	}
	if len(bars) == 0 {
		return nil, errors.New("no usable bars")
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, nil
}

// FetchAll retrieves closes for every symbol concurrently at the given
// interval. The first failed symbol aborts the batch; partial data would
// silently skew the downstream join.
func (c *Client) FetchAll(symbols []string, interval, start, end string) (map[string][]Bar, error) {
	out := make(map[string][]Bar, len(symbols))
	var mu sync.Mutex
	var g errgroup.Group

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			bars, err := c.Closes(symbol, interval, start, end)
			if err != nil {
				return err
			}
			mu.Lock()
			out[symbol] = bars
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
