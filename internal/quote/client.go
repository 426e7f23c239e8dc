package quote

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// maxConcurrentRequests caps in-flight calls to the quote API. Yahoo
// throttles aggressively beyond a handful of parallel connections.
const maxConcurrentRequests = 8

// Cache is a persistent store for fetched close series, keyed by symbol,
// sampling interval and date range.
type Cache interface {
	GetCloses(symbol, interval, start, end string) ([]Bar, bool)
	SetCloses(symbol, interval, start, end string, bars []Bar)
}

// Client is a rate-limited quote HTTP client. A nil cache disables
// persistence but the client stays functional.
type Client struct {
	http  *http.Client
	base  string
	sem   chan struct{}
	cache Cache
}

// NewClient creates a quote client backed by the given cache store.
func NewClient(cache Cache) *Client {
	return &Client{
		http:  &http.Client{Timeout: 30 * time.Second},
		base:  defaultBaseURL,
		sem:   make(chan struct{}, maxConcurrentRequests),
		cache: cache,
	}
}

// getJSON fetches a URL and decodes the JSON body into dst.
func (c *Client) getJSON(url string, dst interface{}) error {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "frontier/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("quote API %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}
