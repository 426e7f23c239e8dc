package db

import (
	"time"

	"frontier/internal/quote"
)

// quoteCacheTTL is how long a cached range stays fresh. Closes for a fixed
// historical range rarely change, but late corrections and the still-open
// current period make a bounded lifetime safer than forever.
const quoteCacheTTL = 24 * time.Hour

// GetCloses retrieves cached closes for a symbol, interval and date range.
// Returns nil, false when absent or older than the TTL.
func (d *DB) GetCloses(symbol, interval, start, end string) ([]quote.Bar, bool) {
	var updatedAt string
	err := d.sql.QueryRow(
		"SELECT updated_at FROM quote_history_meta WHERE symbol=? AND interval=? AND start_date=? AND end_date=?",
		symbol, interval, start, end,
	).Scan(&updatedAt)
	if err != nil {
		return nil, false
	}

	t, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil || time.Since(t) > quoteCacheTTL {
		return nil, false
	}

	rows, err := d.sql.Query(
		"SELECT date, close FROM quote_history WHERE symbol=? AND interval=? AND start_date=? AND end_date=? ORDER BY date",
		symbol, interval, start, end,
	)
	if err != nil {
		return nil, false
	}
	defer rows.Close()

	var bars []quote.Bar
	for rows.Next() {
		var b quote.Bar
		if err := rows.Scan(&b.Date, &b.Close); err != nil {
			continue
		}
		bars = append(bars, b)
	}
	if len(bars) == 0 {
		return nil, false
	}
	return bars, true
}

// SetCloses stores closes for a symbol, interval and date range, replacing
// any previous entry for the same key.
func (d *DB) SetCloses(symbol, interval, start, end string, bars []quote.Bar) {
	tx, err := d.sql.Begin()
	if err != nil {
		return
	}
	defer tx.Rollback()

	tx.Exec("DELETE FROM quote_history WHERE symbol=? AND interval=? AND start_date=? AND end_date=?", symbol, interval, start, end)

	stmt, err := tx.Prepare("INSERT INTO quote_history (symbol, interval, start_date, end_date, date, close) VALUES (?,?,?,?,?,?)")
	if err != nil {
		return
	}
	defer stmt.Close()

	for _, b := range bars {
		stmt.Exec(symbol, interval, start, end, b.Date, b.Close)
	}

	tx.Exec(
		"INSERT OR REPLACE INTO quote_history_meta (symbol, interval, start_date, end_date, updated_at) VALUES (?,?,?,?,?)",
		symbol, interval, start, end, time.Now().UTC().Format(time.RFC3339),
	)

	tx.Commit()
}

// CleanupStaleQuotes removes cached ranges that have not been refreshed
// within the TTL, keeping the database from growing without bound across
// many different ticker/date combinations.
func (d *DB) CleanupStaleQuotes() {
	cutoff := time.Now().Add(-quoteCacheTTL).UTC().Format(time.RFC3339)
	d.sql.Exec(`
		DELETE FROM quote_history WHERE (symbol, interval, start_date, end_date) IN (
			SELECT symbol, interval, start_date, end_date FROM quote_history_meta WHERE updated_at < ?
		)
	`, cutoff)
	d.sql.Exec("DELETE FROM quote_history_meta WHERE updated_at < ?", cutoff)
}
