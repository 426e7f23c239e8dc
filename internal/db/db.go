package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"frontier/internal/logger"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

func dbPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "frontier.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "frontier.db")
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open() (*DB, error) {
	path := dbPath()
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS quote_history (
				symbol     TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date   TEXT NOT NULL,
				date       TEXT NOT NULL,
				close      REAL NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_quote_history ON quote_history(symbol, start_date, end_date);

			CREATE TABLE IF NOT EXISTS quote_history_meta (
				symbol     TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date   TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (symbol, start_date, end_date)
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1")
	}

	if version < 2 {
		// Cache keys gain a sampling interval. The cache is disposable,
		// so rebuild rather than backfill.
		_, err := d.sql.Exec(`
			DROP TABLE IF EXISTS quote_history;
			DROP TABLE IF EXISTS quote_history_meta;

			CREATE TABLE quote_history (
				symbol     TEXT NOT NULL,
				interval   TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date   TEXT NOT NULL,
				date       TEXT NOT NULL,
				close      REAL NOT NULL
			);
			CREATE INDEX idx_quote_history ON quote_history(symbol, interval, start_date, end_date);

			CREATE TABLE quote_history_meta (
				symbol     TEXT NOT NULL,
				interval   TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date   TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				PRIMARY KEY (symbol, interval, start_date, end_date)
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (2);
		`)
		if err != nil {
			return fmt.Errorf("migration v2: %w", err)
		}
		logger.Info("DB", "Applied migration v2")
	}

	return nil
}
