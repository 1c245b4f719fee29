package barstore

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"SignalSentinel/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the latest fetched bars in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite bar store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS bars (
			symbol      TEXT    NOT NULL,
			granularity TEXT    NOT NULL,
			timestamp   INTEGER NOT NULL,
			open        REAL,
			high        REAL,
			low         REAL,
			close       REAL,
			volume      REAL,
			PRIMARY KEY (symbol, granularity, timestamp)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bars_series ON bars(symbol, granularity)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// SaveBars replaces the stored series of symbol/g with bars.
func (s *SQLiteStore) SaveBars(ctx context.Context, symbol string, g model.Granularity, bars []model.OHLCV) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bars WHERE symbol = ? AND granularity = ?`, symbol, string(g)); err != nil {
		return fmt.Errorf("clear %s %s: %w", symbol, g, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO bars
		(symbol, granularity, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		if _, err := stmt.ExecContext(ctx, symbol, string(g), b.Time.Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	return tx.Commit()
}

// LoadBars returns the stored series of symbol/g in time order.
func (s *SQLiteStore) LoadBars(ctx context.Context, symbol string, g model.Granularity) ([]model.OHLCV, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `SELECT timestamp, open, high, low, close, volume
		FROM bars WHERE symbol = ? AND granularity = ? ORDER BY timestamp`, symbol, string(g))
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var bars []model.OHLCV
	for rows.Next() {
		var ts int64
		var b model.OHLCV
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		b.Time = time.Unix(ts, 0).UTC()
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite bar store")
	return s.db.Close()
}
