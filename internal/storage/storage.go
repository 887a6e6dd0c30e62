// Package storage provides an optional SQLite-backed journal of sent
// alerts. It is an audit log only: tracking state is memory-only and is
// never rebuilt from the journal.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/models"
	_ "modernc.org/sqlite"
)

// Storage wraps a SQLite database holding the alert journal.
type Storage struct {
	db *sql.DB
}

// New opens or creates the SQLite database at dbPath.
func New(dbPath string) (*Storage, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer; WAL allows concurrent readers
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	s := &Storage{db: db}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) createTables() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS alerts (
			id            TEXT PRIMARY KEY,
			ticker        TEXT NOT NULL,
			title         TEXT NOT NULL,
			opening_price REAL NOT NULL,
			trigger_price REAL NOT NULL,
			minutes_in    INTEGER NOT NULL,
			sent_at       INTEGER NOT NULL
		)`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_alerts_sent_at ON alerts(sent_at)`)
	return err
}

// AddAlert records one sent alert. An empty ID is filled with a fresh UUID.
func (s *Storage) AddAlert(alert *models.AlertRecord) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	_, err := s.db.Exec(`
		INSERT INTO alerts
			(id, ticker, title, opening_price, trigger_price, minutes_in, sent_at)
		VALUES (?,?,?,?,?,?,?)`,
		alert.ID, alert.Ticker, alert.Title,
		alert.OpeningPrice, alert.TriggerPrice, alert.MinutesIn,
		alert.SentAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

// RecentAlerts returns up to limit alerts, newest first.
func (s *Storage) RecentAlerts(limit int) ([]models.AlertRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, ticker, title, opening_price, trigger_price, minutes_in, sent_at
		FROM alerts ORDER BY sent_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.AlertRecord
	for rows.Next() {
		var a models.AlertRecord
		var sentAtNano int64
		if err := rows.Scan(
			&a.ID, &a.Ticker, &a.Title,
			&a.OpeningPrice, &a.TriggerPrice, &a.MinutesIn,
			&sentAtNano,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		a.SentAt = time.Unix(0, sentAtNano)
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}
