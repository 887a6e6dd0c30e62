// Package models defines the core domain entities: market snapshots,
// tracking records, and alert records.
package models

import (
	"errors"
	"time"
)

// Market is an ephemeral snapshot of an open market as returned by the
// exchange. It carries only the fields the watcher needs.
type Market struct {
	Ticker   string    `json:"ticker"`
	Title    string    `json:"title"`
	OpenTime time.Time `json:"open_time"`
	Status   string    `json:"status"`
}

// Validate checks snapshot field constraints.
func (m *Market) Validate() error {
	if m.Ticker == "" {
		return errors.New("market ticker must not be empty")
	}
	if m.Title == "" {
		return errors.New("market title must not be empty")
	}
	if m.OpenTime.IsZero() {
		return errors.New("market open time must not be zero")
	}
	return nil
}

// TrackedMarket is the per-ticker tracking record owned by the tracker
// store. Title, OpenedAt, and OpeningPrice are captured at admission and
// never change afterwards. Alerted is terminal: once set, the record is
// frozen for the lifetime of the process.
type TrackedMarket struct {
	Ticker       string
	Title        string
	OpenedAt     time.Time
	OpeningPrice float64
	Alerted      bool

	// LowTicks counts consecutive observations below the drop threshold.
	// Any observation at or above the threshold resets it to zero.
	LowTicks int
}
