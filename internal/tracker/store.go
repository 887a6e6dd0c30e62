// Package tracker owns the in-memory tracking records and the drop
// confirmation state machine. A record moves UNTRACKED → TRACKING →
// ALERTED; ALERTED is terminal and records are never evicted for the life
// of the process.
package tracker

import (
	"fmt"
	"sync"
	"time"

	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/models"
)

// Decision is the outcome of recording one price observation.
type Decision int

const (
	// NoChange: the record stays in the tracking state. Either the price
	// was at or above the drop threshold (counter reset) or the counter
	// has not reached the confirmation count yet.
	NoChange Decision = iota
	// ConfirmedDrop: this observation made the counter reach the
	// confirmation count; the record is now terminal. Returned exactly
	// once per record.
	ConfirmedDrop
	// AlreadyAlerted: the record was terminal before this observation;
	// nothing was mutated.
	AlreadyAlerted
)

func (d Decision) String() string {
	switch d {
	case NoChange:
		return "no_change"
	case ConfirmedDrop:
		return "confirmed_drop"
	case AlreadyAlerted:
		return "already_alerted"
	default:
		return "unknown"
	}
}

// Store is the in-memory mapping from market ticker to tracking record.
// The mutex serializes per-record mutation so the poll loop may fan out
// price fetches without breaking the monotonic Alerted invariant.
type Store struct {
	mu      sync.RWMutex
	records map[string]*models.TrackedMarket
}

// New creates an empty store.
func New() *Store {
	return &Store{
		records: make(map[string]*models.TrackedMarket),
	}
}

// Get returns a copy of the tracking record for ticker. Callers never hold
// a live record; all mutation goes through RecordObservation.
func (s *Store) Get(ticker string) (models.TrackedMarket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[ticker]
	if !ok {
		return models.TrackedMarket{}, false
	}
	return *rec, true
}

// Len returns the number of tracked markets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Admit creates a tracking record for a newly qualified market. The engine
// checks existence before admitting; a duplicate admission is an error.
func (s *Store) Admit(ticker, title string, openedAt time.Time, openingPrice float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[ticker]; exists {
		return fmt.Errorf("market %s is already tracked", ticker)
	}
	s.records[ticker] = &models.TrackedMarket{
		Ticker:       ticker,
		Title:        title,
		OpenedAt:     openedAt,
		OpeningPrice: openingPrice,
		Alerted:      false,
		LowTicks:     0,
	}
	return nil
}

// RecordObservation advances the confirmation counter for one observed
// price. A price below dropThreshold increments the counter; any other
// price resets it to zero. ConfirmedDrop is returned on the observation
// where the counter first reaches confirmTicks, and Alerted is set before
// returning so no later observation can trigger again.
func (s *Store) RecordObservation(ticker string, price, dropThreshold float64, confirmTicks int) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[ticker]
	if !ok {
		return NoChange, fmt.Errorf("market %s is not tracked", ticker)
	}

	if rec.Alerted {
		return AlreadyAlerted, nil
	}

	if price < dropThreshold {
		rec.LowTicks++
	} else {
		rec.LowTicks = 0
	}

	if rec.LowTicks >= confirmTicks {
		rec.Alerted = true
		return ConfirmedDrop, nil
	}

	return NoChange, nil
}
