// Package watcher implements the poll cycle: filter open markets, admit
// qualifying ones into the tracker, and alert when a tracked market's
// price drop is confirmed.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/logger"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/models"
	"github.com/tylerduvall7-cyber/kalshi-tennis-alerts/internal/tracker"
)

// MarketSource supplies open markets and per-market best-ask prices.
type MarketSource interface {
	ListOpenMarkets(ctx context.Context) ([]models.Market, error)
	BestYesAsk(ctx context.Context, ticker string) (price float64, ok bool, err error)
}

// Notifier delivers one alert message, best-effort.
type Notifier interface {
	Send(ctx context.Context, title, message string) error
}

// AlertJournal records sent alerts for later inspection.
type AlertJournal interface {
	AddAlert(alert *models.AlertRecord) error
}

// Config holds the tracking and alerting policy.
type Config struct {
	// Keyword selects markets by case-insensitive title substring.
	Keyword string
	// OpeningThreshold is the minimum best-ask price for admission.
	OpeningThreshold float64
	// DropThreshold is the price below which an observation counts
	// towards drop confirmation.
	DropThreshold float64
	// ConfirmTicks is the number of consecutive below-threshold
	// observations required before alerting.
	ConfirmTicks int
	// AdmissionWindow bounds how long after its open time a market stays
	// eligible for observation.
	AdmissionWindow time.Duration
	// AlertTitle is the notification title for drop alerts.
	AlertTitle string
}

// Watcher drives one poll cycle at a time against the market source and
// owns the tracking store for the life of the process.
type Watcher struct {
	source    MarketSource
	store     *tracker.Store
	notifiers []Notifier
	journal   AlertJournal // may be nil
	config    Config
}

// New creates a watcher. journal may be nil when the alert journal is
// disabled.
func New(source MarketSource, store *tracker.Store, notifiers []Notifier, journal AlertJournal, config Config) *Watcher {
	return &Watcher{
		source:    source,
		store:     store,
		notifiers: notifiers,
		journal:   journal,
		config:    config,
	}
}

// RunCycle executes one poll cycle. Any error aborts the remainder of the
// cycle and propagates to the caller; tracking-store mutations already
// applied are kept.
func (w *Watcher) RunCycle(ctx context.Context) error {
	markets, err := w.source.ListOpenMarkets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open markets: %w", err)
	}

	now := time.Now().UTC()
	keyword := strings.ToLower(w.config.Keyword)

	for i := range markets {
		m := &markets[i]

		if m.Ticker == "" || !strings.Contains(strings.ToLower(m.Title), keyword) {
			continue
		}
		sinceOpen := now.Sub(m.OpenTime)
		if sinceOpen > w.config.AdmissionWindow {
			continue
		}

		rec, tracked := w.store.Get(m.Ticker)
		if !tracked {
			if err := w.admit(ctx, m); err != nil {
				return err
			}
			continue
		}

		// Terminal records are skipped without a fetch.
		if rec.Alerted {
			continue
		}

		if err := w.observe(ctx, m, rec, now); err != nil {
			return err
		}
	}

	logger.Debug("Cycle complete: %d open markets, %d tracked", len(markets), w.store.Len())
	return nil
}

// admit fetches the current best ask for an untracked market and starts
// tracking it if the price qualifies as an opening price. A market with an
// absent or sub-threshold price is left untracked and reconsidered next
// cycle while its admission window is open.
func (w *Watcher) admit(ctx context.Context, m *models.Market) error {
	price, ok, err := w.source.BestYesAsk(ctx, m.Ticker)
	if err != nil {
		return fmt.Errorf("failed to fetch opening price for %s: %w", m.Ticker, err)
	}
	if !ok || price < w.config.OpeningThreshold {
		return nil
	}

	if err := w.store.Admit(m.Ticker, m.Title, m.OpenTime, price); err != nil {
		return fmt.Errorf("failed to admit %s: %w", m.Ticker, err)
	}
	logger.Info("Tracking %s (%.0f%%)", m.Title, price*100)
	return nil
}

// observe records one price observation for a tracked market and sends the
// drop alert when the confirmation condition is met.
func (w *Watcher) observe(ctx context.Context, m *models.Market, rec models.TrackedMarket, now time.Time) error {
	price, ok, err := w.source.BestYesAsk(ctx, m.Ticker)
	if err != nil {
		return fmt.Errorf("failed to fetch price for %s: %w", m.Ticker, err)
	}
	if !ok {
		// Empty book this cycle: neither advance nor reset the counter.
		return nil
	}

	decision, err := w.store.RecordObservation(m.Ticker, price, w.config.DropThreshold, w.config.ConfirmTicks)
	if err != nil {
		return fmt.Errorf("failed to record observation for %s: %w", m.Ticker, err)
	}
	if decision != tracker.ConfirmedDrop {
		return nil
	}

	minutesIn := int(now.Sub(rec.OpenedAt).Minutes())
	message := fmt.Sprintf("%s\n\nOpened: %.0f%%\nNow: %.0f%%\nMinutes in: %d\nTicker: %s",
		rec.Title, rec.OpeningPrice*100, price*100, minutesIn, m.Ticker)

	var sendErrs []error
	for _, n := range w.notifiers {
		if err := n.Send(ctx, w.config.AlertTitle, message); err != nil {
			sendErrs = append(sendErrs, err)
		}
	}

	if w.journal != nil {
		record := models.AlertRecord{
			Ticker:       m.Ticker,
			Title:        rec.Title,
			OpeningPrice: rec.OpeningPrice,
			TriggerPrice: price,
			MinutesIn:    minutesIn,
			SentAt:       now,
		}
		if err := w.journal.AddAlert(&record); err != nil {
			logger.Warn("Failed to journal alert for %s: %v", m.Ticker, err)
		}
	}

	if len(sendErrs) > 0 {
		// The record is already terminal, so a failed delivery is lost
		// for good; surface it to the cycle-level handler.
		return fmt.Errorf("failed to deliver alert for %s: %w", m.Ticker, errors.Join(sendErrs...))
	}

	logger.Info("ALERT SENT: %s", rec.Title)
	return nil
}
