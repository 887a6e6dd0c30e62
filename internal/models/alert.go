package models

import "time"

// AlertRecord is the journal entry written after a drop alert is sent.
// It is an audit log only; tracking state is never rebuilt from it.
type AlertRecord struct {
	ID           string
	Ticker       string
	Title        string
	OpeningPrice float64
	TriggerPrice float64
	MinutesIn    int
	SentAt       time.Time
}
