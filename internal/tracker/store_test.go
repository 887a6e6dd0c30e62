package tracker

import (
	"testing"
	"time"
)

const (
	dropThreshold = 0.50
	confirmTicks  = 2
)

func newTrackedStore(t *testing.T, ticker string) *Store {
	t.Helper()
	s := New()
	if err := s.Admit(ticker, "Tennis: A vs B", time.Now().UTC(), 0.70); err != nil {
		t.Fatalf("Admit: %v", err)
	}
	return s
}

func TestStore_AdmitAndGet(t *testing.T) {
	s := New()
	openedAt := time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)

	if _, ok := s.Get("TENNIS-X"); ok {
		t.Fatal("expected no record before admission")
	}
	if err := s.Admit("TENNIS-X", "Tennis: A vs B", openedAt, 0.70); err != nil {
		t.Fatalf("Admit: %v", err)
	}

	rec, ok := s.Get("TENNIS-X")
	if !ok {
		t.Fatal("expected record after admission")
	}
	if rec.Title != "Tennis: A vs B" {
		t.Errorf("title = %q", rec.Title)
	}
	if rec.OpeningPrice != 0.70 {
		t.Errorf("opening price = %v, want 0.70", rec.OpeningPrice)
	}
	if !rec.OpenedAt.Equal(openedAt) {
		t.Errorf("opened at = %v, want %v", rec.OpenedAt, openedAt)
	}
	if rec.Alerted || rec.LowTicks != 0 {
		t.Errorf("fresh record should be unalerted with zero ticks, got %+v", rec)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_AdmitDuplicate(t *testing.T) {
	s := newTrackedStore(t, "TENNIS-X")
	if err := s.Admit("TENNIS-X", "Tennis: A vs B", time.Now().UTC(), 0.80); err == nil {
		t.Error("expected error admitting an already tracked market")
	}
}

func TestStore_RecordObservation_Unknown(t *testing.T) {
	s := New()
	if _, err := s.RecordObservation("NOPE", 0.40, dropThreshold, confirmTicks); err == nil {
		t.Error("expected error for untracked market")
	}
}

func TestStore_ConfirmationDebounce(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		want   []Decision
	}{
		{
			name:   "two consecutive low ticks confirm",
			prices: []float64{0.45, 0.48},
			want:   []Decision{NoChange, ConfirmedDrop},
		},
		{
			name:   "high tick resets the counter",
			prices: []float64{0.45, 0.55, 0.48, 0.40},
			want:   []Decision{NoChange, NoChange, NoChange, ConfirmedDrop},
		},
		{
			name:   "price at threshold resets",
			prices: []float64{0.45, 0.50, 0.45},
			want:   []Decision{NoChange, NoChange, NoChange},
		},
		{
			name:   "high prices never confirm",
			prices: []float64{0.70, 0.68, 0.66, 0.72},
			want:   []Decision{NoChange, NoChange, NoChange, NoChange},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTrackedStore(t, "TENNIS-X")
			for i, price := range tt.prices {
				got, err := s.RecordObservation("TENNIS-X", price, dropThreshold, confirmTicks)
				if err != nil {
					t.Fatalf("observation %d: %v", i, err)
				}
				if got != tt.want[i] {
					t.Errorf("observation %d (price %v): decision = %v, want %v", i, price, got, tt.want[i])
				}
			}
		})
	}
}

func TestStore_CounterResetIsIdempotent(t *testing.T) {
	s := newTrackedStore(t, "TENNIS-X")
	for i := 0; i < 5; i++ {
		got, err := s.RecordObservation("TENNIS-X", 0.60, dropThreshold, confirmTicks)
		if err != nil {
			t.Fatalf("observation %d: %v", i, err)
		}
		if got != NoChange {
			t.Errorf("observation %d: decision = %v, want %v", i, got, NoChange)
		}
		rec, _ := s.Get("TENNIS-X")
		if rec.LowTicks != 0 {
			t.Errorf("observation %d: low ticks = %d, want 0", i, rec.LowTicks)
		}
	}
}

func TestStore_AtMostOnceAlert(t *testing.T) {
	s := newTrackedStore(t, "TENNIS-X")

	for _, price := range []float64{0.45, 0.48} {
		if _, err := s.RecordObservation("TENNIS-X", price, dropThreshold, confirmTicks); err != nil {
			t.Fatalf("RecordObservation: %v", err)
		}
	}

	rec, _ := s.Get("TENNIS-X")
	if !rec.Alerted {
		t.Fatal("record should be alerted after confirmation")
	}
	frozenTicks := rec.LowTicks

	// Terminal record: further observations mutate nothing.
	for _, price := range []float64{0.40, 0.90, 0.10} {
		got, err := s.RecordObservation("TENNIS-X", price, dropThreshold, confirmTicks)
		if err != nil {
			t.Fatalf("RecordObservation: %v", err)
		}
		if got != AlreadyAlerted {
			t.Errorf("decision = %v, want %v", got, AlreadyAlerted)
		}
		after, _ := s.Get("TENNIS-X")
		if !after.Alerted || after.LowTicks != frozenTicks {
			t.Errorf("terminal record mutated: %+v", after)
		}
	}
}

func TestDecision_String(t *testing.T) {
	if NoChange.String() != "no_change" ||
		ConfirmedDrop.String() != "confirmed_drop" ||
		AlreadyAlerted.String() != "already_alerted" {
		t.Error("unexpected Decision string values")
	}
}
