package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckOutcome is the result of checking a single item in one cycle.
type CheckOutcome string

const (
	OutcomeMatched CheckOutcome = "matched"
	OutcomeNoMatch CheckOutcome = "no_match"
	OutcomeFailed  CheckOutcome = "failed"
)

// ItemOutcome pairs an item with what happened when it was checked.
type ItemOutcome struct {
	Item    MonitoredItem
	Outcome CheckOutcome
	Err     error
}

// CycleStats records one poll cycle. It lives only until the next sleep is computed.
type CycleStats struct {
	CycleID   string
	StartTime time.Time
	EndTime   time.Time
	Hosts     int
	Outcomes  []ItemOutcome
	Err       error
}

// NewCycleStats starts a cycle record with a fresh identifier
func NewCycleStats(start time.Time) *CycleStats {
	return &CycleStats{
		CycleID:   uuid.NewString(),
		StartTime: start,
	}
}

// Elapsed returns how long the cycle's checking phase took
func (s *CycleStats) Elapsed() time.Duration {
	if s.EndTime.Before(s.StartTime) {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Count returns the number of items that ended with the given outcome
func (s *CycleStats) Count(outcome CheckOutcome) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Outcome == outcome {
			n++
		}
	}
	return n
}
