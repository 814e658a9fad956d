package monitor

import (
	"time"

	"github.com/aleister1102/stocknotifier/internal/config"
)

// CycleSchedule computes the adaptive pause between two poll cycles.
type CycleSchedule struct {
	Interval  time.Duration
	Jitter    time.Duration
	StartHour int
	EndHour   int
	Location  *time.Location
}

// NewCycleSchedule builds a schedule from poller configuration.
func NewCycleSchedule(cfg config.PollerConfig) (CycleSchedule, error) {
	loc, err := cfg.ActiveHoursWindow.Location()
	if err != nil {
		return CycleSchedule{}, config.WrapError(err, "failed to load active hours timezone")
	}
	return CycleSchedule{
		Interval:  cfg.GlobalCycle(),
		Jitter:    cfg.GlobalJitter(),
		StartHour: cfg.ActiveHoursWindow.StartHour,
		EndHour:   cfg.ActiveHoursWindow.EndHour,
		Location:  loc,
	}, nil
}

// InActiveHours reports whether t falls in [StartHour, EndHour) in the
// schedule's timezone. A window with StartHour > EndHour wraps past midnight;
// equal hours mean the whole day is active.
func (s CycleSchedule) InActiveHours(t time.Time) bool {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	hour := t.In(loc).Hour()

	switch {
	case s.StartHour == s.EndHour:
		return true
	case s.StartHour < s.EndHour:
		return hour >= s.StartHour && hour < s.EndHour
	default:
		return hour >= s.StartHour || hour < s.EndHour
	}
}

// BaseDelay is the nominal interval inside active hours and twice that outside.
func (s CycleSchedule) BaseDelay(t time.Time) time.Duration {
	if s.InActiveHours(t) {
		return s.Interval
	}
	return 2 * s.Interval
}

// NextSleep returns how long to wait after a cycle that took elapsed and ended
// at now. r is a uniform sample from [0, 1) that selects the jitter.
func (s CycleSchedule) NextSleep(now time.Time, elapsed time.Duration, r float64) time.Duration {
	jitter := time.Duration((2*r - 1) * float64(s.Jitter))
	return ComputeSleep(s.BaseDelay(now), elapsed, jitter)
}

// ComputeSleep returns max(base - elapsed + jitter, 0).
func ComputeSleep(base, elapsed, jitter time.Duration) time.Duration {
	sleep := base - elapsed + jitter
	if sleep < 0 {
		return 0
	}
	return sleep
}
