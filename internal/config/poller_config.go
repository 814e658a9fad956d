package config

import (
	"time"
)

// ActiveHoursWindow is the time-of-day range during which the poller runs at
// its nominal cycle interval. StartHour is inclusive, EndHour exclusive. A
// window whose start is after its end wraps past midnight.
type ActiveHoursWindow struct {
	StartHour int    `json:"start_hour" yaml:"start_hour" validate:"hour"`
	EndHour   int    `json:"end_hour" yaml:"end_hour" validate:"hour"`
	Timezone  string `json:"timezone,omitempty" yaml:"timezone,omitempty" validate:"omitempty,timezone"`
}

// NewDefaultActiveHoursWindow creates the default 08:00-16:00 window
func NewDefaultActiveHoursWindow() ActiveHoursWindow {
	return ActiveHoursWindow{
		StartHour: DefaultActiveHoursStart,
		EndHour:   DefaultActiveHoursEnd,
		Timezone:  DefaultActiveHoursTimezone,
	}
}

// Location resolves the window timezone, falling back to UTC when unset.
func (w ActiveHoursWindow) Location() (*time.Location, error) {
	if w.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(w.Timezone)
}

// PollerConfig defines configuration for the stock polling loop
type PollerConfig struct {
	SameHostDelaySeconds   float64           `json:"same_host_delay_seconds,omitempty" yaml:"same_host_delay_seconds,omitempty" validate:"omitempty,min=0"`
	GlobalCycleSeconds     float64           `json:"global_cycle_seconds,omitempty" yaml:"global_cycle_seconds,omitempty" validate:"omitempty,gt=0"`
	GlobalJitterSeconds    float64           `json:"global_jitter_seconds,omitempty" yaml:"global_jitter_seconds,omitempty" validate:"omitempty,min=0"`
	MaxConcurrentHosts     int               `json:"max_concurrent_hosts,omitempty" yaml:"max_concurrent_hosts,omitempty" validate:"omitempty,min=1,max=256"`
	ActiveHoursWindow      ActiveHoursWindow `json:"active_hours_window,omitempty" yaml:"active_hours_window,omitempty"`
	RequestTimeoutSeconds  int               `json:"request_timeout_seconds,omitempty" yaml:"request_timeout_seconds,omitempty" validate:"omitempty,min=1,max=300"`
	MaxRetries             int               `json:"max_retries,omitempty" yaml:"max_retries,omitempty" validate:"omitempty,min=1,max=10"`
	SnapshotTimeoutSeconds int               `json:"snapshot_timeout_seconds,omitempty" yaml:"snapshot_timeout_seconds,omitempty" validate:"omitempty,min=1"`
}

// NewDefaultPollerConfig creates default poller configuration
func NewDefaultPollerConfig() PollerConfig {
	return PollerConfig{
		SameHostDelaySeconds:   DefaultPollerSameHostDelaySecs,
		GlobalCycleSeconds:     DefaultPollerGlobalCycleSecs,
		GlobalJitterSeconds:    DefaultPollerGlobalJitterSecs,
		MaxConcurrentHosts:     DefaultPollerMaxConcurrentHosts,
		ActiveHoursWindow:      NewDefaultActiveHoursWindow(),
		RequestTimeoutSeconds:  DefaultPollerRequestTimeoutSecs,
		MaxRetries:             DefaultPollerMaxRetries,
		SnapshotTimeoutSeconds: DefaultPollerSnapshotTimeoutSecs,
	}
}

// SameHostDelay returns the base pause between two checks against one host.
func (c PollerConfig) SameHostDelay() time.Duration {
	return secondsToDuration(c.SameHostDelaySeconds)
}

// GlobalCycle returns the nominal interval between cycle starts.
func (c PollerConfig) GlobalCycle() time.Duration {
	return secondsToDuration(c.GlobalCycleSeconds)
}

// GlobalJitter returns the bound of the symmetric inter-cycle jitter.
func (c PollerConfig) GlobalJitter() time.Duration {
	return secondsToDuration(c.GlobalJitterSeconds)
}

// RequestTimeout returns the per-attempt HTTP timeout.
func (c PollerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SnapshotTimeout returns the bound on one item source read.
func (c PollerConfig) SnapshotTimeout() time.Duration {
	return time.Duration(c.SnapshotTimeoutSeconds) * time.Second
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
