package monitor

import (
	"testing"
	"time"

	"github.com/aleister1102/stocknotifier/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 3, 12, hour, minute, 0, 0, time.UTC)
}

func testSchedule() CycleSchedule {
	return CycleSchedule{
		Interval:  30 * time.Second,
		Jitter:    10 * time.Second,
		StartHour: 8,
		EndHour:   16,
		Location:  time.UTC,
	}
}

func TestNewCycleSchedule(t *testing.T) {
	cfg := config.NewDefaultPollerConfig()
	cfg.ActiveHoursWindow.Timezone = "UTC"

	s, err := NewCycleSchedule(cfg)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, s.Interval)
	assert.Equal(t, 10*time.Second, s.Jitter)
	assert.Equal(t, 8, s.StartHour)
	assert.Equal(t, 16, s.EndHour)
	assert.Equal(t, time.UTC, s.Location)

	cfg.ActiveHoursWindow.Timezone = "Nowhere/Invalid"
	_, err = NewCycleSchedule(cfg)
	assert.Error(t, err)
}

func TestCycleSchedule_InActiveHours(t *testing.T) {
	s := testSchedule()

	assert.False(t, s.InActiveHours(at(7, 59)))
	assert.True(t, s.InActiveHours(at(8, 0)))
	assert.True(t, s.InActiveHours(at(15, 59)))
	assert.False(t, s.InActiveHours(at(16, 0)))
	assert.False(t, s.InActiveHours(at(23, 30)))
}

func TestCycleSchedule_InActiveHoursUsesLocation(t *testing.T) {
	s := testSchedule()
	s.Location = time.FixedZone("UTC+2", 2*60*60)

	// 06:30 UTC is 08:30 local
	assert.True(t, s.InActiveHours(at(6, 30)))
	// 14:30 UTC is 16:30 local
	assert.False(t, s.InActiveHours(at(14, 30)))
}

func TestCycleSchedule_WrapsPastMidnight(t *testing.T) {
	s := testSchedule()
	s.StartHour, s.EndHour = 22, 6

	assert.True(t, s.InActiveHours(at(23, 0)))
	assert.True(t, s.InActiveHours(at(2, 0)))
	assert.False(t, s.InActiveHours(at(6, 0)))
	assert.False(t, s.InActiveHours(at(12, 0)))
}

func TestCycleSchedule_EqualHoursAlwaysActive(t *testing.T) {
	s := testSchedule()
	s.StartHour, s.EndHour = 0, 0

	for h := 0; h < 24; h++ {
		assert.True(t, s.InActiveHours(at(h, 0)), "hour %d", h)
	}
}

func TestCycleSchedule_BaseDelay(t *testing.T) {
	s := testSchedule()

	assert.Equal(t, 30*time.Second, s.BaseDelay(at(10, 0)))
	assert.Equal(t, 60*time.Second, s.BaseDelay(at(20, 0)))
}

func TestCycleSchedule_NextSleep(t *testing.T) {
	s := testSchedule()

	tests := []struct {
		name    string
		now     time.Time
		elapsed time.Duration
		r       float64
		want    time.Duration
	}{
		{name: "active no jitter", now: at(10, 0), elapsed: 5 * time.Second, r: 0.5, want: 25 * time.Second},
		{name: "active min jitter", now: at(10, 0), elapsed: 5 * time.Second, r: 0, want: 15 * time.Second},
		{name: "inactive no jitter", now: at(20, 0), elapsed: 5 * time.Second, r: 0.5, want: 55 * time.Second},
		{name: "inactive max jitter", now: at(3, 0), elapsed: 0, r: 1, want: 70 * time.Second},
		{name: "overrun clamps to zero", now: at(10, 0), elapsed: 2 * time.Minute, r: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.NextSleep(tt.now, tt.elapsed, tt.r))
		})
	}
}

func TestCycleSchedule_NextSleepBounds(t *testing.T) {
	s := testSchedule()

	for i := 0; i <= 100; i++ {
		r := float64(i) / 100
		active := s.NextSleep(at(9, 0), 0, r)
		assert.GreaterOrEqual(t, active, 20*time.Second)
		assert.LessOrEqual(t, active, 40*time.Second)

		inactive := s.NextSleep(at(17, 0), 0, r)
		assert.GreaterOrEqual(t, inactive, 50*time.Second)
		assert.LessOrEqual(t, inactive, 70*time.Second)
	}
}

func TestComputeSleep(t *testing.T) {
	assert.Equal(t, 20*time.Second, ComputeSleep(30*time.Second, 10*time.Second, 0))
	assert.Equal(t, 15*time.Second, ComputeSleep(30*time.Second, 10*time.Second, -5*time.Second))
	assert.Equal(t, time.Duration(0), ComputeSleep(30*time.Second, 45*time.Second, 10*time.Second))
	assert.Equal(t, time.Duration(0), ComputeSleep(0, 0, -time.Second))
}
