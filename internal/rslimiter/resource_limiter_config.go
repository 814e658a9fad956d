package rslimiter

import (
	"time"

	"github.com/aleister1102/stocknotifier/internal/config"
)

// ResourceLimiterConfig holds the runtime form of the resource watchdog settings
type ResourceLimiterConfig struct {
	MaxMemoryMB        int64         // Heap allocation above which the watchdog forces a GC
	MaxGoroutines      int           // Goroutine count considered runaway
	CheckInterval      time.Duration // How often usage is sampled
	MemoryThreshold    float64       // Fraction of MaxMemoryMB that triggers a warning
	GoroutineWarning   float64       // Fraction of MaxGoroutines that triggers a warning
	SystemMemThreshold float64       // Fraction of host memory that triggers shutdown
	CPUThreshold       float64       // Fraction of host CPU that triggers shutdown
	EnableAutoShutdown bool
}

// DefaultResourceLimiterConfig returns the watchdog defaults
func DefaultResourceLimiterConfig() ResourceLimiterConfig {
	return FromAppConfig(config.NewDefaultResourceLimiterConfig())
}

// FromAppConfig converts the file configuration into limiter settings.
func FromAppConfig(cfg config.ResourceLimiterConfig) ResourceLimiterConfig {
	return ResourceLimiterConfig{
		MaxMemoryMB:        cfg.MaxMemoryMB,
		MaxGoroutines:      cfg.MaxGoroutines,
		CheckInterval:      time.Duration(cfg.CheckIntervalSecs) * time.Second,
		MemoryThreshold:    cfg.MemoryThreshold,
		GoroutineWarning:   0.7,
		SystemMemThreshold: cfg.SystemMemThreshold,
		CPUThreshold:       cfg.CPUThreshold,
		EnableAutoShutdown: cfg.EnableAutoShutdown,
	}
}
