package config

// ResourceLimiterConfig holds configuration for host resource monitoring
type ResourceLimiterConfig struct {
	Enabled            bool    `json:"enabled" yaml:"enabled"`
	MaxMemoryMB        int64   `json:"max_memory_mb,omitempty" yaml:"max_memory_mb,omitempty" validate:"omitempty,min=16"`
	MaxGoroutines      int     `json:"max_goroutines,omitempty" yaml:"max_goroutines,omitempty" validate:"omitempty,min=100"`
	CheckIntervalSecs  int     `json:"check_interval_secs,omitempty" yaml:"check_interval_secs,omitempty" validate:"omitempty,min=1"`
	MemoryThreshold    float64 `json:"memory_threshold,omitempty" yaml:"memory_threshold,omitempty" validate:"omitempty,min=0.1,max=1.0"`
	SystemMemThreshold float64 `json:"system_mem_threshold,omitempty" yaml:"system_mem_threshold,omitempty" validate:"omitempty,min=0.1,max=1.0"`
	CPUThreshold       float64 `json:"cpu_threshold,omitempty" yaml:"cpu_threshold,omitempty" validate:"omitempty,min=0.1,max=1.0"`
	EnableAutoShutdown bool    `json:"enable_auto_shutdown" yaml:"enable_auto_shutdown"`
}

// NewDefaultResourceLimiterConfig creates default resource limiter configuration
func NewDefaultResourceLimiterConfig() ResourceLimiterConfig {
	return ResourceLimiterConfig{
		Enabled:            true,
		MaxMemoryMB:        256,
		MaxGoroutines:      2000,
		CheckIntervalSecs:  30,
		MemoryThreshold:    0.8,
		SystemMemThreshold: 0.9,
		CPUThreshold:       0.9,
		EnableAutoShutdown: false,
	}
}
