package rslimiter

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ResourceLimiter watches process and host usage while the poller runs. It
// forces a GC when the heap grows past its limit and, when auto shutdown is
// enabled, asks the application to stop once host thresholds are crossed.
type ResourceLimiter struct {
	config           ResourceLimiterConfig
	logger           zerolog.Logger
	cancel           context.CancelFunc
	wg               sync.WaitGroup
	memoryThreshold  int64
	goroutineWarning int
	isRunning        bool
	lastUsage        ResourceUsage
	mu               sync.RWMutex
	shutdownCallback func()
	sample           func() ResourceUsage
}

// NewResourceLimiter creates a new resource limiter
func NewResourceLimiter(config ResourceLimiterConfig, logger zerolog.Logger) *ResourceLimiter {
	if config.CheckInterval <= 0 {
		config.CheckInterval = 30 * time.Second
	}
	if config.MemoryThreshold == 0 {
		config.MemoryThreshold = 0.8
	}
	if config.GoroutineWarning == 0 {
		config.GoroutineWarning = 0.7
	}
	if config.SystemMemThreshold == 0 {
		config.SystemMemThreshold = 0.9
	}
	if config.CPUThreshold == 0 {
		config.CPUThreshold = 0.9
	}

	return &ResourceLimiter{
		config:           config,
		logger:           logger.With().Str("component", "ResourceLimiter").Logger(),
		memoryThreshold:  int64(float64(config.MaxMemoryMB) * config.MemoryThreshold),
		goroutineWarning: int(float64(config.MaxGoroutines) * config.GoroutineWarning),
		sample:           GetResourceUsage,
	}
}

// SetShutdownCallback sets the function invoked when auto shutdown triggers
func (rl *ResourceLimiter) SetShutdownCallback(callback func()) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.shutdownCallback = callback
}

// Start takes a first sample and begins periodic checks until ctx is done or
// Stop is called.
func (rl *ResourceLimiter) Start(ctx context.Context) {
	rl.mu.Lock()
	if rl.isRunning {
		rl.mu.Unlock()
		return
	}
	rl.isRunning = true
	watchCtx, cancel := context.WithCancel(ctx)
	rl.cancel = cancel
	rl.mu.Unlock()

	rl.store(rl.sample())

	rl.wg.Add(1)
	go rl.monitorResources(watchCtx)

	rl.logger.Info().
		Int64("max_memory_mb", rl.config.MaxMemoryMB).
		Int("max_goroutines", rl.config.MaxGoroutines).
		Dur("check_interval", rl.config.CheckInterval).
		Float64("system_mem_threshold", rl.config.SystemMemThreshold).
		Float64("cpu_threshold", rl.config.CPUThreshold).
		Bool("auto_shutdown_enabled", rl.config.EnableAutoShutdown).
		Msg("Resource limiter started")
}

// Stop stops the resource monitor and waits for it to exit
func (rl *ResourceLimiter) Stop() {
	rl.mu.Lock()
	if !rl.isRunning {
		rl.mu.Unlock()
		return
	}
	rl.isRunning = false
	cancel := rl.cancel
	rl.mu.Unlock()

	cancel()
	rl.wg.Wait()
	rl.logger.Info().Msg("Resource limiter stopped")
}

// Usage returns the most recent sample. Before the first check it samples on demand.
func (rl *ResourceLimiter) Usage() ResourceUsage {
	rl.mu.RLock()
	usage := rl.lastUsage
	rl.mu.RUnlock()

	if usage.SampledAt.IsZero() {
		usage = rl.sample()
		rl.store(usage)
	}
	return usage
}

func (rl *ResourceLimiter) store(usage ResourceUsage) {
	rl.mu.Lock()
	rl.lastUsage = usage
	rl.mu.Unlock()
}

// CheckMemoryLimit returns an error when heap allocation exceeds MaxMemoryMB
func (rl *ResourceLimiter) CheckMemoryLimit(usage ResourceUsage) error {
	if rl.config.MaxMemoryMB > 0 && usage.AllocMB > rl.config.MaxMemoryMB {
		return fmt.Errorf("memory limit exceeded: current %dMB > limit %dMB", usage.AllocMB, rl.config.MaxMemoryMB)
	}
	return nil
}

// CheckGoroutineLimit returns an error when the goroutine count exceeds MaxGoroutines
func (rl *ResourceLimiter) CheckGoroutineLimit(usage ResourceUsage) error {
	if rl.config.MaxGoroutines > 0 && usage.Goroutines > rl.config.MaxGoroutines {
		return fmt.Errorf("goroutine limit exceeded: current %d > limit %d", usage.Goroutines, rl.config.MaxGoroutines)
	}
	return nil
}

// ForceGC forces garbage collection and logs the results
func (rl *ResourceLimiter) ForceGC() {
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)
	before := m1.Alloc / 1024 / 1024

	runtime.GC()

	runtime.ReadMemStats(&m2)
	after := m2.Alloc / 1024 / 1024

	rl.logger.Info().
		Uint64("before_mb", before).
		Uint64("after_mb", after).
		Msg("Forced garbage collection completed")
}

func (rl *ResourceLimiter) monitorResources(ctx context.Context) {
	defer rl.wg.Done()

	ticker := time.NewTicker(rl.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.checkAndLogResourceUsage()
		}
	}
}

func (rl *ResourceLimiter) checkAndLogResourceUsage() {
	usage := rl.sample()
	rl.store(usage)

	rl.logWarnings(usage)

	if err := rl.CheckMemoryLimit(usage); err != nil {
		rl.logger.Warn().Err(err).Msg("Heap above limit, forcing garbage collection")
		rl.ForceGC()
	}

	if reason, exceeded := rl.shutdownReason(usage); exceeded {
		rl.logger.Error().
			Str("reason", reason).
			Int64("alloc_mb", usage.AllocMB).
			Int("goroutines", usage.Goroutines).
			Float64("system_mem_percent", usage.SystemMemUsedPercent).
			Float64("cpu_percent", usage.CPUUsagePercent).
			Msg("Resource limits exceeded, triggering graceful shutdown")
		rl.triggerGracefulShutdown()
		return
	}

	rl.logger.Debug().
		Int64("alloc_mb", usage.AllocMB).
		Int64("sys_mb", usage.SysMB).
		Int("goroutines", usage.Goroutines).
		Int64("gc_count", usage.GCCount).
		Float64("system_mem_percent", usage.SystemMemUsedPercent).
		Float64("cpu_percent", usage.CPUUsagePercent).
		Msg("Current resource usage")
}

func (rl *ResourceLimiter) logWarnings(usage ResourceUsage) {
	if rl.memoryThreshold > 0 && usage.AllocMB > rl.memoryThreshold {
		rl.logger.Warn().
			Int64("current_mb", usage.AllocMB).
			Int64("threshold_mb", rl.memoryThreshold).
			Int64("limit_mb", rl.config.MaxMemoryMB).
			Msg("Memory usage approaching limit")
	}

	if rl.goroutineWarning > 0 && usage.Goroutines > rl.goroutineWarning {
		rl.logger.Warn().
			Int("current", usage.Goroutines).
			Int("warning_threshold", rl.goroutineWarning).
			Int("limit", rl.config.MaxGoroutines).
			Msg("Goroutine count approaching limit")
	}
}

// shutdownReason reports whether usage crosses a shutdown threshold. It never
// fires while auto shutdown is disabled.
func (rl *ResourceLimiter) shutdownReason(usage ResourceUsage) (string, bool) {
	if !rl.config.EnableAutoShutdown {
		return "", false
	}

	if usage.SystemMemUsedPercent/100.0 > rl.config.SystemMemThreshold {
		return "System memory threshold exceeded", true
	}
	if usage.CPUUsagePercent/100.0 > rl.config.CPUThreshold {
		return "CPU usage threshold exceeded", true
	}
	if err := rl.CheckGoroutineLimit(usage); err != nil {
		return err.Error(), true
	}
	return "", false
}

func (rl *ResourceLimiter) triggerGracefulShutdown() {
	rl.mu.RLock()
	callback := rl.shutdownCallback
	rl.mu.RUnlock()

	if callback != nil {
		rl.logger.Info().Msg("Calling shutdown callback due to resource limits")
		callback()
	} else {
		rl.logger.Warn().Msg("No shutdown callback set, cannot trigger graceful shutdown")
	}
}
