package rslimiter

import (
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const cpuSampleWindow = 100 * time.Millisecond

// ResourceUsage is a point-in-time sample of process and host usage
type ResourceUsage struct {
	AllocMB              int64
	SysMB                int64
	Goroutines           int
	GCCount              int64
	SystemMemUsedMB      int64
	SystemMemTotalMB     int64
	SystemMemUsedPercent float64
	CPUUsagePercent      float64
	SampledAt            time.Time
}

// GetResourceUsage samples the Go runtime and, when available, host memory and CPU.
func GetResourceUsage() ResourceUsage {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := ResourceUsage{
		AllocMB:    int64(m.Alloc / 1024 / 1024),
		SysMB:      int64(m.Sys / 1024 / 1024),
		Goroutines: runtime.NumGoroutine(),
		GCCount:    int64(m.NumGC),
		SampledAt:  time.Now(),
	}

	if vmStat, err := mem.VirtualMemory(); err == nil {
		usage.SystemMemUsedMB = int64(vmStat.Used / 1024 / 1024)
		usage.SystemMemTotalMB = int64(vmStat.Total / 1024 / 1024)
		usage.SystemMemUsedPercent = vmStat.UsedPercent
	}

	if cpuPercents, err := cpu.Percent(cpuSampleWindow, false); err == nil && len(cpuPercents) > 0 {
		usage.CPUUsagePercent = cpuPercents[0]
	}

	return usage
}
