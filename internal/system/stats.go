package system

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// Stats is a point-in-time snapshot of the renderer's resource usage, used
// by the performance report.
type Stats struct {
	RSSBytes      uint64  // resident set size of this process
	CPUPercent    float64 // cumulative CPU usage of this process
	SysMemPercent float64 // system-wide memory utilisation
}

// Snapshot reads current process and system usage.
func Snapshot() (Stats, error) {
	var s Stats

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, fmt.Errorf("system: process handle: %w", err)
	}
	if info, err := proc.MemoryInfo(); err == nil {
		s.RSSBytes = info.RSS
	}
	if cpu, err := proc.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		s.SysMemPercent = vm.UsedPercent
	}
	return s, nil
}

// RSSMB reports the resident set size in megabytes.
func (s Stats) RSSMB() float64 {
	return float64(s.RSSBytes) / (1024 * 1024)
}
