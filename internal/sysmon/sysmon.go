// Package sysmon samples host CPU and memory utilization for the
// server-status frames pushed over the realtime channel.
package sysmon

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Status is one point-in-time utilization sample.
type Status struct {
	CPU float64 // percent, 0-100
	RAM float64 // percent, 0-100
}

// Sampler reads host utilization via gopsutil.
type Sampler struct{}

// Sample returns current CPU and RAM utilization. The zero interval asks
// gopsutil for usage since the previous call, so the first sample of a
// process may report 0 CPU.
func (Sampler) Sample(ctx context.Context) (Status, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return Status{}, err
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Status{}, err
	}

	var cpuPct float64
	if len(percents) > 0 {
		cpuPct = percents[0]
	}
	return Status{CPU: cpuPct, RAM: vm.UsedPercent}, nil
}
