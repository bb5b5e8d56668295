// Package resource computes per-job core and memory budgets from requested
// values and live system capacity. Budgets are advisory: they are handed to
// the framework adapter, never enforced.
package resource

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/mem"
)

// Memory is a point-in-time snapshot of system memory, in MB.
type Memory struct {
	TotalMB     int
	AvailableMB int
}

// Probe reports live system capacity. Estimation re-probes before every job
// dispatch, so implementations must return fresh figures on each call.
type Probe interface {
	Cores() int
	Memory() (Memory, error)
}

type systemProbe struct{}

// SystemProbe returns a Probe backed by the local machine.
func SystemProbe() Probe {
	return systemProbe{}
}

func (systemProbe) Cores() int {
	return runtime.NumCPU()
}

func (systemProbe) Memory() (Memory, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return Memory{}, fmt.Errorf("probe system memory: %w", err)
	}
	const mb = 1024 * 1024
	return Memory{
		TotalMB:     int(vm.Total / mb),
		AvailableMB: int(vm.Available / mb),
	}, nil
}

// Budget is a resolved per-job resource assignment.
type Budget struct {
	Cores int
	MemMB int
}

// Estimate resolves the core and memory budget for one job.
//
// Cores: min(requested, system) when requested > 0, otherwise all system
// cores. Memory: the requested amount when positive; otherwise available
// memory minus half the OS headroom, falling back to raw available memory
// when that candidate is not positive.
//
// The returned advisories are non-fatal warnings: the budget may exceed what
// the system can actually provide, and execution proceeds with it unchanged.
func Estimate(p Probe, requestedCores, requestedMemMB, osHeadroomMB int) (Budget, []string, error) {
	cores := p.Cores()
	if requestedCores > 0 && requestedCores < cores {
		cores = requestedCores
	}

	sysMem, err := p.Memory()
	if err != nil {
		return Budget{}, nil, err
	}

	leftForApp := sysMem.AvailableMB - osHeadroomMB/2
	memMB := requestedMemMB
	if memMB <= 0 {
		if leftForApp > 0 {
			memMB = leftForApp
		} else {
			memMB = sysMem.AvailableMB
		}
	}

	var advisories []string
	if memMB > sysMem.AvailableMB {
		advisories = append(advisories, fmt.Sprintf(
			"assigned memory (%dMB) exceeds system available memory (%dMB / total=%dMB)",
			memMB, sysMem.AvailableMB, sysMem.TotalMB))
	} else if memMB > sysMem.TotalMB-osHeadroomMB {
		advisories = append(advisories, fmt.Sprintf(
			"assigned memory (%dMB) is within %dMB of system total memory (%dMB): "+
				"OS memory usage might interfere with the benchmark task",
			memMB, osHeadroomMB, sysMem.TotalMB))
	}

	return Budget{Cores: cores, MemMB: memMB}, advisories, nil
}
