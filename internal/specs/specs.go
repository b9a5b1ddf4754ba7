// Package specs reads the static hardware identity of the machine.
package specs

import (
	"fmt"
	"runtime"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
	"github.com/Dicklesworthstone/hwmoni/internal/source"
)

const (
	unknownCPU     = "Unknown CPU"
	unknownOS      = "Unknown OS"
	unknownVersion = "Unknown Version"
	unknownHost    = "Unknown Host"
)

// Reporter produces HardwareIdentity snapshots. Each call reads every field
// fresh; the values are stable for the process lifetime anyway, so caching
// buys nothing and staleness bugs cost plenty.
type Reporter struct {
	backend source.Backend
}

func NewReporter(backend source.Backend) *Reporter {
	return &Reporter{backend: backend}
}

// Read returns the machine's identity. It fails only when memory totals are
// unreadable; every descriptive field degrades to an "Unknown …" sentinel
// instead of failing the whole call.
func (r *Reporter) Read() (model.HardwareIdentity, error) {
	vm, err := r.backend.VirtualMemory()
	if err != nil {
		return model.HardwareIdentity{}, fmt.Errorf("%w: refresh memory: %v", source.ErrUnavailable, err)
	}

	id := model.HardwareIdentity{
		CPUModel:      unknownCPU,
		Architecture:  runtime.GOARCH,
		TotalMemoryGB: model.BytesToGB(vm.Total),
		OSName:        unknownOS,
		OSVersion:     unknownVersion,
		Hostname:      unknownHost,
	}

	infos, err := r.backend.CPUInfo()
	if err == nil && len(infos) > 0 && infos[0].ModelName != "" {
		// First entry's brand string stands in for the whole package.
		id.CPUModel = infos[0].ModelName
	}
	if n, err := r.backend.CPUCounts(true); err == nil {
		id.CPUCores = n
	} else {
		id.CPUCores = len(infos)
	}

	if hi, err := r.backend.HostInfo(); err == nil {
		if hi.Platform != "" {
			id.OSName = hi.Platform
		}
		if hi.PlatformVersion != "" {
			id.OSVersion = hi.PlatformVersion
		}
		if hi.Hostname != "" {
			id.Hostname = hi.Hostname
		}
	}
	return id, nil
}
