// Package source owns the shared OS-introspection backend and the sampling
// ritual built on top of it. CPU usage is only meaningful as a delta between
// two counter reads separated by a settle interval; a single read is garbage
// and is never reported.
package source

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
)

// ErrUnavailable marks a failure of the introspection backend itself. The
// wrapped message is surfaced verbatim to the caller; there is no retry.
var ErrUnavailable = errors.New("system introspection unavailable")

// DefaultSettle is the interval between the priming and reporting CPU reads.
const DefaultSettle = 200 * time.Millisecond

// Backend is the OS-introspection surface the measurement layer depends on.
// The production implementation is gopsutil; tests substitute fakes.
type Backend interface {
	CPUTimes(percpu bool) ([]cpu.TimesStat, error)
	CPUInfo() ([]cpu.InfoStat, error)
	CPUCounts(logical bool) (int, error)
	VirtualMemory() (*mem.VirtualMemoryStat, error)
	Uptime() (uint64, error)
	BootTime() (uint64, error)
	LoadAvg() (*load.AvgStat, error)
	SensorsTemperatures() ([]host.TemperatureStat, error)
	HostInfo() (*host.InfoStat, error)
}

// Gopsutil is the real Backend.
type Gopsutil struct{}

func (Gopsutil) CPUTimes(percpu bool) ([]cpu.TimesStat, error) { return cpu.Times(percpu) }
func (Gopsutil) CPUInfo() ([]cpu.InfoStat, error)              { return cpu.Info() }
func (Gopsutil) CPUCounts(logical bool) (int, error)           { return cpu.Counts(logical) }
func (Gopsutil) VirtualMemory() (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemory()
}
func (Gopsutil) Uptime() (uint64, error)   { return host.Uptime() }
func (Gopsutil) BootTime() (uint64, error) { return host.BootTime() }
func (Gopsutil) LoadAvg() (*load.AvgStat, error) {
	return load.Avg()
}
func (Gopsutil) SensorsTemperatures() ([]host.TemperatureStat, error) {
	return host.SensorsTemperatures()
}
func (Gopsutil) HostInfo() (*host.InfoStat, error) { return host.Info() }

// Source serializes access to one Backend. The mutex spans the full
// read-settle-read sequence, so concurrent snapshot requests queue rather
// than interleave their refresh phases; each caller waits up to one settle
// interval per queued request, and in exchange every result is computed from
// its own clean pair of reads.
type Source struct {
	mu      sync.Mutex
	backend Backend
	settle  time.Duration
}

// New returns a Source over the given backend. A zero settle means
// DefaultSettle.
func New(backend Backend, settle time.Duration) *Source {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Source{backend: backend, settle: settle}
}

// Snapshot samples CPU and memory. The first CPU read primes the baseline,
// the second (after the settle interval) yields the delta the percentages
// are computed from. Fails with ErrUnavailable if the backend does; no
// partial snapshot is returned.
func (s *Source) Snapshot(ctx context.Context) (model.SystemSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	usage, err := s.sampleUsageLocked(ctx)
	if err != nil {
		return model.SystemSnapshot{}, err
	}

	vm, err := s.backend.VirtualMemory()
	if err != nil {
		return model.SystemSnapshot{}, fmt.Errorf("%w: refresh memory: %v", ErrUnavailable, err)
	}

	// Uptime is a monotonic OS value, independent of the counter handle.
	up, err := s.backend.Uptime()
	if err != nil {
		return model.SystemSnapshot{}, fmt.Errorf("%w: read uptime: %v", ErrUnavailable, err)
	}

	return model.SystemSnapshot{
		CPUUsagePercent:    usage,
		MemoryUsagePercent: model.MemoryPercent(vm.Used, vm.Total),
		TotalMemoryBytes:   vm.Total,
		UsedMemoryBytes:    vm.Used,
		UptimeSeconds:      up,
	}, nil
}

// Usage runs only the CPU half of the ritual. The thermal estimate probe
// feeds on this.
func (s *Source) Usage(ctx context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampleUsageLocked(ctx)
}

func (s *Source) sampleUsageLocked(ctx context.Context) (float64, error) {
	first, err := s.backend.CPUTimes(true)
	if err != nil {
		return 0, fmt.Errorf("%w: refresh cpu: %v", ErrUnavailable, err)
	}
	if err := sleep(ctx, s.settle); err != nil {
		return 0, err
	}
	second, err := s.backend.CPUTimes(true)
	if err != nil {
		return 0, fmt.Errorf("%w: refresh cpu: %v", ErrUnavailable, err)
	}
	return MeanUsage(first, second), nil
}

// MeanUsage computes the arithmetic mean of per-core busy percentages from
// two counter reads. Zero cores yields exactly 0.0.
func MeanUsage(prev, cur []cpu.TimesStat) float64 {
	n := len(cur)
	if n > len(prev) {
		n = len(prev)
	}
	if n == 0 {
		return 0.0
	}
	var sum float64
	for i := 0; i < n; i++ {
		dt := cur[i].Total() - prev[i].Total()
		di := (cur[i].Idle + cur[i].Iowait) - (prev[i].Idle + prev[i].Iowait)
		if dt <= 0 {
			continue
		}
		pct := 100 * (1 - di/dt)
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		sum += pct
	}
	return sum / float64(n)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
