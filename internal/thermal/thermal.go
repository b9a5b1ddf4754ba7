// Package thermal resolves a CPU temperature through an ordered chain of
// probes. Sensor hardware is wildly inconsistent across machines, so every
// probe is best-effort: it either returns a reading, or an error that the
// resolver swallows before moving on. Exhausting the chain yields nil.
package thermal

import (
	"context"
	"runtime"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
	"github.com/Dicklesworthstone/hwmoni/internal/source"
)

// Plausible bounds for a real CPU temperature in Celsius. Readings outside
// this window are treated as sensor garbage and skipped.
const (
	MinPlausible = -50.0
	MaxPlausible = 150.0
)

// Plausible reports whether c could be a real CPU temperature.
func Plausible(c float64) bool { return c >= MinPlausible && c <= MaxPlausible }

// Probe is one temperature acquisition strategy. Read returns nil (with or
// without an error) when the strategy has nothing to offer on this machine.
type Probe struct {
	Name string
	Read func(ctx context.Context) (*model.TemperatureReading, error)
}

// Resolver walks a probe list in order and stops at the first plausible
// reading. The chain is plain data: platform differences are expressed by
// which probes get built, not by conditional branches at resolve time.
type Resolver struct {
	probes []Probe
}

// NewResolver builds a resolver over an explicit probe list.
func NewResolver(probes []Probe) *Resolver {
	return &Resolver{probes: probes}
}

// Prepend derives a resolver with one extra probe tried before the rest.
func (r *Resolver) Prepend(p Probe) *Resolver {
	chain := make([]Probe, 0, len(r.probes)+1)
	chain = append(chain, p)
	chain = append(chain, r.probes...)
	return &Resolver{probes: chain}
}

// Names lists the chain's probes in evaluation order.
func (r *Resolver) Names() []string {
	names := make([]string, len(r.probes))
	for i, p := range r.probes {
		names[i] = p.Name
	}
	return names
}

// Resolve never fails: probe errors are swallowed and the next probe is
// tried. A nil result means no probe produced a plausible value.
func (r *Resolver) Resolve(ctx context.Context) *model.TemperatureReading {
	for _, p := range r.probes {
		reading, err := p.Read(ctx)
		if err != nil || reading == nil {
			continue
		}
		if Plausible(reading.Celsius) {
			return reading
		}
	}
	return nil
}

// UsageFunc supplies the mean CPU usage for the load-based estimate.
type UsageFunc func(ctx context.Context) (float64, error)

// Options controls which probes DefaultChain builds.
type Options struct {
	// Commands allows probes that shell out to platform utilities.
	Commands bool
	// Estimate appends the load-based synthetic probe as the last resort.
	Estimate bool
}

// DefaultChain builds the standard probe order: direct sensor keys, thermal
// component scan, platform-specific sources for the running OS, and finally
// the load estimate. Platform selection happens here, once, at startup.
func DefaultChain(backend source.Backend, usage UsageFunc, opts Options) *Resolver {
	probes := []Probe{
		sensorKeyProbe(backend),
		componentScanProbe(backend),
	}
	probes = append(probes, platformProbes(runtime.GOOS, opts.Commands)...)
	if opts.Estimate && usage != nil {
		probes = append(probes, estimateProbe(usage))
	}
	return NewResolver(probes)
}

// EstimateFromUsage is the synthetic temperature for a given mean CPU usage:
// 35°C at idle rising to 80°C at full load.
func EstimateFromUsage(usagePercent float64) float64 {
	return 35.0 + 0.45*usagePercent
}

func estimateProbe(usage UsageFunc) Probe {
	return Probe{
		Name: "load-estimate",
		Read: func(ctx context.Context) (*model.TemperatureReading, error) {
			u, err := usage(ctx)
			if err != nil {
				return nil, err
			}
			return &model.TemperatureReading{
				Celsius:    EstimateFromUsage(u),
				Provenance: model.Estimated,
			}, nil
		},
	}
}
