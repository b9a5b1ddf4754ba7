// Package monitor composes the measurement source, the temperature resolver,
// and the secondary OS statistics (load average, boot time) into extended
// snapshots, and drives the polling loop the live front ends consume.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
	"github.com/Dicklesworthstone/hwmoni/internal/source"
	"github.com/Dicklesworthstone/hwmoni/internal/thermal"
)

// DefaultInterval is the polling cadence of the live front ends.
const DefaultInterval = 2 * time.Second

// Composer builds ExtendedSnapshots. The temperature resolver it holds has
// the direct thermal-zone probe prepended: this entry point checks the
// kernel's own accessor before walking the general chain.
type Composer struct {
	source   *source.Source
	resolver *thermal.Resolver
	backend  source.Backend
}

func NewComposer(src *source.Source, resolver *thermal.Resolver, backend source.Backend) *Composer {
	return &Composer{
		source:   src,
		resolver: resolver.Prepend(thermal.DirectZoneProbe()),
		backend:  backend,
	}
}

// Source exposes the underlying measurement source.
func (c *Composer) Source() *source.Source { return c.source }

// Extended produces one full snapshot. Temperature, load average, and boot
// time are independently optional; only the core counters can fail the call.
func (c *Composer) Extended(ctx context.Context) (model.ExtendedSnapshot, error) {
	snap, err := c.source.Snapshot(ctx)
	if err != nil {
		return model.ExtendedSnapshot{}, err
	}

	ext := model.ExtendedSnapshot{SystemSnapshot: snap}
	ext.CPUTemperature = c.resolver.Resolve(ctx)

	if la, err := c.backend.LoadAvg(); err == nil && la != nil {
		ext.LoadAverage = &model.LoadAverage{
			Load1:  la.Load1,
			Load5:  la.Load5,
			Load15: la.Load15,
		}
	}
	if bt, err := c.backend.BootTime(); err == nil && bt > 0 {
		s := time.Unix(int64(bt), 0).Format(time.RFC3339)
		ext.BootTime = &s
	}

	record(ext)
	return ext, nil
}

// Stream emits extended snapshots on a fixed cadence until ctx is done.
// Cycle errors are logged and skipped; the loop never stops on its own.
func (c *Composer) Stream(ctx context.Context, interval time.Duration) <-chan model.ExtendedSnapshot {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ch := make(chan model.ExtendedSnapshot)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if ctx.Err() != nil {
					return
				}
				ext, err := c.Extended(ctx)
				if err != nil {
					slog.Error("poll cycle failed", "err", err)
					continue
				}
				select {
				case ch <- ext:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
