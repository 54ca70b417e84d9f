// Package debug provides runtime monitoring and diagnostics.
package debug

import (
	"context"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/drake/relsize/internal/logging"
)

// Enabled returns true if debug mode is active (RELSIZE_DEBUG=1).
func Enabled() bool {
	return os.Getenv("RELSIZE_DEBUG") == "1"
}

// Counters are updated by the UI goroutine and read by the monitor.
type Counters struct {
	Containers    atomic.Int64
	Listeners     atomic.Int64
	ResizeEntries atomic.Int64
	Publishes     atomic.Int64
	Frames        atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Containers    int64
	Listeners     int64
	ResizeEntries int64
	Publishes     int64
	Frames        int64
	Goroutines    int
}

// Snapshot copies the current values.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Containers:    c.Containers.Load(),
		Listeners:     c.Listeners.Load(),
		ResizeEntries: c.ResizeEntries.Load(),
		Publishes:     c.Publishes.Load(),
		Frames:        c.Frames.Load(),
		Goroutines:    runtime.NumGoroutine(),
	}
}

// Monitor periodically logs counters.
type Monitor struct {
	counters *Counters
	interval time.Duration
	ctx      context.Context
	logger   *logging.Logger
}

// NewMonitor creates a monitor. If enabled is false, returns nil; a nil
// monitor's Start does nothing.
func NewMonitor(ctx context.Context, enabled bool, counters *Counters, interval time.Duration, logger *logging.Logger) *Monitor {
	if !enabled {
		return nil
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &Monitor{
		counters: counters,
		interval: interval,
		ctx:      ctx,
		logger:   logger,
	}
}

// Start begins the monitoring loop in a goroutine.
func (m *Monitor) Start() {
	if m == nil {
		return
	}
	go m.run()
}

func (m *Monitor) run() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Debug("monitor started", "interval", m.interval.String())

	for {
		select {
		case <-m.ctx.Done():
			m.logger.Debug("monitor stopped")
			return
		case <-ticker.C:
			m.logStats()
		}
	}
}

func (m *Monitor) logStats() {
	s := m.counters.Snapshot()
	m.logger.Info("stats",
		"containers", s.Containers,
		"listeners", s.Listeners,
		"resize_entries", s.ResizeEntries,
		"publishes", s.Publishes,
		"frames", s.Frames,
		"goroutines", s.Goroutines,
	)
}
