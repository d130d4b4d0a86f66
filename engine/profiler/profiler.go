// Package profiler measures the phases of an asset load: wall time per phase plus the heap churn and
// garbage collections the whole load caused.
package profiler

import (
	"log/slog"
	"runtime"
	"time"
)

// Phase is the timing of one named load phase.
type Phase struct {
	Name     string
	Duration time.Duration
}

// Profiler records consecutive phases of a single load. It is not safe for concurrent use.
type Profiler struct {
	logger     *slog.Logger
	subject    string
	start      time.Time
	last       time.Time
	phases     []Phase
	startAlloc uint64
	startGC    uint32
	now        func() time.Time
}

// New starts profiling a load.
//
// Parameters:
//   - logger: the logger Done reports to; nil disables reporting
//   - subject: what is being loaded, usually the asset path
//
// Returns:
//   - *Profiler: the running profiler
func New(logger *slog.Logger, subject string) *Profiler {
	return newWithClock(logger, subject, time.Now)
}

func newWithClock(logger *slog.Logger, subject string, now func() time.Time) *Profiler {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	t := now()
	return &Profiler{
		logger:     logger,
		subject:    subject,
		start:      t,
		last:       t,
		startAlloc: ms.TotalAlloc,
		startGC:    ms.NumGC,
		now:        now,
	}
}

// Mark closes the current phase under the given name and starts the next one.
func (p *Profiler) Mark(name string) {
	t := p.now()
	p.phases = append(p.phases, Phase{Name: name, Duration: t.Sub(p.last)})
	p.last = t
}

// Phases returns the phases marked so far in order.
func (p *Profiler) Phases() []Phase {
	return p.phases
}

// Done logs the phase timings, total time, bytes allocated and GC cycles since New at debug level.
//
// Returns:
//   - time.Duration: the total time since New
func (p *Profiler) Done() time.Duration {
	total := p.now().Sub(p.start)
	if p.logger == nil {
		return total
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	attrs := make([]any, 0, 2*len(p.phases)+8)
	attrs = append(attrs, "subject", p.subject, "total", total)
	for _, ph := range p.phases {
		attrs = append(attrs, ph.Name, ph.Duration)
	}
	allocMB := float64(ms.TotalAlloc-p.startAlloc) / 1024 / 1024
	attrs = append(attrs, "allocMB", allocMB, "gc", ms.NumGC-p.startGC)

	p.logger.Debug("load profile", attrs...)
	return total
}
