// Package observ carries lightweight phase timing for --timings.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one timed stage of an analysis run.
type Phase struct {
	Name  string
	Dur   time.Duration
	Note  string
	start time.Time
}

// Timer accumulates phases in start order. It is not safe for
// concurrent use; the driver times phases, not workers.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin opens a phase and returns the closer that seals its duration.
// The note, if any, lands next to the duration in the summary.
func (t *Timer) Begin(name string) func(note string) {
	t.phases = append(t.phases, Phase{Name: name, start: time.Now()})
	idx := len(t.phases) - 1
	return func(note string) {
		p := &t.phases[idx]
		p.Dur = time.Since(p.start)
		p.Note = note
	}
}

// Phases returns the recorded phases in start order.
func (t *Timer) Phases() []Phase { return t.phases }

// Summary renders the phases and their total for terminal output.
func (t *Timer) Summary() string {
	var b strings.Builder
	b.WriteString("timings:\n")
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
		fmt.Fprintf(&b, "  %-16s %8.2f ms", p.Name, millis(p.Dur))
		if p.Note != "" {
			b.WriteString("  " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  %-16s %8.2f ms\n", "total", millis(total))
	return b.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
