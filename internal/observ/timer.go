// Package observ measures the phases of processing one file.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

type phase struct {
	name   string
	offset time.Duration // от создания таймера
	dur    time.Duration
	note   string
	failed bool
}

// Timer records phases in the order they ran. The driver keeps one per
// file, so it is not safe for concurrent use.
type Timer struct {
	created time.Time
	phases  []phase
	now     func() time.Time
}

func NewTimer() *Timer {
	return &Timer{created: time.Now(), now: time.Now}
}

// Measure runs fn as phase name. The note returned by fn is kept with the
// timing; the error is passed through and marks the phase as failed.
func (t *Timer) Measure(name string, fn func() (note string, err error)) error {
	start := t.now()
	note, err := fn()
	t.phases = append(t.phases, phase{
		name:   name,
		offset: start.Sub(t.created),
		dur:    t.now().Sub(start),
		note:   note,
		failed: err != nil,
	})
	return err
}

// Last returns the duration of the most recent phase named name.
func (t *Timer) Last(name string) (time.Duration, bool) {
	for i := len(t.phases) - 1; i >= 0; i-- {
		if t.phases[i].name == name {
			return t.phases[i].dur, true
		}
	}
	return 0, false
}

// PhaseReport is the serialisable form of one phase.
type PhaseReport struct {
	Name       string  `json:"name"`
	StartMS    float64 `json:"start_ms"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
	Failed     bool    `json:"failed,omitempty"`
}

// Report sums up a timer. TotalMS adds the phases; gaps between them (queueing,
// cache lookups) are not counted.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

func (t *Timer) Report() Report {
	var r Report
	var total time.Duration
	for _, p := range t.phases {
		total += p.dur
		r.Phases = append(r.Phases, PhaseReport{
			Name:       p.name,
			StartMS:    Millis(p.offset),
			DurationMS: Millis(p.dur),
			Note:       p.note,
			Failed:     p.failed,
		})
	}
	r.TotalMS = Millis(total)
	return r
}

// String renders the report as an aligned table.
func (r Report) String() string {
	var b strings.Builder
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "%-10s %8.2fms", p.Name, p.DurationMS)
		switch {
		case p.Failed:
			b.WriteString("  failed")
		case p.Note != "":
			b.WriteString("  " + p.Note)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%-10s %8.2fms\n", "total", r.TotalMS)
	return b.String()
}
