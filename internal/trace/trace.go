// Package trace records nested spans of a run (the batch, each file, and
// the phases inside a file) and writes them as text or NDJSON, or keeps the
// most recent ones in memory.
//
// Usage:
//
//	contenttag rewrite --trace=- --trace-level=detail src/
//
// Spans are started with Begin and closed with End; the current span travels
// through context.Context so nested calls can attach children.
package trace

import (
	"fmt"
	"strings"
	"time"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelPhase        // batch and per-file spans
	LevelDetail       // plus the phases inside a file
	LevelDebug        // everything
)

var levelNames = [...]string{"off", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("level(%d)", uint8(l))
}

// ParseLevel converts off|phase|detail|debug, in any case, to a Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected off|phase|detail|debug)", s)
}

// Allows reports whether spans of scope are recorded at this level.
func (l Level) Allows(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopeFile
	case LevelDetail:
		return scope <= ScopePhase
	case LevelDebug:
		return true
	}
	return false
}

// Scope is the granularity of a span; smaller is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one batch run
	ScopeFile                    // one input file
	ScopePhase                   // parse, imports, rewrite
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopeFile:
		return "file"
	case ScopePhase:
		return "phase"
	}
	return "unknown"
}

// Kind is the type of an event.
type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindHeartbeat
)

func (k Kind) String() string {
	switch k {
	case KindBegin:
		return "begin"
	case KindEnd:
		return "end"
	case KindHeartbeat:
		return "heartbeat"
	}
	return "unknown"
}

// Event is one record written by a tracer.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Name     string
	Detail   string
	// Elapsed is set on end events.
	Elapsed time.Duration
	Extra   map[string]string
}

// Tracer receives events. Implementations must be safe for concurrent use.
type Tracer interface {
	Emit(ev Event)
	Level() Level
	Flush() error
	Close() error
}

// Enabled reports whether t records anything.
func Enabled(t Tracer) bool {
	return t != nil && t.Level() > LevelOff
}

type nopTracer struct{}

func (nopTracer) Emit(Event)   {}
func (nopTracer) Level() Level { return LevelOff }
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }

// Nop discards everything.
var Nop Tracer = nopTracer{}
