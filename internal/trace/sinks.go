package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"time"
)

// Format is the encoding of a stream tracer.
type Format uint8

const (
	FormatText   Format = iota // one readable line per event
	FormatNDJSON               // one JSON object per line
)

type jsonEvent struct {
	Time      string            `json:"time"`
	Seq       uint64            `json:"seq"`
	Kind      string            `json:"kind"`
	Scope     string            `json:"scope,omitempty"`
	SpanID    uint64            `json:"span_id,omitempty"`
	ParentID  uint64            `json:"parent_id,omitempty"`
	Name      string            `json:"name"`
	Detail    string            `json:"detail,omitempty"`
	ElapsedMS float64           `json:"elapsed_ms,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// appendEvent encodes ev; since is the tracer start used by the text form.
func appendEvent(buf []byte, ev Event, format Format, since time.Time) []byte {
	if format == FormatNDJSON {
		data, err := json.Marshal(jsonEvent{
			Time:      ev.Time.UTC().Format(time.RFC3339Nano),
			Seq:       ev.Seq,
			Kind:      ev.Kind.String(),
			Scope:     scopeName(ev),
			SpanID:    ev.SpanID,
			ParentID:  ev.ParentID,
			Name:      ev.Name,
			Detail:    ev.Detail,
			ElapsedMS: float64(ev.Elapsed) / float64(time.Millisecond),
			Extra:     ev.Extra,
		})
		if err != nil {
			return buf
		}
		return append(append(buf, data...), '\n')
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[+%9.3fms] ", float64(ev.Time.Sub(since))/float64(time.Millisecond))
	switch ev.Kind {
	case KindBegin:
		b.WriteString("-> ")
	case KindEnd:
		b.WriteString("<- ")
	case KindHeartbeat:
		b.WriteString("** ")
	}
	if ev.Scope != 0 {
		b.WriteString(ev.Scope.String())
		b.WriteByte(':')
	}
	b.WriteString(ev.Name)
	if ev.Kind == KindEnd {
		fmt.Fprintf(&b, " %.3fms", float64(ev.Elapsed)/float64(time.Millisecond))
	}
	if ev.Detail != "" {
		b.WriteString(" (" + ev.Detail + ")")
	}
	if len(ev.Extra) > 0 {
		keys := make([]string, 0, len(ev.Extra))
		for k := range ev.Extra {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		b.WriteString(" {")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k + "=" + ev.Extra[k])
		}
		b.WriteByte('}')
	}
	b.WriteByte('\n')
	return append(buf, b.String()...)
}

func scopeName(ev Event) string {
	if ev.Scope == 0 {
		return ""
	}
	return ev.Scope.String()
}

// StreamTracer writes every event as it arrives. Write errors are kept and
// reported by Flush; tracing never fails a run.
type StreamTracer struct {
	mu     sync.Mutex
	w      *bufio.Writer
	closer io.Closer
	level  Level
	format Format
	start  time.Time
	buf    []byte
	err    error
}

// NewStreamTracer wraps w; w is closed by Close when it is an io.Closer.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{w: bufio.NewWriter(w), level: level, format: format, start: time.Now()}
	if c, ok := w.(io.Closer); ok {
		t.closer = c
	}
	return t
}

func (t *StreamTracer) Emit(ev Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = appendEvent(t.buf[:0], ev, t.format, t.start)
	if _, err := t.w.Write(t.buf); err != nil && t.err == nil {
		t.err = err
	}
	// события по файлам редки, пишем сразу чтобы трасса пережила панику
	if ev.Kind != KindBegin {
		_ = t.w.Flush()
	}
}

func (t *StreamTracer) Level() Level { return t.level }

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.w.Flush(); err != nil && t.err == nil {
		t.err = err
	}
	return t.err
}

func (t *StreamTracer) Close() error {
	err := t.Flush()
	if t.closer != nil {
		err = errors.Join(err, t.closer.Close())
	}
	return err
}

// RingTracer keeps the last events in memory. With a dump target set the
// snapshot is written out on Close.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
	level  Level

	dump       io.Writer
	dumpFormat Format
}

// NewRingTracer keeps up to capacity events (4096 when capacity <= 0).
func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev Event) {
	t.mu.Lock()
	t.events[t.next] = ev
	t.next++
	if t.next == len(t.events) {
		t.next, t.full = 0, true
	}
	t.mu.Unlock()
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return slices.Clone(t.events[:t.next])
	}
	return append(slices.Clone(t.events[t.next:]), t.events[:t.next]...)
}

// Dump writes the snapshot to w.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	var start time.Time
	if len(events) > 0 {
		start = events[0].Time
	}
	var buf []byte
	for _, ev := range events {
		buf = appendEvent(buf, ev, format, start)
	}
	_, err := w.Write(buf)
	return err
}

// DumpOnClose makes Close write the snapshot to w.
func (t *RingTracer) DumpOnClose(w io.Writer, format Format) {
	t.dump, t.dumpFormat = w, format
}

func (t *RingTracer) Level() Level { return t.level }
func (t *RingTracer) Flush() error { return nil }

func (t *RingTracer) Close() error {
	if t.dump == nil {
		return nil
	}
	err := t.Dump(t.dump, t.dumpFormat)
	if c, ok := t.dump.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	t.dump = nil
	return err
}

// teeTracer sends every event to several tracers.
type teeTracer struct {
	level   Level
	tracers []Tracer
}

func (t teeTracer) Emit(ev Event) {
	for _, tr := range t.tracers {
		tr.Emit(ev)
	}
}

func (t teeTracer) Level() Level { return t.level }

func (t teeTracer) Flush() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Flush())
	}
	return errors.Join(errs...)
}

func (t teeTracer) Close() error {
	var errs []error
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}
