package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// StorageMode determines where events go.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1 // written immediately
	ModeRing                          // kept in memory
	ModeBoth
)

func (m StorageMode) String() string {
	switch m {
	case ModeStream:
		return "stream"
	case ModeRing:
		return "ring"
	case ModeBoth:
		return "both"
	}
	return "unknown"
}

// ParseMode converts stream|ring|both to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stream", "":
		return ModeStream, nil
	case "ring":
		return ModeRing, nil
	case "both":
		return ModeBoth, nil
	}
	return ModeStream, fmt.Errorf("invalid trace mode %q (expected stream|ring|both)", s)
}

// Config describes a tracer.
type Config struct {
	Level Level
	Mode  StorageMode
	// Output wins over OutputPath; "-" or "" means stderr.
	Output     io.Writer
	OutputPath string
	// Format defaults to NDJSON for *.ndjson and *.jsonl paths, text otherwise.
	Format   *Format
	RingSize int
}

// New builds the tracer described by cfg.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	format := FormatText
	if cfg.Format != nil {
		format = *cfg.Format
	} else if strings.HasSuffix(cfg.OutputPath, ".ndjson") || strings.HasSuffix(cfg.OutputPath, ".jsonl") {
		format = FormatNDJSON
	}

	mode := cfg.Mode
	if mode == 0 {
		mode = ModeStream
	}
	var tracers []Tracer
	if mode == ModeStream || mode == ModeBoth {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		tracers = append(tracers, NewStreamTracer(w, cfg.Level, format))
	}
	if mode == ModeRing || mode == ModeBoth {
		ring := NewRingTracer(cfg.RingSize, cfg.Level)
		if mode == ModeRing {
			// только кольцо: сбрасываем его в вывод при закрытии
			w, err := openOutput(cfg)
			if err != nil {
				return nil, err
			}
			ring.DumpOnClose(w, format)
		}
		tracers = append(tracers, ring)
	}
	if len(tracers) == 1 {
		return tracers[0], nil
	}
	return teeTracer{level: cfg.Level, tracers: tracers}, nil
}

// stderrWriter hides os.Stderr's Close from the stream tracer.
type stderrWriter struct{}

func (stderrWriter) Write(p []byte) (int, error) { return os.Stderr.Write(p) }

func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return stderrWriter{}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}
