package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"contenttag"
	"contenttag/internal/diag"
	"contenttag/internal/edit"
	"contenttag/internal/observ"
	"contenttag/internal/pipeline"
	"contenttag/internal/source"
	"contenttag/internal/trace"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Mode selects what the driver does with every file.
type Mode uint8

const (
	ModeRewrite Mode = iota
	ModeLocate
)

// Request describes one batch run.
type Request struct {
	Files []string
	// BaseDir makes display paths (and default module names) relative.
	BaseDir string
	Mode    Mode
	Options contenttag.RewriteOptions
	Jobs    int
	// Write replaces changed files in place.
	Write bool
	// OutDir receives every output under its display path.
	OutDir   string
	Cache    *Cache
	Progress pipeline.ProgressSink
}

// FileResult is the outcome for one file. Err is set when the file failed;
// other files are not affected.
type FileResult struct {
	Path    string
	Display string
	File    *source.File

	Matches      []contenttag.Match
	MatchCount   int
	Output       []byte
	SourceMap    []byte
	ImportName   string
	Replacements []contenttag.Replacement

	Changed bool
	Cached  bool
	Written []string

	Err         error
	Diagnostics []diag.Diagnostic
	Timing      observ.Report
}

// Result collects the outcomes of a batch in input order.
type Result struct {
	FileSet *source.FileSet
	Files   []FileResult
	Timings pipeline.Timings
}

// Failed returns the number of files that ended with an error.
func (r *Result) Failed() int {
	n := 0
	for i := range r.Files {
		if r.Files[i].Err != nil {
			n++
		}
	}
	return n
}

// Run processes req.Files in parallel. Every file is independent: a failing
// file is reported in its FileResult and the others go on. The returned
// error is set only when the run itself was cancelled.
func Run(ctx context.Context, req *Request) (*Result, error) {
	if req == nil {
		return nil, errors.New("driver: missing request")
	}
	fileSet := source.NewFileSet()
	res := &Result{FileSet: fileSet, Files: make([]FileResult, len(req.Files))}
	if len(req.Files) == 0 {
		return res, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "driver_run", trace.CurrentSpan(ctx).SpanID).
		WithExtra("files", fmt.Sprint(len(req.Files)))
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	displays := make([]string, len(req.Files))
	for i, path := range req.Files {
		displays[i] = pipeline.DisplayPath(path, req.BaseDir)
	}
	pipeline.EmitQueued(req.Progress, displays)

	// Настраиваем параллелизм
	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var timingsMu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(req.Files)))

	for i, path := range req.Files {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			w := worker{req: req, fileSet: fileSet, path: path, display: displays[i]}
			fr, stages := w.run(gctx)
			// индекс i уникален для горутины, мьютекс нужен только таймингам
			res.Files[i] = fr
			timingsMu.Lock()
			for stage, d := range stages {
				res.Timings.Add(stage, d)
			}
			timingsMu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	span.End(fmt.Sprintf("failed=%d", res.Failed()))
	if err != nil {
		return res, err
	}
	return res, nil
}

type worker struct {
	req     *Request
	fileSet *source.FileSet
	path    string
	display string

	timer  *observ.Timer
	stages map[pipeline.Stage]time.Duration
}

func (w *worker) run(ctx context.Context) (FileResult, map[pipeline.Stage]time.Duration) {
	w.timer = observ.NewTimer()
	w.stages = make(map[pipeline.Stage]time.Duration, 4)
	fr := FileResult{Path: w.path, Display: w.display}

	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", trace.CurrentSpan(ctx).SpanID).
		WithExtra("path", w.display)
	ctx = trace.WithSpanContext(ctx, trace.SpanContext{SpanID: span.ID()})

	err := w.process(ctx, &fr)
	fr.Timing = w.timer.Report()
	if err != nil {
		fr.Err = err
		fr.Diagnostics = diagnosticsOf(err, fr.File)
		pipeline.Emit(w.req.Progress, pipeline.Event{File: w.display, Status: pipeline.StatusError, Err: err})
		span.End("error")
		return fr, w.stages
	}
	status := pipeline.StatusDone
	if fr.Cached {
		status = pipeline.StatusSkipped
	}
	pipeline.Emit(w.req.Progress, pipeline.Event{File: w.display, Status: status, Elapsed: ms(fr.Timing.TotalMS)})
	span.End(string(status))
	return fr, w.stages
}

// stage runs fn as one timed phase.
func (w *worker) stage(stage pipeline.Stage, fn func() (string, error)) error {
	pipeline.Emit(w.req.Progress, pipeline.Event{File: w.display, Stage: stage, Status: pipeline.StatusWorking})
	err := w.timer.Measure(string(stage), fn)
	if d, ok := w.timer.Last(string(stage)); ok {
		w.stages[stage] += d
	}
	return err
}

func (w *worker) process(ctx context.Context, fr *FileResult) error {
	err := w.stage(pipeline.StageLoad, func() (string, error) {
		id, err := w.fileSet.Load(w.path)
		if err != nil {
			return "", err
		}
		fr.File = w.fileSet.Get(id)
		return "", nil
	})
	if err != nil {
		// пустой виртуальный файл даёт диагностике путь
		fr.File = w.fileSet.Get(w.fileSet.AddVirtual(w.display, nil))
		return &IOError{Path: w.display, Op: "read", Err: err}
	}

	if w.req.Mode == ModeLocate {
		return w.stage(pipeline.StageLocate, func() (string, error) {
			matches, err := contenttag.Locate(ctx, fr.File.Content, w.display, w.req.Options.LocateOptions)
			if err != nil {
				return "", err
			}
			fr.Matches = matches
			fr.MatchCount = len(matches)
			return fmt.Sprintf("%d matches", len(matches)), nil
		})
	}

	key := CacheKey(Digest(fr.File.Hash), w.display, w.req.Options)
	if e, ok := w.req.Cache.Get(key); ok {
		fr.Cached = true
		fr.Output, fr.SourceMap, fr.ImportName = e.Output, e.SourceMap, e.ImportName
		fr.Replacements, fr.MatchCount = e.Replacements, e.MatchCount
	} else {
		err = w.stage(pipeline.StageRewrite, func() (string, error) {
			out, err := contenttag.Rewrite(ctx, fr.File.Content, w.display, w.req.Options)
			if err != nil {
				return "", err
			}
			fr.Output, fr.SourceMap, fr.ImportName = out.Output, out.SourceMap, out.ImportName
			fr.Replacements, fr.Matches, fr.MatchCount = out.Replacements, out.Matches, len(out.Matches)
			// кэш не обязателен: ошибку записи на диск игнорируем
			_ = w.req.Cache.Put(key, entryFromResult(w.display, out))
			return fmt.Sprintf("%d matches", len(out.Matches)), nil
		})
		if err != nil {
			return err
		}
	}
	fr.Changed = string(fr.Output) != string(fr.File.Content)

	targets := w.targets(fr)
	if len(targets) == 0 {
		return nil
	}
	return w.stage(pipeline.StageWrite, func() (string, error) {
		data := fr.Output
		if fr.File.Flags&source.FileHadBOM != 0 {
			data = append(append([]byte(nil), utf8BOM...), data...)
		}
		for _, target := range targets {
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return "", &IOError{Path: target, Op: "write", Err: err}
			}
			if err := edit.WriteFile(target, data); err != nil {
				return "", &IOError{Path: target, Op: "write", Err: err}
			}
			fr.Written = append(fr.Written, target)
			if len(fr.SourceMap) > 0 {
				if err := edit.WriteFile(target+".map", fr.SourceMap); err != nil {
					return "", &IOError{Path: target + ".map", Op: "write", Err: err}
				}
				fr.Written = append(fr.Written, target+".map")
			}
		}
		return fmt.Sprintf("%d files", len(fr.Written)), nil
	})
}

func (w *worker) targets(fr *FileResult) []string {
	var out []string
	if w.req.OutDir != "" {
		out = append(out, filepath.Join(w.req.OutDir, filepath.FromSlash(w.display)))
	}
	if w.req.Write && fr.Changed {
		out = append(out, w.path)
	}
	return out
}

func ms(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}
