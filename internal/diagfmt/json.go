package diagfmt

import (
	"encoding/json"
	"io"

	"contenttag/internal/diag"
	"contenttag/internal/source"
)

// Point is a position in a file. Line and Col are 1-based and only set when
// positions were requested.
type Point struct {
	Offset uint32 `json:"offset"`
	Line   uint32 `json:"line,omitempty"`
	Col    uint32 `json:"col,omitempty"`
}

// Location is a range of a file.
type Location struct {
	Path  string `json:"path,omitempty"`
	Start Point  `json:"start"`
	End   Point  `json:"end"`
}

type NoteRecord struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type EditRecord struct {
	Location Location `json:"location"`
	Replace  string   `json:"replace"`
	Expect   string   `json:"expect,omitempty"`
	Before   []string `json:"before,omitempty"`
	After    []string `json:"after,omitempty"`
}

type FixRecord struct {
	Title string       `json:"title"`
	Edits []EditRecord `json:"edits,omitempty"`
}

// Record is one diagnostic in the JSON report.
type Record struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location Location     `json:"location"`
	Notes    []NoteRecord `json:"notes,omitempty"`
	Fixes    []FixRecord  `json:"fixes,omitempty"`
}

// Report is the top-level JSON object.
type Report struct {
	Diagnostics []Record `json:"diagnostics"`
	Count       int      `json:"count"`
	Errors      int      `json:"errors"`
	Warnings    int      `json:"warnings"`
	// Omitted counts diagnostics left out by Max or by the bag limit.
	Omitted int `json:"omitted,omitempty"`
}

type recordBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (rb recordBuilder) location(sp source.Span) Location {
	loc := Location{Start: Point{Offset: sp.Start}, End: Point{Offset: sp.End}}
	f := fileOf(rb.fs, sp)
	if f == nil {
		return loc
	}
	loc.Path = formatPath(f.Path, rb.opts.PathMode, rb.opts.BaseDir)
	if rb.opts.IncludePositions {
		start, end := f.Resolve(sp)
		loc.Start.Line, loc.Start.Col = start.Line, start.Col
		loc.End.Line, loc.End.Col = end.Line, end.Col
	}
	return loc
}

func (rb recordBuilder) record(d *diag.Diagnostic) Record {
	rec := Record{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: rb.location(d.Primary),
	}
	// у тайминга весь полезный груз в заметке
	if rb.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			rec.Notes = append(rec.Notes, NoteRecord{Message: n.Msg, Location: rb.location(n.Span)})
		}
	}
	if !rb.opts.IncludeFixes {
		return rec
	}
	for _, fix := range d.Fixes {
		fr := FixRecord{Title: fix.Title}
		for _, e := range fix.Edits {
			er := EditRecord{Location: rb.location(e.Span), Replace: e.NewText, Expect: e.OldText}
			if rb.opts.IncludePreviews {
				if p, err := previewEdit(rb.fs, e); err == nil {
					er.Before, er.After = p.before, p.after
				}
			}
			fr.Edits = append(fr.Edits, er)
		}
		rec.Fixes = append(rec.Fixes, fr)
	}
	return rec
}

// BuildReport converts the bag without encoding it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	rep := Report{Diagnostics: []Record{}}
	if bag == nil {
		return rep
	}
	rb := recordBuilder{fs: fs, opts: opts}
	items := bag.Items()
	for i := range items {
		if opts.Max > 0 && len(rep.Diagnostics) == opts.Max {
			rep.Omitted = len(items) - i
			break
		}
		rep.Diagnostics = append(rep.Diagnostics, rb.record(&items[i]))
		switch items[i].Severity {
		case diag.SevError:
			rep.Errors++
		case diag.SevWarning:
			rep.Warnings++
		}
	}
	rep.Count = len(rep.Diagnostics)
	rep.Omitted += bag.Dropped()
	return rep
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
