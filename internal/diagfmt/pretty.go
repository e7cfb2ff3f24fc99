package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"contenttag/internal/diag"
	"contenttag/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	loc, gutter     *color.Color
	caret, note     *color.Color
	add, del        *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		loc:    mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgRed, color.Bold),
		note:   mk(color.FgCyan),
		add:    mk(color.FgGreen),
		del:    mk(color.FgRed),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
// Цвет включается опцией.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	file := fileOf(fs, d.Primary)
	if file == nil {
		fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity), d.Code.ID(), d.Message)
		return
	}
	start, _ := file.Resolve(d.Primary)
	path := formatPath(file.Path, opts.PathMode, opts.BaseDir)
	fmt.Fprintf(w, "%s %s %s: %s\n",
		pal.loc.Sprintf("%s:%d:%d:", path, start.Line, start.Col),
		pal.severity(d.Severity).Sprint(d.Severity),
		d.Code.ID(),
		d.Message)
	if len(file.Content) > 0 {
		snippet(w, file, d.Primary, opts, pal)
	}

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fileOf(fs, n.Span)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
				continue
			}
			ns, _ := nf.Resolve(n.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"),
				formatPath(nf.Path, opts.PathMode, opts.BaseDir), ns.Line, ns.Col, n.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fix := range d.Fixes {
			fmt.Fprintf(w, "  fix #%d: %s\n", i+1, fix.Title)
			for _, e := range fix.Edits {
				ef := fileOf(fs, e.Span)
				if ef == nil {
					continue
				}
				es, _ := ef.Resolve(e.Span)
				fmt.Fprintf(w, "    %s:%d:%d apply=%s\n",
					formatPath(ef.Path, opts.PathMode, opts.BaseDir), es.Line, es.Col, strconv.Quote(e.NewText))
				if !opts.ShowPreview {
					continue
				}
				preview, err := previewEdit(fs, e)
				if err != nil {
					continue
				}
				fmt.Fprintln(w, "    preview:")
				for _, line := range preview.before {
					fmt.Fprintf(w, "      %s\n", pal.del.Sprint("- "+line))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "      %s\n", pal.add.Sprint("+ "+line))
				}
			}
		}
	}
}

// snippet печатает строку с ошибкой (и Context строк вокруг) и подчёркивание.
func snippet(w io.Writer, file *source.File, sp source.Span, opts PrettyOpts, pal palette) {
	start, end := file.Resolve(sp)
	ctx := uint32(max(opts.Context, 0))
	first := uint32(1)
	if start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + ctx
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		if ln > start.Line && int(ln) > file.LineCount() {
			break
		}
		text := file.GetLine(ln)
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), text)
		if ln != start.Line {
			continue
		}
		line := file.GetLine(ln)
		col := int(start.Col - 1)
		col = min(col, len(line))
		stop := len(line)
		if end.Line == start.Line {
			stop = min(int(end.Col-1), len(line))
		}
		fmt.Fprintf(w, " %s %s%s\n",
			pal.gutter.Sprintf("%*s |", gutterWidth, ""),
			pad(line[:col]),
			pal.caret.Sprint(underline(line[col:max(stop, col)])))
	}
}

// pad заменяет символы пробелами той же ширины, табуляции сохраняет.
func pad(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(text string) string {
	width := runewidth.StringWidth(text)
	if width <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", width-1)
}

func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || int(sp.File) >= fs.Len() {
		return nil
	}
	return fs.Get(sp.File)
}
