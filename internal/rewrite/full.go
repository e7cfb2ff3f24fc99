package rewrite

import (
	"bytes"
	"fmt"
	"strings"

	"contenttag/internal/format"
	"contenttag/internal/jsgen"
	"contenttag/internal/source"
	"contenttag/internal/srcmap"
)

// full regenerates the file: bytes outside the matches are copied as is,
// the managed import goes in front, class templates move into one static
// block per class.
func full(file *source.File, st *state, opts Options) (*Result, error) {
	content := file.Content
	at := func(start, end uint32) source.Span {
		return source.Span{File: file.ID, Start: start, End: end}
	}

	edits := []format.Edit{{
		Span: at(0, 0),
		Print: func(w *format.Writer) {
			jsgen.Print(w, &jsgen.Import{Imported: DefaultImportName, Local: st.importName, Source: opts.ImportSource})
			w.WriteString("\n")
		},
	}}

	for _, s := range st.sites {
		m, call := s.match, s.call
		switch s.target {
		case TargetExportDefault:
			sp := m.Range
			// `<template>…</template>;` — точка с запятой уходит вместе с узлом
			if int(sp.End) < len(content) && content[sp.End] == ';' {
				sp.End++
			}
			edits = append(edits, format.Edit{Span: sp, Print: func(w *format.Writer) {
				jsgen.Print(w, &jsgen.ExportDefault{X: call})
			}})
		case TargetClassStatic:
			edits = append(edits, format.Edit{Span: removalSpan(file, m.Range)})
		default:
			indent := lineIndent(content, lineStart(content, m.Range.Start))
			edits = append(edits, format.Edit{Span: m.Range, Print: func(w *format.Writer) {
				prev := w.SetBase(indent)
				jsgen.Print(w, call)
				w.SetBase(prev)
			}})
		}
	}

	for _, cb := range st.classes {
		e, err := classInsertion(file, cb, opts.Format)
		if err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}

	output, mappings, err := format.SpliceFile(file, edits, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("rewrite %s: %w", file.Path, err)
	}
	out := &Result{Output: output, Anchors: anchors(file, st, mappings)}

	if opts.SourceMaps == srcmap.FlavorOff {
		return out, nil
	}
	gen := srcmap.NewGenerator(opts.MapFile, opts.ModuleName, string(content))
	for _, mp := range mappings {
		line, col := sourcePosition(file, mp.Origin)
		gen.AddMapping(mp.GenLine, mp.GenCol, line, col)
	}
	if opts.SourceMaps.Separate() {
		data, err := gen.JSON()
		if err != nil {
			return nil, fmt.Errorf("rewrite %s: source map: %w", file.Path, err)
		}
		out.SourceMap = data
	}
	if opts.SourceMaps.Inline() {
		comment, err := gen.InlineComment()
		if err != nil {
			return nil, fmt.Errorf("rewrite %s: source map: %w", file.Path, err)
		}
		if len(out.Output) > 0 && out.Output[len(out.Output)-1] != '\n' {
			out.Output = append(out.Output, '\n')
		}
		out.Output = append(out.Output, comment...)
	}
	return out, nil
}

// anchors picks the mappings recorded for template strings.
func anchors(file *source.File, st *state, mappings []format.Mapping) map[[2]int]srcmap.Position {
	starts := make(map[uint32]struct{}, len(st.sites))
	for _, s := range st.sites {
		starts[s.match.ContentRange.Start] = struct{}{}
	}
	out := make(map[[2]int]srcmap.Position, len(st.sites))
	for _, mp := range mappings {
		if _, ok := starts[mp.Origin]; !ok {
			continue
		}
		line, col := sourcePosition(file, mp.Origin)
		out[[2]int{mp.GenLine, mp.GenCol}] = srcmap.Position{Line: line, Col: col}
	}
	return out
}

// removalSpan drops a class-member template; when nothing else is on its
// line the whole line goes.
func removalSpan(file *source.File, sp source.Span) source.Span {
	content := file.Content
	ls := lineStart(content, sp.Start)
	le := lineEnd(content, sp.End)
	if !blank(content[ls:sp.Start]) || !blank(content[sp.End:le]) {
		return sp
	}
	if int(le) < len(content) {
		le++ // вместе с '\n'
	}
	return source.Span{File: sp.File, Start: ls, End: le}
}

// classInsertion puts the class's static block right before the closing
// brace of its body.
func classInsertion(file *source.File, cb *classBlock, opt format.Options) (format.Edit, error) {
	content := file.Content
	end := cb.body.Span().End
	if end == 0 || int(end) > len(content) || content[end-1] != '}' {
		return format.Edit{}, fmt.Errorf("rewrite %s: class body at %d has no closing brace", file.Path, cb.body.Span().Start)
	}
	brace := end - 1
	ls := lineStart(content, brace)
	indent := lineIndent(content, ls)
	block := staticBlock(cb.calls)

	if blank(content[ls:brace]) {
		// `}` на своей строке: блок отдельной строкой над ней
		base := indent + indentUnit(opt)
		return format.Edit{
			Span: source.Span{File: file.ID, Start: ls, End: ls},
			Print: func(w *format.Writer) {
				// writer стоит в начале строки: отступ base допишется сам
				prev := w.SetBase(base)
				jsgen.Print(w, block)
				w.SetBase(prev)
				w.WriteString("\n")
			},
		}, nil
	}
	return format.Edit{
		Span: source.Span{File: file.ID, Start: brace, End: brace},
		Print: func(w *format.Writer) {
			prev := w.SetBase(indent)
			jsgen.Print(w, block)
			w.SetBase(prev)
			w.WriteString("\n" + indent)
		},
	}, nil
}

func indentUnit(opt format.Options) string {
	if opt.UseTabs {
		return "\t"
	}
	width := opt.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", width)
}

func lineStart(content []byte, off uint32) uint32 {
	i := bytes.LastIndexByte(content[:off], '\n')
	return uint32(i + 1)
}

func lineEnd(content []byte, off uint32) uint32 {
	if i := bytes.IndexByte(content[off:], '\n'); i >= 0 {
		return off + uint32(i)
	}
	return uint32(len(content))
}

func lineIndent(content []byte, ls uint32) string {
	i := ls
	for int(i) < len(content) && (content[i] == ' ' || content[i] == '\t') {
		i++
	}
	return string(content[ls:i])
}

func blank(b []byte) bool {
	return len(bytes.Trim(b, " \t\r")) == 0
}
