package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"contenttag"
	"contenttag/internal/driver"
	"contenttag/internal/source"
)

var locateCmd = &cobra.Command{
	Use:   "locate [flags] <file|directory>...",
	Short: "List embedded templates without rewriting",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLocate,
}

func init() {
	addDetectFlags(locateCmd)
	locateCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	locateCmd.Flags().String("diagnostics", "pretty", "diagnostics format (pretty|short|json|sarif)")
}

// spanPayload is a half-open byte range with 1-based line/column of its start.
type spanPayload struct {
	Start uint32 `json:"start" msgpack:"start"`
	End   uint32 `json:"end" msgpack:"end"`
	Line  uint32 `json:"line,omitempty" msgpack:"line,omitempty"`
	Col   uint32 `json:"col,omitempty" msgpack:"col,omitempty"`
}

type propertyPayload struct {
	Key   string  `json:"key" msgpack:"key"`
	Value *string `json:"value,omitempty" msgpack:"value,omitempty"`
}

type matchPayload struct {
	Kind             contenttag.Kind   `json:"kind" msgpack:"kind"`
	TagName          string            `json:"tag_name,omitempty" msgpack:"tag_name,omitempty"`
	Range            spanPayload       `json:"range" msgpack:"range"`
	StartRange       spanPayload       `json:"start_range" msgpack:"start_range"`
	ContentRange     spanPayload       `json:"content_range" msgpack:"content_range"`
	EndRange         spanPayload       `json:"end_range" msgpack:"end_range"`
	Contents         string            `json:"contents" msgpack:"contents"`
	Properties       []propertyPayload `json:"properties,omitempty" msgpack:"properties,omitempty"`
	ImportPath       string            `json:"import_path,omitempty" msgpack:"import_path,omitempty"`
	ImportIdentifier string            `json:"import_identifier,omitempty" msgpack:"import_identifier,omitempty"`
}

type filePayload struct {
	Path    string         `json:"path" msgpack:"path"`
	Matches []matchPayload `json:"matches" msgpack:"matches"`
	Error   string         `json:"error,omitempty" msgpack:"error,omitempty"`
}

func runLocate(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "msgpack":
	default:
		return fmt.Errorf("unsupported format %q (must be pretty, json or msgpack)", format)
	}
	diagValue, err := cmd.Flags().GetString("diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	diagFormat, err := readDiagnosticsFormat(diagValue)
	if err != nil {
		return err
	}

	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	files, baseDir, err := s.collectFiles(args)
	if err != nil {
		return err
	}
	res, err := driver.Run(cmd.Context(), &driver.Request{
		Files:   files,
		BaseDir: baseDir,
		Mode:    driver.ModeLocate,
		Options: s.opts,
		Jobs:    s.jobs,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	payload := locatePayload(res)
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(payload)
	case "msgpack":
		err = msgpack.NewEncoder(out).Encode(payload)
	default:
		printLocate(out, payload)
	}
	if err != nil {
		return err
	}

	if res.Failed() > 0 {
		bag := collectDiagnostics(res, s.maxDiags, false)
		if err := reportDiagnostics(cmd.ErrOrStderr(), bag, res, diagFormat, baseDir); err != nil {
			return err
		}
		return errFailed
	}
	if s.timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	return nil
}

func locatePayload(res *driver.Result) []filePayload {
	out := make([]filePayload, 0, len(res.Files))
	for i := range res.Files {
		fr := &res.Files[i]
		fp := filePayload{Path: fr.Display, Matches: make([]matchPayload, 0, len(fr.Matches))}
		if fr.Err != nil {
			fp.Error = fr.Err.Error()
		}
		for _, m := range fr.Matches {
			fp.Matches = append(fp.Matches, toMatchPayload(fr.File, m))
		}
		out = append(out, fp)
	}
	return out
}

func toMatchPayload(file *source.File, m contenttag.Match) matchPayload {
	span := func(sp source.Span) spanPayload {
		p := spanPayload{Start: sp.Start, End: sp.End}
		if file != nil {
			pos := file.Position(sp.Start)
			p.Line, p.Col = pos.Line, pos.Col
		}
		return p
	}
	mp := matchPayload{
		Kind:             m.Kind,
		TagName:          m.TagName,
		Range:            span(m.Range),
		StartRange:       span(m.StartRange),
		ContentRange:     span(m.ContentRange),
		EndRange:         span(m.EndRange),
		Contents:         m.Content,
		ImportPath:       m.ImportPath,
		ImportIdentifier: m.ImportIdentifier,
	}
	for _, p := range m.Properties {
		pp := propertyPayload{Key: p.Key}
		if p.HasValue {
			pp.Value = &p.Value
		}
		mp.Properties = append(mp.Properties, pp)
	}
	return mp
}

func printLocate(out io.Writer, files []filePayload) {
	for _, f := range files {
		if f.Error != "" {
			continue
		}
		for _, m := range f.Matches {
			label := m.Kind.String()
			if m.TagName != "" {
				label += " <" + m.TagName + ">"
			} else if m.ImportIdentifier != "" {
				label += " " + m.ImportIdentifier + " from " + m.ImportPath
			}
			fmt.Fprintf(out, "%s:%d:%d: %s %q\n", f.Path, m.Range.Line, m.Range.Col, label, preview(m.Contents, 40))
		}
	}
}

// preview сжимает тело шаблона до одной строки.
func preview(text string, width int) string {
	return runewidth.Truncate(strings.Join(strings.Fields(text), " "), width, "...")
}
