package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"contenttag/internal/diag"
	"contenttag/internal/diagfmt"
	"contenttag/internal/driver"
	"contenttag/internal/version"
)

// diagnosticsFormat is the --diagnostics flag value.
type diagnosticsFormat string

const (
	diagPretty diagnosticsFormat = "pretty"
	diagShort  diagnosticsFormat = "short"
	diagJSON   diagnosticsFormat = "json"
	diagSarif  diagnosticsFormat = "sarif"
)

func readDiagnosticsFormat(value string) (diagnosticsFormat, error) {
	switch f := diagnosticsFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case diagPretty, diagShort, diagJSON, diagSarif:
		return f, nil
	case "":
		return diagPretty, nil
	default:
		return "", fmt.Errorf("invalid --diagnostics value %q (expected pretty|short|json|sarif)", value)
	}
}

// collectDiagnostics gathers per-file diagnostics (and timing notes when
// requested) into one sorted bag.
func collectDiagnostics(res *driver.Result, maxDiags int, withTimings bool) *diag.Bag {
	bag := diag.NewBag(maxDiags)
	for i := range res.Files {
		for _, d := range res.Files[i].Diagnostics {
			bag.Add(d)
		}
		if withTimings {
			if d, ok := driver.TimingDiagnostic(&res.Files[i]); ok {
				bag.Add(d)
			}
		}
	}
	bag.Sort()
	return bag
}

// reportDiagnostics renders the bag to w in the chosen format. Pretty and
// short output is skipped for an empty bag.
func reportDiagnostics(w io.Writer, bag *diag.Bag, res *driver.Result, format diagnosticsFormat, baseDir string) error {
	switch format {
	case diagJSON:
		return diagfmt.JSON(w, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         diagfmt.PathModeRelative,
			BaseDir:          baseDir,
			IncludeNotes:     true,
			IncludeFixes:     true,
			IncludePreviews:  true,
		})
	case diagSarif:
		return diagfmt.Sarif(w, bag, res.FileSet, diagfmt.SarifRunMeta{
			ToolName:       "contenttag",
			ToolVersion:    version.Current().Version,
			InvocationArgs: os.Args,
			PathMode:       diagfmt.PathModeRelative,
			BaseDir:        baseDir,
		})
	case diagShort:
		if bag.Len() == 0 {
			return nil
		}
		_, err := fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), res.FileSet, false))
		return err
	default:
		if bag.Len() == 0 {
			return nil
		}
		diagfmt.Pretty(w, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       !color.NoColor,
			Context:     1,
			PathMode:    diagfmt.PathModeRelative,
			BaseDir:     baseDir,
			ShowNotes:   true,
			ShowFixes:   true,
			ShowPreview: true,
		})
		if n := bag.Dropped(); n > 0 {
			fmt.Fprintf(w, "\n%d more diagnostic(s) not shown, raise --max-diagnostics\n", n)
		}
		return nil
	}
}
