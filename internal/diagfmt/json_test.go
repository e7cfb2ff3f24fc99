package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"contenttag/internal/diag"
	"contenttag/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := []byte("const a = 1;\nconst b = <template minifyy>x</template>;\n")
	fileID := fs.AddVirtual("app/test.gjs", content)

	start := uint32(strings.Index(string(content), "<template"))
	primary := source.Span{File: fileID, Start: start, End: start + uint32(len("<template minifyy>"))}
	prop := source.Span{File: fileID, Start: start + 10, End: start + 17}
	d := diag.NewError(diag.CfgUnsupportedProperty, primary, `unsupported property "minifyy" on <template>`).
		WithNote(prop, "did you mean minify?").
		WithFix("rename to minify", diag.FixEdit{Span: prop, NewText: "minify", OldText: "minifyy"})

	bag := diag.NewBag(10)
	bag.Add(d)
	bag.Add(diag.New(diag.SevWarning, diag.CfgInvalidOption, source.Span{File: fileID}, "second"))
	return bag, fs
}

func TestJSONBasic(t *testing.T) {
	bag, fs := sampleBag(t)

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var rep Report
	if err := json.Unmarshal(buf.Bytes(), &rep); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if rep.Count != 2 || rep.Errors != 1 || rep.Warnings != 1 {
		t.Fatalf("count=%d errors=%d warnings=%d", rep.Count, rep.Errors, rep.Warnings)
	}

	d := rep.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "CFG5001" || d.Title == "" {
		t.Errorf("unexpected header: %s %s %q", d.Severity, d.Code, d.Title)
	}
	loc := d.Location
	if loc.Path != "test.gjs" {
		t.Errorf("path = %s", loc.Path)
	}
	if loc.Start.Offset != 23 || loc.End.Offset != 41 {
		t.Errorf("offsets %d..%d", loc.Start.Offset, loc.End.Offset)
	}
	if loc.Start.Line != 2 || loc.Start.Col != 11 {
		t.Errorf("start %d:%d", loc.Start.Line, loc.Start.Col)
	}
	if len(d.Notes) != 0 || len(d.Fixes) != 0 {
		t.Errorf("notes and fixes must be opt-in")
	}
}

func TestJSONWithNotesAndFixes(t *testing.T) {
	bag, fs := sampleBag(t)
	rep := BuildReport(bag, fs, JSONOpts{IncludeNotes: true, IncludeFixes: true, IncludePreviews: true})
	d := rep.Diagnostics[0]
	if len(d.Notes) != 1 || d.Notes[0].Message != "did you mean minify?" {
		t.Fatalf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.Replace != "minify" || edit.Expect != "minifyy" {
		t.Fatalf("edit = %+v", edit)
	}
	if len(edit.Before) != 1 || edit.Before[0] != "const b = <template minifyy>x</template>;" {
		t.Fatalf("before = %q", edit.Before)
	}
	if len(edit.After) != 1 || edit.After[0] != "const b = <template minify>x</template>;" {
		t.Fatalf("after = %q", edit.After)
	}
	if edit.Location.Start.Line != 0 {
		t.Fatalf("positions must be opt-in")
	}
}

func TestJSONOmitted(t *testing.T) {
	bag, fs := sampleBag(t)
	rep := BuildReport(bag, fs, JSONOpts{Max: 1})
	if rep.Count != 1 || rep.Omitted != 1 {
		t.Fatalf("count=%d omitted=%d", rep.Count, rep.Omitted)
	}

	small := diag.NewBag(1)
	small.Add(diag.NewError(diag.IOReadFailed, source.Span{}, "a"))
	small.Add(diag.NewError(diag.IOReadFailed, source.Span{}, "b"))
	if rep := BuildReport(small, fs, JSONOpts{}); rep.Omitted != 1 {
		t.Fatalf("bag limit not reported: %+v", rep)
	}
	if rep := BuildReport(nil, fs, JSONOpts{}); rep.Diagnostics == nil || rep.Count != 0 {
		t.Fatalf("nil bag must give an empty list")
	}
}

func TestJSONTimingsKeepNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.gjs", nil)
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: id}, "timings").
		WithNote(source.Span{File: id}, `{"kind":"file"}`))
	if rep := BuildReport(bag, fs, JSONOpts{}); len(rep.Diagnostics[0].Notes) != 1 {
		t.Fatalf("timing payload dropped")
	}
}

func TestPreviewEditOutOfRange(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.gjs", []byte("abc"))
	if _, err := previewEdit(fs, diag.FixEdit{Span: source.Span{File: id, Start: 2, End: 9}}); err == nil {
		t.Fatalf("expected range error")
	}
	p, err := previewEdit(fs, diag.FixEdit{Span: source.Span{File: id, Start: 1, End: 2}, NewText: "X"})
	if err != nil || p.after[0] != "aXc" {
		t.Fatalf("preview = %+v, %v", p, err)
	}
}

func TestSarif(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{
		ToolName:       "contenttag",
		ToolVersion:    "0.1.0",
		InvocationArgs: []string{"rewrite", "app"},
	})
	if err != nil {
		t.Fatalf("Sarif: %v", err)
	}

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Invocations []struct {
				ExecutionSuccessful bool `json:"executionSuccessful"`
			} `json:"invocations"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
			} `json:"results"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v", err)
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log: %+v", log)
	}
	run := log.Runs[0]
	if run.Tool.Driver.Name != "contenttag" || len(run.Tool.Driver.Rules) != 2 || run.Tool.Driver.Rules[0].ID != "CFG5001" {
		t.Fatalf("unexpected driver: %+v", run.Tool.Driver)
	}
	if len(run.Invocations) != 1 || run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("an error diagnostic must mark the run unsuccessful")
	}
	if len(run.Results) != 2 || run.Results[0].Level != "error" || run.Results[1].Level != "warning" {
		t.Fatalf("unexpected results: %+v", run.Results)
	}
	loc := run.Results[0].Locations[0].PhysicalLocation
	if loc.ArtifactLocation.URI != "app/test.gjs" || loc.Region.StartLine != 2 || loc.Region.StartColumn != 11 {
		t.Fatalf("unexpected location: %+v", loc)
	}
}
