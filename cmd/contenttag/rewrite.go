package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"contenttag"
	"contenttag/internal/driver"
	"contenttag/internal/edit"
	"contenttag/internal/srcmap"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [flags] <file|directory>...",
	Short: "Rewrite embedded templates into template() calls",
	Long: `Rewrite every <template> region and bound hbs literal. Without --write
or --out a single file is printed to stdout and several files are summarised.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRewrite,
}

func init() {
	addRewriteFlags(rewriteCmd)
	rewriteCmd.Flags().Bool("write", false, "replace changed files in place")
	rewriteCmd.Flags().String("out", "", "write every output under this directory")
	rewriteCmd.Flags().Bool("diff", false, "print a unified diff instead of the output")
	rewriteCmd.Flags().Bool("stdout", false, "print every output to stdout")
	rewriteCmd.Flags().String("format", "text", "result format (text|json)")
	rewriteCmd.Flags().Bool("verify-map", false, "check that emitted source maps decode")
	rewriteCmd.Flags().String("diagnostics", "pretty", "diagnostics format (pretty|short|json|sarif)")
}

type rewriteFlags struct {
	write     bool
	outDir    string
	diff      bool
	stdout    bool
	format    string
	verifyMap bool
	diag      diagnosticsFormat
}

func readRewriteFlags(cmd *cobra.Command) (rewriteFlags, error) {
	var rf rewriteFlags
	var err error
	flags := cmd.Flags()
	if rf.write, err = flags.GetBool("write"); err != nil {
		return rf, fmt.Errorf("failed to get write flag: %w", err)
	}
	if rf.outDir, err = flags.GetString("out"); err != nil {
		return rf, fmt.Errorf("failed to get out flag: %w", err)
	}
	if rf.diff, err = flags.GetBool("diff"); err != nil {
		return rf, fmt.Errorf("failed to get diff flag: %w", err)
	}
	if rf.stdout, err = flags.GetBool("stdout"); err != nil {
		return rf, fmt.Errorf("failed to get stdout flag: %w", err)
	}
	if rf.format, err = flags.GetString("format"); err != nil {
		return rf, fmt.Errorf("failed to get format flag: %w", err)
	}
	if rf.verifyMap, err = flags.GetBool("verify-map"); err != nil {
		return rf, fmt.Errorf("failed to get verify-map flag: %w", err)
	}
	diagValue, err := flags.GetString("diagnostics")
	if err != nil {
		return rf, fmt.Errorf("failed to get diagnostics flag: %w", err)
	}
	if rf.diag, err = readDiagnosticsFormat(diagValue); err != nil {
		return rf, err
	}
	rf.format = strings.ToLower(rf.format)
	if rf.format != "text" && rf.format != "json" {
		return rf, fmt.Errorf("unsupported format %q (must be text or json)", rf.format)
	}
	if rf.diff && rf.stdout {
		return rf, fmt.Errorf("--diff and --stdout are mutually exclusive")
	}
	return rf, nil
}

func runRewrite(cmd *cobra.Command, args []string) error {
	rf, err := readRewriteFlags(cmd)
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
	cache, err := s.openCache()
	if err != nil {
		return err
	}
	withUI, err := uiEnabled(cmd, s.quiet)
	if err != nil {
		return err
	}
	// вывод в stdout и прогресс-бар мешают друг другу
	if rf.stdout || rf.diff || rf.format == "json" {
		withUI = false
	}

	res, err := runDriver(cmd.Context(), "rewrite", &driver.Request{
		Files:   files,
		BaseDir: baseDir,
		Mode:    driver.ModeRewrite,
		Options: s.opts,
		Jobs:    s.jobs,
		Write:   rf.write,
		OutDir:  rf.outDir,
		Cache:   cache,
	}, withUI)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	single := len(files) == 1 && !rf.write && rf.outDir == ""
	if err := printRewrite(out, res, rf, s, single); err != nil {
		return err
	}

	failed := res.Failed()
	if rf.verifyMap {
		failed += verifyMaps(cmd.ErrOrStderr(), res)
	}
	if res.Failed() > 0 {
		bag := collectDiagnostics(res, s.maxDiags, false)
		if err := reportDiagnostics(cmd.ErrOrStderr(), bag, res, rf.diag, baseDir); err != nil {
			return err
		}
	}
	if s.timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	if failed > 0 {
		return errFailed
	}
	return nil
}

// rewritePayload is one file of `rewrite --format json`.
type rewritePayload struct {
	Path         string                   `json:"path"`
	Changed      bool                     `json:"changed"`
	Cached       bool                     `json:"cached,omitempty"`
	Output       string                   `json:"output,omitempty"`
	SourceMap    json.RawMessage          `json:"source_map,omitempty"`
	ImportName   string                   `json:"import_name,omitempty"`
	Replacements []contenttag.Replacement `json:"replacements,omitempty"`
	Written      []string                 `json:"written,omitempty"`
	Error        string                   `json:"error,omitempty"`
}

func printRewrite(out io.Writer, res *driver.Result, rf rewriteFlags, s *settings, single bool) error {
	if rf.format == "json" {
		payload := make([]rewritePayload, 0, len(res.Files))
		for i := range res.Files {
			fr := &res.Files[i]
			p := rewritePayload{
				Path:         fr.Display,
				Changed:      fr.Changed,
				Cached:       fr.Cached,
				ImportName:   fr.ImportName,
				Replacements: fr.Replacements,
				Written:      fr.Written,
			}
			if fr.Err != nil {
				p.Error = fr.Err.Error()
			} else {
				p.Output = string(fr.Output)
			}
			if len(fr.SourceMap) > 0 {
				p.SourceMap = json.RawMessage(fr.SourceMap)
			}
			payload = append(payload, p)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Err != nil {
			continue
		}
		switch {
		case rf.diff:
			if !fr.Changed {
				continue
			}
			text, err := fileDiff(fr, s.opts.PositionPreserving)
			if err != nil {
				return fmt.Errorf("%s: %w", fr.Display, err)
			}
			if _, err := io.WriteString(out, text); err != nil {
				return err
			}
		case rf.stdout || single:
			if !single {
				fmt.Fprintf(out, "// ==> %s\n", fr.Display)
			}
			if _, err := out.Write(fr.Output); err != nil {
				return err
			}
		case !s.quiet:
			printSummary(out, fr)
		}
	}
	return nil
}

func printSummary(out io.Writer, fr *driver.FileResult) {
	state := "unchanged"
	if fr.Changed {
		state = fmt.Sprintf("%d template(s)", fr.MatchCount)
	}
	if fr.Cached {
		state += ", cached"
	}
	fmt.Fprintf(out, "%s: %s", fr.Display, state)
	if len(fr.Written) > 0 {
		fmt.Fprintf(out, " -> %s", strings.Join(fr.Written, ", "))
	}
	fmt.Fprintln(out)
}

// fileDiff renders lint output from its ledger and full output as a line diff.
func fileDiff(fr *driver.FileResult, lint bool) (string, error) {
	if lint {
		data, err := edit.LedgerDiff(fr.Display, fr.File.Content, fr.Output, fr.Replacements)
		return string(data), err
	}
	return edit.UnifiedDiff(fr.Display, fr.File.Content, fr.Output)
}

// verifyMaps decodes the separate and inline maps of every file and returns
// the number of broken ones.
func verifyMaps(w io.Writer, res *driver.Result) int {
	broken := 0
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Err != nil {
			continue
		}
		var maps [][]byte
		if len(fr.SourceMap) > 0 {
			maps = append(maps, fr.SourceMap)
		}
		if data, ok := srcmap.DecodeInline(string(fr.Output)); ok {
			maps = append(maps, data)
		}
		for _, data := range maps {
			if err := srcmap.Verify(data, nil); err != nil {
				fmt.Fprintf(w, "%s: invalid source map: %v\n", fr.Display, err)
				broken++
			}
		}
	}
	return broken
}
