package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"contenttag/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <directory>",
	Short: "Rewrite sources into an output directory whenever they change",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	addRewriteFlags(watchCmd)
	watchCmd.Flags().String("out", "", "output directory (required)")
	watchCmd.Flags().String("diagnostics", "pretty", "diagnostics format (pretty|short|json|sarif)")
	_ = watchCmd.MarkFlagRequired("out")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := args[0]
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
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
	cache, err := s.openCache()
	if err != nil {
		return err
	}
	baseDir, err := os.Getwd()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	runBatch := func(files []string) {
		res, err := driver.Run(ctx, &driver.Request{
			Files:   files,
			BaseDir: baseDir,
			Options: s.opts,
			Jobs:    s.jobs,
			OutDir:  outDir,
			Cache:   cache,
		})
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				fmt.Fprintf(stderr, "watch: %v\n", err)
			}
			return
		}
		for i := range res.Files {
			if fr := &res.Files[i]; fr.Err == nil && !s.quiet {
				printSummary(stdout, fr)
			}
		}
		if res.Failed() > 0 {
			bag := collectDiagnostics(res, s.maxDiags, false)
			if err := reportDiagnostics(stderr, bag, res, diagFormat, baseDir); err != nil {
				fmt.Fprintf(stderr, "watch: %v\n", err)
			}
		}
		if s.timings {
			printStageTimings(stderr, res.Timings)
		}
	}

	// первый проход по всему дереву
	files, err := driver.ListFiles([]string{root}, s.cfg)
	if err != nil {
		return err
	}
	runBatch(excludeUnder(files, outDir))

	w, err := driver.NewWatcher(root, s.cfg, outDir)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	if !s.quiet {
		fmt.Fprintf(stderr, "watching %s (ctrl-c to stop)\n", root)
	}
	err = w.Run(ctx, runBatch, func(err error) {
		fmt.Fprintf(stderr, "watch: %v\n", err)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// excludeUnder drops the files inside dir.
func excludeUnder(files []string, dir string) []string {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return files
	}
	out := files[:0:0]
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err == nil && (abs == absDir || strings.HasPrefix(abs, absDir+string(filepath.Separator))) {
			continue
		}
		out = append(out, f)
	}
	return out
}
