package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"contenttag/internal/version"
)

// errFailed marks a run whose per-file errors were already reported.
var errFailed = errors.New("one or more files failed")

var rootCmd = &cobra.Command{
	Use:   "contenttag",
	Short: "Rewrite embedded <template> tags into template() calls",
	Long: `contenttag finds <template>…</template> regions and hbs literals in
.gjs/.gts sources and rewrites them into template("…", {…}) calls`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { runCleanup() },
}

var cleanups []func()

// setupRun применяет --color и поднимает трассировку и профилировщики.
func setupRun(cmd *cobra.Command, args []string) error {
	enabled, err := colorEnabled(cmd)
	if err != nil {
		return err
	}
	color.NoColor = !enabled

	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProf)

	stopTrace, err := setupTracing(cmd)
	if err != nil {
		runCleanup()
		return err
	}
	cleanups = append(cleanups, stopTrace)
	return nil
}

// runCleanup runs the registered cleanups in reverse order, once.
func runCleanup() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(locateCmd)
	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("jobs", 0, "max parallel workers (0=config or auto)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.String("config", "", "config file (default: nearest contenttag.toml or .contenttag.yaml)")
	pf.String("cache-dir", "", "persistent output cache directory (empty disables the disk cache)")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show (0 = unlimited)")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode ring|both")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0=off)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}

func main() {
	err := rootCmd.Execute()
	runCleanup()
	if err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "contenttag: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorEnabled(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	return parseColorMode(value, isTerminal(os.Stdout))
}

func parseColorMode(value string, tty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return tty && os.Getenv("NO_COLOR") == "", nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}
