package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"contenttag"
	"contenttag/internal/config"
	"contenttag/internal/driver"
	"contenttag/internal/imports"
)

// settings is the resolved configuration of one command run:
// defaults < config file < flags.
type settings struct {
	cfg      config.Config
	opts     contenttag.RewriteOptions
	jobs     int
	quiet    bool
	timings  bool
	maxDiags int
	cacheDir string
}

// addDetectFlags registers the flags shared by every command that locates
// templates.
func addDetectFlags(cmd *cobra.Command) {
	cmd.Flags().String("tag", contenttag.DefaultTagName, "tag name of template regions")
	cmd.Flags().StringArray("literal", nil, "import binding marking hbs literals, as path:identifier (repeatable)")
	cmd.Flags().String("imports", "parser", "import enumerator (parser|treesitter)")
}

// addRewriteFlags registers the rewrite options shared by rewrite and watch.
func addRewriteFlags(cmd *cobra.Command) {
	addDetectFlags(cmd)
	cmd.Flags().Bool("lint", false, "position-preserving output with a replacement ledger")
	cmd.Flags().String("source-map", "off", "source map flavor (off|separate|inline|both)")
	cmd.Flags().String("scope", "explicit", "scope capture (explicit|implicit)")
	cmd.Flags().Bool("rewrite-literals", false, "rewrite hbs literals into template() calls too")
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	root := cmd.Root().PersistentFlags()
	s := &settings{}
	var err error
	if s.quiet, err = root.GetBool("quiet"); err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = root.GetBool("timings"); err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiags, err = root.GetInt("max-diagnostics"); err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.cacheDir, err = root.GetString("cache-dir"); err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	cfgPath, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	if cfgPath != "" {
		s.cfg, err = config.Load(cfgPath)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			s.cfg, err = config.Discover(wd)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, &s.cfg); err != nil {
		return nil, err
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if s.opts, err = s.cfg.RewriteOptions(); err != nil {
		return nil, err
	}
	if cmd.Flags().Lookup("lint") != nil {
		s.opts.PositionPreserving, _ = cmd.Flags().GetBool("lint")
	}
	if f := cmd.Flags().Lookup("imports"); f != nil {
		switch strings.ToLower(f.Value.String()) {
		case "parser":
		case "treesitter", "tree-sitter":
			s.opts.TreeSitterImports = true
		default:
			return nil, fmt.Errorf("invalid --imports value %q (expected parser|treesitter)", f.Value.String())
		}
	}
	s.jobs = s.cfg.Jobs
	return s, nil
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}
	if changed("tag") {
		cfg.Tag, _ = flags.GetString("tag")
	}
	if changed("scope") {
		cfg.Scope, _ = flags.GetString("scope")
	}
	if changed("source-map") {
		cfg.SourceMaps, _ = flags.GetString("source-map")
	}
	if changed("rewrite-literals") {
		cfg.RewriteLiterals, _ = flags.GetBool("rewrite-literals")
	}
	if changed("literal") {
		values, _ := flags.GetStringArray("literal")
		cfg.Literals = cfg.Literals[:0:0]
		for _, v := range values {
			entry, err := imports.ParseEntry(v)
			if err != nil {
				return fmt.Errorf("--literal: %w", err)
			}
			cfg.Literals = append(cfg.Literals, config.Literal{Path: entry.ImportPath, Identifier: entry.ImportIdentifier})
		}
	}
	if root := cmd.Root().PersistentFlags(); root.Changed("jobs") {
		cfg.Jobs, _ = root.GetInt("jobs")
	}
	return nil
}

// openCache returns the output cache: memory only, or backed by --cache-dir.
func (s *settings) openCache() (*driver.Cache, error) {
	return driver.NewCache(driver.DefaultCacheSize, s.cacheDir)
}

// collectFiles expands the command arguments with the config's include
// patterns. Display paths are relative to the working directory, or to the
// closest common directory when some file lies outside it.
func (s *settings) collectFiles(args []string) (files []string, baseDir string, err error) {
	files, err = driver.ListFiles(args, s.cfg)
	if err != nil {
		return nil, "", err
	}
	baseDir, err = os.Getwd()
	if err != nil {
		return nil, "", err
	}
	for _, f := range files {
		if !within(baseDir, f) {
			return files, commonDir(files), nil
		}
	}
	return files, baseDir, nil
}

func within(dir, file string) bool {
	abs, err := filepath.Abs(file)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(dir, abs)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// commonDir returns the deepest directory containing every file.
func commonDir(files []string) string {
	var dir string
	for i, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			continue
		}
		d := filepath.Dir(abs)
		if i == 0 || dir == "" {
			dir = d
			continue
		}
		for !within(dir, abs) {
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return dir
}
