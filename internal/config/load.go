package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileNames lists the config files looked up in every directory, in
// priority order.
var FileNames = []string{"contenttag.toml", ".contenttag.yaml", ".contenttag.yml"}

// fileConfig mirrors the on-disk layout; nil fields keep the default.
type fileConfig struct {
	Tag             *string   `toml:"tag" yaml:"tag"`
	Scope           *string   `toml:"scope" yaml:"scope"`
	SourceMaps      *string   `toml:"source_maps" yaml:"source_maps"`
	RewriteLiterals *bool     `toml:"rewrite_literals" yaml:"rewrite_literals"`
	Include         []string  `toml:"include" yaml:"include"`
	Literals        []Literal `toml:"literal" yaml:"literal"`
	Jobs            *int      `toml:"jobs" yaml:"jobs"`
}

// Find walks up from startDir to the first directory holding a config file.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		for _, name := range FileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest config file above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Defaults(), nil
	}
	return Load(path)
}

// Load reads one config file on top of the defaults and validates it.
func Load(path string) (Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		fc, err = decodeTOML(data)
	case ".yaml", ".yml":
		fc, err = decodeYAML(data)
	default:
		err = fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg := Defaults()
	cfg.Path = path
	fc.apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeTOML(data []byte) (fileConfig, error) {
	var fc fileConfig
	meta, err := toml.Decode(string(data), &fc)
	if err != nil {
		return fileConfig{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fileConfig{}, fmt.Errorf("unknown config key: %s", undecoded[0])
	}
	// `include = []` отключил бы все файлы; считаем это ошибкой
	if meta.IsDefined("include") && len(fc.Include) == 0 {
		return fileConfig{}, errors.New("include: empty list")
	}
	return fc, nil
}

func decodeYAML(data []byte) (fileConfig, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fileConfig{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return fc, nil
}

func (fc fileConfig) apply(cfg *Config) {
	if fc.Tag != nil {
		cfg.Tag = strings.TrimSpace(*fc.Tag)
	}
	if fc.Scope != nil {
		cfg.Scope = strings.TrimSpace(*fc.Scope)
	}
	if fc.SourceMaps != nil {
		cfg.SourceMaps = strings.TrimSpace(*fc.SourceMaps)
	}
	if fc.RewriteLiterals != nil {
		cfg.RewriteLiterals = *fc.RewriteLiterals
	}
	if fc.Include != nil {
		cfg.Include = append([]string(nil), fc.Include...)
	}
	if fc.Literals != nil {
		cfg.Literals = append([]Literal(nil), fc.Literals...)
	}
	if fc.Jobs != nil {
		cfg.Jobs = *fc.Jobs
	}
}
