package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"ccgen/internal/backend/llvm"
)

// Config is the contents of ccgen.toml.
type Config struct {
	Module  ModuleConfig  `toml:"module"`
	Codegen CodegenConfig `toml:"codegen"`
	Build   BuildConfig   `toml:"build"`
}

type ModuleConfig struct {
	TargetTriple string `toml:"target_triple"`
}

type CodegenConfig struct {
	Unreachable string `toml:"unreachable"`
}

type BuildConfig struct {
	OutDir   string `toml:"out_dir"`
	Jobs     int    `toml:"jobs"`
	CacheDir string `toml:"cache_dir"`
}

// Manifest is a loaded configuration together with where it came from.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the settings used when no ccgen.toml exists.
func Default() Config {
	return Config{
		Codegen: CodegenConfig{Unreachable: llvm.UnreachableWarn.String()},
		Build:   BuildConfig{OutDir: "build"},
	}
}

// Unreachable returns the parsed codegen.unreachable policy.
func (c *Config) Unreachable() llvm.UnreachablePolicy {
	p, err := llvm.ParseUnreachablePolicy(c.Codegen.Unreachable)
	if err != nil {
		return llvm.UnreachableWarn
	}
	return p
}

// LoadManifest finds ccgen.toml above startDir and loads it. ok is false
// when there is no config file.
func LoadManifest(startDir string) (m *Manifest, ok bool, err error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// Load parses and validates path. Missing keys keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := llvm.ParseUnreachablePolicy(c.Codegen.Unreachable); err != nil {
		return fmt.Errorf("[codegen].unreachable: %w", err)
	}
	if c.Build.Jobs < 0 {
		return fmt.Errorf("[build].jobs must not be negative, got %d", c.Build.Jobs)
	}
	if strings.TrimSpace(c.Build.OutDir) == "" {
		return fmt.Errorf("[build].out_dir must not be empty")
	}
	if t := c.Module.TargetTriple; t != "" && !strings.Contains(t, "-") {
		return fmt.Errorf("[module].target_triple %q is not an arch-vendor-os triple", t)
	}
	return nil
}

// Resolve makes relative paths in c absolute against root.
func (c *Config) Resolve(root string) {
	if c.Build.OutDir != "" && !filepath.IsAbs(c.Build.OutDir) {
		c.Build.OutDir = filepath.Join(root, c.Build.OutDir)
	}
	if c.Build.CacheDir != "" && !filepath.IsAbs(c.Build.CacheDir) {
		c.Build.CacheDir = filepath.Join(root, c.Build.CacheDir)
	}
}
