// Package config loads docxref settings from .docxref.yaml, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the project directory.
const FileName = ".docxref.yaml"

// Config holds the effective settings for a run.
type Config struct {
	// DocsDir is the documentation root, relative to the project directory.
	DocsDir string `yaml:"docs_dir"`
	// RootMarker is the path segment depth is measured from. Defaults to the
	// last segment of DocsDir.
	RootMarker string `yaml:"root_marker,omitempty"`
	// Workers bounds per-document parallelism.
	Workers int `yaml:"workers"`
	// ValidationCacheSize bounds the existence-check LRU; 0 disables it.
	ValidationCacheSize int `yaml:"validation_cache_size"`
	// HistoryDB is the sqlite run history path; empty disables history.
	HistoryDB string `yaml:"history_db"`
	// Exclude holds extra gitignore-style patterns, relative to DocsDir.
	Exclude []string `yaml:"exclude,omitempty"`
	// TopN limits the ranked category list in reports; 0 lists all.
	TopN int `yaml:"top_n"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DocsDir:             "docs",
		Workers:             4,
		ValidationCacheSize: 1024,
		HistoryDB:           filepath.Join(".docxref", "history.db"),
		TopN:                10,
	}
}

// Load builds the configuration for the project in dir: defaults, then
// dir/.docxref.yaml if present, then dir/.env, then DOCXREF_* environment
// variables. The result is validated.
func Load(dir string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("reading %s: %w", FileName, err)
	}

	// A missing .env is normal.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("DOCXREF_DOCS_DIR")); v != "" {
		cfg.DocsDir = v
	}
	if v := strings.TrimSpace(os.Getenv("DOCXREF_ROOT_MARKER")); v != "" {
		cfg.RootMarker = v
	}
	if v, ok := os.LookupEnv("DOCXREF_HISTORY_DB"); ok {
		cfg.HistoryDB = strings.TrimSpace(v)
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"DOCXREF_WORKERS", &cfg.Workers},
		{"DOCXREF_CACHE_SIZE", &cfg.ValidationCacheSize},
		{"DOCXREF_TOP_N", &cfg.TopN},
	}
	for _, e := range ints {
		raw := strings.TrimSpace(os.Getenv(e.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", e.name, err)
		}
		*e.dst = n
	}
	return nil
}

func (c *Config) fillDefaults() {
	if strings.TrimSpace(c.RootMarker) == "" {
		c.RootMarker = filepath.Base(filepath.Clean(c.DocsDir))
	}
}

// WithDocsDir returns a copy of c rooted at dir. A root marker that was
// derived from the previous docs_dir is derived again from dir.
func (c Config) WithDocsDir(dir string) Config {
	if strings.TrimSpace(dir) == "" {
		return c
	}
	derived := c.RootMarker == filepath.Base(filepath.Clean(c.DocsDir))
	c.DocsDir = dir
	if derived {
		c.RootMarker = ""
		c.fillDefaults()
	}
	return c
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DocsDir) == "" {
		return errors.New("docs_dir must not be empty")
	}
	if c.RootMarker == "." || c.RootMarker == string(filepath.Separator) {
		return fmt.Errorf("root_marker %q is not a directory name", c.RootMarker)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.ValidationCacheSize < 0 {
		return fmt.Errorf("validation_cache_size must not be negative, got %d", c.ValidationCacheSize)
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n must not be negative, got %d", c.TopN)
	}
	return nil
}

// Marshal renders cfg as YAML for writing a starter .docxref.yaml.
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
