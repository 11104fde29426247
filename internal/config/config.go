// Package config loads jsgettext configuration from .jsgettext.yaml, a .env
// file and JSGETTEXT_* environment variables. Command-line flags are applied
// on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/corey/jsgettext/internal/domain/extract"
)

// DefaultFile is the config file looked up in the project root.
const DefaultFile = ".jsgettext.yaml"

// envPrefix prefixes every environment override.
const envPrefix = "JSGETTEXT_"

// Output formats.
const (
	FormatPO      = "po"
	FormatJSON    = "json"
	FormatRecords = "records"
)

// Config is the complete jsgettext configuration.
type Config struct {
	// Keywords are xgettext-style keyword specs: "_", "gettext:1",
	// "pgettext:1c,2", "ngettext:1,2".
	Keywords []string `yaml:"keywords"`
	// CommentPrefix is the translator comment regex; "" means the default.
	CommentPrefix string `yaml:"comment_prefix,omitempty"`
	// NoComments disables translator comment collection.
	NoComments bool `yaml:"no_comments"`
	// Dialect forces one grammar for every file; "" picks by extension.
	Dialect string `yaml:"dialect,omitempty"`
	// GrammarPaths are extra directories holding dialect grammar libraries.
	GrammarPaths []string `yaml:"grammar_paths,omitempty"`

	Include []string `yaml:"include"`
	Exclude []string `yaml:"exclude"`

	// Output is the destination file; "" or "-" writes to stdout.
	Output string `yaml:"output,omitempty"`
	// Format is po, json or records.
	Format string `yaml:"format"`

	// Workers bounds parallel extraction; 0 means one per CPU.
	Workers int `yaml:"workers,omitempty"`
	// Cache enables the on-disk extraction cache under .jsgettext/.
	Cache bool `yaml:"cache"`
	// Prefilter skips files that contain no keyword text without parsing
	// them. Syntax errors in skipped files go unreported.
	Prefilter bool `yaml:"prefilter"`
	// KeepGoing skips files that fail to parse instead of aborting.
	KeepGoing bool `yaml:"keep_going"`

	Package PackageConfig `yaml:"package,omitempty"`
}

// PackageConfig fills the PO header.
type PackageConfig struct {
	Name        string `yaml:"name,omitempty"`
	Version     string `yaml:"version,omitempty"`
	BugsAddress string `yaml:"bugs_address,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Keywords: []string{"_"},
		Include:  []string{"**/*.{js,jsx,mjs,cjs,ts,mts,cts,tsx}"},
		Exclude: []string{
			"**/node_modules/**",
			"**/bower_components/**",
			"**/.git/**",
			"**/.jsgettext/**",
			"**/dist/**",
			"**/build/**",
			"**/coverage/**",
			"**/*.min.js",
		},
		Format: FormatPO,
		Cache:  true,
	}
}

// Load builds the effective configuration: defaults, then the YAML file,
// then .env and the environment. An empty path loads DefaultFile from dir
// when it exists.
func Load(dir, path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	cfg := DefaultConfig()
	if path == "" {
		candidate := filepath.Join(dir, DefaultFile)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ApplyEnv overrides fields from JSGETTEXT_* variables. KEYWORDS is
// whitespace separated since specs contain commas, GRAMMAR_PATHS uses the OS
// path list separator, and other lists are comma separated.
func (c *Config) ApplyEnv() error {
	if v, ok := lookupEnv("KEYWORDS"); ok {
		c.Keywords = strings.Fields(v)
	}
	if v, ok := lookupEnv("COMMENT_PREFIX"); ok {
		c.CommentPrefix = v
	}
	if v, ok := lookupEnv("DIALECT"); ok {
		c.Dialect = v
	}
	if v, ok := lookupEnv("GRAMMAR_PATHS"); ok {
		c.GrammarPaths = splitList(v, string(os.PathListSeparator))
	}
	if v, ok := lookupEnv("INCLUDE"); ok {
		c.Include = splitList(v, ",")
	}
	if v, ok := lookupEnv("EXCLUDE"); ok {
		c.Exclude = splitList(v, ",")
	}
	if v, ok := lookupEnv("OUTPUT"); ok {
		c.Output = v
	}
	if v, ok := lookupEnv("FORMAT"); ok {
		c.Format = v
	}

	var err error
	if c.Workers, err = getEnvInt("WORKERS", c.Workers); err != nil {
		return err
	}
	for name, field := range map[string]*bool{
		"NO_COMMENTS": &c.NoComments,
		"CACHE":       &c.Cache,
		"PREFILTER":   &c.Prefilter,
		"KEEP_GOING":  &c.KeepGoing,
	} {
		if *field, err = getEnvBool(name, *field); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if len(c.Keywords) == 0 {
		return fmt.Errorf("keywords: at least one keyword is required")
	}
	if _, err := c.KeywordTable(); err != nil {
		return err
	}
	if c.CommentPrefix != "" {
		if _, err := regexp.Compile(c.CommentPrefix); err != nil {
			return fmt.Errorf("comment_prefix: %w", err)
		}
	}
	switch c.Format {
	case FormatPO, FormatJSON, FormatRecords:
	default:
		return fmt.Errorf("format: must be one of po, json, records (got %q)", c.Format)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers: must be >= 0 (got %d)", c.Workers)
	}
	if len(c.Include) == 0 {
		return fmt.Errorf("include: at least one pattern is required")
	}
	for _, p := range append(append([]string{}, c.Include...), c.Exclude...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("include/exclude: bad glob %q", p)
		}
	}
	return nil
}

// KeywordTable parses Keywords into the engine's keyword configuration.
// A later spec for the same name replaces an earlier one.
func (c *Config) KeywordTable() (map[string]any, error) {
	table := make(map[string]any, len(c.Keywords))
	for _, spec := range c.Keywords {
		name, fn, err := extract.ParseKeywordSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("keywords: %w", err)
		}
		table[name] = fn
	}
	return table, nil
}

// ExtractConfig returns the engine configuration.
func (c *Config) ExtractConfig() (extract.Config, error) {
	table, err := c.KeywordTable()
	if err != nil {
		return extract.Config{}, err
	}
	return extract.Config{
		Keywords:        table,
		CommentPrefix:   c.CommentPrefix,
		DisableComments: c.NoComments,
	}, nil
}

// Exists reports whether a config file is present at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

func getEnvInt(key string, fallback int) (int, error) {
	v, ok := lookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v, ok := lookupEnv(key)
	if !ok {
		return fallback, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback, fmt.Errorf("%s%s: %w", envPrefix, key, err)
	}
	return b, nil
}

func splitList(v, sep string) []string {
	var out []string
	for _, part := range strings.Split(v, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
