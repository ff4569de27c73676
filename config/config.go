// Package config resolves dmddl settings from defaults, a YAML file, .env
// files and DMDDL_* environment variables. Command-line flags are applied
// on top by the cmd package.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile = ".dmddl.yaml"
	EnvPrefix   = "DMDDL_"
)

const (
	HighlightAuto   = "auto"
	HighlightAlways = "always"
	HighlightNever  = "never"
)

// Config holds all generator settings.
type Config struct {
	Target             string `yaml:"target"`
	Dialect            string `yaml:"dialect"`
	Output             string `yaml:"output"`
	Highlight          string `yaml:"highlight"` // "auto", "always" or "never"
	Style              string `yaml:"style"`
	ExplicitTableNames bool   `yaml:"explicit_table_names"`
	Verbose            bool   `yaml:"verbose"`
}

// DefaultConfig returns a Config populated with the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Target:    "sqlmodel",
		Dialect:   "postgres",
		Highlight: HighlightAuto,
		Style:     "monokai",
	}
}

// Load builds the effective configuration. An empty path reads DefaultFile
// when it exists; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	LoadEnv()
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads .env files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnv(filenames ...string) {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, f := range filenames {
		_ = godotenv.Load(f)
	}
}

// ApplyEnv overrides fields from DMDDL_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"TARGET":    &c.Target,
		"DIALECT":   &c.Dialect,
		"OUTPUT":    &c.Output,
		"HIGHLIGHT": &c.Highlight,
		"STYLE":     &c.Style,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"EXPLICIT_TABLE_NAMES": &c.ExplicitTableNames,
		"VERBOSE":              &c.Verbose,
	}
	for key, dst := range bools {
		v, ok := lookup(EnvPrefix + key)
		if !ok || v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: invalid boolean %q", EnvPrefix, key, v)
		}
		*dst = b
	}
	return nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Highlight) {
	case HighlightAuto, HighlightAlways, HighlightNever:
		c.Highlight = strings.ToLower(c.Highlight)
	default:
		return fmt.Errorf("invalid highlight mode %q (expected auto, always or never)", c.Highlight)
	}
	if c.Target == "" {
		return fmt.Errorf("target cannot be empty")
	}
	return nil
}
