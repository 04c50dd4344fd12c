// Package config handles global configuration and CLI input validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the global configuration, stored in
// $XDG_CONFIG_HOME/citegraph/config.yml. Environment variables override
// file values: SS_API_KEY and CITEGRAPH_DB.
type Config struct {
	S2APIKey       string  `yaml:"s2_api_key,omitempty"`
	DBPath         string  `yaml:"db_path,omitempty"`
	RateLimitDelay float64 `yaml:"rate_limit_delay,omitempty"` // Seconds between API calls
}

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "citegraph"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// DefaultDBFile is the database path used when nothing is configured.
	DefaultDBFile = "citegraph.db"
	// DefaultRateLimitDelay is the default pacing between API calls, in
	// seconds.
	DefaultRateLimitDelay = 1.0
)

// Path returns the global config file path. Respects XDG_CONFIG_HOME,
// defaults to ~/.config/citegraph/config.yml.
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir, ConfigFile)
}

// Load reads the global configuration, applying defaults and environment
// overrides. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:         DefaultDBFile,
		RateLimitDelay: DefaultRateLimitDelay,
	}

	if path := Path(); path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if key := os.Getenv("SS_API_KEY"); key != "" {
		cfg.S2APIKey = key
	}
	if db := os.Getenv("CITEGRAPH_DB"); db != "" {
		cfg.DBPath = db
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBFile
	}
	if cfg.RateLimitDelay <= 0 {
		cfg.RateLimitDelay = DefaultRateLimitDelay
	}

	return cfg, nil
}

// Save writes the configuration file, creating its directory if needed.
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ParsePages parses a page-range spec: "32-42" (inclusive range) or
// "32,33,34" (explicit list). Returns the pages in ascending order without
// duplicates. A malformed spec is a configuration error, surfaced before
// any processing starts.
func ParsePages(spec string) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty page spec")
	}

	if strings.Contains(spec, "-") {
		parts := strings.SplitN(spec, "-", 2)
		start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid page range %q", spec)
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("invalid page range %q: must be ascending and 1-based", spec)
		}
		pages := make([]int, 0, end-start+1)
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
		return pages, nil
	}

	seen := make(map[int]bool)
	var pages []int
	for _, field := range strings.Split(spec, ",") {
		p, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || p < 1 {
			return nil, fmt.Errorf("invalid page number %q in %q", field, spec)
		}
		if !seen[p] {
			seen[p] = true
			pages = append(pages, p)
		}
	}
	sort.Ints(pages)
	return pages, nil
}
