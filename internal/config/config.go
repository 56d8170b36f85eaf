// Package config loads the Cache/PyPI client configuration table from
// spec.md §6 from an optional YAML file, falling back to built-in
// defaults for anything the file omits or when no file exists at all.
// Struct-tag style follows
// _examples/datawire-ocibuild/pkg/python/platform.go's Platform/Scheme
// (lowercase_with_underscores yaml tags on an otherwise plain struct).
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config mirrors spec.md §6's configuration table field-for-field.
type Config struct {
	MemorySize    int64         `yaml:"memory_size"`
	MemoryTTL     time.Duration `yaml:"memory_ttl"`
	DiskDir       string        `yaml:"disk_dir"`
	DiskTTL       time.Duration `yaml:"disk_ttl"`
	JSONAPIURL    string        `yaml:"json_api_url"`
	SimpleAPIURL  string        `yaml:"simple_api_url"`
	Timeout       time.Duration `yaml:"timeout_ms"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	MaxRetries    int           `yaml:"max_retries"`
	UserAgent     string        `yaml:"user_agent"`
}

// Default returns the built-in defaults from spec.md §6. DiskDir is empty
// (disk tier disabled) until a file or flag sets it.
func Default() Config {
	return Config{
		MemorySize:    64 << 20,
		MemoryTTL:     300 * time.Second,
		DiskDir:       "",
		DiskTTL:       3600 * time.Second,
		JSONAPIURL:    "https://pypi.org/pypi",
		SimpleAPIURL:  "https://pypi.org/simple",
		Timeout:       30 * time.Second,
		MaxConcurrent: 32,
		MaxRetries:    3,
		UserAgent:     "metal0-pkg/1.0",
	}
}

// rawConfig mirrors Config but with millisecond/second integer fields as
// written in YAML (timeout_ms in milliseconds, the TTLs in seconds per
// spec.md §6), since yaml.v3 has no built-in time.Duration unmarshaler.
type rawConfig struct {
	MemorySize    *int64  `yaml:"memory_size"`
	MemoryTTLSecs *int64  `yaml:"memory_ttl"`
	DiskDir       *string `yaml:"disk_dir"`
	DiskTTLSecs   *int64  `yaml:"disk_ttl"`
	JSONAPIURL    *string `yaml:"json_api_url"`
	SimpleAPIURL  *string `yaml:"simple_api_url"`
	TimeoutMs     *int64  `yaml:"timeout_ms"`
	MaxConcurrent *int    `yaml:"max_concurrent"`
	MaxRetries    *int    `yaml:"max_retries"`
	UserAgent     *string `yaml:"user_agent"`
}

// Load reads path (a metal0-pkg.yaml file per spec.md §6) and overlays it
// onto Default(). A missing file is not an error: Load returns the
// defaults unchanged, matching the "file is optional" contract.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: reading %s", path)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, errors.Wrapf(err, "config: parsing %s", path)
	}

	if raw.MemorySize != nil {
		cfg.MemorySize = *raw.MemorySize
	}
	if raw.MemoryTTLSecs != nil {
		cfg.MemoryTTL = time.Duration(*raw.MemoryTTLSecs) * time.Second
	}
	if raw.DiskDir != nil {
		cfg.DiskDir = *raw.DiskDir
	}
	if raw.DiskTTLSecs != nil {
		cfg.DiskTTL = time.Duration(*raw.DiskTTLSecs) * time.Second
	}
	if raw.JSONAPIURL != nil {
		cfg.JSONAPIURL = *raw.JSONAPIURL
	}
	if raw.SimpleAPIURL != nil {
		cfg.SimpleAPIURL = *raw.SimpleAPIURL
	}
	if raw.TimeoutMs != nil {
		cfg.Timeout = time.Duration(*raw.TimeoutMs) * time.Millisecond
	}
	if raw.MaxConcurrent != nil {
		cfg.MaxConcurrent = *raw.MaxConcurrent
	}
	if raw.MaxRetries != nil {
		cfg.MaxRetries = *raw.MaxRetries
	}
	if raw.UserAgent != nil {
		cfg.UserAgent = *raw.UserAgent
	}

	return cfg, nil
}

// ApplyOverrides overlays any non-zero-value field in overrides onto cfg,
// giving CLI flags precedence over both the file and the built-in
// defaults. Only fields a caller actually set on overrides (non-zero)
// take effect; fields left at their Go zero value pass through cfg
// unchanged.
func (cfg Config) ApplyOverrides(overrides Config) Config {
	out := cfg
	if overrides.MemorySize != 0 {
		out.MemorySize = overrides.MemorySize
	}
	if overrides.MemoryTTL != 0 {
		out.MemoryTTL = overrides.MemoryTTL
	}
	if overrides.DiskDir != "" {
		out.DiskDir = overrides.DiskDir
	}
	if overrides.DiskTTL != 0 {
		out.DiskTTL = overrides.DiskTTL
	}
	if overrides.JSONAPIURL != "" {
		out.JSONAPIURL = overrides.JSONAPIURL
	}
	if overrides.SimpleAPIURL != "" {
		out.SimpleAPIURL = overrides.SimpleAPIURL
	}
	if overrides.Timeout != 0 {
		out.Timeout = overrides.Timeout
	}
	if overrides.MaxConcurrent != 0 {
		out.MaxConcurrent = overrides.MaxConcurrent
	}
	if overrides.MaxRetries != 0 {
		out.MaxRetries = overrides.MaxRetries
	}
	if overrides.UserAgent != "" {
		out.UserAgent = overrides.UserAgent
	}
	return out
}
