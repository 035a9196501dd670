package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvOrgName  = "ROSTER_ORG_NAME"
	EnvDataFile = "ROSTER_DATA_FILE"
	EnvBind     = "ROSTER_BIND"
	EnvPort     = "ROSTER_PORT"
	EnvLogLevel = "ROSTER_LOG_LEVEL"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Config holds application configuration.
type Config struct {
	// OrgName appears in the detail overlay tenure badge ("2y 3m with TinyTech").
	OrgName string `json:"org_name,omitempty"`

	// DataFile is an optional YAML or JSON file of employee records.
	// Empty means the built-in directory.
	DataFile string `json:"data_file,omitempty"`

	// Bind and Port are the web server listen address.
	Bind string `json:"bind,omitempty"`
	Port int    `json:"port,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OrgName:  "TinyTech",
		Bind:     "127.0.0.1",
		Port:     8080,
		LogLevel: "info",
	}
}

// Addr returns the host:port the web server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// Validate checks values a config file or the environment may have set badly.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("log_level %q must be one of debug, info, warn, error", c.LogLevel)
	}
	if strings.TrimSpace(c.OrgName) == "" {
		return errors.New("org_name must not be blank")
	}
	return nil
}

// ApplyEnv overrides cfg with any ROSTER_* variables set in the environment.
// getenv is os.Getenv outside of tests.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvOrgName); v != "" {
		cfg.OrgName = v
	}
	if v := getenv(EnvDataFile); v != "" {
		cfg.DataFile = v
	}
	if v := getenv(EnvBind); v != "" {
		cfg.Bind = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", EnvPort, v)
		}
		cfg.Port = port
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	return nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.roster.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.roster) and repo (.roster) directories.
// Repo config is found by walking upward from startDir to find the nearest .roster/config.json.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .roster/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".roster", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}

	// A relative data file is resolved against the config file's directory.
	if cfg.DataFile != "" && !filepath.IsAbs(cfg.DataFile) {
		cfg.DataFile = filepath.Join(filepath.Dir(configPath), cfg.DataFile)
	}
	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	return &Config{
		OrgName:       pick(overlay.OrgName, base.OrgName),
		DataFile:      pick(overlay.DataFile, base.DataFile),
		Bind:          pick(overlay.Bind, base.Bind),
		Port:          pick(overlay.Port, base.Port),
		LogLevel:      pick(overlay.LogLevel, base.LogLevel),
		DisabledTools: mergeStringSlice(base.DisabledTools, overlay.DisabledTools),
	}
}

// pick returns v unless it is the zero value, else fallback.
func pick[T comparable](v, fallback T) T {
	var zero T
	if v == zero {
		return fallback
	}
	return v
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
