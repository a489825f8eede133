// Package config loads and validates oplengine's layered configuration.
//
// Configuration is applied in order of increasing precedence:
//  1. Hardcoded defaults (NewConfig)
//  2. User/global config (~/.config/oplengine/config.yaml)
//  3. Project config (.oplengine.yaml in the project root)
//  4. Environment variables (OPLENGINE_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete oplengine configuration.
type Config struct {
	Version     int               `yaml:"version" json:"version"`
	Paths       PathsConfig       `yaml:"paths" json:"paths"`
	Checker     CheckerConfig     `yaml:"checker" json:"checker"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Query       QueryConfig       `yaml:"query" json:"query"`
	Snapshot    SnapshotConfig    `yaml:"snapshot" json:"snapshot"`
	Server      ServerConfig      `yaml:"server" json:"server"`
	Performance PerformanceConfig `yaml:"performance" json:"performance"`
}

// PathsConfig locates the upstream CSV tree relative to ProjectRoot.
type PathsConfig struct {
	MeetDataDir   string `yaml:"meet_data_dir" json:"meet_data_dir"`
	LifterDataDir string `yaml:"lifter_data_dir" json:"lifter_data_dir"`
}

// CheckerConfig tunes the CSV validator's parallel build.
type CheckerConfig struct {
	// Workers is the number of goroutines validating meets concurrently.
	Workers int `yaml:"workers" json:"workers"`
	// WarningsAreErrors makes any Warning-severity report line fail the
	// build command's exit status, as an Error does; it does not remove
	// the meet from the compiled database.
	WarningsAreErrors bool `yaml:"warnings_are_errors" json:"warnings_are_errors"`
	// WatchDebounce is a duration string that is loaded and validated
	// here; no command reads it.
	WatchDebounce string `yaml:"watch_debounce" json:"watch_debounce"`
}

// CacheConfig tunes the filter and rankings caches built at load time.
type CacheConfig struct {
	// RecentYears is loaded and validated here; the filter cache does not
	// read it, so its year window is not configurable through this field.
	RecentYears int `yaml:"recent_years" json:"recent_years"`
	// QueryLRUSize is loaded and validated here; no component passes it
	// to query.NewCachedEngine, which takes its capacity as an argument.
	QueryLRUSize int `yaml:"query_lru_size" json:"query_lru_size"`
}

// QueryConfig tunes rankings query pagination defaults.
type QueryConfig struct {
	DefaultPageSize int `yaml:"default_page_size" json:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size" json:"max_page_size"`
}

// SnapshotConfig controls the compiled-database build snapshot cache.
type SnapshotConfig struct {
	// Enabled turns on the content-hash-keyed snapshot in Dir; when a
	// snapshot matching the current CSV content hash exists, the checker
	// and row model build is skipped entirely.
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Dir     string `yaml:"dir" json:"dir"`
	// MaxAge is a duration string (e.g. "24h") that is loaded and
	// validated here; snapshot loading does not read it, so a snapshot
	// is trusted for as long as its content hash matches.
	MaxAge string `yaml:"max_age" json:"max_age"`
}

// ServerConfig configures the oplmcp MCP server and query shell.
type ServerConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Port      int    `yaml:"port" json:"port"`
	LogLevel  string `yaml:"log_level" json:"log_level"`
}

// PerformanceConfig configures build-time resource usage.
type PerformanceConfig struct {
	BuildWorkers int    `yaml:"build_workers" json:"build_workers"`
	MemoryLimit  string `yaml:"memory_limit" json:"memory_limit"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			MeetDataDir:   "meet-data",
			LifterDataDir: "lifter-data",
		},
		Checker: CheckerConfig{
			Workers:           runtime.NumCPU(),
			WarningsAreErrors: false,
			WatchDebounce:     "500ms",
		},
		Cache: CacheConfig{
			RecentYears:  5,
			QueryLRUSize: 1000,
		},
		Query: QueryConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Snapshot: SnapshotConfig{
			Enabled: true,
			Dir:     defaultSnapshotDir(),
			MaxAge:  "24h",
		},
		Server: ServerConfig{
			Transport: "stdio",
			Port:      8765,
			LogLevel:  "info",
		},
		Performance: PerformanceConfig{
			BuildWorkers: runtime.NumCPU(),
			MemoryLimit:  "auto",
		},
	}
}

func defaultSnapshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".oplengine", "snapshots")
	}
	return filepath.Join(home, ".oplengine", "snapshots")
}

// GetUserConfigPath returns the path to the user/global config file,
// following the XDG Base Directory specification.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "oplengine", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "oplengine", "config.yaml")
	}
	return filepath.Join(home, ".config", "oplengine", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists reports whether the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

func loadUserConfig() (*Config, error) {
	path := GetUserConfigPath()
	if !fileExists(path) {
		return nil, nil
	}
	cfg := NewConfig()
	if err := cfg.loadYAML(path); err != nil {
		return nil, fmt.Errorf("failed to load user config from %s: %w", path, err)
	}
	return cfg, nil
}

// LoadUserConfig loads the user configuration file. Returns a nil config
// and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	return loadUserConfig()
}

// Load loads configuration for the project rooted at dir, applying the
// four-layer precedence documented on the package.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if userCfg, err := loadUserConfig(); err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	} else if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads .oplengine.yaml or .oplengine.yml from dir, if present.
func (c *Config) loadFromFile(dir string) error {
	yamlPath := filepath.Join(dir, ".oplengine.yaml")
	if fileExists(yamlPath) {
		return c.loadYAML(yamlPath)
	}
	ymlPath := filepath.Join(dir, ".oplengine.yml")
	if fileExists(ymlPath) {
		return c.loadYAML(ymlPath)
	}
	return nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero fields of other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Paths.MeetDataDir != "" {
		c.Paths.MeetDataDir = other.Paths.MeetDataDir
	}
	if other.Paths.LifterDataDir != "" {
		c.Paths.LifterDataDir = other.Paths.LifterDataDir
	}

	if other.Checker.Workers != 0 {
		c.Checker.Workers = other.Checker.Workers
	}
	if other.Checker.WarningsAreErrors {
		c.Checker.WarningsAreErrors = other.Checker.WarningsAreErrors
	}
	if other.Checker.WatchDebounce != "" {
		c.Checker.WatchDebounce = other.Checker.WatchDebounce
	}

	if other.Cache.RecentYears != 0 {
		c.Cache.RecentYears = other.Cache.RecentYears
	}
	if other.Cache.QueryLRUSize != 0 {
		c.Cache.QueryLRUSize = other.Cache.QueryLRUSize
	}

	if other.Query.DefaultPageSize != 0 {
		c.Query.DefaultPageSize = other.Query.DefaultPageSize
	}
	if other.Query.MaxPageSize != 0 {
		c.Query.MaxPageSize = other.Query.MaxPageSize
	}

	if other.Snapshot.Dir != "" || other.Snapshot.MaxAge != "" {
		c.Snapshot.Enabled = other.Snapshot.Enabled
	}
	if other.Snapshot.Dir != "" {
		c.Snapshot.Dir = other.Snapshot.Dir
	}
	if other.Snapshot.MaxAge != "" {
		c.Snapshot.MaxAge = other.Snapshot.MaxAge
	}

	if other.Server.Transport != "" {
		c.Server.Transport = other.Server.Transport
	}
	if other.Server.Port != 0 {
		c.Server.Port = other.Server.Port
	}
	if other.Server.LogLevel != "" {
		c.Server.LogLevel = other.Server.LogLevel
	}

	if other.Performance.BuildWorkers != 0 {
		c.Performance.BuildWorkers = other.Performance.BuildWorkers
	}
	if other.Performance.MemoryLimit != "" {
		c.Performance.MemoryLimit = other.Performance.MemoryLimit
	}
}

// applyEnvOverrides applies OPLENGINE_* environment variable overrides,
// the highest-precedence configuration layer.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPLENGINE_MEET_DATA_DIR"); v != "" {
		c.Paths.MeetDataDir = v
	}
	if v := os.Getenv("OPLENGINE_LIFTER_DATA_DIR"); v != "" {
		c.Paths.LifterDataDir = v
	}
	if v := os.Getenv("OPLENGINE_CHECKER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Checker.Workers = n
		}
	}
	if v := os.Getenv("OPLENGINE_WARNINGS_ARE_ERRORS"); v != "" {
		c.Checker.WarningsAreErrors = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("OPLENGINE_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("OPLENGINE_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
	if v := os.Getenv("OPLENGINE_SNAPSHOT_ENABLED"); v != "" {
		c.Snapshot.Enabled = strings.ToLower(v) == "true" || v == "1"
	}
	if v := os.Getenv("OPLENGINE_SNAPSHOT_DIR"); v != "" {
		c.Snapshot.Dir = v
	}
}

// FindProjectRoot resolves the project root per §6: walk three directories
// up from startDir (conventionally the running binary's directory), falling
// back to a `.git` or `.oplengine.yaml` marker search, and finally to
// startDir itself.
func FindProjectRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	threeUp := absDir
	for i := 0; i < 3; i++ {
		parent := filepath.Dir(threeUp)
		if parent == threeUp {
			break
		}
		threeUp = parent
	}
	if dirExists(filepath.Join(threeUp, "meet-data")) && dirExists(filepath.Join(threeUp, "lifter-data")) {
		return threeUp, nil
	}

	currentDir := absDir
	for {
		if dirExists(filepath.Join(currentDir, ".git")) {
			return currentDir, nil
		}
		if fileExists(filepath.Join(currentDir, ".oplengine.yaml")) ||
			fileExists(filepath.Join(currentDir, ".oplengine.yml")) {
			return currentDir, nil
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// Validate checks the configuration for internally-consistent values.
func (c *Config) Validate() error {
	if c.Checker.Workers < 0 {
		return fmt.Errorf("checker.workers must be non-negative, got %d", c.Checker.Workers)
	}
	if c.Query.MaxPageSize <= 0 {
		return fmt.Errorf("query.max_page_size must be positive, got %d", c.Query.MaxPageSize)
	}
	if c.Query.DefaultPageSize <= 0 || c.Query.DefaultPageSize > c.Query.MaxPageSize {
		return fmt.Errorf("query.default_page_size must be in (0, max_page_size], got %d", c.Query.DefaultPageSize)
	}

	validTransports := map[string]bool{"stdio": true, "sse": true}
	if !validTransports[strings.ToLower(c.Server.Transport)] {
		return fmt.Errorf("server.transport must be 'stdio' or 'sse', got %s", c.Server.Transport)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Server.LogLevel)] {
		return fmt.Errorf("server.log_level must be 'debug', 'info', 'warn', or 'error', got %s", c.Server.LogLevel)
	}

	return nil
}

// WriteYAML writes the configuration to path as YAML.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// MergeNewDefaults back-fills zero-valued fields with current defaults,
// returning the dotted field names that were added. Used when upgrading an
// on-disk config written by an older version of oplengine.
func (c *Config) MergeNewDefaults() []string {
	defaults := NewConfig()
	var added []string

	if c.Cache.RecentYears == 0 {
		c.Cache.RecentYears = defaults.Cache.RecentYears
		added = append(added, "cache.recent_years")
	}
	if c.Cache.QueryLRUSize == 0 {
		c.Cache.QueryLRUSize = defaults.Cache.QueryLRUSize
		added = append(added, "cache.query_lru_size")
	}
	if c.Query.DefaultPageSize == 0 {
		c.Query.DefaultPageSize = defaults.Query.DefaultPageSize
		added = append(added, "query.default_page_size")
	}
	if c.Query.MaxPageSize == 0 {
		c.Query.MaxPageSize = defaults.Query.MaxPageSize
		added = append(added, "query.max_page_size")
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = defaults.Snapshot.Dir
		added = append(added, "snapshot.dir")
	}

	return added
}
