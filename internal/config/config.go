package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	// Timezone is the IANA zone used for date extraction and calendar links
	Timezone string `json:"timezone,omitempty"`

	// HidePast makes digest views drop records that started before yesterday
	HidePast bool `json:"hide_past,omitempty"`

	Storage   StorageConfig   `json:"storage"`
	Generator GeneratorConfig `json:"generator"`

	// ProfilesDir holds *.yaml scan profiles. Empty means <baseDir>/profiles.
	ProfilesDir string `json:"profiles_dir,omitempty"`

	// CalendarURL overrides the calendar template endpoint.
	CalendarURL string `json:"calendar_url,omitempty"`

	Logging LoggingConfig `json:"logging"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// All tools are enabled by default. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// StorageConfig selects and configures the history backend.
type StorageConfig struct {
	// Backend is one of sqlite, redis, memory
	Backend string `json:"backend,omitempty"`

	RedisAddr     string `json:"redis_addr,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty"`
	RedisPassword string `json:"redis_password,omitempty"`
}

// GeneratorConfig configures the LLM generator.
type GeneratorConfig struct {
	Model          string `json:"model,omitempty"`
	MaxTokens      int    `json:"max_tokens,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`

	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never lives in config.json.
	APIKeyEnv string `json:"api_key_env,omitempty"`

	Endpoint string `json:"endpoint,omitempty"`
}

// LoggingConfig configures the slog logger.
type LoggingConfig struct {
	Level  string `json:"level,omitempty"`
	Format string `json:"format,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timezone: "Europe/Paris",
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			RedisAddr: "localhost:6379",
		},
		Generator: GeneratorConfig{
			Model:          "claude-sonnet-4-5",
			MaxTokens:      4096,
			TimeoutSeconds: 120,
			APIKeyEnv:      "ANTHROPIC_API_KEY",
			Endpoint:       "https://api.anthropic.com/v1/messages",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// BaseDir returns the radar home directory: $RADAR_HOME, or ~/.radar.
func BaseDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv("RADAR_HOME")); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".radar"), nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// LoadWithRepo loads configuration from both the global directory and the
// nearest .radar/config.json found walking upward from startDir.
// Repo config takes precedence for scalar values; arrays are merged.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .radar/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	if startDir == "" {
		return ""
	}
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".radar", "config.json")
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

// loadFileRaw returns a zero config (not defaults) when the file is absent.
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
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Timezone = pick(overlay.Timezone, base.Timezone)
	result.ProfilesDir = pick(overlay.ProfilesDir, base.ProfilesDir)
	result.CalendarURL = pick(overlay.CalendarURL, base.CalendarURL)

	result.HidePast = base.HidePast || overlay.HidePast

	result.Storage = StorageConfig{
		Backend:       pick(overlay.Storage.Backend, base.Storage.Backend),
		RedisAddr:     pick(overlay.Storage.RedisAddr, base.Storage.RedisAddr),
		RedisDB:       pickInt(overlay.Storage.RedisDB, base.Storage.RedisDB),
		RedisPassword: pick(overlay.Storage.RedisPassword, base.Storage.RedisPassword),
	}

	result.Generator = GeneratorConfig{
		Model:          pick(overlay.Generator.Model, base.Generator.Model),
		MaxTokens:      pickInt(overlay.Generator.MaxTokens, base.Generator.MaxTokens),
		TimeoutSeconds: pickInt(overlay.Generator.TimeoutSeconds, base.Generator.TimeoutSeconds),
		APIKeyEnv:      pick(overlay.Generator.APIKeyEnv, base.Generator.APIKeyEnv),
		Endpoint:       pick(overlay.Generator.Endpoint, base.Generator.Endpoint),
	}

	result.Logging = LoggingConfig{
		Level:  pick(overlay.Logging.Level, base.Logging.Level),
		Format: pick(overlay.Logging.Format, base.Logging.Format),
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// Location resolves Timezone, falling back to UTC when it is empty or unknown.
func (c *Config) Location() *time.Location {
	if c == nil || strings.TrimSpace(c.Timezone) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ResolveProfilesDir returns ProfilesDir, or <baseDir>/profiles when unset.
func (c *Config) ResolveProfilesDir(baseDir string) string {
	if c.ProfilesDir != "" {
		return c.ProfilesDir
	}
	return filepath.Join(baseDir, "profiles")
}

// GeneratorTimeout returns the per-call generator timeout.
func (c *Config) GeneratorTimeout() time.Duration {
	if c.Generator.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Generator.TimeoutSeconds) * time.Second
}

func pick(overlay, base string) string {
	if strings.TrimSpace(overlay) != "" {
		return overlay
	}
	return base
}

func pickInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
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
