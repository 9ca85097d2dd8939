package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestLoad_DefaultWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	def := DefaultConfig()
	if cfg.Timezone != def.Timezone {
		t.Errorf("Timezone = %q, want %q", cfg.Timezone, def.Timezone)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Storage.Backend = %q, want %q", cfg.Storage.Backend, BackendSQLite)
	}
	if cfg.Generator.APIKeyEnv != "ANTHROPIC_API_KEY" {
		t.Errorf("Generator.APIKeyEnv = %q", cfg.Generator.APIKeyEnv)
	}
	if cfg.HidePast {
		t.Error("HidePast should default to false")
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{
		"timezone": "UTC",
		"hide_past": true,
		"storage": {"backend": "redis", "redis_addr": "cache:6380", "redis_db": 2},
		"generator": {"max_tokens": 1024},
		"logging": {"level": "debug", "format": "json"}
	}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timezone != "UTC" || !cfg.HidePast {
		t.Errorf("Timezone/HidePast = %q/%v", cfg.Timezone, cfg.HidePast)
	}
	if cfg.Storage.Backend != BackendRedis || cfg.Storage.RedisAddr != "cache:6380" || cfg.Storage.RedisDB != 2 {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Generator.MaxTokens != 1024 {
		t.Errorf("Generator.MaxTokens = %d, want 1024", cfg.Generator.MaxTokens)
	}
	// Unset nested fields keep their defaults
	if cfg.Generator.Model != DefaultConfig().Generator.Model {
		t.Errorf("Generator.Model = %q, want default", cfg.Generator.Model)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{not json}`)

	if _, err := Load(tmpDir); err == nil {
		t.Fatalf("Load() expected error, got nil")
	}
}

func TestLoad_DisabledTools(t *testing.T) {
	tmpDir := t.TempDir()
	writeConfig(t, tmpDir, `{"disabled_tools": ["scan_run", "session_delete"]}`)

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Fatalf("DisabledTools length = %d, want 2", len(cfg.DisabledTools))
	}
	if cfg.DisabledTools[0] != "scan_run" || cfg.DisabledTools[1] != "session_delete" {
		t.Errorf("DisabledTools = %v", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_BothPresent(t *testing.T) {
	globalDir := t.TempDir()
	repoRoot := t.TempDir()

	writeConfig(t, globalDir, `{"timezone": "UTC", "disabled_tools": ["scan_run"], "storage": {"backend": "memory"}}`)
	writeConfig(t, filepath.Join(repoRoot, ".radar"), `{"timezone": "America/New_York", "disabled_tools": ["session_delete", "scan_run"]}`)

	cfg, err := LoadWithRepo(globalDir, repoRoot)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q, want repo value", cfg.Timezone)
	}
	if cfg.Storage.Backend != BackendMemory {
		t.Errorf("Storage.Backend = %q, want global value", cfg.Storage.Backend)
	}
	if len(cfg.DisabledTools) != 2 {
		t.Errorf("DisabledTools = %v, want 2 deduplicated entries", cfg.DisabledTools)
	}
}

func TestLoadWithRepo_NeitherPresent(t *testing.T) {
	cfg, err := LoadWithRepo(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if cfg.Timezone != DefaultConfig().Timezone {
		t.Errorf("Timezone = %q, want default", cfg.Timezone)
	}
}

func TestLoadWithRepo_WalksUpward(t *testing.T) {
	repoRoot := t.TempDir()
	writeConfig(t, filepath.Join(repoRoot, ".radar"), `{"hide_past": true}`)

	nested := filepath.Join(repoRoot, "a", "b", "c")
	if err := os.MkdirAll(nested, 0700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	cfg, err := LoadWithRepo(t.TempDir(), nested)
	if err != nil {
		t.Fatalf("LoadWithRepo() error = %v", err)
	}
	if !cfg.HidePast {
		t.Error("HidePast should come from the ancestor repo config")
	}
}

func TestFindRepoConfig_NotFound(t *testing.T) {
	if got := FindRepoConfig(t.TempDir()); got != "" {
		t.Errorf("FindRepoConfig() = %q, want empty", got)
	}
	if got := FindRepoConfig(""); got != "" {
		t.Errorf("FindRepoConfig(\"\") = %q, want empty", got)
	}
}

func TestMerge_ScalarOverride(t *testing.T) {
	base := &Config{Timezone: "UTC", Generator: GeneratorConfig{MaxTokens: 100, Model: "a"}}
	overlay := &Config{Generator: GeneratorConfig{MaxTokens: 200}}

	result := Merge(base, overlay)
	if result.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", result.Timezone)
	}
	if result.Generator.MaxTokens != 200 {
		t.Errorf("MaxTokens = %d, want 200", result.Generator.MaxTokens)
	}
	if result.Generator.Model != "a" {
		t.Errorf("Model = %q, want a", result.Generator.Model)
	}
}

func TestMerge_BooleanOr(t *testing.T) {
	if !Merge(&Config{HidePast: true}, &Config{}).HidePast {
		t.Error("HidePast from base should survive merge")
	}
	if !Merge(&Config{}, &Config{HidePast: true}).HidePast {
		t.Error("HidePast from overlay should survive merge")
	}
}

func TestMerge_ArrayMergeDedup(t *testing.T) {
	base := &Config{DisabledTools: []string{"a", " b "}}
	overlay := &Config{DisabledTools: []string{"b", "c", ""}}

	got := Merge(base, overlay).DisabledTools
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLocation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{"nil config", nil, "UTC"},
		{"empty", &Config{}, "UTC"},
		{"unknown zone", &Config{Timezone: "Mars/Olympus"}, "UTC"},
		{"utc", &Config{Timezone: "UTC"}, "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Location().String(); got != tt.want {
				t.Errorf("Location() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveProfilesDir(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ResolveProfilesDir("/base"); got != filepath.Join("/base", "profiles") {
		t.Errorf("ResolveProfilesDir() = %q", got)
	}
	cfg.ProfilesDir = "/custom"
	if got := cfg.ResolveProfilesDir("/base"); got != "/custom" {
		t.Errorf("ResolveProfilesDir() = %q, want /custom", got)
	}
}

func TestGeneratorTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GeneratorTimeout(); got != 120*time.Second {
		t.Errorf("GeneratorTimeout() = %v, want 2m", got)
	}
	cfg.Generator.TimeoutSeconds = 0
	if got := cfg.GeneratorTimeout(); got != 0 {
		t.Errorf("GeneratorTimeout() = %v, want 0", got)
	}
}

func TestBaseDir_Env(t *testing.T) {
	t.Setenv("RADAR_HOME", "/tmp/radar-home")
	dir, err := BaseDir()
	if err != nil {
		t.Fatalf("BaseDir() error = %v", err)
	}
	if dir != "/tmp/radar-home" {
		t.Errorf("BaseDir() = %q", dir)
	}
}
