package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Storage.Engine != "sqlite" {
		t.Errorf("default engine = %q, want sqlite", cfg.Storage.Engine)
	}
	if cfg.Storage.PersonCacheSize != 512 {
		t.Errorf("default cache size = %d, want 512", cfg.Storage.PersonCacheSize)
	}
	if cfg.Traversal.MaxGenerations != 10 {
		t.Errorf("default max generations = %d, want 10", cfg.Traversal.MaxGenerations)
	}
	if cfg.Traversal.DegreeBound != 10 {
		t.Errorf("default degree bound = %d, want 10", cfg.Traversal.DegreeBound)
	}
	if cfg.Watch.Enabled {
		t.Error("watcher should be disabled by default")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("NASAB_STORAGE_ENGINE", "postgres")
	t.Setenv("NASAB_STORAGE_DSN", "postgres://localhost/nasab")
	t.Setenv("NASAB_MAX_GENERATIONS", "5")
	t.Setenv("NASAB_STORAGE_BREAKER", "true")
	t.Setenv("NASAB_BULK_RATE_LIMIT", "25.5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Storage.Engine != "postgres" {
		t.Errorf("engine = %q, want postgres", cfg.Storage.Engine)
	}
	if cfg.Storage.DSN != "postgres://localhost/nasab" {
		t.Errorf("dsn = %q", cfg.Storage.DSN)
	}
	if cfg.Traversal.MaxGenerations != 5 {
		t.Errorf("max generations = %d, want 5", cfg.Traversal.MaxGenerations)
	}
	if !cfg.Storage.BreakerEnabled {
		t.Error("breaker should be enabled")
	}
	if cfg.Bulk.RateLimit != 25.5 {
		t.Errorf("rate limit = %v, want 25.5", cfg.Bulk.RateLimit)
	}
}

func TestLoadConfigInvalidEnvKeepsDefault(t *testing.T) {
	t.Setenv("NASAB_MAX_GENERATIONS", "not-a-number")
	t.Setenv("NASAB_STORAGE_BREAKER", "maybe")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Traversal.MaxGenerations != 10 {
		t.Errorf("max generations = %d, want default 10", cfg.Traversal.MaxGenerations)
	}
	if cfg.Storage.BreakerEnabled {
		t.Error("unparseable bool should keep default false")
	}
}

func TestLoadConfigBoolEnvCaseInsensitive(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"tRuE", true},
		{"YES", true},
		{"1", true},
		{"FaLsE", false},
		{"No", false},
		{"0", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("NASAB_WATCH_ENABLED", tt.value)
			cfg, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if cfg.Watch.Enabled != tt.want {
				t.Errorf("watch enabled = %v for %q, want %v", cfg.Watch.Enabled, tt.value, tt.want)
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nasab.yaml")
	content := []byte(`storage:
  engine: postgres
  dsn: postgres://db.internal/nasab
traversal:
  max_generations: 8
watch:
  enabled: true
  dir: /var/lib/nasab/import
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFromFile: %v", err)
	}

	if cfg.Storage.Engine != "postgres" {
		t.Errorf("engine = %q, want postgres", cfg.Storage.Engine)
	}
	if cfg.Traversal.MaxGenerations != 8 {
		t.Errorf("max generations = %d, want 8", cfg.Traversal.MaxGenerations)
	}
	if !cfg.Watch.Enabled {
		t.Error("watch should be enabled from file")
	}
	// File did not set degree bound, default should survive.
	if cfg.Traversal.DegreeBound != 10 {
		t.Errorf("degree bound = %d, want default 10", cfg.Traversal.DegreeBound)
	}
}

func TestEnvWinsOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nasab.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  engine: postgres\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("NASAB_STORAGE_ENGINE", "sqlite")

	cfg, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFromFile: %v", err)
	}
	if cfg.Storage.Engine != "sqlite" {
		t.Errorf("engine = %q, env should win over file", cfg.Storage.Engine)
	}
}

func TestLoadConfigFromFileMissing(t *testing.T) {
	if _, err := LoadConfigFromFile("/nonexistent/nasab.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
