package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Catalog.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.Catalog.MaxAttempts)
	}
	if cfg.Catalog.BaseDelay != 200*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 200ms", cfg.Catalog.BaseDelay)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
catalog:
  base_url: http://catalog:8084
  max_attempts: 5
  base_delay: 50ms
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Catalog.BaseURL != "http://catalog:8084" {
		t.Errorf("BaseURL = %q", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, want 5", cfg.Catalog.MaxAttempts)
	}
	if cfg.Catalog.BaseDelay != 50*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 50ms", cfg.Catalog.BaseDelay)
	}
	// Untouched fields keep defaults.
	if cfg.Catalog.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", cfg.Catalog.Timeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
catalog:
  base_url: http://from-file:8084
  max_attempts: 5
`)
	t.Setenv("CATALOG_BASE_URL", "http://from-env:9000")
	t.Setenv("CATALOG_BASE_DELAY", "75ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog.BaseURL != "http://from-env:9000" {
		t.Errorf("BaseURL = %q, env must win over file", cfg.Catalog.BaseURL)
	}
	if cfg.Catalog.MaxAttempts != 5 {
		t.Errorf("MaxAttempts = %d, file value must survive", cfg.Catalog.MaxAttempts)
	}
	if cfg.Catalog.BaseDelay != 75*time.Millisecond {
		t.Errorf("BaseDelay = %v, want 75ms", cfg.Catalog.BaseDelay)
	}
}

func TestLoad_MissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with missing explicit file should fail")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) { c.Catalog.BaseURL = "http://catalog" }, false},
		{"missing base url", func(c *Config) {}, true},
		{"zero attempts", func(c *Config) {
			c.Catalog.BaseURL = "http://catalog"
			c.Catalog.MaxAttempts = 0
		}, true},
		{"zero base delay", func(c *Config) {
			c.Catalog.BaseURL = "http://catalog"
			c.Catalog.BaseDelay = 0
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
