package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.json5")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadSettingsMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadSettings(filepath.Join(t.TempDir(), "nope.json5"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	defaults := DefaultConfig()
	if cfg.Concurrency != defaults.Concurrency {
		t.Fatalf("concurrency = %d, want default %d", cfg.Concurrency, defaults.Concurrency)
	}
	if cfg.OutputFile != defaults.OutputFile {
		t.Fatalf("output file = %q, want default %q", cfg.OutputFile, defaults.OutputFile)
	}
}

func TestLoadSettingsEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadSettings("")
	if err != nil {
		t.Fatalf("empty path should not error, got %v", err)
	}
	if !cfg.IncludeMenu {
		t.Fatalf("menu scraping should default to enabled")
	}
}

func TestLoadSettingsMergesOverDefaults(t *testing.T) {
	path := writeSettings(t, `{
		// json5: comments are allowed here
		concurrency: 2,
		requestTimeout: 30,
		includeMenuByDefault: false,
		output: {
			directory: "out",
		},
		retry: {
			maxAttempts: 5,
			backoffSeconds: 0.5,
		},
	}`)

	cfg, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}

	if cfg.Concurrency != 2 {
		t.Fatalf("concurrency = %d, want 2", cfg.Concurrency)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.IncludeMenu {
		t.Fatalf("menu scraping should be disabled")
	}
	if cfg.MaxAttempts != 5 {
		t.Fatalf("max attempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.Backoff != 500*time.Millisecond {
		t.Fatalf("backoff = %v, want 500ms", cfg.Backoff)
	}

	// Partial nested settings keep defaults for the rest.
	want := filepath.Join("out", "restaurants_output.json")
	if cfg.OutputFile != want {
		t.Fatalf("output file = %q, want %q", cfg.OutputFile, want)
	}
	if cfg.UserAgent == "" {
		t.Fatalf("user agent should fall back to default")
	}
}

func TestLoadSettingsMalformedFile(t *testing.T) {
	path := writeSettings(t, `{concurrency: `)
	if _, err := LoadSettings(path); err == nil {
		t.Fatalf("malformed settings should error")
	}
}
