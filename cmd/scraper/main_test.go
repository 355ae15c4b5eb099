package main

import (
	"testing"

	"github.com/aluiziolira/go-scrape-eats/config"
)

func settingsConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Concurrency = 10
	cfg.OutputFile = "data/from_settings.json"
	cfg.MetricsAddr = ":9100"
	cfg.IncludeMenu = true
	return cfg
}

func TestApplyOverridesKeepsSettingsWhenFlagsUnset(t *testing.T) {
	cfg := settingsConfig()
	applyOverrides(cfg, overrides{format: "json"})

	if cfg.Concurrency != 10 {
		t.Fatalf("concurrency = %d, want settings value 10", cfg.Concurrency)
	}
	if cfg.OutputFile != "data/from_settings.json" {
		t.Fatalf("output file = %q, want settings value", cfg.OutputFile)
	}
	if cfg.MetricsAddr != ":9100" {
		t.Fatalf("metrics addr = %q, want settings value", cfg.MetricsAddr)
	}
	if !cfg.IncludeMenu {
		t.Fatalf("menu default should survive without -no-menu")
	}
}

func TestApplyOverridesFlagsWin(t *testing.T) {
	cfg := settingsConfig()
	applyOverrides(cfg, overrides{
		outputFile:  "out/custom.json",
		format:      "JSONL",
		parallel:    3,
		metricsAddr: ":9200",
		noMenu:      true,
		verbose:     true,
	})

	if cfg.Concurrency != 3 {
		t.Fatalf("concurrency = %d, want 3", cfg.Concurrency)
	}
	if cfg.OutputFile != "out/custom.json" {
		t.Fatalf("output file = %q, want out/custom.json", cfg.OutputFile)
	}
	if cfg.OutputFormat != "jsonl" {
		t.Fatalf("format = %q, want jsonl (lowercased)", cfg.OutputFormat)
	}
	if cfg.MetricsAddr != ":9200" {
		t.Fatalf("metrics addr = %q, want :9200", cfg.MetricsAddr)
	}
	if cfg.IncludeMenu {
		t.Fatalf("-no-menu should disable menu scraping")
	}
	if !cfg.Verbose {
		t.Fatalf("-v should enable verbose logging")
	}
}

func TestCreateWriterUnknownFormat(t *testing.T) {
	if _, err := createWriter("xml", "out.xml"); err == nil {
		t.Fatalf("unknown format should error")
	}
}
