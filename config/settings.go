package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// Settings mirrors the settings file. JSON5 is accepted so the file
// can carry comments and trailing commas.
type Settings struct {
	Concurrency          int    `json:"concurrency"`
	RequestTimeout       int    `json:"requestTimeout"` // seconds
	UserAgent            string `json:"userAgent"`
	IncludeMenuByDefault *bool  `json:"includeMenuByDefault"`
	VerifySSL            *bool  `json:"verifySsl"`
	MetricsAddr          string `json:"metricsAddr"`
	Output               Output `json:"output"`
	Retry                Retry  `json:"retry"`
}

// Output configures where documents are written.
type Output struct {
	Directory string `json:"directory"`
	Filename  string `json:"filename"`
}

// Retry configures the fixed-backoff fetch retry policy.
type Retry struct {
	MaxAttempts    int     `json:"maxAttempts"`
	BackoffSeconds float64 `json:"backoffSeconds"`
}

func defaultSettings() Settings {
	on := true
	return Settings{
		Concurrency:          5,
		RequestTimeout:       15,
		UserAgent:            DefaultConfig().UserAgent,
		IncludeMenuByDefault: &on,
		VerifySSL:            &on,
		Output: Output{
			Directory: "data",
			Filename:  "restaurants_output.json",
		},
		Retry: Retry{
			MaxAttempts:    3,
			BackoffSeconds: 2,
		},
	}
}

// LoadSettings reads a settings file and deep-merges it over the
// defaults. A missing file (or empty path) yields pure defaults; a
// file that exists but cannot be parsed is an error.
func LoadSettings(path string) (*Config, error) {
	settings := defaultSettings()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to defaults
		case err != nil:
			return nil, fmt.Errorf("read settings %s: %w", path, err)
		default:
			var user Settings
			if err := json5.Unmarshal(raw, &user); err != nil {
				return nil, fmt.Errorf("parse settings %s: %w", path, err)
			}
			if err := mergo.Merge(&settings, user, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merge settings %s: %w", path, err)
			}
		}
	}

	cfg := DefaultConfig()
	cfg.Concurrency = settings.Concurrency
	cfg.Timeout = time.Duration(settings.RequestTimeout) * time.Second
	cfg.UserAgent = settings.UserAgent
	cfg.MetricsAddr = settings.MetricsAddr
	if settings.IncludeMenuByDefault != nil {
		cfg.IncludeMenu = *settings.IncludeMenuByDefault
	}
	if settings.VerifySSL != nil {
		cfg.VerifySSL = *settings.VerifySSL
	}
	cfg.OutputFile = filepath.Join(settings.Output.Directory, settings.Output.Filename)
	cfg.MaxAttempts = settings.Retry.MaxAttempts
	cfg.Backoff = time.Duration(settings.Retry.BackoffSeconds * float64(time.Second))
	return cfg, nil
}
