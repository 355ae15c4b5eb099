package config

import (
	"fmt"
	"time"
)

// Config holds scraper configuration.
type Config struct {
	InputFile    string
	OutputFile   string
	OutputFormat string // json, jsonl, or dual

	Concurrency int
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration

	UserAgent   string
	VerifySSL   bool
	IncludeMenu bool
	MetricsAddr string
	Verbose     bool
}

// DefaultConfig returns the defaults used when no settings file is
// present.
func DefaultConfig() *Config {
	return &Config{
		InputFile:    "data/input_urls.json",
		OutputFile:   "data/restaurants_output.json",
		OutputFormat: "json",
		Concurrency:  5,
		Timeout:      15 * time.Second,
		MaxAttempts:  3,
		Backoff:      2 * time.Second,
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		VerifySSL:    true,
		IncludeMenu:  true,
		MetricsAddr:  "",
		Verbose:      false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.InputFile == "" {
		return fmt.Errorf("input file cannot be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "json" && c.OutputFormat != "jsonl" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be json, jsonl, or dual")
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive")
	}
	if c.Backoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}
	return nil
}
