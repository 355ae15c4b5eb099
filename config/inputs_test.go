package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeInputs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input_urls.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write inputs: %v", err)
	}
	return path
}

func TestLoadTargets(t *testing.T) {
	path := writeInputs(t, `[
		"https://example.test/r/one",
		{"url": "https://example.test/r/two"},
		{"url": "https://example.test/r/three", "scrapeMenu": false},
		{"noUrl": true},
		42
	]`)

	targets, err := LoadTargets(path, true)
	if err != nil {
		t.Fatalf("load targets: %v", err)
	}

	want := []Target{
		{URL: "https://example.test/r/one", ScrapeMenu: true},
		{URL: "https://example.test/r/two", ScrapeMenu: true},
		{URL: "https://example.test/r/three", ScrapeMenu: false},
	}
	if !reflect.DeepEqual(targets, want) {
		t.Fatalf("targets = %+v, want %+v", targets, want)
	}
}

func TestLoadTargetsMenuDefaultOff(t *testing.T) {
	path := writeInputs(t, `["https://example.test/r/one", {"url": "https://example.test/r/two", "scrapeMenu": true}]`)

	targets, err := LoadTargets(path, false)
	if err != nil {
		t.Fatalf("load targets: %v", err)
	}
	if targets[0].ScrapeMenu {
		t.Fatalf("plain URL should inherit disabled menu default")
	}
	if !targets[1].ScrapeMenu {
		t.Fatalf("explicit scrapeMenu should win over the default")
	}
}

func TestLoadTargetsNotAnArray(t *testing.T) {
	path := writeInputs(t, `{"url": "https://example.test"}`)
	if _, err := LoadTargets(path, true); err == nil {
		t.Fatalf("non-array input should error")
	}
}

func TestLoadTargetsMissingFile(t *testing.T) {
	if _, err := LoadTargets(filepath.Join(t.TempDir(), "missing.json"), true); err == nil {
		t.Fatalf("missing input file should error")
	}
}
