package pipeline

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aluiziolira/go-scrape-eats/models"
)

func sampleDocs() []*models.Restaurant {
	lat := 48.2082
	lon := 16.3738
	price := 11.9
	return []*models.Restaurant{
		{
			Name:       "Café Grünwald",
			URL:        "https://example.test/r/grunwald",
			Categories: []string{"Käsespätzle", "Austrian"},
			Location: models.Location{
				City:         "Wien",
				Latitude:     &lat,
				Longitude:    &lon,
				LocationType: "DEFAULT",
			},
			MenuItems: []models.MenuItem{
				{Title: "Wiener Schnitzel", Price: &price},
			},
		},
		{
			Name: "Plain Diner",
			URL:  "https://example.test/r/plain",
			Location: models.Location{
				LocationType: "DEFAULT",
			},
		},
	}
}

func TestJSONArrayWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "restaurants.json")
	writer, err := NewJSONArrayWriter(path)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if err := writer.Write(sampleDocs()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}

	var decoded []*models.Restaurant
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded docs = %d, want 2", len(decoded))
	}
	if decoded[0].Name != "Café Grünwald" {
		t.Fatalf("name = %q, want Café Grünwald", decoded[0].Name)
	}

	text := string(raw)
	if !strings.Contains(text, "Café Grünwald") || !strings.Contains(text, "Käsespätzle") {
		t.Fatalf("non-ASCII characters must be preserved unescaped, got:\n%s", text)
	}
	if strings.Contains(text, `\u`) {
		t.Fatalf("output should not contain unicode escapes, got:\n%s", text)
	}
	if !strings.Contains(text, "\n  ") {
		t.Fatalf("output should be pretty-printed")
	}
}

func TestJSONArrayWriterEmptyRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.json")
	writer, err := NewJSONArrayWriter(path)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("empty run should write an empty array, got %q", raw)
	}
}

func TestJSONArrayWriterValidateEmpty(t *testing.T) {
	writer, err := NewJSONArrayWriter(filepath.Join(t.TempDir(), "restaurants.json"))
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := writer.Validate(); err == nil {
		t.Fatalf("validate should fail with no documents collected")
	}
}

func TestJSONLWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.jsonl")
	writer, err := NewJSONLWriter(path)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	if err := writer.Write(sampleDocs()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var doc models.Restaurant
		if err := json.Unmarshal(scanner.Bytes(), &doc); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
		}
		lines++
	}
	if lines != 2 {
		t.Fatalf("jsonl lines = %d, want 2", lines)
	}
}

func TestDualWriter(t *testing.T) {
	dir := t.TempDir()
	arrayPath := filepath.Join(dir, "restaurants.json")
	jsonlPath := filepath.Join(dir, "restaurants.jsonl")

	writer, err := NewDualWriter(arrayPath, jsonlPath)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := writer.Write(sampleDocs()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, path := range []string{arrayPath, jsonlPath} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s should not be empty", path)
		}
	}
}
