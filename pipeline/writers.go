package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aluiziolira/go-scrape-eats/models"
)

// JSONArrayWriter accumulates documents and writes them on Close as
// one pretty-printed UTF-8 JSON array. HTML escaping is off so
// non-ASCII restaurant and dish names land in the file as typed.
type JSONArrayWriter struct {
	filename string
	docs     []*models.Restaurant
	mu       sync.Mutex
	closed   bool
}

// NewJSONArrayWriter initialises the array writer and creates parent
// directories eagerly so path problems surface before the scrape.
func NewJSONArrayWriter(filename string) (*JSONArrayWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}
	return &JSONArrayWriter{filename: filename}, nil
}

// Write buffers documents for the final array.
func (aw *JSONArrayWriter) Write(docs []*models.Restaurant) error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	if aw.closed {
		return fmt.Errorf("json array writer is closed")
	}
	aw.docs = append(aw.docs, docs...)
	return nil
}

// Close writes the accumulated array to disk.
func (aw *JSONArrayWriter) Close() error {
	aw.mu.Lock()
	defer aw.mu.Unlock()

	if aw.closed {
		return nil
	}
	aw.closed = true

	f, err := os.Create(aw.filename)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}

	encoder := json.NewEncoder(f)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if aw.docs == nil {
		// Zero results still produce a valid (empty) array.
		aw.docs = []*models.Restaurant{}
	}
	if err := encoder.Encode(aw.docs); err != nil {
		f.Close()
		return fmt.Errorf("encode json array: %w", err)
	}
	return f.Close()
}

// Validate ensures at least one document was collected.
func (aw *JSONArrayWriter) Validate() error {
	aw.mu.Lock()
	defer aw.mu.Unlock()
	if len(aw.docs) == 0 && !aw.closed {
		return fmt.Errorf("no documents collected")
	}
	return nil
}

// JSONLWriter writes newline-delimited JSON records.
type JSONLWriter struct {
	file    *os.File
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONLWriter initialises the JSONL writer.
func NewJSONLWriter(filename string) (*JSONLWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create jsonl file: %w", err)
	}

	buffer := bufio.NewWriter(f)
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	return &JSONLWriter{
		file:    f,
		writer:  buffer,
		encoder: encoder,
	}, nil
}

// Write appends documents in JSONL format.
func (jw *JSONLWriter) Write(docs []*models.Restaurant) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	for _, doc := range docs {
		if err := jw.encoder.Encode(doc); err != nil {
			return fmt.Errorf("encode jsonl record: %w", err)
		}
	}

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush jsonl writer: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONLWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush jsonl writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSONL file has data.
func (jw *JSONLWriter) Validate() error {
	info, err := jw.file.Stat()
	if err != nil {
		return fmt.Errorf("stat jsonl file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("jsonl file is empty")
	}
	return nil
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
