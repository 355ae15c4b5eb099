package pipeline

import (
	"fmt"
	"sync"

	"github.com/aluiziolira/go-scrape-eats/models"
)

// DualWriter outputs the pretty JSON array and JSONL simultaneously.
type DualWriter struct {
	arrayWriter *JSONArrayWriter
	jsonlWriter *JSONLWriter
	mu          sync.Mutex
}

// NewDualWriter creates writers for both output files.
func NewDualWriter(arrayFilename, jsonlFilename string) (*DualWriter, error) {
	arrayWriter, err := NewJSONArrayWriter(arrayFilename)
	if err != nil {
		return nil, fmt.Errorf("create array writer: %w", err)
	}

	jsonlWriter, err := NewJSONLWriter(jsonlFilename)
	if err != nil {
		return nil, fmt.Errorf("create jsonl writer: %w", err)
	}

	return &DualWriter{
		arrayWriter: arrayWriter,
		jsonlWriter: jsonlWriter,
	}, nil
}

// Write sends documents to both outputs.
func (dw *DualWriter) Write(docs []*models.Restaurant) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if err := dw.arrayWriter.Write(docs); err != nil {
		return fmt.Errorf("array write failed: %w", err)
	}
	if err := dw.jsonlWriter.Write(docs); err != nil {
		return fmt.Errorf("jsonl write failed: %w", err)
	}
	return nil
}

// Close closes both writers.
func (dw *DualWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	var errs []error
	if err := dw.arrayWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("array close failed: %w", err))
	}
	if err := dw.jsonlWriter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("jsonl close failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors: %v", errs)
	}
	return nil
}

// Validate validates both output files.
func (dw *DualWriter) Validate() error {
	var errs []error
	if err := dw.arrayWriter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("array validation failed: %w", err))
	}
	if err := dw.jsonlWriter.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("jsonl validation failed: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation errors: %v", errs)
	}
	return nil
}
