package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"weedwatch/models"
)

// CSVWriter exports scan results to a CSV file, rewriting the file on
// every completed scan. It is safe for concurrent use.
type CSVWriter struct {
	mu   sync.Mutex
	path string
}

// NewCSVWriter prepares a CSV export at the given path. Intermediate
// directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{path: path}, nil
}

// Write replaces the export file with the given result rows.
func (c *CSVWriter) Write(rows []models.ResultRow) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"scientific_name", "common_name", "rating", "is_ccr", "site", "title", "price", "url",
	}); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.ScientificName,
			r.CommonName,
			r.Rating,
			strconv.FormatBool(r.IsCCR),
			r.Site,
			r.Title,
			r.Price,
			r.URL,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// Close is a no-op; the file handle only lives for the duration of a
// Write call.
func (c *CSVWriter) Close() error { return nil }
