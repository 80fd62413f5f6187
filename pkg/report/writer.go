package report

import (
	"encoding/json"
	"fmt"
	"os"
)

// Writer appends JSON records to a log file, one per line. Records go
// straight to the file as they arrive, so frames completed before a
// crash stay on disk and parseable.
type Writer struct {
	f   *os.File
	enc *json.Encoder
}

// NewWriter creates (or truncates) the record log at path.
func NewWriter(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create record log: %w", err)
	}
	return &Writer{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends one record.
func (w *Writer) Write(rec Record) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	return w.f.Close()
}
