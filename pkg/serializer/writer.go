package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Serializer writes a resource in a configured format.
type Serializer interface {
	Serialize(v any) error
	Close() error
}

// Writer serializes resources to an underlying stream. Unknown formats
// fall back to JSON.
type Writer struct {
	format Format
	out    io.Writer
	closer io.Closer
	path   string
}

// NewWriter creates a Writer targeting w.
func NewWriter(format Format, w io.Writer) *Writer {
	return &Writer{format: format, out: w}
}

// NewStdoutWriter creates a Writer targeting stdout.
func NewStdoutWriter(format Format) *Writer {
	return NewWriter(format, os.Stdout)
}

// NewFileWriterOrStdout creates a Writer targeting the given path, or
// stdout when the path is empty or "-". File creation is deferred to the
// first Serialize call so a failed diagnosis leaves no empty file behind.
func NewFileWriterOrStdout(format Format, path string) *Writer {
	if path == "" || path == StdoutURI {
		return NewStdoutWriter(format)
	}
	return &Writer{format: format, out: nil, closer: nil, path: path}
}

// Serialize writes v in the writer's format.
func (w *Writer) Serialize(v any) error {
	out, err := w.stream()
	if err != nil {
		return err
	}

	switch w.format {
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to yaml: %w", err)
		}
		return enc.Close()
	case FormatTable:
		return writeTable(out, v)
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to serialize to json: %w", err)
		}
		return nil
	}
}

// Close releases the underlying file, if any.
func (w *Writer) Close() error {
	if w.closer != nil {
		return w.closer.Close()
	}
	return nil
}

func (w *Writer) stream() (io.Writer, error) {
	if w.out != nil {
		return w.out, nil
	}
	f, err := os.Create(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", w.path, err)
	}
	w.out = f
	w.closer = f
	return w.out, nil
}
