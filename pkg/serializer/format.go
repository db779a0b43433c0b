// Package serializer renders runbook resources to JSON, YAML, or a
// hierarchical table, and reads them back from files.
package serializer

import (
	"path/filepath"
	"strings"
)

// Format identifies an output encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// StdoutURI is the special path indicating output should go to stdout.
const StdoutURI = "-"

// IsUnknown reports whether the format is outside the supported set.
func (f Format) IsUnknown() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return false
	}
	return true
}

// FormatFromPath infers the encoding from a file extension, defaulting
// to YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}
