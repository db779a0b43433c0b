package serializer

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type sample struct {
	Name    string   `json:"name" yaml:"name"`
	Count   int      `json:"count" yaml:"count"`
	Nested  nested   `json:"nested" yaml:"nested"`
	Entries []string `json:"entries" yaml:"entries"`
}

type nested struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
}

func sampleValue() sample {
	return sample{
		Name:    "web",
		Count:   2,
		Nested:  nested{Enabled: true},
		Entries: []string{"a", "b"},
	}
}

func TestWriter_SerializeJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatJSON, &buf)

	require.NoError(t, w.Serialize(sampleValue()))
	require.NoError(t, w.Close())

	var got sample
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleValue(), got)
}

func TestWriter_SerializeYAML(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatYAML, &buf)

	require.NoError(t, w.Serialize(sampleValue()))

	var got sample
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleValue(), got)
}

func TestWriter_SerializeTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(FormatTable, &buf)

	require.NoError(t, w.Serialize(sampleValue()))

	out := buf.String()
	assert.Contains(t, out, "FIELD")
	assert.Contains(t, out, "VALUE")
	assert.Contains(t, out, "nested.enabled")
	assert.Contains(t, out, "entries[0]")
	assert.Contains(t, out, "web")
}

func TestWriter_UnknownFormatFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(Format("protobuf"), &buf)

	require.NoError(t, w.Serialize(sampleValue()))
	assert.True(t, json.Valid(buf.Bytes()))
}

func TestNewFileWriterOrStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := NewFileWriterOrStdout(FormatJSON, path)

	// File creation is deferred until the first write.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, w.Serialize(sampleValue()))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("out.json"))
	assert.Equal(t, FormatYAML, FormatFromPath("out.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("out"))
}

func TestFormatIsUnknown(t *testing.T) {
	assert.False(t, FormatJSON.IsUnknown())
	assert.False(t, FormatYAML.IsUnknown())
	assert.False(t, FormatTable.IsUnknown())
	assert.True(t, Format("xml").IsUnknown())
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "facts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(strings.TrimSpace(`
name: web
count: 2
nested:
  enabled: true
entries: [a, b]
`)), 0o644))

	var got sample
	require.NoError(t, ReadFile(path, &got))
	assert.Equal(t, sampleValue(), got)
}
