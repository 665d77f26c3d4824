package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/video-chat/internal"
)

// JSONExporter writes the record as a pretty-printed JSON document
type JSONExporter struct{}

// Export exports a record to JSON format
func (e *JSONExporter) Export(record *internal.ExportRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(record)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
