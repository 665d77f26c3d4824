package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/iksnae/video-chat/internal"
)

// Exporter defines the interface for all export formats
type Exporter interface {
	Export(record *internal.ExportRecord, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "json":
		return &JSONExporter{}, nil
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: json, jsonl, md, yaml)", format)
	}
}

// FileName returns the download name of a record: yt-chatbot-<videoId>-<date>.<ext>.
// Characters that cannot appear in a YouTube id are replaced with "_" so the
// name never leaves the export directory.
func FileName(record *internal.ExportRecord, ext string) string {
	return fmt.Sprintf("yt-chatbot-%s-%s.%s", safeVideoID(record.VideoID), record.ExportDate.Format("2006-01-02"), ext)
}

func safeVideoID(id string) string {
	if id == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, id)
}

// WriteFile exports record into dir and returns the path written
func WriteFile(dir string, record *internal.ExportRecord, exporter Exporter) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", &internal.ExportError{Format: exporter.Extension(), Path: dir, Err: err}
	}

	return WritePath(filepath.Join(dir, FileName(record, exporter.Extension())), record, exporter)
}

// WritePath exports record to the file at path
func WritePath(path string, record *internal.ExportRecord, exporter Exporter) (string, error) {
	file, err := os.Create(path)
	if err != nil {
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := exporter.Export(record, file); err != nil {
		_ = file.Close()
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}

	if err := file.Close(); err != nil {
		return "", &internal.ExportError{Format: exporter.Extension(), Path: path, Err: err}
	}
	return path, nil
}
