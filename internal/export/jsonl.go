package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/iksnae/video-chat/internal"
)

// JSONLExporter exports records in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a record to JSONL format
func (e *JSONLExporter) Export(record *internal.ExportRecord, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range record.Messages {
		obj := map[string]interface{}{
			"video_id": record.VideoID,
			"sender":   msg.Sender,
			"content":  msg.Content,
		}

		if !msg.Timestamp.IsZero() {
			obj["timestamp"] = msg.Timestamp.Format(time.RFC3339)
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
