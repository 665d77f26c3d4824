package internal

import (
	"time"
)

// testTime is a fixed instant so exported names and timestamps are stable in tests
var testTime = time.Date(2024, 3, 9, 14, 30, 0, 0, time.UTC)

// CreateTestRecord creates an export record with a short question/answer exchange
func CreateTestRecord(videoID string) *ExportRecord {
	return &ExportRecord{
		VideoID:    videoID,
		VideoTitle: "Test Video",
		ExportDate: testTime,
		Messages: []Message{
			{
				Sender:    SenderAssistant,
				Content:   analysisSucceededText,
				Timestamp: testTime,
			},
			{
				Sender:    SenderUser,
				Content:   "What is this about?",
				Timestamp: testTime.Add(time.Minute),
			},
			{
				Sender:    SenderAssistant,
				Content:   "It is about **Go**.",
				Timestamp: testTime.Add(2 * time.Minute),
			},
		},
	}
}

// CreateTestRecordWithMessages creates an export record with custom messages
func CreateTestRecordWithMessages(videoID string, messages []Message) *ExportRecord {
	return &ExportRecord{
		VideoID:    videoID,
		VideoTitle: "Test Video",
		ExportDate: testTime,
		Messages:   messages,
	}
}
