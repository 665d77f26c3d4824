package internal

import (
	"encoding/json"
	"fmt"
	"time"
)

// Sender identifies who authored a chat message
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message represents one chat turn
type Message struct {
	Sender    Sender    `json:"sender" yaml:"sender"`
	Content   string    `json:"content" yaml:"content"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// SessionStatus is the analysis state of the tracked video
type SessionStatus int

const (
	StatusDisconnected SessionStatus = iota
	StatusConnected
	StatusAnalyzing
	StatusAnalyzed
	StatusAnalysisFailed
)

var statusNames = map[SessionStatus]string{
	StatusDisconnected:   "disconnected",
	StatusConnected:      "connected",
	StatusAnalyzing:      "analyzing",
	StatusAnalyzed:       "analyzed",
	StatusAnalysisFailed: "analysis_failed",
}

// String returns the lower-case name of the status
func (s SessionStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalJSON encodes the status by name
func (s SessionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// CanAnalyze reports whether an analysis request may be issued from this status
func (s SessionStatus) CanAnalyze() bool {
	return s == StatusConnected || s == StatusAnalysisFailed
}

// ExportRecord is the serializable form of a chat history
type ExportRecord struct {
	ID         string    `json:"id,omitempty" yaml:"id,omitempty"`
	VideoID    string    `json:"videoId" yaml:"video_id"`
	VideoTitle string    `json:"videoTitle" yaml:"video_title"`
	ExportDate time.Time `json:"exportDate" yaml:"export_date"`
	Messages   []Message `json:"messages" yaml:"messages"`
}
