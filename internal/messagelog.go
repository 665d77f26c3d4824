package internal

import "time"

// MessageLog is the append-only chat history of one session.
// It is not safe for concurrent use; the owning Controller serializes access.
type MessageLog struct {
	messages []Message
}

// NewMessageLog creates an empty message log
func NewMessageLog() *MessageLog {
	return &MessageLog{}
}

// Append adds a message to the end of the log
func (l *MessageLog) Append(msg Message) {
	l.messages = append(l.messages, msg)
}

// Clear removes all messages
func (l *MessageLog) Clear() {
	l.messages = nil
}

// Len returns the number of messages in the log
func (l *MessageLog) Len() int {
	return len(l.messages)
}

// Snapshot returns a copy of the messages in insertion order
func (l *MessageLog) Snapshot() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Export builds a serializable record of the log.
// An empty log yields ErrEmptyHistory.
func (l *MessageLog) Export(videoID, videoTitle string, now time.Time) (*ExportRecord, error) {
	if len(l.messages) == 0 {
		return nil, ErrEmptyHistory
	}
	return &ExportRecord{
		VideoID:    videoID,
		VideoTitle: videoTitle,
		ExportDate: now,
		Messages:   l.Snapshot(),
	}, nil
}
