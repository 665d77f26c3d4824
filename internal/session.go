package internal

// State is a point-in-time snapshot of a controller's tracked session
type State struct {
	VideoID         string        `json:"video_id,omitempty"`
	VideoTitle      string        `json:"video_title,omitempty"`
	Status          SessionStatus `json:"status"`
	ContextDepth    int           `json:"context_depth"`
	QuestionPending bool          `json:"question_pending"`
	Messages        []Message     `json:"messages"`
}

// Connected reports whether a video is currently tracked
func (s State) Connected() bool {
	return s.VideoID != ""
}

// ChatEnabled reports whether questions may be asked
func (s State) ChatEnabled() bool {
	return s.Status == StatusAnalyzed && !s.QuestionPending
}

// StatusText returns the human readable status line for the session
func (s State) StatusText() string {
	switch s.Status {
	case StatusConnected:
		return "Connected to YouTube video"
	case StatusAnalyzing:
		return "Analyzing video content..."
	case StatusAnalyzed:
		return "Ready to chat about video"
	case StatusAnalysisFailed:
		return "Analysis failed, retry available"
	default:
		return "Navigate to a YouTube video"
	}
}
