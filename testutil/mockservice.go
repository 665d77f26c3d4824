package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// ChatRequest mirrors the body the analysis service receives
type ChatRequest struct {
	Question    string  `json:"question"`
	VideoID     string  `json:"video_id"`
	Temperature float64 `json:"temperature"`
	ContextK    int     `json:"contextK"`
}

// ChatResponder decides the status code and JSON body for a request.
// A string body is written verbatim.
type ChatResponder func(req ChatRequest) (int, interface{})

// FakeAnalysisServer is an httptest server speaking the analysis service protocol
type FakeAnalysisServer struct {
	*httptest.Server

	mu       sync.Mutex
	respond  ChatResponder
	requests []ChatRequest
}

// NewFakeAnalysisServer starts a server that answers every request with respond.
// A nil responder acknowledges analyses and echoes questions.
func NewFakeAnalysisServer(t *testing.T, respond ChatResponder) *FakeAnalysisServer {
	t.Helper()
	if respond == nil {
		respond = EchoResponder
	}
	f := &FakeAnalysisServer{respond: respond}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", f.handleChat)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

// EchoResponder acknowledges analyses and answers questions with "echo: <question>"
func EchoResponder(req ChatRequest) (int, interface{}) {
	if req.Question == "analyze_video_init" {
		return http.StatusOK, map[string]string{"answer": "Video analysis complete!"}
	}
	return http.StatusOK, map[string]string{"answer": "echo: " + req.Question}
}

// SetResponder replaces the responder for later requests
func (f *FakeAnalysisServer) SetResponder(respond ChatResponder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.respond = respond
}

// Requests returns the requests received so far
func (f *FakeAnalysisServer) Requests() []ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]ChatRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeAnalysisServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	respond := f.respond
	f.mu.Unlock()

	status, body := respond(req)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	if raw, ok := body.(string); ok {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(raw))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
