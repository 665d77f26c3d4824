package cmd

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/iksnae/video-chat/testutil"
)

const testVideoID = "dQw4w9WgXcQ"

func TestAnalyzeCommand(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run(t, "analyze", "https://www.youtube.com/watch?v="+testVideoID)
	if err != nil {
		t.Fatalf("analyze failed: %v", err)
	}
	if !strings.Contains(out, "Video analyzed successfully") {
		t.Errorf("analyze output = %q, want confirmation", out)
	}

	reqs := env.server.Requests()
	if len(reqs) != 1 {
		t.Fatalf("service received %d requests, want 1", len(reqs))
	}
	if reqs[0].Question != "analyze_video_init" || reqs[0].VideoID != testVideoID {
		t.Errorf("request = %+v, want analysis of %s", reqs[0], testVideoID)
	}
	if reqs[0].ContextK != 4 || reqs[0].Temperature != 0.2 {
		t.Errorf("request = %+v, want contextK 4 and temperature 0.2", reqs[0])
	}
}

func TestAnalyzeCommand_Failure(t *testing.T) {
	env := newTestEnv(t, func(req testutil.ChatRequest) (int, interface{}) {
		return http.StatusNotFound, map[string]string{"detail": "No captions found for this video"}
	})

	_, err := env.run(t, "analyze", testVideoID)
	if !errors.Is(err, errAnalysisFailed) {
		t.Fatalf("analyze error = %v, want errAnalysisFailed", err)
	}
	if !strings.Contains(err.Error(), "No captions found for this video") {
		t.Errorf("analyze error = %q, want service detail", err)
	}
}

func TestAnalyzeCommand_InvalidVideo(t *testing.T) {
	env := newTestEnv(t, nil)

	if _, err := env.run(t, "analyze", "https://example.com/"); err == nil {
		t.Error("analyze should reject a non-video URL")
	}
	if n := len(env.server.Requests()); n != 0 {
		t.Errorf("service received %d requests, want 0", n)
	}
}

func TestAskCommand(t *testing.T) {
	env := newTestEnv(t, nil)

	out, err := env.run(t, "ask", testVideoID, "What", "is", "this?", "--raw", "--save=false")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if strings.TrimSpace(out) != "echo: What is this?" {
		t.Errorf("ask output = %q, want echoed answer", out)
	}

	reqs := env.server.Requests()
	if len(reqs) != 2 {
		t.Fatalf("service received %d requests, want analysis then question", len(reqs))
	}
	if reqs[1].Question != "What is this?" {
		t.Errorf("question = %q, want %q", reqs[1].Question, "What is this?")
	}
}

func TestAskCommand_SavesHistory(t *testing.T) {
	env := newTestEnv(t, nil)

	if _, err := env.run(t, "ask", testVideoID, "Why?", "--raw", "--save"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	out, err := env.run(t, "list", "--video", "")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "Found 1 chat(s)") || !strings.Contains(out, testVideoID) {
		t.Errorf("list output = %q, want the saved chat", out)
	}
}

func TestAskCommand_QuestionFailure(t *testing.T) {
	env := newTestEnv(t, func(req testutil.ChatRequest) (int, interface{}) {
		if req.Question == "analyze_video_init" {
			return http.StatusOK, map[string]string{"answer": "ok"}
		}
		return http.StatusInternalServerError, map[string]string{"detail": "model overloaded"}
	})

	out, err := env.run(t, "ask", testVideoID, "Why?", "--raw", "--save=false")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if !strings.Contains(out, "Sorry, I couldn't process your question: model overloaded") {
		t.Errorf("ask output = %q, want failure message", out)
	}
}
