package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// AnalyzeSentinel is the reserved question that asks the service to run the
	// initial caption analysis instead of answering a question
	AnalyzeSentinel = "analyze_video_init"

	// DefaultTemperature is the fixed sampling temperature sent with every request
	DefaultTemperature = 0.2

	// DefaultServerURL is where the analysis service listens by default
	DefaultServerURL = "http://localhost:8000"

	chatPath = "/api/chat"

	malformedDetail = "malformed response from analysis service"
)

// AnalysisRequest is the body of a call to the analysis service
type AnalysisRequest struct {
	Question    string  `json:"question"`
	VideoID     string  `json:"video_id"`
	Temperature float64 `json:"temperature"`
	ContextK    int     `json:"contextK"`
}

// IsAnalysis reports whether the request is the initial analysis call
func (r AnalysisRequest) IsAnalysis() bool {
	return r.Question == AnalyzeSentinel
}

// AnalysisService submits analysis and question requests for a video
type AnalysisService interface {
	Submit(ctx context.Context, req AnalysisRequest) (string, error)
}

// AnalysisClient is the HTTP implementation of AnalysisService
type AnalysisClient struct {
	baseURL string
	client  *http.Client
}

// NewAnalysisClient creates a client for the service at baseURL.
// A zero timeout leaves requests bounded only by their context.
func NewAnalysisClient(baseURL string, timeout time.Duration) *AnalysisClient {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	return &AnalysisClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the service root
func (c *AnalysisClient) BaseURL() string {
	return c.baseURL
}

// Submit posts the request and returns the answer text.
// Every failure is reported as a *ServiceError.
func (c *AnalysisClient) Submit(ctx context.Context, areq AnalysisRequest) (string, error) {
	body, err := json.Marshal(areq)
	if err != nil {
		return "", &ServiceError{Detail: malformedDetail, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return "", &ServiceError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &ServiceError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ServiceError{StatusCode: resp.StatusCode, Detail: malformedDetail, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &ServiceError{StatusCode: resp.StatusCode, Detail: errorDetail(data)}
	}

	// Initialization calls only need a 2xx acknowledgment
	if areq.IsAnalysis() {
		var ack struct {
			Answer string `json:"answer"`
		}
		_ = json.Unmarshal(data, &ack)
		return ack.Answer, nil
	}

	var result struct {
		Answer *string `json:"answer"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", &ServiceError{StatusCode: resp.StatusCode, Detail: malformedDetail, Err: err}
	}
	if result.Answer == nil {
		return "", &ServiceError{StatusCode: resp.StatusCode, Detail: malformedDetail, Err: errors.New("missing answer field")}
	}

	return *result.Answer, nil
}

// Ping checks that the service root responds
func (c *AnalysisClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return &ServiceError{Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &ServiceError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ServiceError{StatusCode: resp.StatusCode}
	}
	return nil
}

// errorDetail extracts the "detail" field from an error body, if present
func errorDetail(data []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return s
	}
	// Validation errors carry structured detail
	return string(body.Detail)
}

// describeServiceError returns the detail to show the user, or "" if none
func describeServiceError(err error) string {
	var serr *ServiceError
	if !errors.As(err, &serr) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	if serr.Detail != "" {
		return serr.Detail
	}
	if serr.StatusCode != 0 {
		return fmt.Sprintf("HTTP %d", serr.StatusCode)
	}
	if serr.Err != nil {
		return serr.Err.Error()
	}
	return ""
}
