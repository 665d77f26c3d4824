package internal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	analysisSucceededText = "✅ Video analyzed successfully! You can now ask questions about the content."
	captionsHint          = "Please make sure the video has captions available."
	backendDownText       = "There was an error processing your request. Please make sure the backend server is running."
)

// Renderer receives every state transition of a Controller.
// Render is called with the controller lock held, so implementations must not
// call back into the controller; everything they need is in the State.
type Renderer interface {
	Render(State)
}

// RenderFunc adapts a function to the Renderer interface
type RenderFunc func(State)

func (f RenderFunc) Render(s State) {
	f(s)
}

// ControllerOptions holds the collaborators of a Controller
type ControllerOptions struct {
	Service  AnalysisService
	Settings SettingsStore
	Titles   TitleSource // optional; without it the fallback title is used
	Renderer Renderer    // optional
	Now      func() time.Time
}

// requestTag identifies the session a request was issued for
type requestTag struct {
	videoID    string
	generation uint64
}

// Controller keeps one surface's view of the tracked video consistent with
// navigation signals, user actions and service responses.
//
// Every transition runs under a single mutex. The only operations that
// suspend are the analysis and question calls, which run on their own
// goroutines and apply their result only if the session they were issued for
// is still current.
type Controller struct {
	service  AnalysisService
	settings SettingsStore
	titles   TitleSource
	renderer Renderer
	now      func() time.Time

	mu              sync.Mutex
	prefs           Settings
	videoID         string
	videoTitle      string
	status          SessionStatus
	contextDepth    int
	questionPending bool
	log             *MessageLog

	generation uint64
	nextReq    int
	inflight   map[int]context.CancelFunc
	pending    int
	idle       *sync.Cond
}

// NewController creates a controller in the Disconnected state, reading the
// context depth from the settings store.
func NewController(opts ControllerOptions) *Controller {
	c := &Controller{
		service:  opts.Service,
		settings: opts.Settings,
		titles:   opts.Titles,
		renderer: opts.Renderer,
		now:      opts.Now,
		prefs:    DefaultSettings(),
		status:   StatusDisconnected,
		log:      NewMessageLog(),
		inflight: make(map[int]context.CancelFunc),
	}
	c.idle = sync.NewCond(&c.mu)
	if c.now == nil {
		c.now = time.Now
	}
	if c.settings == nil {
		c.settings = NewMemorySettingsStore(DefaultSettings())
	}

	prefs, err := c.settings.Load()
	if err != nil {
		LogWarn("Failed to load settings, using defaults: %v", err)
		prefs = DefaultSettings()
	}
	c.prefs = prefs
	c.contextDepth = ClampContextDepth(prefs.ContextK)

	return c
}

// State returns a snapshot of the session
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// AutoConnect reports whether analysis should start as soon as a video is recognized
func (c *Controller) AutoConnect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prefs.AutoConnect
}

// Navigate observes the video id of a page URL
func (c *Controller) Navigate(ctx context.Context, rawURL string) {
	c.ObserveVideoID(ctx, VideoIDFromURL(rawURL))
}

// ObserveVideoID feeds the currently open video id ("" when none) into the
// controller. A change resets the session; repeating the same id is a no-op.
func (c *Controller) ObserveVideoID(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id == c.videoID {
		return
	}

	c.resetLocked()

	if id == "" {
		LogDebug("Video closed, disconnecting")
		c.status = StatusDisconnected
		c.emitLocked()
		return
	}

	LogDebug("Video %s detected", id)
	c.videoID = id
	c.status = StatusConnected

	if c.titles == nil {
		c.videoTitle = FallbackTitle(id)
	} else {
		tag := c.tagLocked()
		reqCtx, done := c.trackLocked(ctx)
		c.goLocked(func() {
			title, err := c.titles.Title(reqCtx, id)
			done()
			c.completeTitle(tag, title, err)
		})
	}

	c.emitLocked()
}

// RequestAnalysis starts the remote caption analysis of the current video.
// It is valid only while Connected or after a failed analysis.
func (c *Controller) RequestAnalysis(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.videoID == "" || !c.status.CanAnalyze() {
		return fmt.Errorf("%w: cannot analyze while %s", ErrInvalidState, c.status)
	}

	c.status = StatusAnalyzing
	req := AnalysisRequest{
		Question:    AnalyzeSentinel,
		VideoID:     c.videoID,
		Temperature: DefaultTemperature,
		ContextK:    c.contextDepth,
	}
	tag := c.tagLocked()
	reqCtx, done := c.trackLocked(ctx)

	LogInfo("Analyzing video %s (contextK=%d)", req.VideoID, req.ContextK)

	c.goLocked(func() {
		_, err := c.service.Submit(reqCtx, req)
		done()
		c.completeAnalysis(tag, err)
	})

	c.emitLocked()
	return nil
}

// AskQuestion sends a question about the analyzed video. The user message is
// appended immediately; the answer or an error message follows when the
// service responds. Blank questions are ignored.
func (c *Controller) AskQuestion(ctx context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != StatusAnalyzed {
		return fmt.Errorf("%w: cannot ask while %s", ErrInvalidState, c.status)
	}
	if c.questionPending {
		return fmt.Errorf("%w: question already pending", ErrInvalidState)
	}

	question := strings.TrimSpace(text)
	if question == "" {
		return nil
	}

	c.log.Append(Message{Sender: SenderUser, Content: question, Timestamp: c.now()})
	c.questionPending = true

	req := AnalysisRequest{
		Question:    question,
		VideoID:     c.videoID,
		Temperature: DefaultTemperature,
		ContextK:    c.contextDepth,
	}
	tag := c.tagLocked()
	reqCtx, done := c.trackLocked(ctx)

	LogDebug("Asking about video %s: %q", req.VideoID, question)

	c.goLocked(func() {
		answer, err := c.service.Submit(reqCtx, req)
		done()
		c.completeQuestion(tag, answer, err)
	})

	c.emitLocked()
	return nil
}

// SetContextDepth clamps n to [2,8], applies it to later requests and
// persists it. It returns the value actually applied.
func (c *Controller) SetContextDepth(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.contextDepth = ClampContextDepth(n)
	c.prefs.ContextK = c.contextDepth
	if err := c.settings.Save(c.prefs); err != nil {
		LogWarn("Failed to save settings: %v", err)
	}

	c.emitLocked()
	return c.contextDepth
}

// ClearHistory empties the message log without touching the session status
func (c *Controller) ClearHistory() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.log.Clear()
	c.emitLocked()
}

// Export returns the message log as a serializable record.
// An empty log yields ErrEmptyHistory.
func (c *Controller) Export() (*ExportRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.log.Export(c.videoID, c.videoTitle, c.now())
}

// Wait blocks until no request is outstanding. Requests issued while waiting
// extend the wait.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waitLocked()
}

// Close abandons all in-flight requests and waits for their goroutines
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.cancelInflightLocked()
	c.waitLocked()
}

func (c *Controller) waitLocked() {
	for c.pending > 0 {
		c.idle.Wait()
	}
}

// goLocked runs fn on its own goroutine and counts it as outstanding until it returns
func (c *Controller) goLocked(fn func()) {
	c.pending++
	go func() {
		fn()
		c.mu.Lock()
		c.pending--
		if c.pending == 0 {
			c.idle.Broadcast()
		}
		c.mu.Unlock()
	}()
}

func (c *Controller) completeTitle(tag requestTag, title string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.matchesLocked(tag) {
		return
	}
	if err != nil {
		LogDebug("Title lookup for %s failed: %v", tag.videoID, err)
		title = FallbackTitle(tag.videoID)
	}
	c.videoTitle = title
	c.emitLocked()
}

func (c *Controller) completeAnalysis(tag requestTag, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.matchesLocked(tag) {
		LogDebug("Discarding analysis response for %s", tag.videoID)
		return
	}

	if err != nil {
		LogWarn("Analysis of %s failed: %v", tag.videoID, err)
		c.status = StatusAnalysisFailed
		c.log.Append(Message{Sender: SenderAssistant, Content: analysisFailedText(err), Timestamp: c.now()})
	} else {
		LogInfo("Analysis of %s complete", tag.videoID)
		c.status = StatusAnalyzed
		c.log.Append(Message{Sender: SenderAssistant, Content: analysisSucceededText, Timestamp: c.now()})
	}
	c.emitLocked()
}

func (c *Controller) completeQuestion(tag requestTag, answer string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.matchesLocked(tag) {
		LogDebug("Discarding answer for %s", tag.videoID)
		return
	}

	c.questionPending = false
	content := answer
	if err != nil {
		LogWarn("Question about %s failed: %v", tag.videoID, err)
		content = questionFailedText(err)
	}
	c.log.Append(Message{Sender: SenderAssistant, Content: content, Timestamp: c.now()})
	c.emitLocked()
}

// resetLocked starts a new session generation: in-flight work is abandoned
// and the log, title and pending flag are cleared.
func (c *Controller) resetLocked() {
	c.generation++
	c.cancelInflightLocked()
	c.videoID = ""
	c.videoTitle = ""
	c.questionPending = false
	c.log.Clear()
}

func (c *Controller) cancelInflightLocked() {
	for id, cancel := range c.inflight {
		cancel()
		delete(c.inflight, id)
	}
}

func (c *Controller) tagLocked() requestTag {
	return requestTag{videoID: c.videoID, generation: c.generation}
}

func (c *Controller) matchesLocked(tag requestTag) bool {
	return tag.generation == c.generation && tag.videoID == c.videoID
}

// trackLocked derives a request context that is cancelled when the session resets
func (c *Controller) trackLocked(parent context.Context) (context.Context, func()) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	id := c.nextReq
	c.nextReq++
	c.inflight[id] = cancel

	return ctx, func() {
		cancel()
		c.mu.Lock()
		delete(c.inflight, id)
		c.mu.Unlock()
	}
}

func (c *Controller) stateLocked() State {
	return State{
		VideoID:         c.videoID,
		VideoTitle:      c.videoTitle,
		Status:          c.status,
		ContextDepth:    c.contextDepth,
		QuestionPending: c.questionPending,
		Messages:        c.log.Snapshot(),
	}
}

func (c *Controller) emitLocked() {
	if c.renderer != nil {
		c.renderer.Render(c.stateLocked())
	}
}

func analysisFailedText(err error) string {
	if detail := describeServiceError(err); detail != "" {
		return fmt.Sprintf("❌ Failed to analyze video: %s. %s", detail, captionsHint)
	}
	return "❌ Failed to analyze video. " + captionsHint
}

func questionFailedText(err error) string {
	var serr *ServiceError
	if errors.As(err, &serr) && serr.Transport() {
		return backendDownText
	}
	detail := describeServiceError(err)
	if detail == "" {
		detail = "Unknown error"
	}
	return "Sorry, I couldn't process your question: " + detail
}
