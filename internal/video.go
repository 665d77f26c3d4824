package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"
)

const (
	watchURLMarker = "youtube.com/watch"

	// DefaultOEmbedURL is the public oEmbed endpoint used to look up titles
	DefaultOEmbedURL = "https://www.youtube.com/oembed"
)

var (
	videoIDParam   = regexp.MustCompile(`[?&]v=([^&#]*)`)
	bareVideoID    = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	errNoVideoInfo = errors.New("no title in oEmbed response")
)

// ExtractVideoID returns the v query parameter of a URL, or "" if absent
func ExtractVideoID(rawURL string) string {
	match := videoIDParam.FindStringSubmatch(rawURL)
	if match == nil {
		return ""
	}
	return match[1]
}

// VideoIDFromURL returns the video id of a watch page URL, or "" for any other page
func VideoIDFromURL(rawURL string) string {
	if !strings.Contains(rawURL, watchURLMarker) {
		return ""
	}
	return ExtractVideoID(rawURL)
}

// ResolveVideoID accepts either a watch URL or a bare video id
func ResolveVideoID(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if bareVideoID.MatchString(arg) {
		return arg, nil
	}
	if id := VideoIDFromURL(arg); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("not a video URL or id: %q", arg)
}

// WatchURL builds the canonical watch page URL for a video id
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(videoID)
}

// FallbackTitle is shown when no title could be fetched
func FallbackTitle(videoID string) string {
	return "Video: " + videoID
}

// BrowsingContext reports the URL of the page the user is looking at
type BrowsingContext interface {
	CurrentURL(ctx context.Context) (string, error)
}

// StaticContext always reports the same URL
type StaticContext string

func (s StaticContext) CurrentURL(ctx context.Context) (string, error) {
	return string(s), nil
}

// FileContext reads the active URL from a file that a browser helper rewrites
// on every navigation. A missing or empty file means no page is open.
type FileContext struct {
	Path string
}

func (f FileContext) CurrentURL(ctx context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &StorageError{Path: f.Path, Op: "read", Err: err}
	}
	return strings.TrimSpace(string(data)), nil
}

// TitleSource looks up the display title of a video
type TitleSource interface {
	Title(ctx context.Context, videoID string) (string, error)
}

// OEmbedTitleSource fetches titles from an oEmbed endpoint
type OEmbedTitleSource struct {
	endpoint string
	client   *http.Client
}

// NewOEmbedTitleSource creates a title source for the given oEmbed endpoint
func NewOEmbedTitleSource(endpoint string, timeout time.Duration) *OEmbedTitleSource {
	if endpoint == "" {
		endpoint = DefaultOEmbedURL
	}
	return &OEmbedTitleSource{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *OEmbedTitleSource) Title(ctx context.Context, videoID string) (string, error) {
	q := url.Values{}
	q.Set("url", WatchURL(videoID))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oEmbed lookup failed: HTTP %d", resp.StatusCode)
	}

	var body struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode oEmbed response: %w", err)
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return "", errNoVideoInfo
	}
	return title, nil
}
