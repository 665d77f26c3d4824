package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/video-chat/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoIDFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"https://www.youtube.com/watch?feature=share&v=abc#comments", "abc"},
		{"https://m.youtube.com/watch?v=xyz", "xyz"},
		{"https://www.youtube.com/watch?list=PL123", ""},
		{"https://www.youtube.com/", ""},
		{"https://www.youtube.com/results?search_query=go&v=abc", ""},
		{"https://example.com/watch?v=abc", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, VideoIDFromURL(tt.url))
		})
	}
}

func TestExtractVideoID(t *testing.T) {
	assert.Equal(t, "abc", ExtractVideoID("https://example.com/page?v=abc"))
	assert.Equal(t, "", ExtractVideoID("https://example.com/page?video=abc"))
	assert.Equal(t, "", ExtractVideoID("https://example.com/page?v="))
}

func TestResolveVideoID(t *testing.T) {
	id, err := ResolveVideoID("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	id, err = ResolveVideoID(" https://www.youtube.com/watch?v=dQw4w9WgXcQ ")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ", id)

	_, err = ResolveVideoID("https://example.com")
	assert.Error(t, err)
}

func TestWatchURLAndFallbackTitle(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", WatchURL("abc"))
	assert.Equal(t, "abc", VideoIDFromURL(WatchURL("abc")))
	assert.Equal(t, "Video: abc", FallbackTitle("abc"))
}

func TestFileContext(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	ctx := context.Background()

	missing := FileContext{Path: filepath.Join(dir, "none")}
	url, err := missing.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Empty(t, url)

	path := testutil.CreateCurrentURLFixture(t, dir, "https://www.youtube.com/watch?v=abc")
	url, err = FileContext{Path: path}.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", url)

	// A directory cannot be read as a file
	_, err = FileContext{Path: dir}.CurrentURL(ctx)
	assert.Error(t, err)
}

func TestStaticContext(t *testing.T) {
	url, err := StaticContext("https://www.youtube.com/watch?v=abc").CurrentURL(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", url)
}

func TestOEmbedTitleSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("url") {
		case WatchURL("good"):
			_, _ = w.Write([]byte(`{"title":"  Learning Go  ","author_name":"gopher"}`))
		case WatchURL("blank"):
			_, _ = w.Write([]byte(`{"title":""}`))
		default:
			http.Error(w, "Not Found", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	titles := NewOEmbedTitleSource(srv.URL, time.Second)
	ctx := context.Background()

	title, err := titles.Title(ctx, "good")
	require.NoError(t, err)
	assert.Equal(t, "Learning Go", title)

	_, err = titles.Title(ctx, "blank")
	assert.ErrorIs(t, err, errNoVideoInfo)

	_, err = titles.Title(ctx, "private")
	assert.ErrorContains(t, err, "HTTP 404")
}
