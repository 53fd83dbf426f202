package stream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixstore/internal/storage"
	"pixstore/internal/stream"
)

type fakeTokenSource struct {
	signedURL string
	err       error
	lastKey   string
}

func (f *fakeTokenSource) GetDownloadToken(ctx context.Context, keyOrPrefix string, validity time.Duration) (*storage.DownloadAuthorization, error) {
	f.lastKey = keyOrPrefix
	if f.err != nil {
		return nil, f.err
	}
	return &storage.DownloadAuthorization{
		SignedURL: f.signedURL,
		Token:     "dl_tok_secret",
		ExpiresAt: time.Now().Add(validity),
	}, nil
}

func TestProxy_RangeRequestRelayed(t *testing.T) {
	payload := strings.Repeat("x", 5000)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "bytes=1000-1999", r.Header.Get("Range"))

		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Range", "bytes 1000-1999/5000")
		w.Header().Set("Content-Length", "1000")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte(payload[1000:2000]))
	}))
	t.Cleanup(upstream.Close)

	tokens := &fakeTokenSource{signedURL: upstream.URL + "/file/bucket/videos/123.mp4?Authorization=dl_tok_secret"}
	proxy := stream.NewProxy(tokens, upstream.Client())

	req := httptest.NewRequest(http.MethodGet, "/api/video/stream/videos/123.mp4", nil)
	req.Header.Set("Range", "bytes=1000-1999")
	w := httptest.NewRecorder()

	proxy.ServeObject(w, req, "videos/123.mp4")

	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "video/mp4", w.Header().Get("Content-Type"))
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
	assert.Equal(t, "bytes 1000-1999/5000", w.Header().Get("Content-Range"))
	assert.Equal(t, "1000", w.Header().Get("Content-Length"))
	assert.Equal(t, payload[1000:2000], w.Body.String())
	assert.Equal(t, "videos/123.mp4", tokens.lastKey)
}

func TestProxy_FullFetchWithoutRange(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Range"))
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("entire file"))
	}))
	t.Cleanup(upstream.Close)

	tokens := &fakeTokenSource{signedURL: upstream.URL + "/file/bucket/videos/a.mp4?Authorization=t"}
	proxy := stream.NewProxy(tokens, upstream.Client())

	w := httptest.NewRecorder()
	proxy.ServeObject(w, httptest.NewRequest(http.MethodGet, "/x", nil), "videos/a.mp4")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "entire file", w.Body.String())
	assert.Equal(t, "bytes", w.Header().Get("Accept-Ranges"))
}

func TestProxy_UpstreamErrorNeverLeaksToken(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Provider error bodies can echo the request URL, token included.
		http.Error(w, "bad auth token: dl_tok_secret", http.StatusNotFound)
	}))
	t.Cleanup(upstream.Close)

	tokens := &fakeTokenSource{signedURL: upstream.URL + "/file/bucket/videos/a.mp4?Authorization=dl_tok_secret"}
	proxy := stream.NewProxy(tokens, upstream.Client())

	w := httptest.NewRecorder()
	proxy.ServeObject(w, httptest.NewRequest(http.MethodGet, "/x", nil), "videos/a.mp4")

	// Upstream status is relayed, the body is generic.
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "dl_tok_secret")
	assert.Contains(t, w.Body.String(), "video not found or access denied")
}

func TestProxy_TokenIssuanceFailure(t *testing.T) {
	tokens := &fakeTokenSource{err: storage.ErrTokenIssuance}
	proxy := stream.NewProxy(tokens, nil)

	w := httptest.NewRecorder()
	proxy.ServeObject(w, httptest.NewRequest(http.MethodGet, "/x", nil), "videos/a.mp4")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "dl_tok_secret")
}
