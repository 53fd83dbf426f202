package stream

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"pixstore/internal/storage"
)

// TokenSource is the slice of the object-store gateway the proxy needs.
type TokenSource interface {
	GetDownloadToken(ctx context.Context, keyOrPrefix string, validity time.Duration) (*storage.DownloadAuthorization, error)
}

// Proxy is the only code path through which private object bytes reach a
// browser. It forwards Range requests upstream and relays the headers video
// players need for seeking; the signed provider URL never leaves the server.
type Proxy struct {
	tokens TokenSource
	client *http.Client
}

func NewProxy(tokens TokenSource, client *http.Client) *Proxy {
	if client == nil {
		client = http.DefaultClient
	}
	return &Proxy{tokens: tokens, client: client}
}

// ticketValidity is deliberately short: each request mints its own token
// and uses it immediately.
const ticketValidity = time.Hour

// ServeObject streams one object to the client, relaying the upstream
// status code (200 or 206) verbatim.
func (p *Proxy) ServeObject(w http.ResponseWriter, r *http.Request, key string) {
	auth, err := p.tokens.GetDownloadToken(r.Context(), key, ticketValidity)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("stream: failed to obtain download token")
		http.Error(w, "playback unavailable", http.StatusInternalServerError)
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, auth.SignedURL, nil)
	if err != nil {
		http.Error(w, "playback unavailable", http.StatusInternalServerError)
		return
	}
	if rng := r.Header.Get("Range"); rng != "" {
		req.Header.Set("Range", rng)
	}

	res, err := p.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("stream: upstream fetch failed")
		http.Error(w, "playback unavailable", http.StatusBadGateway)
		return
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusPartialContent {
		// Relay the upstream status with a generic body; error payloads
		// from the provider may reference the signed URL.
		log.Warn().Int("status", res.StatusCode).Str("key", key).Msg("stream: upstream returned non-2xx")
		http.Error(w, "video not found or access denied", res.StatusCode)
		return
	}

	contentType := res.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Accept-Ranges", "bytes")
	if v := res.Header.Get("Content-Length"); v != "" {
		w.Header().Set("Content-Length", v)
	}
	if v := res.Header.Get("Content-Range"); v != "" {
		w.Header().Set("Content-Range", v)
	}

	w.WriteHeader(res.StatusCode)
	if _, err := io.Copy(w, res.Body); err != nil {
		// Common when the player aborts a seek; not an error worth paging on.
		log.Debug().Err(err).Str("key", key).Msg("stream: client closed connection mid-stream")
	}
}
