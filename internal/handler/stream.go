package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pixstore/internal/stream"
)

// StreamHandler fronts the streaming proxy for both video delivery and the
// looser media path used by imagery. Keys arrive path-embedded and may be
// historical full URLs; both are normalized to bare keys first.
type StreamHandler struct {
	proxy *stream.Proxy
}

func NewStreamHandler(proxy *stream.Proxy) *StreamHandler {
	return &StreamHandler{proxy: proxy}
}

func (h *StreamHandler) StreamVideo(w http.ResponseWriter, r *http.Request) {
	key := stream.NormalizeObjectKey(chi.URLParam(r, "*"))
	if key == "" {
		http.Error(w, "video not found", http.StatusNotFound)
		return
	}
	h.proxy.ServeObject(w, r, key)
}

// StreamMedia serves non-video private assets (category imagery and the
// like). Same proxy core, no paywall semantics.
func (h *StreamHandler) StreamMedia(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "*")
	if raw == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	h.proxy.ServeObject(w, r, stream.StripProviderURL(raw))
}
