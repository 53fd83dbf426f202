package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"pixstore/internal/storage"
	"pixstore/internal/stream"
)

// ObjectStore is the slice of the gateway the media endpoints need.
type ObjectStore interface {
	GetDownloadToken(ctx context.Context, keyOrPrefix string, validity time.Duration) (*storage.DownloadAuthorization, error)
	GetUploadCredentials(ctx context.Context) (*storage.UploadCredentials, error)
}

// MediaHandler issues signed URLs for non-video private assets and fresh
// upload tickets for the operator UI.
type MediaHandler struct {
	store ObjectStore
}

func NewMediaHandler(store ObjectStore) *MediaHandler {
	return &MediaHandler{store: store}
}

// signURLValidity matches what an <img>/<video> tag needs for one render.
const signURLValidity = time.Hour

// SignURL accepts a bare key or a historical full URL and returns a signed
// download URL. Video content never goes through here; the streaming
// proxy is its only path.
func (h *MediaHandler) SignURL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		respondWithError(w, http.StatusBadRequest, "Path required")
		return
	}

	key := stream.StripProviderURL(req.Path)

	auth, err := h.store.GetDownloadToken(r.Context(), key, signURLValidity)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("handler: failed to sign url")
		respondWithError(w, http.StatusInternalServerError, "failed to sign url")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"signedUrl": auth.SignedURL})
}

// UploadParams returns a fresh single-use upload ticket.
func (h *MediaHandler) UploadParams(w http.ResponseWriter, r *http.Request) {
	creds, err := h.store.GetUploadCredentials(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to get upload credentials")
		respondWithError(w, http.StatusInternalServerError, "failed to get upload credentials")
		return
	}

	respondWithJSON(w, http.StatusOK, creds)
}
