package handler

import (
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"pixstore/internal/webhook"
)

// WebhookHandler ingests payment-gateway callbacks. Structurally valid
// input is always acknowledged with 200, even when no order matches: the
// gateway's retry behavior cannot be controlled, and retry storms serve
// no one.
type WebhookHandler struct {
	reconciler *webhook.Reconciler
}

func NewWebhookHandler(reconciler *webhook.Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if err := h.reconciler.Process(r.Context(), body); err != nil {
		log.Error().Err(err).Msg("handler: webhook processing failed")
		respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"received": true})
}

// Liveness answers the gateway's health probe on the same path.
func (h *WebhookHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "Webhook Active",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
