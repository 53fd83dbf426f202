package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"pixstore/internal/access"
	"pixstore/internal/product"
	"pixstore/internal/stream"
)

// VideoSessionHandler resolves the viewer's entitlement for a product and,
// when playback is allowed, hands back the same-origin proxy URL. The raw
// signed provider URL never reaches the browser for video content.
type VideoSessionHandler struct {
	products product.Repository
	resolver *access.Resolver
}

func NewVideoSessionHandler(products product.Repository, resolver *access.Resolver) *VideoSessionHandler {
	return &VideoSessionHandler{products: products, resolver: resolver}
}

func (h *VideoSessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respondWithError(w, http.StatusBadRequest, "productId required")
		return
	}

	p, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "Vídeo não encontrado.")
			return
		}
		log.Error().Err(err).Str("product_id", req.ProductID).Msg("handler: failed to load product for video session")
		respondWithError(w, http.StatusInternalServerError, "Erro ao iniciar sessão de vídeo")
		return
	}

	viewer := viewerFromRequest(r)
	ent, err := h.resolver.Resolve(r.Context(), viewer, p)
	if err != nil {
		log.Error().Err(err).Str("product_id", p.ID).Msg("handler: entitlement resolution failed")
		respondWithError(w, http.StatusInternalServerError, "Erro ao iniciar sessão de vídeo")
		return
	}

	if ent.Level == access.LevelDenied {
		// A denied owner-candidate sees an explicit ownership message,
		// distinct from "not logged in".
		if viewer.UserID != "" {
			respondWithError(w, http.StatusForbidden, "Você não possui este vídeo.")
			return
		}
		respondWithError(w, http.StatusUnauthorized, "Sessão expirada ou não iniciada.")
		return
	}

	if p.ContentURL == "" {
		respondWithError(w, http.StatusNotFound, "Vídeo não encontrado.")
		return
	}

	key := stream.NormalizeObjectKey(p.ContentURL)

	resp := map[string]interface{}{
		"success": true,
		"url":     "/api/video/stream/" + key,
	}
	if ent.Level == access.LevelPreview {
		// Preview enforcement is client-observed: the playback surface
		// stops at the boundary and shows the paywall.
		resp["preview"] = true
		resp["previewSeconds"] = ent.PreviewSeconds
	}

	respondWithJSON(w, http.StatusOK, resp)
}
