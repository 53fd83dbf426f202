package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pixstore/internal/product"
	"pixstore/internal/stream"
)

// ProductHandler serves the public product view the storefront renders.
// Private fields (the object key, the group invite link) never appear in
// the response; images are rewritten onto the same-origin media proxy.
type ProductHandler struct {
	products product.Repository
}

func NewProductHandler(products product.Repository) *ProductHandler {
	return &ProductHandler{products: products}
}

type productView struct {
	ID             string              `json:"id"`
	Type           product.ProductType `json:"type"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	PriceCents     int64               `json:"priceCents"`
	ImageURL       string              `json:"imageUrl"`
	PreviewSeconds int                 `json:"previewSeconds"`
	Plans          []planView          `json:"plans"`
}

type planView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			respondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		log.Error().Err(err).Str("product_id", id).Msg("handler: failed to load product")
		respondWithError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	view := productView{
		ID:             p.ID,
		Type:           p.Type,
		Name:           p.Name,
		Description:    p.Description,
		PriceCents:     p.PriceCents,
		ImageURL:       stream.MediaProxyPath(p.ImageURL),
		PreviewSeconds: p.PreviewDurationSeconds,
		Plans:          make([]planView, 0, len(p.Plans)),
	}
	for _, plan := range p.Plans {
		view.Plans = append(view.Plans, planView{ID: plan.ID, Name: plan.Name, PriceCents: plan.PriceCents})
	}

	respondWithJSON(w, http.StatusOK, view)
}
