package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"pixstore/internal/order"
	"pixstore/internal/product"
)

type CheckoutHandler struct {
	svc order.Service
}

func NewCheckoutHandler(svc order.Service) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Checkout creates a PENDING order and a PIX charge. Anonymous buyers get
// the legacy customer email cookie so a later page view can find their
// purchase without an account.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
		PlanID    string `json:"planId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		respondWithError(w, http.StatusBadRequest, "productId required")
		return
	}

	input := order.CheckoutInput{
		ProductID: req.ProductID,
		PlanID:    req.PlanID,
		Buyer: order.Buyer{
			UserID: cookieValue(r, cookieSessionUser),
			Name:   cookieValue(r, cookieSessionName),
			Email:  cookieValue(r, cookieSessionEmail),
		},
	}

	result, err := h.svc.Checkout(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrProductNotFound):
			respondWithError(w, http.StatusNotFound, "Produto não encontrado")
		case errors.Is(err, order.ErrPlanNotFound):
			respondWithError(w, http.StatusBadRequest, "Plano não encontrado")
		default:
			log.Error().Err(err).Str("product_id", req.ProductID).Msg("handler: checkout failed")
			respondWithError(w, http.StatusInternalServerError, "Erro ao criar checkout")
		}
		return
	}

	if result.Anonymous {
		setCustomerEmailCookie(w, result.CustomerEmail)
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"orderId":       result.OrderID,
		"pixCode":       result.PixCode,
		"pixQrCode":     result.PixQrCode,
		"transactionId": result.TransactionID,
	})
}

// Status backs the client's fixed-interval "is this order paid yet" poll.
func (h *CheckoutHandler) Status(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "id is required")
		return
	}

	status, err := h.svc.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Error().Err(err).Str("order_id", id).Msg("handler: failed to get order status")
		respondWithError(w, http.StatusInternalServerError, "failed to get order status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"status": status.String()})
}
