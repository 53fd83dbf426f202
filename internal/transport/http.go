package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pixstore/internal/handler"
)

type Handlers struct {
	Webhook      *handler.WebhookHandler
	Stream       *handler.StreamHandler
	Media        *handler.MediaHandler
	Checkout     *handler.CheckoutHandler
	VideoSession *handler.VideoSessionHandler
	Product      *handler.ProductHandler
}

func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhooks/syncpay", h.Webhook.Receive)
		r.Get("/webhooks/syncpay", h.Webhook.Liveness)

		r.Get("/products/{id}", h.Product.Get)

		r.Post("/checkout", h.Checkout.Checkout)
		r.Get("/orders/{id}/status", h.Checkout.Status)

		r.Post("/video-session", h.VideoSession.Start)
		r.Get("/video/stream/*", h.Stream.StreamVideo)
		r.Get("/media/*", h.Stream.StreamMedia)

		r.Post("/sign-url", h.Media.SignURL)
		r.Post("/upload-params", h.Media.UploadParams)
	})

	return r
}
