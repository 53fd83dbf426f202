package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"pixstore/internal/access"
	"pixstore/internal/config"
	"pixstore/internal/db"
	"pixstore/internal/handler"
	"pixstore/internal/mailer"
	"pixstore/internal/order"
	"pixstore/internal/payment"
	"pixstore/internal/product"
	"pixstore/internal/storage"
	"pixstore/internal/stream"
	"pixstore/internal/transport"
	"pixstore/internal/webhook"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "pixstore").Logger()

	log.Info().Msg("pixstore starting...")

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	if err := db.ApplyMigrations(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	dbConn, err := db.New(cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()

	// Outbound provider calls carry a bounded timeout so a slow checkout
	// or stream request cannot hang a handler slot indefinitely.
	providerClient := &http.Client{Timeout: 30 * time.Second}
	// The stream client copies large bodies; only the dial/headers phase
	// should be bounded, so no overall timeout here.
	streamClient := &http.Client{}

	gateway := storage.NewGateway(cfg.Storage, providerClient)
	pix := payment.NewClient(cfg.Payment, providerClient)
	smtp := mailer.NewSMTPMailer(cfg.SMTP)

	orderRepo := order.NewPostgresRepository(dbConn)
	productRepo := product.NewPostgresRepository(dbConn)

	checkoutSvc := order.NewService(orderRepo, productRepo, pix, cfg.App.BaseURL)
	reconciler := webhook.NewReconciler(orderRepo, productRepo, smtp, webhook.DefaultClassifier(), cfg.App.BaseURL)
	resolver := access.NewResolver(orderRepo)
	proxy := stream.NewProxy(gateway, streamClient)

	router := transport.NewRouter(transport.Handlers{
		Webhook:      handler.NewWebhookHandler(reconciler),
		Stream:       handler.NewStreamHandler(proxy),
		Media:        handler.NewMediaHandler(gateway),
		Checkout:     handler.NewCheckoutHandler(checkoutSvc),
		VideoSession: handler.NewVideoSessionHandler(productRepo, resolver),
		Product:      handler.NewProductHandler(productRepo),
	})

	srv := &http.Server{
		Addr:        ":" + cfg.App.Port,
		Handler:     router,
		ReadTimeout: 5 * time.Second,
		// No WriteTimeout: streamed video responses outlive any fixed
		// write deadline.
		IdleTimeout: 120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
