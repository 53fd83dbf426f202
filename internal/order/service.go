package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"pixstore/internal/payment"
	"pixstore/internal/product"
)

var ErrPlanNotFound = errors.New("plan not found for product")

// PixGateway is the slice of the payment client the checkout needs.
type PixGateway interface {
	GetAuthToken(ctx context.Context) (string, error)
	CreatePixCharge(ctx context.Context, token string, req payment.ChargeRequest) (*payment.Charge, error)
}

type Buyer struct {
	// UserID is empty for anonymous buyers.
	UserID string
	Name   string
	Email  string
}

type CheckoutInput struct {
	ProductID string
	// PlanID optionally selects a purchase tier whose price and name
	// override the product's.
	PlanID string
	Buyer  Buyer
}

type CheckoutResult struct {
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
	PixCode       string `json:"pixCode"`
	PixQrCode     string `json:"pixQrCode"`
	// CustomerEmail echoes the snapshotted buyer email so the transport
	// layer can persist it in the legacy cookie for anonymous buyers.
	CustomerEmail string `json:"-"`
	Anonymous     bool   `json:"-"`
}

type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	Status(ctx context.Context, orderID string) (Status, error)
}

type service struct {
	orders     Repository
	products   product.Repository
	gateway    PixGateway
	webhookURL string
}

func NewService(orders Repository, products product.Repository, gateway PixGateway, appBaseURL string) Service {
	return &service{
		orders:     orders,
		products:   products,
		gateway:    gateway,
		webhookURL: appBaseURL + "/api/webhooks/syncpay",
	}
}

// Checkout creates a PENDING order with a placeholder transaction id, asks
// the gateway for a PIX charge, and overwrites the placeholder with the
// gateway's real id. Price and product name are snapshotted here; later
// catalog edits never touch historical orders.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	p, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("service: checkout failed to load product: %w", err)
	}

	price := p.PriceCents
	productName := p.Name
	if input.PlanID != "" {
		plan := findPlan(p.Plans, input.PlanID)
		if plan == nil {
			log.Warn().Str("product_id", p.ID).Str("plan_id", input.PlanID).Msg("service: checkout requested unknown plan")
			return nil, ErrPlanNotFound
		}
		price = plan.PriceCents
		productName = fmt.Sprintf("%s - %s", p.Name, plan.Name)
	}

	buyer := input.Buyer
	anonymous := buyer.UserID == ""
	if anonymous {
		if buyer.Name == "" {
			buyer.Name = "Cliente Anônimo"
		}
		if buyer.Email == "" {
			buyer.Email = fmt.Sprintf("anon_%d@temp.com", time.Now().UnixMilli())
		}
	}

	placeholder, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("service: failed to generate placeholder transaction id: %w", err)
	}

	o := &Order{
		TransactionID: "temp_" + placeholder.String(),
		AmountCents:   price,
		ProductID:     p.ID,
		ProductName:   productName,
		CustomerName:  buyer.Name,
		CustomerEmail: buyer.Email,
	}
	if !anonymous {
		o.UserID = sql.NullString{String: buyer.UserID, Valid: true}
	}

	if err := s.orders.CreatePending(ctx, o); err != nil {
		return nil, fmt.Errorf("service: failed to create pending order: %w", err)
	}

	token, err := s.gateway.GetAuthToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: checkout payment auth failed: %w", err)
	}

	charge, err := s.gateway.CreatePixCharge(ctx, token, payment.ChargeRequest{
		AmountCents: price,
		Description: productName,
		WebhookURL:  s.webhookURL,
		Customer: payment.Customer{
			Name:  buyer.Name,
			Email: buyer.Email,
			CPF:   "00000000000",
			Phone: "11999999999",
		},
	})
	if err != nil {
		// The order stays PENDING under its placeholder id; the buyer can
		// retry from the UI without a duplicate charge.
		return nil, fmt.Errorf("service: failed to create pix charge: %w", err)
	}

	if err := s.orders.AttachTransaction(ctx, o.ID, charge.TransactionID, charge.PixCode, charge.QRCodeURL); err != nil {
		return nil, fmt.Errorf("service: failed to attach gateway transaction: %w", err)
	}

	log.Info().
		Str("order_id", o.ID).
		Str("transaction_id", charge.TransactionID).
		Int64("amount_cents", price).
		Msg("service: checkout created pix charge")

	return &CheckoutResult{
		OrderID:       o.ID,
		TransactionID: charge.TransactionID,
		PixCode:       charge.PixCode,
		PixQrCode:     charge.QRCodeURL,
		CustomerEmail: buyer.Email,
		Anonymous:     anonymous,
	}, nil
}

// Status backs the buyer-facing "is it paid yet" poll.
func (s *service) Status(ctx context.Context, orderID string) (Status, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return "", err
	}
	return o.Status, nil
}

func findPlan(plans []product.Plan, id string) *product.Plan {
	for i := range plans {
		if plans[i].ID == id {
			return &plans[i]
		}
	}
	return nil
}
