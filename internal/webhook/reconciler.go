package webhook

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"pixstore/internal/order"
	"pixstore/internal/product"
)

// Mailer is the delivery side effect fired on the first PAID transition.
type Mailer interface {
	SendPurchaseConfirmation(ctx context.Context, to, customerName, productName, accessLink string) error
}

// Reconciler drives the order state machine from inbound gateway callbacks.
// PAID is terminal: no later callback moves an order out of it, and the
// confirmation email fires at most once per order.
type Reconciler struct {
	orders     order.Repository
	products   product.Repository
	mailer     Mailer
	classifier Classifier
	appBaseURL string
}

func NewReconciler(orders order.Repository, products product.Repository, mailer Mailer, classifier Classifier, appBaseURL string) *Reconciler {
	return &Reconciler{
		orders:     orders,
		products:   products,
		mailer:     mailer,
		classifier: classifier,
		appBaseURL: appBaseURL,
	}
}

// Process handles one callback body. A nil return means the webhook must be
// acknowledged with 200, including unknown transactions and unrecognized
// statuses, so the provider never retries indefinitely for an order the
// store doesn't recognize. An error means an internal failure worth a 500.
func (r *Reconciler) Process(ctx context.Context, raw []byte) error {
	n, err := ParseNotification(raw)
	if err != nil {
		return err
	}

	if n.TransactionID == "" {
		log.Warn().Msg("webhook: callback carried no recognizable transaction id")
		return nil
	}

	outcome := r.classifier.Classify(n.RawStatus)
	log.Info().
		Str("transaction_id", n.TransactionID).
		Str("raw_status", n.RawStatus).
		Str("outcome", string(outcome)).
		Msg("webhook: callback received")

	switch outcome {
	case OutcomePaid:
		return r.handlePaid(ctx, n.TransactionID)
	case OutcomeFailed:
		return r.handleFailed(ctx, n.TransactionID)
	default:
		// Unrecognized status: no transition.
		return nil
	}
}

func (r *Reconciler) handlePaid(ctx context.Context, txID string) error {
	o, transitioned, err := r.orders.MarkPaid(ctx, txID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			log.Warn().Str("transaction_id", txID).Msg("webhook: paid callback for unknown transaction, acknowledging")
			return nil
		}
		return fmt.Errorf("webhook: failed to mark order paid: %w", err)
	}

	if !transitioned {
		log.Info().Str("transaction_id", txID).Msg("webhook: transaction already processed")
		return nil
	}

	if o.CustomerEmail == "" {
		return nil
	}

	accessLink := r.accessLink(ctx, o)
	if err := r.mailer.SendPurchaseConfirmation(ctx, o.CustomerEmail, o.CustomerName, o.ProductName, accessLink); err != nil {
		// The transition already happened; failing the webhook now would
		// only trigger provider retries that can never resend the email.
		log.Error().Err(err).Str("order_id", o.ID).Msg("webhook: failed to send confirmation email")
	}

	return nil
}

func (r *Reconciler) handleFailed(ctx context.Context, txID string) error {
	if _, err := r.orders.MarkFailed(ctx, txID); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			log.Warn().Str("transaction_id", txID).Msg("webhook: failed callback for unknown transaction, acknowledging")
			return nil
		}
		return fmt.Errorf("webhook: failed to mark order failed: %w", err)
	}
	return nil
}

// accessLink picks the delivery artifact: the product page for videos, the
// invite link for groups.
func (r *Reconciler) accessLink(ctx context.Context, o *order.Order) string {
	p, err := r.products.GetByID(ctx, o.ProductID)
	if err != nil {
		log.Warn().Err(err).Str("product_id", o.ProductID).Msg("webhook: could not load product for access link")
		return "#"
	}

	if p.Type == product.TypeVideo {
		return r.appBaseURL + "/product/" + p.ID
	}
	if p.GroupLink != "" {
		return p.GroupLink
	}
	return "#"
}
