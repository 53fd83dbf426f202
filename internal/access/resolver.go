package access

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"pixstore/internal/order"
	"pixstore/internal/product"
)

type Level string

const (
	LevelFull    Level = "FULL"
	LevelPreview Level = "PREVIEW"
	LevelDenied  Level = "DENIED"
)

// Entitlement is the playback decision for one (viewer, product) pair.
// PreviewSeconds is set only for LevelPreview.
type Entitlement struct {
	Level          Level
	PreviewSeconds int
}

// Viewer carries the three identity signals a request can present. UserID
// and CookieEmail are deliberately independent: a session's identity and a
// legacy cookie's email are not guaranteed to coincide for the same person.
type Viewer struct {
	// Operator is the trusted operator session flag; it grants full
	// playback regardless of purchase history.
	Operator bool
	// UserID is the verified account identity, empty without a session.
	UserID string
	// CookieEmail is the long-lived anonymous-purchaser cookie, set at
	// checkout time for buyers without an account.
	CookieEmail string
}

type Resolver struct {
	orders order.Repository
}

func NewResolver(orders order.Repository) *Resolver {
	return &Resolver{orders: orders}
}

// Resolve walks a strict priority chain. First match wins; rights are not
// unioned:
//
//  1. operator override         -> FULL
//  2. (userId, productId) PAID  -> FULL
//  3. (email, productId) PAID   -> FULL
//  4. previewDuration > 0       -> PREVIEW(n)
//  5. otherwise                 -> DENIED
func (r *Resolver) Resolve(ctx context.Context, viewer Viewer, p *product.Product) (Entitlement, error) {
	if viewer.Operator {
		return Entitlement{Level: LevelFull}, nil
	}

	if viewer.UserID != "" {
		paid, err := r.orders.HasPaidOrderForUser(ctx, viewer.UserID, p.ID)
		if err != nil {
			return Entitlement{}, fmt.Errorf("access: failed to check user purchase: %w", err)
		}
		if paid {
			return Entitlement{Level: LevelFull}, nil
		}
	}

	if viewer.CookieEmail != "" {
		paid, err := r.orders.HasPaidOrderForEmail(ctx, viewer.CookieEmail, p.ID)
		if err != nil {
			return Entitlement{}, fmt.Errorf("access: failed to check cookie purchase: %w", err)
		}
		if paid {
			return Entitlement{Level: LevelFull}, nil
		}
	}

	if p.PreviewDurationSeconds > 0 {
		log.Debug().Str("product_id", p.ID).Int("seconds", p.PreviewDurationSeconds).Msg("access: granting preview")
		return Entitlement{Level: LevelPreview, PreviewSeconds: p.PreviewDurationSeconds}, nil
	}

	return Entitlement{Level: LevelDenied}, nil
}
