package product

import "time"

type ProductType string

const (
	TypeGroup ProductType = "GROUP"
	TypeVideo ProductType = "VIDEO"
)

// Plan is an optional purchase tier; when a checkout names one, its price
// and name override the product's at snapshot time.
type Plan struct {
	ID         string `json:"id" db:"id"`
	ProductID  string `json:"product_id" db:"product_id"`
	Name       string `json:"name" db:"name"`
	PriceCents int64  `json:"price_cents" db:"price_cents"`
}

type Product struct {
	ID          string      `json:"id" db:"id"`
	Type        ProductType `json:"type" db:"type"`
	Name        string      `json:"name" db:"name"`
	Description string      `json:"description" db:"description"`
	PriceCents  int64       `json:"price_cents" db:"price_cents"`
	// ContentURL is the object-store key for VIDEO products. Historical
	// rows may hold a full provider URL instead of a bare key.
	ContentURL string `json:"content_url" db:"content_url"`
	// ImageURL is the cover image, stored either as a bare key or as a
	// full provider URL on historical rows.
	ImageURL string `json:"image_url" db:"image_url"`
	// PreviewDurationSeconds > 0 lets unauthenticated viewers play that
	// many seconds before the paywall locks; 0 disables previews.
	PreviewDurationSeconds int       `json:"preview_duration_seconds" db:"preview_duration_seconds"`
	GroupLink              string    `json:"group_link" db:"group_link"`
	Plans                  []Plan    `json:"plans" db:"-"`
	CreatedAt              time.Time `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}
