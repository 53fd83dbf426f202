package order

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusFailed  Status = "FAILED"
)

func (s Status) String() string {
	return string(s)
}

// Order is one purchase intent. TransactionID starts as a locally-generated
// placeholder and is overwritten once the gateway issues its real id; it is
// the sole idempotency key for webhook processing. Amount and ProductName
// are snapshotted at creation and never re-derived from the product.
type Order struct {
	ID            string `json:"id" db:"id"`
	TransactionID string `json:"transaction_id" db:"transaction_id"`
	Status        Status `json:"status" db:"status"`
	AmountCents   int64  `json:"amount_cents" db:"amount_cents"`
	ProductID     string `json:"product_id" db:"product_id"`
	ProductName   string `json:"product_name" db:"product_name"`
	// UserID is null for anonymous buyers; those are later matched by the
	// customer email cookie instead.
	UserID        sql.NullString `json:"user_id" db:"user_id"`
	CustomerEmail string         `json:"customer_email" db:"customer_email"`
	CustomerName  string         `json:"customer_name" db:"customer_name"`
	PixCode       string         `json:"pix_code" db:"pix_code"`
	PixQrCodeURL  string         `json:"pix_qr_code_url" db:"pix_qr_code_url"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}
