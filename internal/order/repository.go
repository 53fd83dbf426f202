package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

var ErrOrderNotFound = errors.New("order not found")

type Repository interface {
	CreatePending(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByTransactionID(ctx context.Context, txID string) (*Order, error)
	// AttachTransaction overwrites the placeholder transaction id with the
	// gateway's real one and stores the payment display artifacts.
	AttachTransaction(ctx context.Context, orderID, txID, pixCode, pixQrCodeURL string) error
	// MarkPaid transitions PENDING/FAILED -> PAID. When the order is
	// already PAID it is a no-op returning the existing row; transitioned
	// reports whether this call performed the transition, so exactly one
	// caller sees true under concurrent duplicate delivery.
	MarkPaid(ctx context.Context, txID string) (o *Order, transitioned bool, err error)
	// MarkFailed transitions to FAILED. PAID never reverts.
	MarkFailed(ctx context.Context, txID string) (*Order, error)
	HasPaidOrderForUser(ctx context.Context, userID, productID string) (bool, error)
	HasPaidOrderForEmail(ctx context.Context, email, productID string) (bool, error)
}

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const orderColumns = `id, transaction_id, status, amount_cents, product_id, product_name, user_id, customer_email, customer_name, pix_code, pix_qr_code_url, created_at, updated_at`

func (r *PostgresRepository) CreatePending(ctx context.Context, o *Order) error {
	if o.ID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return fmt.Errorf("repository: failed to generate order id: %w", err)
		}
		o.ID = id.String()
	}

	now := time.Now().UTC()
	o.Status = StatusPending
	o.CreatedAt = now
	o.UpdatedAt = now

	query := `INSERT INTO orders (` + orderColumns + `)
              VALUES (:id, :transaction_id, :status, :amount_cents, :product_id, :product_name, :user_id, :customer_email, :customer_name, :pix_code, :pix_qr_code_url, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, o); err != nil {
		return fmt.Errorf("repository: failed to insert pending order: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	if err := r.db.GetContext(ctx, &o, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by id %s: %w", id, err)
	}
	return &o, nil
}

func (r *PostgresRepository) GetByTransactionID(ctx context.Context, txID string) (*Order, error) {
	var o Order
	query := `SELECT ` + orderColumns + ` FROM orders WHERE transaction_id = $1`
	if err := r.db.GetContext(ctx, &o, query, txID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order by transaction id: %w", err)
	}
	return &o, nil
}

func (r *PostgresRepository) AttachTransaction(ctx context.Context, orderID, txID, pixCode, pixQrCodeURL string) error {
	query := `UPDATE orders
              SET transaction_id = $1, pix_code = $2, pix_qr_code_url = $3, updated_at = $4
              WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, txID, pixCode, pixQrCodeURL, time.Now().UTC(), orderID)
	if err != nil {
		return fmt.Errorf("repository: failed to attach transaction to order %s: %w", orderID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("repository: failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkPaid(ctx context.Context, txID string) (*Order, bool, error) {
	// Single conditional update: under concurrent duplicate webhook
	// delivery exactly one statement matches the non-PAID row.
	var o Order
	query := `UPDATE orders SET status = $1, updated_at = $2
              WHERE transaction_id = $3 AND status <> $1
              RETURNING ` + orderColumns
	err := r.db.GetContext(ctx, &o, query, StatusPaid, time.Now().UTC(), txID)
	if err == nil {
		log.Info().Str("transaction_id", txID).Str("order_id", o.ID).Msg("repository: order marked paid")
		return &o, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("repository: failed to mark order paid: %w", err)
	}

	// Nothing matched: either already PAID or unknown transaction.
	existing, err := r.GetByTransactionID(ctx, txID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *PostgresRepository) MarkFailed(ctx context.Context, txID string) (*Order, error) {
	var o Order
	query := `UPDATE orders SET status = $1, updated_at = $2
              WHERE transaction_id = $3 AND status <> $4
              RETURNING ` + orderColumns
	err := r.db.GetContext(ctx, &o, query, StatusFailed, time.Now().UTC(), txID, StatusPaid)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("repository: failed to mark order failed: %w", err)
	}

	// Already PAID (never reverts) or unknown transaction.
	return r.GetByTransactionID(ctx, txID)
}

func (r *PostgresRepository) HasPaidOrderForUser(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM orders WHERE user_id = $1 AND product_id = $2 AND status = $3)`
	if err := r.db.GetContext(ctx, &exists, query, userID, productID, StatusPaid); err != nil {
		return false, fmt.Errorf("repository: failed to check paid order for user: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) HasPaidOrderForEmail(ctx context.Context, email, productID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM orders WHERE customer_email = $1 AND product_id = $2 AND status = $3)`
	if err := r.db.GetContext(ctx, &exists, query, email, productID, StatusPaid); err != nil {
		return false, fmt.Errorf("repository: failed to check paid order for email: %w", err)
	}
	return exists, nil
}
