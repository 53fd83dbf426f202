package order_test

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixstore/internal/order"
)

// These tests exercise the conditional-update semantics against a real
// database. Set TEST_DATABASE_DSN to run them, e.g.
// "host=localhost port=5432 user=postgres password=123456 dbname=pixstore_test sslmode=disable".
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("TRUNCATE TABLE orders CASCADE")
	require.NoError(t, err)
	_, err = db.Exec("TRUNCATE TABLE products CASCADE")
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO products (id, type, name, price_cents) VALUES ('p1', 'VIDEO', 'Video Premium', 4990)`)
	require.NoError(t, err)

	return db
}

func pendingOrder(t *testing.T, repo *order.PostgresRepository, txID string) *order.Order {
	t.Helper()

	o := &order.Order{
		TransactionID: txID,
		AmountCents:   4990,
		ProductID:     "p1",
		ProductName:   "Video Premium",
		UserID:        sql.NullString{String: "u1", Valid: true},
		CustomerEmail: "maria@example.com",
		CustomerName:  "Maria",
	}
	require.NoError(t, repo.CreatePending(context.Background(), o))
	return o
}

func TestPostgresRepository_MarkPaid_Idempotent(t *testing.T) {
	repo := order.NewPostgresRepository(testDB(t))
	ctx := context.Background()

	pendingOrder(t, repo, "g123")

	paid, transitioned, err := repo.MarkPaid(ctx, "g123")
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.Equal(t, order.StatusPaid, paid.Status)

	// Re-delivery: no-op returning the existing row.
	again, transitioned, err := repo.MarkPaid(ctx, "g123")
	require.NoError(t, err)
	assert.False(t, transitioned)
	assert.Equal(t, order.StatusPaid, again.Status)
	assert.Equal(t, paid.ID, again.ID)
}

func TestPostgresRepository_MarkPaid_Concurrent(t *testing.T) {
	repo := order.NewPostgresRepository(testDB(t))
	ctx := context.Background()

	pendingOrder(t, repo, "g123")

	const deliveries = 8
	transitions := make(chan bool, deliveries)
	var wg sync.WaitGroup
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, transitioned, err := repo.MarkPaid(ctx, "g123")
			assert.NoError(t, err)
			transitions <- transitioned
		}()
	}
	wg.Wait()
	close(transitions)

	winners := 0
	for transitioned := range transitions {
		if transitioned {
			winners++
		}
	}
	assert.Equal(t, 1, winners, "exactly one delivery performs the transition")
}

func TestPostgresRepository_MarkFailed_NeverRevertsPaid(t *testing.T) {
	repo := order.NewPostgresRepository(testDB(t))
	ctx := context.Background()

	pendingOrder(t, repo, "g123")

	_, _, err := repo.MarkPaid(ctx, "g123")
	require.NoError(t, err)

	o, err := repo.MarkFailed(ctx, "g123")
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, o.Status, "PAID is terminal")
}

func TestPostgresRepository_AttachTransaction(t *testing.T) {
	repo := order.NewPostgresRepository(testDB(t))
	ctx := context.Background()

	o := pendingOrder(t, repo, "temp_abc")
	require.NoError(t, repo.AttachTransaction(ctx, o.ID, "g123", "000201pix", "000201pix"))

	updated, err := repo.GetByTransactionID(ctx, "g123")
	require.NoError(t, err)
	assert.Equal(t, o.ID, updated.ID)
	assert.Equal(t, "000201pix", updated.PixCode)
	assert.Equal(t, order.StatusPending, updated.Status)

	_, err = repo.GetByTransactionID(ctx, "temp_abc")
	assert.ErrorIs(t, err, order.ErrOrderNotFound)
}

func TestPostgresRepository_PaidLookups(t *testing.T) {
	repo := order.NewPostgresRepository(testDB(t))
	ctx := context.Background()

	pendingOrder(t, repo, "g123")

	// Pending purchases grant nothing.
	has, err := repo.HasPaidOrderForUser(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.False(t, has)

	_, _, err = repo.MarkPaid(ctx, "g123")
	require.NoError(t, err)

	has, err = repo.HasPaidOrderForUser(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasPaidOrderForEmail(ctx, "maria@example.com", "p1")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = repo.HasPaidOrderForEmail(ctx, "other@example.com", "p1")
	require.NoError(t, err)
	assert.False(t, has)
}
