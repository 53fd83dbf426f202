package handler

import (
	"context"
	"time"

	"pixstore/internal/order"
	"pixstore/internal/product"
	"pixstore/internal/storage"
)

type mockOrderRepo struct {
	markPaidFunc        func(ctx context.Context, txID string) (*order.Order, bool, error)
	markFailedFunc      func(ctx context.Context, txID string) (*order.Order, error)
	hasPaidForUserFunc  func(ctx context.Context, userID, productID string) (bool, error)
	hasPaidForEmailFunc func(ctx context.Context, email, productID string) (bool, error)
}

func (m *mockOrderRepo) CreatePending(ctx context.Context, o *order.Order) error { return nil }
func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}
func (m *mockOrderRepo) GetByTransactionID(ctx context.Context, txID string) (*order.Order, error) {
	return nil, order.ErrOrderNotFound
}
func (m *mockOrderRepo) AttachTransaction(ctx context.Context, orderID, txID, pixCode, pixQrCodeURL string) error {
	return nil
}
func (m *mockOrderRepo) MarkPaid(ctx context.Context, txID string) (*order.Order, bool, error) {
	if m.markPaidFunc == nil {
		return nil, false, order.ErrOrderNotFound
	}
	return m.markPaidFunc(ctx, txID)
}
func (m *mockOrderRepo) MarkFailed(ctx context.Context, txID string) (*order.Order, error) {
	if m.markFailedFunc == nil {
		return nil, order.ErrOrderNotFound
	}
	return m.markFailedFunc(ctx, txID)
}
func (m *mockOrderRepo) HasPaidOrderForUser(ctx context.Context, userID, productID string) (bool, error) {
	if m.hasPaidForUserFunc == nil {
		return false, nil
	}
	return m.hasPaidForUserFunc(ctx, userID, productID)
}
func (m *mockOrderRepo) HasPaidOrderForEmail(ctx context.Context, email, productID string) (bool, error) {
	if m.hasPaidForEmailFunc == nil {
		return false, nil
	}
	return m.hasPaidForEmailFunc(ctx, email, productID)
}

type mockProductRepo struct {
	getByIDFunc func(ctx context.Context, id string) (*product.Product, error)
}

func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*product.Product, error) {
	if m.getByIDFunc == nil {
		return nil, product.ErrProductNotFound
	}
	return m.getByIDFunc(ctx, id)
}

type mockMailer struct {
	sent int
}

func (m *mockMailer) SendPurchaseConfirmation(ctx context.Context, to, customerName, productName, accessLink string) error {
	m.sent++
	return nil
}

type mockCheckoutService struct {
	checkoutFunc func(ctx context.Context, input order.CheckoutInput) (*order.CheckoutResult, error)
	statusFunc   func(ctx context.Context, orderID string) (order.Status, error)
}

func (m *mockCheckoutService) Checkout(ctx context.Context, input order.CheckoutInput) (*order.CheckoutResult, error) {
	return m.checkoutFunc(ctx, input)
}

func (m *mockCheckoutService) Status(ctx context.Context, orderID string) (order.Status, error) {
	return m.statusFunc(ctx, orderID)
}

type mockObjectStore struct {
	downloadFunc func(ctx context.Context, keyOrPrefix string, validity time.Duration) (*storage.DownloadAuthorization, error)
	uploadFunc   func(ctx context.Context) (*storage.UploadCredentials, error)
}

func (m *mockObjectStore) GetDownloadToken(ctx context.Context, keyOrPrefix string, validity time.Duration) (*storage.DownloadAuthorization, error) {
	return m.downloadFunc(ctx, keyOrPrefix, validity)
}

func (m *mockObjectStore) GetUploadCredentials(ctx context.Context) (*storage.UploadCredentials, error) {
	return m.uploadFunc(ctx)
}
