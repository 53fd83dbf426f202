package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"pixstore/internal/config"
)

var (
	ErrAuthFailed   = errors.New("payment: gateway authentication failed")
	ErrChargeFailed = errors.New("payment: pix charge creation failed")
)

// Client talks to the PIX gateway: one call to obtain a bearer token, one
// call to create a cash-in charge. Charge creation is never retried blindly:
// a failed attempt leaves the order PENDING and the buyer retries from
// the UI.
type Client struct {
	cfg    config.PaymentConfig
	client *http.Client
}

func NewClient(cfg config.PaymentConfig, client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{cfg: cfg, client: client}
}

type Customer struct {
	Name  string
	CPF   string
	Email string
	Phone string
}

type ChargeRequest struct {
	// AmountCents is the snapshotted order amount in minor currency units.
	AmountCents int64
	Description string
	WebhookURL  string
	Customer    Customer
}

type Charge struct {
	TransactionID string
	PixCode       string
	QRCodeURL     string
}

// GetAuthToken authenticates with the form-encoded client credential pair.
// The gateway has shipped the token under different keys across versions,
// so all known spellings are checked.
func (c *Client) GetAuthToken(ctx context.Context) (string, error) {
	form := url.Values{
		"client_id":     {strings.TrimSpace(c.cfg.ClientID)},
		"client_secret": {strings.TrimSpace(c.cfg.ClientSecret)},
	}

	endpoint := c.cfg.BaseURL + "/api/partner/v1/auth-token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("payment: failed to build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment: auth request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Error().Int("status", res.StatusCode).Msg("payment: gateway rejected credentials")
		return "", fmt.Errorf("%w: status %d", ErrAuthFailed, res.StatusCode)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("payment: failed to read auth response: %w", err)
	}

	var body struct {
		AccessToken  string `json:"access_token"`
		Token        string `json:"token"`
		AccessToken2 string `json:"accessToken"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", fmt.Errorf("payment: auth response is not valid JSON: %w", err)
	}

	token := body.AccessToken
	if token == "" {
		token = body.Token
	}
	if token == "" {
		token = body.AccessToken2
	}
	if token == "" {
		return "", fmt.Errorf("%w: no token in response", ErrAuthFailed)
	}

	return token, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CreatePixCharge creates a cash-in charge and returns the gateway's
// transaction identifier and the copy-paste PIX code.
func (c *Client) CreatePixCharge(ctx context.Context, token string, req ChargeRequest) (*Charge, error) {
	description := req.Description
	if description == "" {
		description = "Pagamento Loja"
	}

	payload := map[string]interface{}{
		// The gateway takes the amount in currency units, not cents.
		"amount":      float64(req.AmountCents) / 100,
		"description": description,
		"customer": map[string]string{
			"name":  req.Customer.Name,
			"cpf":   digitsOnly(req.Customer.CPF),
			"email": req.Customer.Email,
			"phone": digitsOnly(req.Customer.Phone),
		},
	}
	if req.WebhookURL != "" {
		payload["webhook_url"] = req.WebhookURL
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("payment: failed to marshal charge payload: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/api/partner/v1/cash-in"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("payment: failed to build charge request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment: charge request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		log.Error().Int("status", res.StatusCode).Msg("payment: pix charge creation rejected")
		return nil, fmt.Errorf("%w: status %d", ErrChargeFailed, res.StatusCode)
	}

	var body struct {
		Identifier string `json:"identifier"`
		PixCode    string `json:"pix_code"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("payment: failed to decode charge response: %w", err)
	}

	if body.Identifier == "" {
		return nil, fmt.Errorf("%w: response has no identifier", ErrChargeFailed)
	}

	return &Charge{
		TransactionID: body.Identifier,
		PixCode:       body.PixCode,
		// The gateway issues no separate QR image; the copy-paste code
		// doubles as the QR payload.
		QRCodeURL: body.PixCode,
	}, nil
}
