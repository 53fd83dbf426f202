package mailer

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"

	"pixstore/internal/config"
)

// SMTPMailer sends transactional mail over plain SMTP.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendPurchaseConfirmation(ctx context.Context, to, customerName, productName, accessLink string) error {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Sua compra: %s", productName)
	e.HTML = []byte(purchaseConfirmationHTML(customerName, productName, accessLink))

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)

	if err := e.Send(addr, auth); err != nil {
		return fmt.Errorf("mailer: failed to send confirmation to %s: %w", to, err)
	}

	log.Info().Str("to", to).Str("product", productName).Msg("mailer: confirmation email sent")
	return nil
}
