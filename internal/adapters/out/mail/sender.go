// Package mail delivers confirmation codes to customers over SMTP. Without
// configured credentials it degrades to logging the code, so development and
// test environments work without a mail account.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Config holds the SMTP transport settings. An empty Host disables sending.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (c Config) enabled() bool {
	return c.Host != "" && c.From != ""
}

// RecipientLookup resolves a customer ID to a deliverable address. Identity
// data lives outside this service, so the owner of that data injects the
// lookup.
type RecipientLookup func(ctx context.Context, customerID kernel.UUID) (string, error)

// CredentialSender implements ports.CredentialSender over SMTP. When the
// transport or the recipient lookup is not configured, the code is logged
// instead of sent; callers treat delivery as best-effort either way.
type CredentialSender struct {
	cfg    Config
	lookup RecipientLookup
	logger *slog.Logger
}

// NewCredentialSender creates a credential sender. A nil lookup is allowed
// and forces the logging fallback.
func NewCredentialSender(cfg Config, lookup RecipientLookup, logger *slog.Logger) *CredentialSender {
	return &CredentialSender{
		cfg:    cfg,
		lookup: lookup,
		logger: logger.With("component", "credential_mail"),
	}
}

// Send delivers the confirmation code to the customer.
func (s *CredentialSender) Send(ctx context.Context, customerID kernel.UUID, code string, expiresAt time.Time) error {
	if !s.cfg.enabled() || s.lookup == nil {
		s.logger.InfoContext(ctx, "Mail disabled, confirmation code not sent",
			"customer_id", customerID.String(), "expires_at", expiresAt)
		return nil
	}

	to, err := s.lookup(ctx, customerID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: Delivery confirmation code\r\n\r\n"+
			"Your delivery confirmation code is %s. It expires at %s.\r\n",
		s.cfg.From, to, code, expiresAt.Format(time.RFC1123),
	)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}

	return nil
}
