package mail_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/mail"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialSender_Send_DisabledTransportFallsBackToLogging(t *testing.T) {
	sender := mail.NewCredentialSender(mail.Config{}, nil, slog.Default())

	err := sender.Send(context.Background(), kernel.NewUUID(), "1234", time.Now().Add(2*time.Hour))

	require.NoError(t, err, "Missing mail configuration must not fail credential issuance")
}

func TestCredentialSender_Send_MissingLookupFallsBackToLogging(t *testing.T) {
	cfg := mail.Config{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}
	sender := mail.NewCredentialSender(cfg, nil, slog.Default())

	err := sender.Send(context.Background(), kernel.NewUUID(), "1234", time.Now().Add(2*time.Hour))

	require.NoError(t, err)
}

func TestCredentialSender_Send_LookupFailurePropagates(t *testing.T) {
	cfg := mail.Config{Host: "smtp.example.com", Port: 587, From: "noreply@example.com"}
	lookup := func(ctx context.Context, customerID kernel.UUID) (string, error) {
		return "", assert.AnError
	}
	sender := mail.NewCredentialSender(cfg, lookup, slog.Default())

	err := sender.Send(context.Background(), kernel.NewUUID(), "1234", time.Now().Add(2*time.Hour))

	require.ErrorIs(t, err, assert.AnError)
}
