package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// CredentialRegenerationJob manages the scheduled refresh of confirmation
// codes. Runs every minute so a sub-order stuck out for delivery past its
// code's lifetime gets a fresh redeemable code without anyone asking.
type CredentialRegenerationJob struct {
	handler commands.RegenerateCredentialsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewCredentialRegenerationJob creates a new job for refreshing expired
// confirmation codes.
func NewCredentialRegenerationJob(
	handler commands.RegenerateCredentialsCommandHandler,
	logger *slog.Logger,
) *CredentialRegenerationJob {
	return &CredentialRegenerationJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "credential_regeneration_job"),
	}
}

// Start begins the credential regeneration job to run every minute.
func (j *CredentialRegenerationJob) Start() error {
	_, err := j.cron.AddFunc("0 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewRegenerateCredentialsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Credential regeneration job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Credential regeneration job started (running every minute)")
	return nil
}

// Stop stops the credential regeneration job.
func (j *CredentialRegenerationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Credential regeneration job stopped")
}
