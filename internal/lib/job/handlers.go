package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/sarabibeach/booking-intake/internal/config"
	"github.com/sarabibeach/booking-intake/internal/lib/email"
)

// InitHandlers initializes dependencies required by job handlers.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	j.emailClient = email.NewClient(cfg, logger)
}

// handleBookingReceivedTask sends the booking-received email.
//
// A returned error makes Asynq mark the task failed and schedule a retry.
func (j *JobService) handleBookingReceivedTask(ctx context.Context, t *asynq.Task) error {
	var p BookingReceivedPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal booking received payload: %w: %w", err, asynq.SkipRetry)
	}

	logger := j.logger.With().
		Str("type", "booking_received").
		Str("customer_id", p.CustomerID).
		Logger()

	if p.To == "" {
		logger.Warn().Msg("Booking has no email address, skipping notification")
		return nil
	}

	if j.emailClient == nil {
		return fmt.Errorf("email client not initialized: %w", asynq.SkipRetry)
	}

	logger.Info().Msg("Processing booking received email task")

	err := j.emailClient.SendBookingReceivedEmail(ctx, email.BookingReceived{
		To:           p.To,
		FirstName:    p.FirstName,
		Service:      p.Service,
		DateRequest:  p.DateRequest,
		TimeRequest:  p.TimeRequest,
		Participants: p.Participants,
		StaffEmail:   p.StaffEmail,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to send booking received email")
		return err
	}

	logger.Info().Msg("Successfully sent booking received email")

	return nil
}
