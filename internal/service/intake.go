package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sarabibeach/booking-intake/internal/config"
	"github.com/sarabibeach/booking-intake/internal/lib/job"
	"github.com/sarabibeach/booking-intake/internal/model"
	"github.com/sarabibeach/booking-intake/internal/remoteerr"
	"github.com/sarabibeach/booking-intake/internal/shopify"
)

// Steps that can leave a customer partially configured.
const (
	StepConsent    = "consent update"
	StepMetafields = "metafield attachment"
)

// CustomerPlatform is the subset of the remote platform the intake needs.
// *shopify.Client implements it.
type CustomerPlatform interface {
	CreateCustomer(ctx context.Context, input shopify.CustomerInput) (string, error)
	UpdateSMSConsent(ctx context.Context, customerID string, consent shopify.MarketingConsent) error
	SetMetafields(ctx context.Context, metafields []shopify.Metafield) error
	DeleteCustomer(ctx context.Context, customerID string) error
	AddTags(ctx context.Context, id string, tags ...string) error
}

// Notifier receives successful intakes. *job.JobService implements it.
type Notifier interface {
	EnqueueBookingReceived(ctx context.Context, p job.BookingReceivedPayload) error
}

// IntakeResult describes a completed intake.
type IntakeResult struct {
	CustomerID         string
	MetafieldsAttached int
	ConsentState       string
}

// IntakeService runs the booking pipeline against the customer platform.
type IntakeService struct {
	platform CustomerPlatform
	notifier Notifier

	intake         config.IntakeConfig
	maxConcurrency int
	staffEmail     string
}

// NewIntakeService wires the pipeline. notifier may be nil.
func NewIntakeService(platform CustomerPlatform, cfg *config.Config, notifier Notifier) *IntakeService {
	return &IntakeService{
		platform:       platform,
		notifier:       notifier,
		intake:         cfg.Intake,
		maxConcurrency: cfg.Shopify.MaxConcurrency,
		staffEmail:     cfg.Notifications.StaffEmail,
	}
}

// Submit creates the customer, then updates SMS consent, then (in separate
// mode) attaches metafields.
//
// A create failure is returned as is and nothing else is called. A failure
// after the create runs the configured compensation and is returned as a
// *remoteerr.PartialCompletionError.
func (s *IntakeService) Submit(ctx context.Context, req *model.BookingRequest) (*IntakeResult, error) {
	logger := zerolog.Ctx(ctx)

	metafields := BuildMetafields(s.intake.MetafieldNamespace, BookingMetafields, req)

	var inline []shopify.Metafield
	if s.intake.MetafieldMode == config.MetafieldModeInline {
		inline = metafields
	}

	input := BuildCustomerInput(req, inline)

	customerID, err := s.platform.CreateCustomer(ctx, input)
	if err != nil {
		logger.Warn().Err(err).Msg("customer create failed")
		return nil, errors.Wrap(err, "create customer")
	}

	logger.Info().Str("customer_id", customerID).Msg("customer created")

	consent := shopify.ConsentFor(req.ConsentValue())
	if err := s.platform.UpdateSMSConsent(ctx, customerID, consent); err != nil {
		return nil, s.compensate(ctx, customerID, StepConsent, err)
	}

	if s.intake.MetafieldMode == config.MetafieldModeSeparate && len(metafields) > 0 {
		if err := s.attachMetafields(ctx, customerID, metafields); err != nil {
			return nil, s.compensate(ctx, customerID, StepMetafields, err)
		}
	}

	s.notify(ctx, customerID, req)

	return &IntakeResult{
		CustomerID:         customerID,
		MetafieldsAttached: len(metafields),
		ConsentState:       consent.MarketingState,
	}, nil
}

// attachMetafields sends one metafieldsSet call per metafield and waits for
// all of them. The first error is returned.
func (s *IntakeService) attachMetafields(ctx context.Context, customerID string, metafields []shopify.Metafield) error {
	g, gctx := errgroup.WithContext(ctx)
	if s.maxConcurrency > 0 {
		g.SetLimit(s.maxConcurrency)
	}

	for _, mf := range metafields {
		mf.OwnerID = customerID
		g.Go(func() error {
			if err := s.platform.SetMetafields(gctx, []shopify.Metafield{mf}); err != nil {
				return errors.Wrapf(err, "set metafield %s.%s", mf.Namespace, mf.Key)
			}
			return nil
		})
	}

	return g.Wait()
}

// compensate applies the compensation policy to a customer left behind by a
// failed step. It runs detached from ctx so a cancelled request still
// cleans up; each remote call keeps its own deadline.
func (s *IntakeService) compensate(ctx context.Context, customerID, step string, cause error) error {
	logger := zerolog.Ctx(ctx).With().
		Str("customer_id", customerID).
		Str("step", step).
		Str("policy", s.intake.Compensation).
		Logger()

	logger.Error().Err(cause).Msg("intake partially completed")

	cctx := context.WithoutCancel(ctx)

	outcome := remoteerr.CompensationSkipped
	switch s.intake.Compensation {
	case config.CompensationDelete:
		outcome = remoteerr.CompensationDeleted
		if err := s.platform.DeleteCustomer(cctx, customerID); err != nil {
			logger.Error().Err(err).Msg("compensation failed")
			outcome = remoteerr.CompensationFailed
		}
	case config.CompensationTag:
		outcome = remoteerr.CompensationTagged
		if err := s.platform.AddTags(cctx, customerID, s.intake.IncompleteTag); err != nil {
			logger.Error().Err(err).Msg("compensation failed")
			outcome = remoteerr.CompensationFailed
		}
	}

	logger.Info().Str("compensation", outcome).Msg("compensation finished")

	return &remoteerr.PartialCompletionError{
		CustomerID:   customerID,
		Step:         step,
		Compensation: outcome,
		Cause:        cause,
	}
}

// notify enqueues the booking-received email. Failures are logged only.
func (s *IntakeService) notify(ctx context.Context, customerID string, req *model.BookingRequest) {
	if s.notifier == nil {
		return
	}

	participants, _ := req.ParticipantsString()

	err := s.notifier.EnqueueBookingReceived(ctx, job.BookingReceivedPayload{
		CustomerID:   customerID,
		To:           strings.TrimSpace(req.Email),
		FirstName:    strings.TrimSpace(req.FirstName),
		Service:      req.Service,
		DateRequest:  req.DateRequest,
		TimeRequest:  req.TimeRequest,
		Participants: participants,
		StaffEmail:   s.staffEmail,
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).
			Str("customer_id", customerID).
			Msg("failed to enqueue booking received email")
	}
}
