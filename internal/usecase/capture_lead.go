package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/residence-leads/internal/entity"
)

const (
	leadAcceptedMessage = "Thank you, we will contact you shortly."
	InvalidJSONMessage  = "Invalid JSON"
)

type CaptureLeadUseCase struct {
	Repo     entity.LeadRepositoryInterface
	Limiter  RateLimiter
	Notifier LeadNotifier
	Now      Clock
	Log      logrus.FieldLogger
}

func NewCaptureLeadUseCase(
	repo entity.LeadRepositoryInterface,
	limiter RateLimiter,
	notifier LeadNotifier,
	log logrus.FieldLogger,
) *CaptureLeadUseCase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CaptureLeadUseCase{
		Repo:     repo,
		Limiter:  limiter,
		Notifier: notifier,
		Now:      time.Now,
		Log:      log,
	}
}

// Execute runs rate limit -> validation -> insert for one submission.
// Nothing is persisted unless every step before the insert succeeds.
func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	identifier := strings.TrimSpace(input.Provenance.IPAddress)
	if identifier == "" {
		identifier = UnknownIdentifier
	}

	allowed, err := uc.Limiter.Allow(ctx, identifier, uc.Now())
	if err != nil {
		// fail open
		uc.Log.WithError(err).WithField("identifier", identifier).Warn("rate limiter unavailable, admitting request")
		allowed = true
	}
	if !allowed {
		uc.Log.WithField("identifier", identifier).Info("lead submission rate limited")
		return nil, &DomainError{
			Code:    "RATE_LIMITED",
			Message: "Too many requests. Please try again later.",
			Err:     ErrRateLimitExceeded,
		}
	}

	if input.DecodeErr != nil || input.Raw == nil {
		uc.Log.WithField("identifier", identifier).WithError(input.DecodeErr).Info("lead submission body unreadable")
		return nil, &ValidationError{Message: InvalidJSONMessage}
	}

	leadInput, err := ValidateLeadSubmission(input.Raw)
	if err != nil {
		uc.Log.WithField("identifier", identifier).WithError(err).Info("lead submission rejected")
		return nil, err
	}

	leadInput.IPAddress = strings.TrimSpace(input.Provenance.IPAddress)
	leadInput.UserAgent = input.Provenance.UserAgent
	leadInput.SourceURL = input.Provenance.SourceURL

	lead, err := uc.Repo.Insert(ctx, *leadInput)
	if err != nil {
		uc.Log.WithError(err).WithField("type", leadInput.Type).Error("failed to persist lead")
		return nil, &TechnicalError{
			Code:    "PERSISTENCE_FAILED",
			Message: "Internal server error",
			Err:     fmt.Errorf("%w: %w", ErrPersistenceFailed, err),
		}
	}

	uc.Log.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"type":    lead.Type,
	}).Info("lead captured")

	if uc.Notifier != nil {
		if err := uc.Notifier.NotifyLeadCreated(ctx, lead); err != nil {
			uc.Log.WithError(err).WithField("lead_id", lead.ID).Warn("lead stored but notification failed")
		}
	}

	return &CaptureLeadOutput{
		LeadID:  lead.ID,
		Type:    lead.Type,
		Message: leadAcceptedMessage,
	}, nil
}
