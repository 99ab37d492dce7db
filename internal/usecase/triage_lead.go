package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/residence-leads/internal/entity"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 100
)

// TriageLeadUseCase backs the admin inbox. Callers must already hold a valid
// admin session.
type TriageLeadUseCase struct {
	Repo entity.LeadRepositoryInterface
	Log  logrus.FieldLogger
}

func NewTriageLeadUseCase(repo entity.LeadRepositoryInterface, log logrus.FieldLogger) *TriageLeadUseCase {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &TriageLeadUseCase{Repo: repo, Log: log}
}

func (uc *TriageLeadUseCase) List(ctx context.Context, input ListLeadsInput) (*ListLeadsOutput, error) {
	var filter entity.LeadFilter
	if input.Status != "" {
		filter.Status = entity.LeadStatus(input.Status)
		if !filter.Status.Valid() {
			return nil, invalidStatusError()
		}
	}
	if input.Type != "" {
		filter.Type = entity.LeadType(input.Type)
		if !filter.Type.Valid() {
			return nil, newValidationError("type", "Invalid inquiry type")
		}
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	leads, total, err := uc.Repo.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, uc.persistenceError("list leads", err)
	}

	counts, err := uc.Repo.CountsByStatus(ctx)
	if err != nil {
		return nil, uc.persistenceError("count leads", err)
	}
	for _, s := range entity.LeadStatuses() {
		if _, ok := counts[s]; !ok {
			counts[s] = 0
		}
	}

	if leads == nil {
		leads = []entity.Lead{}
	}

	return &ListLeadsOutput{
		Leads:  leads,
		Total:  total,
		Counts: counts,
		Pagination: Pagination{
			Limit:  limit,
			Offset: offset,
			Total:  total,
		},
	}, nil
}

func (uc *TriageLeadUseCase) Get(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := uc.Repo.GetByID(ctx, id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, notFoundError()
	}
	if err != nil {
		return nil, uc.persistenceError("get lead", err)
	}
	return lead, nil
}

// Update applies a partial status/notes change. Any status may follow any
// other; only membership in the status set is checked.
func (uc *TriageLeadUseCase) Update(ctx context.Context, input UpdateLeadInput) error {
	if err := structValidator.Struct(input); err != nil {
		if input.Status != nil && !entity.LeadStatus(*input.Status).Valid() {
			return invalidStatusError()
		}
		return translateStructError(err)
	}

	var update entity.LeadUpdate
	if input.Status != nil {
		s := entity.LeadStatus(*input.Status)
		update.Status = &s
	}
	update.Notes = input.Notes

	err := uc.Repo.UpdateStatus(ctx, input.ID, update)
	switch {
	case errors.Is(err, entity.ErrLeadNotFound):
		return notFoundError()
	case errors.Is(err, entity.ErrInvalidStatus):
		return invalidStatusError()
	case err != nil:
		return uc.persistenceError("update lead", err)
	}

	fields := logrus.Fields{"lead_id": input.ID}
	if update.Status != nil {
		fields["status"] = *update.Status
	}
	uc.Log.WithFields(fields).Info("lead updated")
	return nil
}

func (uc *TriageLeadUseCase) persistenceError(op string, err error) error {
	uc.Log.WithError(err).Error(op + " failed")
	return &TechnicalError{
		Code:    "PERSISTENCE_FAILED",
		Message: "Internal server error",
		Err:     fmt.Errorf("%s: %w: %w", op, ErrPersistenceFailed, err),
	}
}

func notFoundError() error {
	return &DomainError{Code: "NOT_FOUND", Message: "Lead not found", Err: ErrNotFound}
}

func invalidStatusError() error {
	return &DomainError{Code: "INVALID_STATUS", Message: "Invalid status", Err: ErrInvalidStatus}
}
