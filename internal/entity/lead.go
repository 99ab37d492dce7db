package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid lead status")
)

type LeadType string

const (
	LeadTypeRent            LeadType = "rent_inquiry"
	LeadTypeSale            LeadType = "sale_inquiry"
	LeadTypeInvestment      LeadType = "investment_inquiry"
	LeadTypeInvestmentShare LeadType = "investment_share_request"
	LeadTypeGeneral         LeadType = "general_inquiry"
)

var leadTypes = []LeadType{
	LeadTypeRent,
	LeadTypeSale,
	LeadTypeInvestment,
	LeadTypeInvestmentShare,
	LeadTypeGeneral,
}

func LeadTypes() []LeadType {
	out := make([]LeadType, len(leadTypes))
	copy(out, leadTypes)
	return out
}

func (t LeadType) Valid() bool {
	for _, v := range leadTypes {
		if v == t {
			return true
		}
	}
	return false
}

// LeadStatus is the triage state. Any status may move to any other one.
type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusInProgress LeadStatus = "in_progress"
	LeadStatusClosed     LeadStatus = "closed"
	LeadStatusSpam       LeadStatus = "spam"
)

var leadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusInProgress,
	LeadStatusClosed,
	LeadStatusSpam,
}

func LeadStatuses() []LeadStatus {
	out := make([]LeadStatus, len(leadStatuses))
	copy(out, leadStatuses)
	return out
}

func (s LeadStatus) Valid() bool {
	for _, v := range leadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// LeadInput is a validated submission ready for persistence.
type LeadInput struct {
	Type           LeadType `json:"type" validate:"required"`
	ApartmentSlug  string   `json:"apartment_slug,omitempty" validate:"max=200"`
	ApartmentTitle string   `json:"apartment_title,omitempty" validate:"max=300"`

	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,max=254"`
	Phone     string `json:"phone,omitempty" validate:"max=20"`
	Message   string `json:"message,omitempty" validate:"max=5000"`

	PreferredDates string `json:"preferred_dates,omitempty" validate:"max=200"`
	GuestCount     *int   `json:"guest_count,omitempty" validate:"omitempty,min=1"`
	ShareCount     *int   `json:"share_count,omitempty" validate:"omitempty,min=1,max=50"`

	GDPRConsent      bool `json:"gdpr_consent"`
	TermsAccepted    bool `json:"terms_accepted"`
	MarketingConsent bool `json:"marketing_consent"`

	Language string `json:"language" validate:"required,max=10"`

	// Provenance, attached by the intake pipeline.
	SourceURL string `json:"source_url,omitempty"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

type Lead struct {
	ID string `json:"id"`
	LeadInput
	Status    LeadStatus `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type LeadFilter struct {
	Status LeadStatus
	Type   LeadType
}

// LeadUpdate is a partial update; nil fields are left unchanged.
type LeadUpdate struct {
	Status *LeadStatus
	Notes  *string
}

type LeadRepositoryInterface interface {
	Insert(ctx context.Context, input LeadInput) (*Lead, error)
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter LeadFilter, limit, offset int) ([]Lead, int, error)
	UpdateStatus(ctx context.Context, id string, update LeadUpdate) error
	CountsByStatus(ctx context.Context) (map[LeadStatus]int, error)
}
