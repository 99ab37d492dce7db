package usecase

import "github.com/xavierca1/residence-leads/internal/entity"

// UnknownIdentifier buckets callers whose address could not be determined.
const UnknownIdentifier = "unknown"

type Provenance struct {
	IPAddress string
	UserAgent string
	SourceURL string
}

// CaptureLeadInput carries the decoded body, or the error that stopped the
// decode. A decode failure is reported only after the limiter has counted the call.
type CaptureLeadInput struct {
	Raw        map[string]any
	DecodeErr  error
	Provenance Provenance
}

type CaptureLeadOutput struct {
	LeadID  string          `json:"lead_id"`
	Type    entity.LeadType `json:"type"`
	Message string          `json:"message"`
}

type ListLeadsInput struct {
	Status string
	Type   string
	Limit  int
	Offset int
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

type ListLeadsOutput struct {
	Leads      []entity.Lead             `json:"leads"`
	Total      int                       `json:"total"`
	Counts     map[entity.LeadStatus]int `json:"counts"`
	Pagination Pagination                `json:"pagination"`
}

type UpdateLeadInput struct {
	ID     string  `json:"-"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=new in_progress closed spam"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=10000"`
}
