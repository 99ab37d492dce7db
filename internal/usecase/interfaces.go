package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/residence-leads/internal/entity"
)

// RateLimiter is best effort: concurrent callers may both be admitted at the
// edge of the limit, and state need not survive a restart.
type RateLimiter interface {
	Allow(ctx context.Context, identifier string, now time.Time) (bool, error)
}

// LeadNotifier is told about new leads after they are persisted.
type LeadNotifier interface {
	NotifyLeadCreated(ctx context.Context, lead *entity.Lead) error
}

// SessionAuthenticator is the single shared admin credential gate.
type SessionAuthenticator interface {
	Authenticate(credential string) (token string, expiresAt time.Time, err error)
	Validate(token string) bool
}

type Clock func() time.Time
