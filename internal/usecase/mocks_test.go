package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/xavierca1/residence-leads/internal/entity"
)

// MockLeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Insert(ctx context.Context, input entity.LeadInput) (*entity.Lead, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) GetByID(ctx context.Context, id string) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter, limit, offset int) ([]entity.Lead, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	var leads []entity.Lead
	if v := args.Get(0); v != nil {
		leads = v.([]entity.Lead)
	}
	return leads, args.Int(1), args.Error(2)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, update entity.LeadUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockLeadRepository) CountsByStatus(ctx context.Context) (map[entity.LeadStatus]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[entity.LeadStatus]int), args.Error(1)
}

// MockRateLimiter
type MockRateLimiter struct {
	mock.Mock
}

func (m *MockRateLimiter) Allow(ctx context.Context, identifier string, now time.Time) (bool, error) {
	args := m.Called(ctx, identifier, now)
	return args.Bool(0), args.Error(1)
}

// MockLeadNotifier
type MockLeadNotifier struct {
	mock.Mock
}

func (m *MockLeadNotifier) NotifyLeadCreated(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}
