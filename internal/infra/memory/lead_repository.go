package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xavierca1/residence-leads/internal/entity"
)

// LeadRepository keeps leads in process memory. Used by tests and by the
// API when no database is configured.
type LeadRepository struct {
	mu    sync.RWMutex
	leads map[string]*entity.Lead
	Now   func() time.Time
}

func NewLeadRepository() *LeadRepository {
	return &LeadRepository{
		leads: make(map[string]*entity.Lead),
		Now:   time.Now,
	}
}

func (r *LeadRepository) Insert(_ context.Context, input entity.LeadInput) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.Now().UTC()
	lead := &entity.Lead{
		ID:        uuid.New().String(),
		LeadInput: input,
		Status:    entity.LeadStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.leads[lead.ID] = lead

	out := *lead
	return &out, nil
}

func (r *LeadRepository) GetByID(_ context.Context, id string) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	out := *lead
	return &out, nil
}

func (r *LeadRepository) List(_ context.Context, filter entity.LeadFilter, limit, offset int) ([]entity.Lead, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entity.Lead
	for _, l := range r.leads {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.Type != "" && l.Type != filter.Type {
			continue
		}
		matched = append(matched, *l)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return []entity.Lead{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (r *LeadRepository) UpdateStatus(_ context.Context, id string, update entity.LeadUpdate) error {
	if update.Status != nil && !update.Status.Valid() {
		return entity.ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return entity.ErrLeadNotFound
	}
	if update.Status != nil {
		lead.Status = *update.Status
	}
	if update.Notes != nil {
		lead.Notes = *update.Notes
	}
	lead.UpdatedAt = r.Now().UTC()
	return nil
}

func (r *LeadRepository) CountsByStatus(_ context.Context) (map[entity.LeadStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[entity.LeadStatus]int)
	for _, l := range r.leads {
		counts[l.Status]++
	}
	return counts, nil
}
