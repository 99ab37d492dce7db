package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultLimit  = 5
	DefaultWindow = time.Minute
)

// MemoryLimiter is a fixed-window counter per identifier, local to one process.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
}

type visitor struct {
	count   int
	resetAt time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}
}

func (rl *MemoryLimiter) Allow(_ context.Context, identifier string, now time.Time) (bool, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[identifier]
	if !exists || now.After(v.resetAt) {
		rl.visitors[identifier] = &visitor{count: 1, resetAt: now.Add(rl.window)}
		return true, nil
	}

	if v.count >= rl.limit {
		return false, nil
	}

	v.count++
	return true, nil
}

// Sweep drops records whose window has already elapsed. It returns how many
// were removed.
func (rl *MemoryLimiter) Sweep(now time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for id, v := range rl.visitors {
		if now.After(v.resetAt) {
			delete(rl.visitors, id)
			removed++
		}
	}
	return removed
}

func (rl *MemoryLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}
