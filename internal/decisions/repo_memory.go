package decisions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo, used when no database
// is configured.
type MemoryRepo struct {
	mu     sync.RWMutex
	routes []DecisionRoute
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

// Create stores a decision route record.
func (r *MemoryRepo) Create(ctx context.Context, route DecisionRoute) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
	return nil
}

// GetByID returns a decision route record by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (DecisionRoute, error) {
	if err := ctx.Err(); err != nil {
		return DecisionRoute{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.routes {
		if r.routes[i].ID == id {
			return r.routes[i], nil
		}
	}
	return DecisionRoute{}, ErrNotFound
}

// ListRecent returns records newest-first, honoring limit/offset.
func (r *MemoryRepo) ListRecent(ctx context.Context, limit, offset int) ([]DecisionRoute, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 20
	}

	r.mu.RLock()
	routes := make([]DecisionRoute, len(r.routes))
	copy(routes, r.routes)
	r.mu.RUnlock()

	if offset >= len(routes) {
		return []DecisionRoute{}, nil
	}

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].CreatedAt.After(routes[j].CreatedAt)
	})

	end := len(routes)
	if offset+limit < end {
		end = offset + limit
	}
	return routes[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
