package decisions

import "context"

// Repo defines persistence operations for the decision vault.
type Repo interface {
	Create(ctx context.Context, route DecisionRoute) error
	GetByID(ctx context.Context, id string) (DecisionRoute, error)
	ListRecent(ctx context.Context, limit, offset int) ([]DecisionRoute, error)
}
