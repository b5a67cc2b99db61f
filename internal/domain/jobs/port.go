package jobs

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, j *OptimizationJob) error
	Get(ctx context.Context, id string) (*OptimizationJob, error)
	// List returns the newest jobs first.
	List(ctx context.Context, f Filter) ([]*OptimizationJob, error)
}
