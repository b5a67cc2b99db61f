package stores

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, s *Store) error
	Get(ctx context.Context, id string) (*Store, error)
	// ListByOwner returns the owner's stores, newest first.
	ListByOwner(ctx context.Context, owner string) ([]*Store, error)
}

// Current returns the owner's most recent store, or ErrNoStore.
func Current(ctx context.Context, repo Repository, owner string) (*Store, error) {
	list, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrNoStore
	}
	return list[0], nil
}
