package catalog

import "context"

type ProductRepository interface {
	Save(ctx context.Context, p *Product) error
	Get(ctx context.Context, id string) (*Product, error)
	ListByOwner(ctx context.Context, owner string) ([]*Product, error)
}

type ReviewRepository interface {
	Save(ctx context.Context, r *ProductReview) error
	// ListByProduct returns the newest reviews first; limit <= 0 means no limit.
	ListByProduct(ctx context.Context, productID string, limit int) ([]*ProductReview, error)
}
