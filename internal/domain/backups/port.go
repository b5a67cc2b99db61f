package backups

import "context"

type Repository interface {
	Save(ctx context.Context, b *ThemeBackup) error
	Get(ctx context.Context, id string) (*ThemeBackup, error)
	Delete(ctx context.Context, id string) error
	// ListByStore returns the newest backups first.
	ListByStore(ctx context.Context, storeID string) ([]*ThemeBackup, error)
}
