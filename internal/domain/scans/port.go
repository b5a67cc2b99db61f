package scans

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, s *ScanResult) error
	Get(ctx context.Context, id string) (*ScanResult, error)
	// ListByStore returns the newest scans first; limit <= 0 means no limit.
	ListByStore(ctx context.Context, storeID string, limit int) ([]*ScanResult, error)
}

// IssueRepository stores the issues attached to a scan.
type IssueRepository interface {
	Save(ctx context.Context, i *Issue) error
	Get(ctx context.Context, id string) (*Issue, error)
	ListByScan(ctx context.Context, scanID string) ([]*Issue, error)
}
