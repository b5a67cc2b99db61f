package docstore

import (
	"context"

	"github.com/bryanwahyu/automaton-shop/internal/domain/backups"
	"github.com/bryanwahyu/automaton-shop/internal/domain/catalog"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/scans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/domain/templates"
)

// Record kinds.
const (
	KindStore    = "store"
	KindScan     = "scan_result"
	KindIssue    = "issue"
	KindJob      = "optimization_job"
	KindProduct  = "product"
	KindReview   = "product_review"
	KindTemplate = "template"
	KindBackup   = "theme_backup"
)

type StoreRepository struct{ c *Collection[stores.Store] }

func NewStoreRepository(s *Store) *StoreRepository {
	return &StoreRepository{c: NewCollection(s, KindStore, func(v *stores.Store) Index {
		return Index{ID: v.ID, Owner: v.Owner, StoreID: v.ID, CreatedAt: v.CreatedAt}
	})}
}

func (r *StoreRepository) Save(ctx context.Context, v *stores.Store) error { return r.c.Save(ctx, v) }

func (r *StoreRepository) Get(ctx context.Context, id string) (*stores.Store, error) {
	return r.c.Get(ctx, id)
}

func (r *StoreRepository) ListByOwner(ctx context.Context, owner string) ([]*stores.Store, error) {
	return r.c.Find(ctx, Query{Owner: owner})
}

type ScanRepository struct{ c *Collection[scans.ScanResult] }

func NewScanRepository(s *Store) *ScanRepository {
	return &ScanRepository{c: NewCollection(s, KindScan, func(v *scans.ScanResult) Index {
		return Index{ID: v.ID, Owner: v.Owner, StoreID: v.StoreID, Tag: string(v.Status), CreatedAt: v.CreatedAt}
	})}
}

func (r *ScanRepository) Save(ctx context.Context, v *scans.ScanResult) error {
	return r.c.Save(ctx, v)
}

func (r *ScanRepository) Get(ctx context.Context, id string) (*scans.ScanResult, error) {
	return r.c.Get(ctx, id)
}

func (r *ScanRepository) ListByStore(ctx context.Context, storeID string, limit int) ([]*scans.ScanResult, error) {
	return r.c.Find(ctx, Query{StoreID: storeID, Limit: limit})
}

type IssueRepository struct{ c *Collection[scans.Issue] }

func NewIssueRepository(s *Store) *IssueRepository {
	return &IssueRepository{c: NewCollection(s, KindIssue, func(v *scans.Issue) Index {
		return Index{ID: v.ID, StoreID: v.StoreID, ParentID: v.ScanID, Tag: string(v.Type), CreatedAt: v.CreatedAt}
	})}
}

func (r *IssueRepository) Save(ctx context.Context, v *scans.Issue) error { return r.c.Save(ctx, v) }

func (r *IssueRepository) Get(ctx context.Context, id string) (*scans.Issue, error) {
	return r.c.Get(ctx, id)
}

// ListByScan keeps the order the scan reported the issues in.
func (r *IssueRepository) ListByScan(ctx context.Context, scanID string) ([]*scans.Issue, error) {
	return r.c.Find(ctx, Query{ParentID: scanID, Ascending: true})
}

type JobRepository struct{ c *Collection[jobs.OptimizationJob] }

func NewJobRepository(s *Store) *JobRepository {
	return &JobRepository{c: NewCollection(s, KindJob, func(v *jobs.OptimizationJob) Index {
		return Index{ID: v.ID, Owner: v.Owner, StoreID: v.StoreID, Tag: string(v.JobType), CreatedAt: v.CreatedAt}
	})}
}

func (r *JobRepository) Save(ctx context.Context, v *jobs.OptimizationJob) error {
	return r.c.Save(ctx, v)
}

func (r *JobRepository) Get(ctx context.Context, id string) (*jobs.OptimizationJob, error) {
	return r.c.Get(ctx, id)
}

func (r *JobRepository) List(ctx context.Context, f jobs.Filter) ([]*jobs.OptimizationJob, error) {
	return r.c.Find(ctx, Query{Owner: f.Owner, StoreID: f.StoreID, Tag: string(f.JobType), Limit: f.Limit})
}

type ProductRepository struct{ c *Collection[catalog.Product] }

func NewProductRepository(s *Store) *ProductRepository {
	return &ProductRepository{c: NewCollection(s, KindProduct, func(v *catalog.Product) Index {
		return Index{ID: v.ID, Owner: v.Owner, Tag: v.ShopifyID, CreatedAt: v.CreatedAt}
	})}
}

func (r *ProductRepository) Save(ctx context.Context, v *catalog.Product) error {
	return r.c.Save(ctx, v)
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*catalog.Product, error) {
	return r.c.Get(ctx, id)
}

func (r *ProductRepository) ListByOwner(ctx context.Context, owner string) ([]*catalog.Product, error) {
	return r.c.Find(ctx, Query{Owner: owner, Ascending: true})
}

type ReviewRepository struct{ c *Collection[catalog.ProductReview] }

func NewReviewRepository(s *Store) *ReviewRepository {
	return &ReviewRepository{c: NewCollection(s, KindReview, func(v *catalog.ProductReview) Index {
		return Index{ID: v.ID, Owner: v.Owner, ParentID: v.ProductID, Tag: v.Source, CreatedAt: v.CreatedAt}
	})}
}

func (r *ReviewRepository) Save(ctx context.Context, v *catalog.ProductReview) error {
	return r.c.Save(ctx, v)
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]*catalog.ProductReview, error) {
	return r.c.Find(ctx, Query{ParentID: productID, Limit: limit})
}

type TemplateRepository struct{ c *Collection[templates.Template] }

func NewTemplateRepository(s *Store) *TemplateRepository {
	return &TemplateRepository{c: NewCollection(s, KindTemplate, func(v *templates.Template) Index {
		return Index{ID: v.ID, Tag: string(v.Category), CreatedAt: v.CreatedAt}
	})}
}

func (r *TemplateRepository) Save(ctx context.Context, v *templates.Template) error {
	return r.c.Save(ctx, v)
}

func (r *TemplateRepository) Get(ctx context.Context, id string) (*templates.Template, error) {
	return r.c.Get(ctx, id)
}

func (r *TemplateRepository) List(ctx context.Context) ([]*templates.Template, error) {
	return r.c.Find(ctx, Query{Ascending: true})
}

type BackupRepository struct{ c *Collection[backups.ThemeBackup] }

func NewBackupRepository(s *Store) *BackupRepository {
	return &BackupRepository{c: NewCollection(s, KindBackup, func(v *backups.ThemeBackup) Index {
		return Index{ID: v.ID, Owner: v.Owner, StoreID: v.StoreID, Tag: v.ThemeID, CreatedAt: v.CreatedAt}
	})}
}

func (r *BackupRepository) Save(ctx context.Context, v *backups.ThemeBackup) error {
	return r.c.Save(ctx, v)
}

func (r *BackupRepository) Get(ctx context.Context, id string) (*backups.ThemeBackup, error) {
	return r.c.Get(ctx, id)
}

func (r *BackupRepository) Delete(ctx context.Context, id string) error { return r.c.Delete(ctx, id) }

func (r *BackupRepository) ListByStore(ctx context.Context, storeID string) ([]*backups.ThemeBackup, error) {
	return r.c.Find(ctx, Query{StoreID: storeID})
}

// Repositories bundles one repository per record kind.
type Repositories struct {
	Stores    *StoreRepository
	Scans     *ScanRepository
	Issues    *IssueRepository
	Jobs      *JobRepository
	Products  *ProductRepository
	Reviews   *ReviewRepository
	Templates *TemplateRepository
	Backups   *BackupRepository
}

func NewRepositories(s *Store) Repositories {
	return Repositories{
		Stores:    NewStoreRepository(s),
		Scans:     NewScanRepository(s),
		Issues:    NewIssueRepository(s),
		Jobs:      NewJobRepository(s),
		Products:  NewProductRepository(s),
		Reviews:   NewReviewRepository(s),
		Templates: NewTemplateRepository(s),
		Backups:   NewBackupRepository(s),
	}
}
