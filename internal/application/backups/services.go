package backups

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/application"
	"github.com/bryanwahyu/automaton-shop/internal/application/uploads"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/backups"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

// Service implements use-cases untuk ThemeBackup
type Service struct {
	Repo    domain.Repository
	Stores  stores.Repository
	Uploads *uploads.Service
	Clock   application.Clock
	Log     *zap.Logger

	// serializes version numbering
	mu sync.Mutex
}

// liveTheme is used when the store has never reported its theme id.
const liveTheme = "live"

func (s *Service) List(ctx context.Context, owner string) ([]*domain.ThemeBackup, error) {
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByStore(ctx, st.ID)
}

// Content is an optional theme archive stored alongside the backup record.
type Content struct {
	Name        string
	ContentType string
	Body        io.Reader
	Size        int64
}

// Create snapshots the live theme as the next version. When content is
// given it is uploaded to object storage first.
func (s *Service) Create(ctx context.Context, owner, notes string, content *Content) (*domain.ThemeBackup, error) {
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.Repo.ListByStore(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	themeID := st.ThemeID
	if themeID == "" {
		themeID = liveTheme
	}
	b := &domain.ThemeBackup{
		ID:        uuid.NewString(),
		StoreID:   st.ID,
		Owner:     owner,
		ThemeID:   themeID,
		ThemeName: "Live Theme",
		Notes:     middleware.SanitizeString(notes),
		Version:   domain.NextVersion(existing),
		CreatedAt: s.Clock.Now(),
	}

	if content != nil && content.Body != nil {
		name := content.Name
		if name == "" {
			name = fmt.Sprintf("theme-%s-v%d.zip", themeID, b.Version)
		}
		ct := content.ContentType
		if ct == "" {
			ct = "application/zip"
		}
		up, err := s.Uploads.UploadFile(ctx, owner, uploads.KindTheme, name, ct, content.Body, content.Size)
		if err != nil {
			return nil, err
		}
		b.ArtifactURL = up.FileURL
		b.ArtifactKey = up.Key
		b.SizeBytes = up.Size
	}

	if err := s.Repo.Save(ctx, b); err != nil {
		if b.ArtifactKey != "" {
			if derr := s.Uploads.Delete(ctx, b.ArtifactKey); derr != nil {
				s.Log.Warn("orphaned backup artifact", zap.String("key", b.ArtifactKey), zap.Error(derr))
			}
		}
		return nil, err
	}
	s.Log.Info("theme backup created", zap.String("store_id", st.ID), zap.Int("version", b.Version))
	return b, nil
}

// Delete removes a backup of the owner's store and its archive, if any.
func (s *Service) Delete(ctx context.Context, owner, id string) error {
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return err
	}
	b, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if b.StoreID != st.ID {
		return fmt.Errorf("backup %s: %w", id, records.ErrNotFound)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if b.ArtifactKey != "" {
		if err := s.Uploads.Delete(ctx, b.ArtifactKey); err != nil {
			s.Log.Warn("backup artifact not removed", zap.String("key", b.ArtifactKey), zap.Error(err))
		}
	}
	return nil
}
