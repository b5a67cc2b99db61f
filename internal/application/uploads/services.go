package uploads

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"path"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/domain/files"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

// Kind groups uploads under a key prefix.
type Kind string

const (
	KindImage   Kind = "images"
	KindTheme   Kind = "themes"
	KindGeneric Kind = "files"
)

type Service struct {
	// Files is nil when object storage is not configured.
	Files files.Store
	Log   *zap.Logger
}

type Upload struct {
	FileURL     string `json:"file_url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// UploadFile stores r for owner. Image uploads must carry an image/* type.
func (s *Service) UploadFile(ctx context.Context, owner string, kind Kind, name, contentType string, r io.Reader, size int64) (Upload, error) {
	if s.Files == nil {
		return Upload{}, files.ErrDisabled
	}
	if kind == KindImage {
		if err := middleware.ValidateImageContentType(contentType); err != nil {
			return Upload{}, err
		}
	}
	key := Key(owner, kind, name)
	url, err := s.Files.Put(ctx, key, r, size, contentType)
	if err != nil {
		return Upload{}, err
	}
	s.Log.Info("file uploaded", zap.String("key", key), zap.Int64("size", size))
	return Upload{FileURL: url, Key: key, ContentType: contentType, Size: size}, nil
}

// Delete removes a previously uploaded object.
func (s *Service) Delete(ctx context.Context, key string) error {
	if s.Files == nil {
		return files.ErrDisabled
	}
	return s.Files.Delete(ctx, key)
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Key builds "<owner hash>/<kind>/<uuid>-<name>". The owner is hashed so
// emails never appear in object URLs.
func Key(owner string, kind Kind, name string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(owner)))
	base := unsafeName.ReplaceAllString(path.Base(strings.ReplaceAll(name, `\`, "/")), "-")
	base = strings.Trim(base, "-.")
	if base == "" {
		base = "file"
	}
	return hex.EncodeToString(sum[:])[:16] + "/" + string(kind) + "/" + uuid.NewString() + "-" + base
}
