package files

import (
	"context"
	"errors"
	"io"
)

// ErrDisabled is returned when no object storage is configured.
var ErrDisabled = errors.New("file storage is not configured")

// Store persists uploaded blobs and returns a URL for them.
type Store interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
