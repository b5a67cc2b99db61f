package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Index lists the lookup columns derived from an entity.
type Index struct {
	ID        string
	Owner     string
	StoreID   string
	ParentID  string
	Tag       string
	CreatedAt time.Time
}

// Collection stores values of T as JSON docs of a single kind.
type Collection[T any] struct {
	store *Store
	kind  string
	index func(*T) Index
}

func NewCollection[T any](s *Store, kind string, index func(*T) Index) *Collection[T] {
	return &Collection[T]{store: s, kind: kind, index: index}
}

func (c *Collection[T]) Kind() string { return c.kind }

func (c *Collection[T]) Save(ctx context.Context, v *T) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.kind, err)
	}
	ix := c.index(v)
	return c.store.Put(ctx, Doc{
		ID:        ix.ID,
		Kind:      c.kind,
		Owner:     ix.Owner,
		StoreID:   ix.StoreID,
		ParentID:  ix.ParentID,
		Tag:       ix.Tag,
		CreatedAt: ix.CreatedAt,
		Body:      body,
	})
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	d, err := c.store.Get(ctx, c.kind, id)
	if err != nil {
		return nil, err
	}
	return c.decode(d)
}

// Find runs q against this collection's kind.
func (c *Collection[T]) Find(ctx context.Context, q Query) ([]*T, error) {
	q.Kind = c.kind
	docs, err := c.store.Find(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(docs))
	for _, d := range docs {
		v, err := c.decode(d)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (c *Collection[T]) Count(ctx context.Context, q Query) (int, error) {
	q.Kind = c.kind
	return c.store.Count(ctx, q)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.store.Delete(ctx, c.kind, id)
}

func (c *Collection[T]) decode(d Doc) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(d.Body, v); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", c.kind, d.ID, err)
	}
	return v, nil
}
