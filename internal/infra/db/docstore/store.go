// Package docstore keeps every record kind of the dashboard in a single
// "records" table: a few indexed columns for lookups plus the JSON body.
package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
)

const insertRecord = `
INSERT INTO records
(id, kind, created_by, store_id, parent_id, tag, created_at, updated_at, body)
VALUES (?,?,?,?,?,?,?,?,?)
`

// Doc is one stored row.
type Doc struct {
	ID        string
	Kind      string
	Owner     string
	StoreID   string
	ParentID  string
	Tag       string
	CreatedAt time.Time
	UpdatedAt time.Time
	Body      []byte
}

// Query selects docs of one kind. Empty fields are not filtered on.
type Query struct {
	Kind     string
	Owner    string
	StoreID  string
	ParentID string
	Tag      string
	// Limit <= 0 returns everything.
	Limit int
	// Ascending returns oldest first instead of newest first.
	Ascending bool
}

type Store struct {
	db      *sql.DB
	dialect Dialect
	now     func() time.Time
}

func New(db *sql.DB, d Dialect) *Store {
	return &Store{db: db, dialect: d, now: time.Now}
}

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Dialect() Dialect { return s.dialect }

// Migrate creates the records table and its indexes.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range s.dialect.Schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", s.dialect.Name, err)
		}
	}
	return nil
}

// Put inserts or replaces a doc.
func (s *Store) Put(ctx context.Context, d Doc) error {
	if d.ID == "" || d.Kind == "" {
		return errors.New("docstore: id and kind are required")
	}
	now := s.now().UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	if d.UpdatedAt.IsZero() {
		d.UpdatedAt = now
	}
	q := s.dialect.rebind(insertRecord + s.dialect.OnConflict)
	_, err := s.db.ExecContext(ctx, q,
		d.ID, d.Kind, d.Owner, d.StoreID, d.ParentID, d.Tag,
		d.CreatedAt.UnixNano(), d.UpdatedAt.UnixNano(), string(d.Body),
	)
	if err != nil {
		return fmt.Errorf("put %s %s: %w", d.Kind, d.ID, err)
	}
	return nil
}

// Get returns records.ErrNotFound when no doc of that kind has the id.
func (s *Store) Get(ctx context.Context, kind, id string) (Doc, error) {
	const q = `
SELECT id, kind, created_by, store_id, parent_id, tag, created_at, updated_at, body
FROM records WHERE kind = ? AND id = ? LIMIT 1
`
	row := s.db.QueryRowContext(ctx, s.dialect.rebind(q), kind, id)
	d, err := scanDoc(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Doc{}, fmt.Errorf("%s %s: %w", kind, id, records.ErrNotFound)
	}
	if err != nil {
		return Doc{}, fmt.Errorf("get %s %s: %w", kind, id, err)
	}
	return d, nil
}

func (s *Store) Find(ctx context.Context, qry Query) ([]Doc, error) {
	where, args := qry.where()
	q := `
SELECT id, kind, created_by, store_id, parent_id, tag, created_at, updated_at, body
FROM records WHERE ` + where
	if qry.Ascending {
		q += " ORDER BY created_at ASC, id ASC"
	} else {
		q += " ORDER BY created_at DESC, id DESC"
	}
	if qry.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, qry.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", qry.Kind, err)
	}
	defer rows.Close()

	var out []Doc
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context, qry Query) (int, error) {
	where, args := qry.where()
	var n int
	err := s.db.QueryRowContext(ctx, s.dialect.rebind("SELECT COUNT(*) FROM records WHERE "+where), args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", qry.Kind, err)
	}
	return n, nil
}

// Delete removes a doc; deleting a missing doc returns records.ErrNotFound.
func (s *Store) Delete(ctx context.Context, kind, id string) error {
	res, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM records WHERE kind = ? AND id = ?`), kind, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, records.ErrNotFound)
	}
	return nil
}

func (q Query) where() (string, []any) {
	conds := []string{"kind = ?"}
	args := []any{q.Kind}
	add := func(col, v string) {
		if v != "" {
			conds = append(conds, col+" = ?")
			args = append(args, v)
		}
	}
	add("created_by", q.Owner)
	add("store_id", q.StoreID)
	add("parent_id", q.ParentID)
	add("tag", q.Tag)
	return strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoc(r rowScanner) (Doc, error) {
	var d Doc
	var created, updated int64
	if err := r.Scan(&d.ID, &d.Kind, &d.Owner, &d.StoreID, &d.ParentID, &d.Tag, &created, &updated, &d.Body); err != nil {
		return Doc{}, err
	}
	d.CreatedAt = time.Unix(0, created).UTC()
	d.UpdatedAt = time.Unix(0, updated).UTC()
	return d, nil
}
