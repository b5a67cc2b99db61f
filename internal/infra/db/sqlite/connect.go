// Package sqlite backs the record store with an embedded database, used for
// local development and tests.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/automaton-shop/internal/infra/db/docstore"
	_ "modernc.org/sqlite"
)

// Connect opens path (":memory:" for a throwaway database). A single
// connection is kept so an in-memory database is shared by every caller.
func Connect(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	return db, nil
}

func Dialect() docstore.Dialect {
	return docstore.Dialect{
		Name:       "sqlite",
		OnConflict: docstore.ConflictUpdate(),
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS records (
  id          TEXT NOT NULL,
  kind        TEXT NOT NULL,
  created_by  TEXT NOT NULL DEFAULT '',
  store_id    TEXT NOT NULL DEFAULT '',
  parent_id   TEXT NOT NULL DEFAULT '',
  tag         TEXT NOT NULL DEFAULT '',
  created_at  INTEGER NOT NULL,
  updated_at  INTEGER NOT NULL,
  body        TEXT NOT NULL,
  PRIMARY KEY (kind, id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_records_owner ON records (kind, created_by, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_records_store ON records (kind, store_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_records_parent ON records (kind, parent_id, created_at)`,
		},
	}
}

// Open connects and migrates in one step.
func Open(ctx context.Context, path string) (*docstore.Store, error) {
	db, err := Connect(ctx, path)
	if err != nil {
		return nil, err
	}
	st := docstore.New(db, Dialect())
	if err := st.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return st, nil
}
