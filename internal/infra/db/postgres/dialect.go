package postgres

import "github.com/bryanwahyu/automaton-shop/internal/infra/db/docstore"

func Dialect() docstore.Dialect {
	return docstore.Dialect{
		Name:       "postgres",
		Numbered:   true,
		OnConflict: docstore.ConflictUpdate(),
		Schema: []string{
			`CREATE TABLE IF NOT EXISTS records (
  id          VARCHAR(64)  NOT NULL,
  kind        VARCHAR(64)  NOT NULL,
  created_by  VARCHAR(255) NOT NULL DEFAULT '',
  store_id    VARCHAR(64)  NOT NULL DEFAULT '',
  parent_id   VARCHAR(64)  NOT NULL DEFAULT '',
  tag         VARCHAR(128) NOT NULL DEFAULT '',
  created_at  BIGINT       NOT NULL,
  updated_at  BIGINT       NOT NULL,
  body        TEXT         NOT NULL,
  PRIMARY KEY (kind, id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_records_owner ON records (kind, created_by, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_records_store ON records (kind, store_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_records_parent ON records (kind, parent_id, created_at)`,
		},
	}
}
