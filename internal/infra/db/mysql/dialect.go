package mysql

import "github.com/bryanwahyu/automaton-shop/internal/infra/db/docstore"

const schema = `
CREATE TABLE IF NOT EXISTS records (
  id          VARCHAR(64)  NOT NULL,
  kind        VARCHAR(64)  NOT NULL,
  created_by  VARCHAR(255) NOT NULL DEFAULT '',
  store_id    VARCHAR(64)  NOT NULL DEFAULT '',
  parent_id   VARCHAR(64)  NOT NULL DEFAULT '',
  tag         VARCHAR(128) NOT NULL DEFAULT '',
  created_at  BIGINT       NOT NULL,
  updated_at  BIGINT       NOT NULL,
  body        LONGTEXT     NOT NULL,
  PRIMARY KEY (kind, id),
  INDEX idx_records_owner (kind, created_by, created_at),
  INDEX idx_records_store (kind, store_id, created_at),
  INDEX idx_records_parent (kind, parent_id, created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`

// Dialect for MySQL 8 / MariaDB.
func Dialect() docstore.Dialect {
	return docstore.Dialect{
		Name:       "mysql",
		OnConflict: docstore.DuplicateKeyUpdate(),
		Schema:     []string{schema},
	}
}
