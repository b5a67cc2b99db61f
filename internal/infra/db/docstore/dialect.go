package docstore

import (
	"strconv"
	"strings"
)

// Dialect captures the few SQL differences between the supported databases.
type Dialect struct {
	Name string
	// Numbered switches '?' placeholders to $1, $2, ...
	Numbered bool
	// OnConflict is appended to the records INSERT to turn it into an upsert.
	OnConflict string
	// Schema is executed statement by statement by Migrate.
	Schema []string
}

// Columns updated when a record is written again.
var UpdatableColumns = []string{"created_by", "store_id", "parent_id", "tag", "updated_at", "body"}

// DuplicateKeyUpdate builds a MySQL style ON DUPLICATE KEY clause.
func DuplicateKeyUpdate() string {
	parts := make([]string, len(UpdatableColumns))
	for i, c := range UpdatableColumns {
		parts[i] = c + "=VALUES(" + c + ")"
	}
	return "ON DUPLICATE KEY UPDATE " + strings.Join(parts, ", ")
}

// ConflictUpdate builds an ON CONFLICT (kind, id) DO UPDATE clause (Postgres, SQLite).
func ConflictUpdate() string {
	parts := make([]string, len(UpdatableColumns))
	for i, c := range UpdatableColumns {
		parts[i] = c + " = EXCLUDED." + c
	}
	return "ON CONFLICT (kind, id) DO UPDATE SET " + strings.Join(parts, ", ")
}

func (d Dialect) rebind(q string) string {
	if !d.Numbered {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
