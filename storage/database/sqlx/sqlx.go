// Package sqlxrepos implements the repositories on Postgres with sqlx and squirrel.
// Rows are returned in insertion order.
package sqlxrepos

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func excludeIDs(q squirrel.SelectBuilder, ids []string) squirrel.SelectBuilder {
	if len(ids) == 0 {
		return q
	}
	return q.Where(squirrel.NotEq{"id": validIDs(ids)})
}

// validIDs drops the ids that are not UUIDs; Postgres rejects them in uuid comparisons.
func validIDs(ids []string) []string {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			valid = append(valid, id)
		}
	}
	return valid
}

func isNoRows(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}
