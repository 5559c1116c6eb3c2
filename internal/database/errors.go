package database

import (
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/example/vocabdrill/internal/drill"
)

// undefinedTableCode is the PostgreSQL SQLSTATE for a missing relation
const undefinedTableCode = "42P01"

// mapError wraps a driver error with msg. A missing table becomes
// drill.ErrStoreUnavailable so callers can tell the user to import data first.
func mapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if isMissingTable(err) {
		return errors.Wrapf(drill.ErrStoreUnavailable, "%s: %v", msg, err)
	}
	return errors.Wrap(err, msg)
}

func isMissingTable(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return strings.Contains(sqliteErr.Error(), "no such table")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == undefinedTableCode
	}
	return false
}
