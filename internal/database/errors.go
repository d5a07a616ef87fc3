package database

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// IsConstraintViolation reports whether err came from a failed UNIQUE,
// NOT NULL or FOREIGN KEY constraint.
func IsConstraintViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}
