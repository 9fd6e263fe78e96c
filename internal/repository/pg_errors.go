package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

// IsOverlapViolation reports whether err comes from the appointments
// exclusion constraint rejecting an overlapping interval.
func IsOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation
}

// IsDuplicateKeyError checks if the error is a unique violation on the named constraint
func IsDuplicateKeyError(err error, constraintName string) bool {
	return hasCode(err, pgUniqueViolation, constraintName)
}

// IsForeignKeyError checks if the error is a foreign key violation on the named constraint
func IsForeignKeyError(err error, constraintName string) bool {
	return hasCode(err, pgForeignKeyViolation, constraintName)
}

func hasCode(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}
