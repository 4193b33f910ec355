package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the handlers react to
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err was caused by a unique constraint
func IsUniqueViolation(err error) bool {
	return hasPgCode(err, pgUniqueViolation)
}

// IsForeignKeyViolation reports whether err references a missing row
func IsForeignKeyViolation(err error) bool {
	return hasPgCode(err, pgForeignKeyViolation)
}

func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
