package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	sqlitelib "modernc.org/sqlite"

	"github.com/taskdesk/taskdesk/internal/store"
)

// PostgreSQL error codes
const (
	// pgUniqueViolationCode is the PostgreSQL error code for unique constraint violations
	pgUniqueViolationCode = "23505"

	// pgForeignKeyViolationCode is the PostgreSQL error code for foreign key violations
	pgForeignKeyViolationCode = "23503"

	// pgCheckViolationCode is the PostgreSQL error code for check constraint violations
	pgCheckViolationCode = "23514"

	// pgNotNullViolationCode is the PostgreSQL error code for not null violations
	pgNotNullViolationCode = "23502"
)

// SQLite extended result codes (SQLITE_CONSTRAINT_*)
const (
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintNotNull    = 1299
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context and provide better
// debugging information. This function should be used in all database
// operations to ensure consistent error handling across both backends.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	// Handle common SQL errors
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	// Handle PostgreSQL-specific errors
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolationCode:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case pgForeignKeyViolationCode, pgCheckViolationCode, pgNotNullViolationCode:
			return fmt.Errorf(
				"%w: constraint violation (%s): %v",
				store.ErrInvalidEntity,
				pgErr.ConstraintName,
				err,
			)
		}
		return err
	}

	// Handle SQLite-specific errors
	var liteErr *sqlitelib.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
		case sqliteConstraintForeignKey, sqliteConstraintCheck, sqliteConstraintNotNull:
			return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
		}
		return err
	}

	// Some driver versions surface constraint failures only as text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "CHECK constraint failed"):
		return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
	}

	// Return the original error for errors that don't have specific mappings
	return err
}

// IsUniqueViolation checks if the given error is a unique constraint
// violation on either backend. This is useful for detecting duplicate
// records at the point of insert, which is the real race guard for
// check-then-insert sequences.
func IsUniqueViolation(err error) bool {
	return store.IsDuplicateError(MapError(err))
}

// IsForeignKeyViolation checks if the given error is a foreign key
// constraint violation on either backend.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolationCode
	}
	var liteErr *sqlitelib.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqliteConstraintForeignKey
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
