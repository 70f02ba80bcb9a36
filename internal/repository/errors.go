package repository

import (
	"errors"
	"strings"

	"social-feed-backend/internal/apperr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateStringTooLong       = "22001"
)

// classify maps a Postgres error to the apperr taxonomy. conflict is the
// error reported for a unique violation.
func classify(op string, err error, conflict error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateUniqueViolation:
			if conflict != nil {
				return conflict
			}
			return apperr.ErrAlreadyExists
		case sqlStateForeignKeyViolation:
			return apperr.NotFound(referencedEntity(pgErr.ConstraintName))
		case sqlStateCheckViolation:
			if strings.Contains(pgErr.ConstraintName, "self") {
				return apperr.ErrSelfReference
			}
			return apperr.Invalid(pgErr.ColumnName, "violates "+pgErr.ConstraintName)
		case sqlStateStringTooLong:
			return apperr.Invalid(pgErr.ColumnName, "is too long")
		}
	}
	return apperr.Storage(op, err)
}

// referencedEntity names the parent row a foreign key constraint points at
func referencedEntity(constraint string) string {
	if strings.Contains(constraint, "post_id") {
		return "post"
	}
	return "user"
}
