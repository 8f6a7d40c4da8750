package database

import (
	"errors"

	"github.com/hungpc/blog-backend/errs"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// translate maps driver errors onto the service error taxonomy: record
// misses become NotFound, unique-constraint rejections become Conflict so
// that upsert callers can re-fetch instead of failing hard.
func translate(err error, entity, value string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewNotFoundError(entity + " not found: " + value)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return errs.NewUniqueViolationError(entity, value)
	}

	return errs.NewDatabaseError("query", entity, err)
}
