package repository

import (
	"errors"

	"kos-booking/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrExclusionViolation  = "23P01"
)

// translateError maps a raw pgx error onto the error taxonomy so nothing
// driver specific leaves this package.
func translateError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Mark(errs.Wrap(err, msg), errs.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrExclusionViolation, pgErrUniqueViolation, pgErrForeignKeyViolation:
			return errs.Mark(errs.Wrapf(err, "%s: constraint %s", msg, pgErr.ConstraintName), errs.ErrConflict)
		}
	}

	return errs.Infrastructure(err, msg)
}
