package service

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5/pgconn"

	"clinicbook/internal/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgSerializationFailed = "40001"
	pgDeadlockDetected    = "40P01"
)

// storeErr translates low-level store failures into kind-tagged errors.
// Already-tagged errors pass through unchanged so no kind is ever rewritten.
func storeErr(err error) error {
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		return err
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout("store operation timed out, retry later")
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgSerializationFailed, pgDeadlockDetected:
			// lost a race at commit time; the caller may safely retry
			return errors.Conflict("concurrent modification, please retry")
		}
	}
	return errors.Internal(err)
}
