package assets

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	errs "github.com/kidverse/jigcraft-backend/internal/pkg/errors"
)

// Postgres SQLSTATEs raised when the isolation level rejects one of two
// conflicting writers.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
)

// mapError folds driver-level serialization failures into the service error
// taxonomy so callers can retry or surface a conflict instead of a 500.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateSerializationFailure, sqlstateDeadlockDetected:
			return fmt.Errorf("%w: %v", errs.ErrConflict, err)
		}
	}
	return err
}
