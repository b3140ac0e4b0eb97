package implementation

import (
	"errors"

	"campus-finance-be/internal/repository/contract"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// translateError turns driver-level unique violations into a contract error so
// services never import the driver.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &contract.UniqueViolationError{Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}
