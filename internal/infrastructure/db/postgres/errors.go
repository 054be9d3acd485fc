package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/domain"
)

const sqlStateUniqueViolation = "23505"

// mapWriteErr classifies a failed write. Integrity violations (class 23)
// become conflicts; anything else is treated as the store being unavailable.
func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return domain.ErrConflict(pgErr.ConstraintName, err)
	}
	return domain.ErrStoreUnavailable(err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == sqlStateUniqueViolation
}
