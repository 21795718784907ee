package postgres

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/lingo-social/internal/domain/repository"
)

const (
	uniqueViolation      = "23505"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == uniqueViolation }

// markTransient tags serialization failures and deadlocks with
// repository.ErrTransient so callers can retry the operation.
func markTransient(err error) error {
	switch pgCode(err) {
	case serializationFailure, deadlockDetected:
		return fmt.Errorf("%w: %v", repository.ErrTransient, err)
	}
	return err
}

// validID filters ids that could never match a uuid column, so lookups
// answer "not found" instead of a cast error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if validID(id) {
			out = append(out, id)
		}
	}
	return out
}
