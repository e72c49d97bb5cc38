package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateMessage reports that a message with the same
// (user_id, provider_msg_id) already exists. A unique-constraint race on
// insert is mapped to this error so callers treat it as a duplicate outcome,
// never a persistence failure.
var ErrDuplicateMessage = errors.New("repository: duplicate message")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
