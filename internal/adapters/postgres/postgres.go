// Package postgres holds shared plumbing for the Postgres adapters: pool
// construction, error classification, and the schema applied by tests.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the adapters care about.
const (
	UniqueViolationCode = "23505"
)

// AsPgError unwraps err to a *pgconn.PgError when possible.
func AsPgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
