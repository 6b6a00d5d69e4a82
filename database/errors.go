package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"oasa_server/lib"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Classify maps a low-level database error onto the application error
// taxonomy so handlers can pick status codes with errors.Is. Store failures
// are surfaced immediately rather than retried; a flaky connection must show
// up as a 500, not as added latency.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: no matching rows", lib.ErrNotFound)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %s", lib.ErrStore, err.Error())
	}

	if code := sqlState(err); code != "" {
		switch {
		case code == "23505": // unique_violation
			return fmt.Errorf("%w: duplicate value violates a unique constraint", lib.ErrConflict)

		case strings.HasPrefix(code, "23"): // integrity_constraint_violation class
			return fmt.Errorf("%w: constraint violation (%s)", lib.ErrConflict, code)

		case strings.HasPrefix(code, "22"): // data_exception class
			return fmt.Errorf("%w: invalid data for column type (%s)", lib.ErrValidation, code)

		default:
			return fmt.Errorf("%w: database error %s: %s", lib.ErrStore, code, err.Error())
		}
	}

	return fmt.Errorf("%w: %s", lib.ErrStore, err.Error())
}

// sqlState extracts the PostgreSQL SQLSTATE code from an error, covering
// both the pgx error type and the bun pgdriver error type
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var drvErr pgdriver.Error
	if errors.As(err, &drvErr) {
		return drvErr.Field('C')
	}

	return ""
}

// IsConnectionError reports whether an error looks like a broken or refused
// connection rather than a query-level failure. Used by the query hook to
// log pool health problems distinctly.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}

	switch sqlState(err) {
	case "08000", // connection_exception
		"08003", // connection_does_not_exist
		"08006", // connection_failure
		"08001", // sqlclient_unable_to_establish_sqlconnection
		"08004", // sqlserver_rejected_establishment_of_sqlconnection
		"08007", // transaction_resolution_unknown
		"08P01", // protocol_violation
		"57P03", // cannot_connect_now
		"53300": // too_many_connections
		return true
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "broken pipe") ||
		strings.Contains(errMsg, "no such host") ||
		strings.Contains(errMsg, "network is unreachable") ||
		strings.Contains(errMsg, "i/o timeout") ||
		strings.Contains(errMsg, "connection closed") ||
		strings.Contains(errMsg, "bad connection")
}
