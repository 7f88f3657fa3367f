package database

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	apperrors "github.com/gocomet/ride-ledger/pkg/errors"
)

// PostgreSQL SQLSTATE codes for integrity violations
const (
	codeNotNullViolation    = "23502"
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

// Translate converts a driver error into a ConstraintError or StoreError tagged with op.
// Errors that are already AppErrors pass through untouched.
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}

	code, constraint := sqlState(err)
	switch code {
	case codeUniqueViolation:
		return apperrors.Constraint(op, describe("duplicate value violates unique constraint", constraint), err)
	case codeForeignKeyViolation:
		return apperrors.Constraint(op, describe("referenced row does not exist or is still referenced", constraint), err)
	case codeCheckViolation:
		return apperrors.Constraint(op, describe("value violates check constraint", constraint), err)
	case codeNotNullViolation:
		return apperrors.Constraint(op, describe("required column is null", constraint), err)
	}

	return apperrors.Store(op, err)
}

// sqlState extracts the SQLSTATE and constraint name from lib/pq or pgx errors
func sqlState(err error) (string, string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func describe(msg, constraint string) string {
	if constraint == "" {
		return msg
	}
	return fmt.Sprintf("%s %q", msg, constraint)
}
