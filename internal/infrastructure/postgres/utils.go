package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Billing-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeAdminShutdown        = "57P01"
	codeQueryCanceled        = "57014"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// constraintName nombre del constraint violado ("" si no es un PgError).
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isTransient indica fallos tras los cuales nada quedó confirmado y la operación completa puede reintentarse:
// timeouts, cancelación, pérdida de conexión, fallos de serialización y deadlocks.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	switch code := pgCode(err); {
	case code == codeSerializationFailure, code == codeDeadlockDetected,
		code == codeAdminShutdown, code == codeQueryCanceled:
		return true
	case strings.HasPrefix(code, "08"): // connection_exception
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

// wrapErr envuelve err con la operación; los fallos transitorios se clasifican como domain.TransientStorageError.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return domain.NewTransientStorageError(op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// validID indica si id puede compararse con una columna UUID. Un ID malformado dentro de una
// transacción la abortaría (22P02); para lecturas por ID equivale a "no existe".
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
