package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound              = errors.New("recurso no encontrado")
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists    = errors.New("el email ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrDuplicate             = errors.New("recurso duplicado")
	ErrUnauthorized          = errors.New("no autorizado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrConflict              = errors.New("conflicto con el estado actual")
	ErrInsufficientStock     = errors.New("stock insuficiente")
	ErrInvalidTransition     = errors.New("transición de estado no permitida")
	ErrNumberingConflict     = errors.New("conflicto en la numeración de facturas")
	ErrMalformedBillNumber   = errors.New("número de factura malformado")
	ErrTransientStorage      = errors.New("almacenamiento no disponible temporalmente")
	ErrIdempotencyInProgress = errors.New("petición con la misma clave de idempotencia en curso")
)

// ValidationError entrada rechazada antes de cualquier mutación.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NotFoundError referencia a una entidad inexistente (cliente, producto, factura, usuario).
type NotFoundError struct {
	Entity string
	ID     string
}

// NewNotFoundError construye un NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s no encontrado: %s", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientStockError la cantidad pedida supera el stock disponible del producto.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q (%s): disponible %d, solicitado %d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NumberingConflictError el número asignado ya existe (violación de unicidad en bill_number).
type NumberingConflictError struct {
	BillNumber string
}

func (e *NumberingConflictError) Error() string {
	return fmt.Sprintf("número de factura duplicado: %s", e.BillNumber)
}

func (e *NumberingConflictError) Unwrap() error { return ErrNumberingConflict }

// TransientStorageError timeout, pérdida de conexión o fallo de serialización.
// Nada quedó confirmado, por lo que la operación completa se puede reintentar.
type TransientStorageError struct {
	Op  string
	Err error
}

// NewTransientStorageError construye un TransientStorageError.
func NewTransientStorageError(op string, err error) *TransientStorageError {
	return &TransientStorageError{Op: op, Err: err}
}

func (e *TransientStorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientStorageError) Unwrap() []error { return []error{ErrTransientStorage, e.Err} }
