package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Billing-api/internal/domain/entity"
)

// BillRepository define el puerto de persistencia para Bill y sus líneas.
type BillRepository interface {
	// Create inserta la cabecera. Un bill_number repetido devuelve *domain.NumberingConflictError.
	Create(ctx context.Context, bill *entity.Bill) error
	CreateItem(ctx context.Context, item *entity.BillItem) error
	GetByID(ctx context.Context, id string) (*entity.Bill, error)
	GetItemsByBillID(ctx context.Context, billID string) ([]*entity.BillItem, error)
	// GetLatest la factura creada más recientemente, o nil si no hay ninguna.
	GetLatest(ctx context.Context) (*entity.Bill, error)
	// UpdateStatus cambia el estado solo si el actual es from. updated=false si otro proceso lo cambió antes.
	UpdateStatus(ctx context.Context, id string, from, to entity.BillStatus, at time.Time) (updated bool, err error)
}

// BillSequenceRepository contador atómico para la numeración de facturas.
// Ambas operaciones bloquean la fila del contador hasta el fin de la transacción,
// de modo que un rollback libera el número asignado.
type BillSequenceRepository interface {
	// Next incrementa y devuelve el contador. found=false si el contador aún no existe.
	Next(ctx context.Context, name string) (value int64, found bool, err error)
	// Advance crea o incrementa el contador garantizando un valor >= atLeast, y lo devuelve.
	// Se usa para inicializarlo desde la última factura o resincronizarlo tras un conflicto.
	Advance(ctx context.Context, name string, atLeast int64) (int64, error)
}
