package billing

import (
	"context"

	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

// BillingTxRunner ejecuta fn dentro de una única transacción con los repos de facturación atados a ella.
// Si fn devuelve error, nada de lo hecho por fn queda persistido.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		customerRepo repository.CustomerRepository,
		billRepo repository.BillRepository,
		seqRepo repository.BillSequenceRepository,
	) error) error
}

// IdempotencyStore reserva claves Idempotency-Key de POST /api/bills.
type IdempotencyStore interface {
	// Reserve marca la clave como en curso. Si ya existía, reserved=false y billID es la factura
	// creada por la petición original ("" si aún está en curso).
	Reserve(ctx context.Context, key string) (billID string, reserved bool, err error)
	// Complete asocia la clave a la factura creada.
	Complete(ctx context.Context, key, billID string) error
	// Release libera la clave cuando la creación falla, para permitir reintentos.
	Release(ctx context.Context, key string) error
}

// BillPDFGenerator genera la representación imprimible de una factura.
type BillPDFGenerator interface {
	GenerateBillPDF(ctx context.Context, doc BillDocument) ([]byte, error)
}

// BillDocument datos necesarios para imprimir una factura.
type BillDocument struct {
	CompanyName string
	Bill        *entity.Bill
	Customer    *entity.Customer
	Items       []*entity.BillItem
}
