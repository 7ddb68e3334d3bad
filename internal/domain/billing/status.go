package billing

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
)

// ParseStatus normaliza y valida un estado recibido del cliente.
func ParseStatus(s string) (entity.BillStatus, error) {
	switch st := entity.BillStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case entity.BillStatusPending, entity.BillStatusPaid, entity.BillStatusCancelled:
		return st, nil
	default:
		return "", domain.NewValidationError("status", fmt.Sprintf("estado desconocido %q", s))
	}
}

// ValidateTransition aplica la máquina de estados:
//
//	PENDING → PAID | CANCELLED
//	PAID → (ninguno)
//	CANCELLED → (ninguno)
//
// Mismo estado origen y destino no es error (no-op), el caller lo resuelve antes.
func ValidateTransition(from, to entity.BillStatus) error {
	if from == to {
		return nil
	}
	if from == entity.BillStatusPending && (to == entity.BillStatusPaid || to == entity.BillStatusCancelled) {
		return nil
	}
	return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, to)
}

// RestocksOn indica si la transición devuelve al inventario las unidades facturadas.
func RestocksOn(from, to entity.BillStatus) bool {
	return from == entity.BillStatusPending && to == entity.BillStatusCancelled
}
