package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario.
// Stock nunca queda negativo por una facturación; MinStock es solo el umbral de alerta.
type Product struct {
	ID          string
	SKU         string // único
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo de compra
	Stock       int
	MinStock    int
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el stock está en o por debajo del mínimo.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
