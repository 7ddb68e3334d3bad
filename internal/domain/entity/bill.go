package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus estado de pago de una factura.
type BillStatus string

// Estados de factura.
const (
	BillStatusPending   BillStatus = "PENDING"
	BillStatusPaid      BillStatus = "PAID"
	BillStatusCancelled BillStatus = "CANCELLED"
)

// Bill representa la cabecera de una factura.
// Total = Subtotal + Tax - Discount, fijado al crear.
type Bill struct {
	ID         string
	BillNumber string // BILL-001, BILL-002, ... (único)
	CustomerID string
	UserID     string
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	Total      decimal.Decimal
	Status     BillStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BillItem línea de factura. Inmutable una vez creada; guarda snapshot de nombre, SKU y precio.
type BillItem struct {
	ID          string
	BillID      string
	ProductID   string
	ProductName string
	ProductSKU  string
	Quantity    int
	Price       decimal.Decimal // precio unitario al momento de la venta
	Total       decimal.Decimal // Quantity * Price
}
