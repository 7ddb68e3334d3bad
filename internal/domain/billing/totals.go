package billing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Billing-api/internal/domain"
)

// DefaultTaxRate tasa de impuesto aplicada sobre el subtotal (10%).
var DefaultTaxRate = decimal.RequireFromString("0.10")

// Line cantidad y precio unitario de una línea, ya resuelto desde el producto.
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals importes calculados de una factura.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal devuelve quantity * price redondeado a 2 decimales.
func LineTotal(quantity int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// CalculateTotals aplica subtotal = Σ qty*precio, tax = subtotal*rate, total = subtotal + tax - discount.
// Un descuento negativo o mayor que subtotal+tax se rechaza: el total nunca queda negativo.
func CalculateTotals(lines []Line, taxRate, discount decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, domain.NewValidationError("discount", "no puede ser negativo")
	}
	if taxRate.IsNegative() {
		return Totals{}, domain.NewValidationError("tax_rate", "no puede ser negativa")
	}
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(LineTotal(l.Quantity, l.UnitPrice))
	}
	tax := subtotal.Mul(taxRate).Round(2)
	discount = discount.Round(2)
	gross := subtotal.Add(tax)
	if discount.GreaterThan(gross) {
		return Totals{}, domain.NewValidationError("discount", "supera subtotal + impuesto")
	}
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    gross.Sub(discount),
	}, nil
}
