package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesFilter rango [Start, End] sobre bills.created_at; un extremo en cero no limita.
// PaidOnly restringe a facturas PAID.
type SalesFilter struct {
	Start    time.Time
	End      time.Time
	PaidOnly bool
}

// SalesSummary ingresos (Σ total) y número de facturas que cumplen el filtro.
type SalesSummary struct {
	Revenue decimal.Decimal
	Count   int
}

// MonthlyRevenueResult bucket mensual; Month con formato YYYY-MM (UTC).
type MonthlyRevenueResult struct {
	Month   string
	Revenue decimal.Decimal
	Sales   int
}

// ProductSalesResult ingresos y unidades por producto (Σ de líneas).
type ProductSalesResult struct {
	ProductID   string
	ProductName string
	SKU         string
	Category    string
	UnitsSold   int
	Revenue     decimal.Decimal
}

// RecentBillResult fila resumida para listados de ventas recientes.
type RecentBillResult struct {
	ID            string
	BillNumber    string
	CustomerName  string
	CustomerEmail string
	Total         decimal.Decimal
	Status        string
	CreatedAt     time.Time
}

// CatalogCounts totales de productos y clientes, y los creados desde una fecha.
type CatalogCounts struct {
	Products     int
	NewProducts  int
	Customers    int
	NewCustomers int
}

// AnalyticsRepository consultas de solo lectura sobre facturas, líneas y catálogo.
type AnalyticsRepository interface {
	GetSalesSummary(ctx context.Context, f SalesFilter) (SalesSummary, error)
	// CountActiveCustomers clientes distintos con al menos una factura en el rango (cualquier estado).
	CountActiveCustomers(ctx context.Context, start, end time.Time) (int, error)
	// GetMonthlyRevenue buckets ordenados por mes ascendente; solo meses con ventas.
	GetMonthlyRevenue(ctx context.Context, f SalesFilter) ([]MonthlyRevenueResult, error)
	// GetProductSales ordenado por ingreso descendente; limit <= 0 devuelve todos.
	GetProductSales(ctx context.Context, f SalesFilter, limit int) ([]ProductSalesResult, error)
	// GetRecentBills últimas facturas del filtro por fecha de creación descendente.
	GetRecentBills(ctx context.Context, f SalesFilter, limit int) ([]RecentBillResult, error)
	GetCatalogCounts(ctx context.Context, since time.Time) (CatalogCounts, error)
}

// Contains indica si t cae dentro del rango del filtro.
func (f SalesFilter) Contains(t time.Time) bool {
	if !f.Start.IsZero() && t.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && t.After(f.End) {
		return false
	}
	return true
}
