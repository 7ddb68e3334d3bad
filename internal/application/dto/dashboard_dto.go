package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard.
type DashboardSummaryDTO struct {
	Metrics     DashboardMetricsDTO `json:"metrics"`
	ChartData   []ChartPointDTO     `json:"chartData"`   // últimos 6 meses, meses sin ventas en cero
	RecentSales []RecentBillDTO     `json:"recentSales"` // últimas 5 facturas PAID
}

// DashboardMetricsDTO KPIs principales.
type DashboardMetricsDTO struct {
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`  // histórico, solo PAID
	RevenueGrowth         float64         `json:"revenueGrowth"` // % mes actual vs anterior, 1 decimal
	TotalProducts         int             `json:"totalProducts"`
	NewProductsThisMonth  int             `json:"newProductsThisMonth"`
	TotalCustomers        int             `json:"totalCustomers"`
	NewCustomersThisMonth int             `json:"newCustomersThisMonth"`
	TotalSales            int             `json:"totalSales"`
}

// ChartPointDTO punto de la gráfica mensual.
type ChartPointDTO struct {
	Month string          `json:"month"` // YYYY-MM
	Name  string          `json:"name"`  // Jan, Feb, ...
	Total decimal.Decimal `json:"total"`
}
