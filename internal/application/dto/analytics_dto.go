package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesReportRequest parámetros de GET /api/analytics.
// Si no vienen start_date/end_date se usa period (meses hacia atrás, default 6).
type SalesReportRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD
	EndDate   string `query:"end_date"`   // YYYY-MM-DD
	Period    int    `query:"period"`
	PaidOnly  string `query:"paid_only"` // true (default) | false
	TopN      int    `query:"top_n"`
}

// PeriodDTO rango efectivo del reporte.
type PeriodDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// SalesReportDTO respuesta de GET /api/analytics.
type SalesReportDTO struct {
	Period             PeriodDTO           `json:"period"`
	PaidOnly           bool                `json:"paidOnly"`
	TotalRevenue       decimal.Decimal     `json:"totalRevenue"`
	TotalSales         int                 `json:"totalSales"`
	ActiveCustomers    int                 `json:"activeCustomers"`
	AvgOrderValue      decimal.Decimal     `json:"avgOrderValue"`
	MonthlyRevenue     []MonthlyRevenueDTO `json:"monthlyRevenue"`
	ProductSales       []ProductSalesDTO   `json:"productSales"`
	TopProducts        []ProductSalesDTO   `json:"topProducts"`
	RecentTransactions []RecentBillDTO     `json:"recentTransactions"`
}

// MonthlyRevenueDTO bucket mensual (clave YYYY-MM única).
type MonthlyRevenueDTO struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Sales   int             `json:"sales"`
}

// ProductSalesDTO ingresos y unidades de un producto en el período.
type ProductSalesDTO struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	SKU         string          `json:"sku"`
	Category    string          `json:"category"`
	UnitsSold   int             `json:"unitsSold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// RecentBillDTO factura resumida.
type RecentBillDTO struct {
	ID            string          `json:"id"`
	BillNumber    string          `json:"billNumber"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"date"`
}
