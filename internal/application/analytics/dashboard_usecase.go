// Package analytics contiene el resumen del dashboard: KPIs, gráfica mensual y ventas recientes.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

const (
	chartMonths     = 6 // meses en la gráfica, incluido el actual
	dashboardRecent = 5 // ventas recientes en el widget
)

var hundred = decimal.NewFromInt(100)

// DashboardUseCase genera el resumen de GET /api/dashboard.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// Solo cuentan facturas PAID para ingresos y ventas.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco llamadas en paralelo:
//  1. GetSalesSummary(histórico)           → TotalRevenue + TotalSales
//  2. GetSalesSummary(mes actual)           → base de RevenueGrowth
//  3. GetSalesSummary(mes anterior)         → base de RevenueGrowth
//  4. GetMonthlyRevenue(últimos 6 meses)    → ChartData
//  5. GetRecentBills(top 5) + catálogo      → RecentSales, productos y clientes
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)
	prevEnd := monthStart.Add(-time.Nanosecond)
	chartStart := monthStart.AddDate(0, -(chartMonths - 1), 0)

	// ── Goroutines para paralelizar las consultas ─────────────────────────────
	type summaryResult struct {
		sum repository.SalesSummary
		err error
	}
	type monthlyResult struct {
		rows []repository.MonthlyRevenueResult
		err  error
	}
	type recentResult struct {
		rows []repository.RecentBillResult
		err  error
	}
	type catalogResult struct {
		counts repository.CatalogCounts
		err    error
	}

	totalCh := make(chan summaryResult, 1)
	curCh := make(chan summaryResult, 1)
	prevCh := make(chan summaryResult, 1)
	chartCh := make(chan monthlyResult, 1)
	recentCh := make(chan recentResult, 1)
	catalogCh := make(chan catalogResult, 1)

	go func() {
		sum, err := uc.analyticsRepo.GetSalesSummary(ctx, repository.SalesFilter{PaidOnly: true})
		totalCh <- summaryResult{sum, err}
	}()
	go func() {
		sum, err := uc.analyticsRepo.GetSalesSummary(ctx, repository.SalesFilter{Start: monthStart, End: now, PaidOnly: true})
		curCh <- summaryResult{sum, err}
	}()
	go func() {
		sum, err := uc.analyticsRepo.GetSalesSummary(ctx, repository.SalesFilter{Start: prevStart, End: prevEnd, PaidOnly: true})
		prevCh <- summaryResult{sum, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetMonthlyRevenue(ctx, repository.SalesFilter{Start: chartStart, End: now, PaidOnly: true})
		chartCh <- monthlyResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetRecentBills(ctx, repository.SalesFilter{PaidOnly: true}, dashboardRecent)
		recentCh <- recentResult{rows, err}
	}()
	go func() {
		counts, err := uc.analyticsRepo.GetCatalogCounts(ctx, monthStart)
		catalogCh <- catalogResult{counts, err}
	}()

	total := <-totalCh
	cur := <-curCh
	prev := <-prevCh
	chart := <-chartCh
	recent := <-recentCh
	catalog := <-catalogCh

	for _, r := range []struct {
		name string
		err  error
	}{
		{"ingresos totales", total.err},
		{"mes actual", cur.err},
		{"mes anterior", prev.err},
		{"gráfica", chart.err},
		{"ventas recientes", recent.err},
		{"catálogo", catalog.err},
	} {
		if r.err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", r.name, r.err)
		}
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	recentSales := make([]dto.RecentBillDTO, 0, len(recent.rows))
	for _, r := range recent.rows {
		recentSales = append(recentSales, dto.RecentBillDTO{
			ID:            r.ID,
			BillNumber:    r.BillNumber,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			Amount:        r.Total.Round(2),
			Status:        r.Status,
			Date:          r.CreatedAt,
		})
	}

	return &dto.DashboardSummaryDTO{
		Metrics: dto.DashboardMetricsDTO{
			TotalRevenue:          total.sum.Revenue.Round(2),
			RevenueGrowth:         revenueGrowth(cur.sum.Revenue, prev.sum.Revenue),
			TotalProducts:         catalog.counts.Products,
			NewProductsThisMonth:  catalog.counts.NewProducts,
			TotalCustomers:        catalog.counts.Customers,
			NewCustomersThisMonth: catalog.counts.NewCustomers,
			TotalSales:            total.sum.Count,
		},
		ChartData:   chartPoints(chartStart, chart.rows),
		RecentSales: recentSales,
	}, nil
}

// revenueGrowth variación porcentual con un decimal; 0 si el mes anterior no tuvo ingresos.
func revenueGrowth(cur, prev decimal.Decimal) float64 {
	if !prev.IsPositive() {
		return 0
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(1).InexactFloat64()
}

// chartPoints un punto por mes desde start, con nombre corto en inglés (Jan, Feb, ...).
func chartPoints(start time.Time, rows []repository.MonthlyRevenueResult) []dto.ChartPointDTO {
	byMonth := make(map[string]decimal.Decimal, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r.Revenue
	}
	out := make([]dto.ChartPointDTO, 0, chartMonths)
	for i := 0; i < chartMonths; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		total, ok := byMonth[key]
		if !ok {
			total = decimal.Zero
		}
		out = append(out, dto.ChartPointDTO{Month: key, Name: m.Format("Jan"), Total: total.Round(2)})
	}
	return out
}
