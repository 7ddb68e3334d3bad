package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

const (
	defaultPeriodMonths = 6
	maxPeriodMonths     = 60
	defaultTopN         = 5
	maxTopN             = 50
	recentTransactions  = 10
)

// AnalyticsUseCase arma el reporte de ventas de GET /api/analytics.
//   - Rango por start_date/end_date o por period (meses hacia atrás).
//   - Ingresos mensuales con buckets YYYY-MM únicos y meses sin ventas en cero.
//   - Ranking de productos por ingreso y top N.
type AnalyticsUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(analyticsRepo repository.AnalyticsRepository) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		analyticsRepo: analyticsRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// GetSalesReport genera el reporte completo para el rango pedido.
func (uc *AnalyticsUseCase) GetSalesReport(ctx context.Context, req dto.SalesReportRequest) (*dto.SalesReportDTO, error) {
	start, end, err := parsePeriod(uc.now(), req)
	if err != nil {
		return nil, err
	}
	paidOnly := true
	if s := strings.TrimSpace(req.PaidOnly); s != "" {
		paidOnly, err = strconv.ParseBool(s)
		if err != nil {
			return nil, domain.NewValidationError("paid_only", "debe ser true o false")
		}
	}
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	f := repository.SalesFilter{Start: start, End: end, PaidOnly: paidOnly}

	// 1) Consultas independientes en paralelo
	type summaryResult struct {
		sum repository.SalesSummary
		err error
	}
	type activeResult struct {
		n   int
		err error
	}
	type monthlyResult struct {
		rows []repository.MonthlyRevenueResult
		err  error
	}
	type productsResult struct {
		rows []repository.ProductSalesResult
		err  error
	}
	type recentResult struct {
		rows []repository.RecentBillResult
		err  error
	}

	sumCh := make(chan summaryResult, 1)
	activeCh := make(chan activeResult, 1)
	monthlyCh := make(chan monthlyResult, 1)
	productsCh := make(chan productsResult, 1)
	recentCh := make(chan recentResult, 1)

	go func() {
		sum, err := uc.analyticsRepo.GetSalesSummary(ctx, f)
		sumCh <- summaryResult{sum, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountActiveCustomers(ctx, start, end)
		activeCh <- activeResult{n, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetMonthlyRevenue(ctx, f)
		monthlyCh <- monthlyResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetProductSales(ctx, f, 0)
		productsCh <- productsResult{rows, err}
	}()
	go func() {
		rows, err := uc.analyticsRepo.GetRecentBills(ctx, f, recentTransactions)
		recentCh <- recentResult{rows, err}
	}()

	sumRes := <-sumCh
	activeRes := <-activeCh
	monthlyRes := <-monthlyCh
	productsRes := <-productsCh
	recentRes := <-recentCh

	switch {
	case sumRes.err != nil:
		return nil, fmt.Errorf("analytics: resumen: %w", sumRes.err)
	case activeRes.err != nil:
		return nil, fmt.Errorf("analytics: clientes activos: %w", activeRes.err)
	case monthlyRes.err != nil:
		return nil, fmt.Errorf("analytics: ingresos mensuales: %w", monthlyRes.err)
	case productsRes.err != nil:
		return nil, fmt.Errorf("analytics: productos: %w", productsRes.err)
	case recentRes.err != nil:
		return nil, fmt.Errorf("analytics: recientes: %w", recentRes.err)
	}

	// 2) Ticket promedio
	avg := decimal.Zero
	if sumRes.sum.Count > 0 {
		avg = sumRes.sum.Revenue.Div(decimal.NewFromInt(int64(sumRes.sum.Count))).Round(2)
	}

	// 3) Productos y top N (ya vienen ordenados por ingreso descendente)
	productSales := make([]dto.ProductSalesDTO, 0, len(productsRes.rows))
	for _, r := range productsRes.rows {
		productSales = append(productSales, dto.ProductSalesDTO{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			SKU:         r.SKU,
			Category:    r.Category,
			UnitsSold:   r.UnitsSold,
			Revenue:     r.Revenue.Round(2),
		})
	}
	top := productSales
	if len(top) > topN {
		top = top[:topN]
	}

	return &dto.SalesReportDTO{
		Period: dto.PeriodDTO{
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		},
		PaidOnly:           paidOnly,
		TotalRevenue:       sumRes.sum.Revenue.Round(2),
		TotalSales:         sumRes.sum.Count,
		ActiveCustomers:    activeRes.n,
		AvgOrderValue:      avg,
		MonthlyRevenue:     fillMonths(start, end, monthlyRes.rows),
		ProductSales:       productSales,
		TopProducts:        top,
		RecentTransactions: toRecentBillDTOs(recentRes.rows),
	}, nil
}

// fillMonths devuelve un bucket por mes entre start y end, en cero si no hubo ventas.
func fillMonths(start, end time.Time, rows []repository.MonthlyRevenueResult) []dto.MonthlyRevenueDTO {
	byMonth := make(map[string]repository.MonthlyRevenueResult, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := []dto.MonthlyRevenueDTO{}
	last := monthStart(end)
	for m := monthStart(start); !m.After(last); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		r, ok := byMonth[key]
		if !ok {
			out = append(out, dto.MonthlyRevenueDTO{Month: key, Revenue: decimal.Zero})
			continue
		}
		out = append(out, dto.MonthlyRevenueDTO{Month: key, Revenue: r.Revenue.Round(2), Sales: r.Sales})
	}
	return out
}

func toRecentBillDTOs(rows []repository.RecentBillResult) []dto.RecentBillDTO {
	out := make([]dto.RecentBillDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.RecentBillDTO{
			ID:            r.ID,
			BillNumber:    r.BillNumber,
			CustomerName:  r.CustomerName,
			CustomerEmail: r.CustomerEmail,
			Amount:        r.Total.Round(2),
			Status:        r.Status,
			Date:          r.CreatedAt,
		})
	}
	return out
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// parsePeriod resuelve el rango del reporte. Con fechas explícitas end es inclusivo hasta el final del día;
// sin ellas se toman los últimos period meses incluyendo el actual.
func parsePeriod(now time.Time, req dto.SalesReportRequest) (start, end time.Time, err error) {
	startStr, endStr := strings.TrimSpace(req.StartDate), strings.TrimSpace(req.EndDate)

	if endStr == "" {
		end = now
	} else {
		end, err = time.ParseInLocation("2006-01-02", endStr, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError("end_date", "formato esperado YYYY-MM-DD")
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}

	if startStr == "" {
		period := req.Period
		if period <= 0 {
			period = defaultPeriodMonths
		}
		if period > maxPeriodMonths {
			return time.Time{}, time.Time{}, domain.NewValidationError("period", fmt.Sprintf("máximo %d meses", maxPeriodMonths))
		}
		start = monthStart(end).AddDate(0, -(period - 1), 0)
	} else {
		start, err = time.ParseInLocation("2006-01-02", startStr, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, domain.NewValidationError("start_date", "formato esperado YYYY-MM-DD")
		}
	}

	if start.After(end) {
		return time.Time{}, time.Time{}, domain.NewValidationError("start_date", "no puede ser posterior a end_date")
	}
	return start, end, nil
}
