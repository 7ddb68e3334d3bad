package memory

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agrega sobre los mapas del Store. Los meses se calculan en UTC.
type AnalyticsRepo struct {
	sc scope
}

func billsMatching(d *data, f repository.SalesFilter) []entity.Bill {
	var out []entity.Bill
	for _, id := range d.billOrder {
		b := d.bills[id]
		if f.PaidOnly && b.Status != entity.BillStatusPaid {
			continue
		}
		if !f.Contains(b.CreatedAt) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// GetSalesSummary Σ total y número de facturas.
func (r *AnalyticsRepo) GetSalesSummary(ctx context.Context, f repository.SalesFilter) (repository.SalesSummary, error) {
	sum := repository.SalesSummary{Revenue: decimal.Zero}
	err := r.sc.read(ctx, func(d *data) error {
		for _, b := range billsMatching(d, f) {
			sum.Revenue = sum.Revenue.Add(b.Total)
			sum.Count++
		}
		return nil
	})
	return sum, err
}

// CountActiveCustomers clientes distintos con factura en el rango.
func (r *AnalyticsRepo) CountActiveCustomers(ctx context.Context, start, end time.Time) (int, error) {
	seen := make(map[string]struct{})
	err := r.sc.read(ctx, func(d *data) error {
		for _, b := range billsMatching(d, repository.SalesFilter{Start: start, End: end}) {
			seen[b.CustomerID] = struct{}{}
		}
		return nil
	})
	return len(seen), err
}

// GetMonthlyRevenue buckets YYYY-MM ascendentes.
func (r *AnalyticsRepo) GetMonthlyRevenue(ctx context.Context, f repository.SalesFilter) ([]repository.MonthlyRevenueResult, error) {
	byMonth := make(map[string]*repository.MonthlyRevenueResult)
	err := r.sc.read(ctx, func(d *data) error {
		for _, b := range billsMatching(d, f) {
			key := b.CreatedAt.UTC().Format("2006-01")
			m, ok := byMonth[key]
			if !ok {
				m = &repository.MonthlyRevenueResult{Month: key, Revenue: decimal.Zero}
				byMonth[key] = m
			}
			m.Revenue = m.Revenue.Add(b.Total)
			m.Sales++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]repository.MonthlyRevenueResult, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b repository.MonthlyRevenueResult) int { return strings.Compare(a.Month, b.Month) })
	return out, nil
}

// GetProductSales ingresos por producto, de mayor a menor.
func (r *AnalyticsRepo) GetProductSales(ctx context.Context, f repository.SalesFilter, limit int) ([]repository.ProductSalesResult, error) {
	byProduct := make(map[string]*repository.ProductSalesResult)
	err := r.sc.read(ctx, func(d *data) error {
		for _, b := range billsMatching(d, f) {
			for _, it := range d.items[b.ID] {
				ps, ok := byProduct[it.ProductID]
				if !ok {
					ps = &repository.ProductSalesResult{
						ProductID:   it.ProductID,
						ProductName: it.ProductName,
						SKU:         it.ProductSKU,
						Revenue:     decimal.Zero,
					}
					if p, found := d.products[it.ProductID]; found {
						ps.ProductName = p.Name
						ps.SKU = p.SKU
						ps.Category = p.Category
					}
					byProduct[it.ProductID] = ps
				}
				ps.UnitsSold += it.Quantity
				ps.Revenue = ps.Revenue.Add(it.Total)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := make([]repository.ProductSalesResult, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	slices.SortFunc(out, func(a, b repository.ProductSalesResult) int {
		if c := b.Revenue.Cmp(a.Revenue); c != 0 {
			return c
		}
		return strings.Compare(a.ProductName, b.ProductName)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetRecentBills facturas más recientes primero.
func (r *AnalyticsRepo) GetRecentBills(ctx context.Context, f repository.SalesFilter, limit int) ([]repository.RecentBillResult, error) {
	var out []repository.RecentBillResult
	err := r.sc.read(ctx, func(d *data) error {
		bills := billsMatching(d, f)
		// billOrder es orden de inserción; el recorrido inverso desempata created_at iguales.
		slices.Reverse(bills)
		slices.SortStableFunc(bills, func(a, b entity.Bill) int { return b.CreatedAt.Compare(a.CreatedAt) })
		for _, b := range bills {
			if limit > 0 && len(out) >= limit {
				break
			}
			c := d.customers[b.CustomerID]
			out = append(out, repository.RecentBillResult{
				ID:            b.ID,
				BillNumber:    b.BillNumber,
				CustomerName:  c.Name,
				CustomerEmail: c.Email,
				Total:         b.Total,
				Status:        string(b.Status),
				CreatedAt:     b.CreatedAt,
			})
		}
		return nil
	})
	return out, err
}

// GetCatalogCounts totales de catálogo y altas desde since.
func (r *AnalyticsRepo) GetCatalogCounts(ctx context.Context, since time.Time) (repository.CatalogCounts, error) {
	var c repository.CatalogCounts
	err := r.sc.read(ctx, func(d *data) error {
		c.Products = len(d.products)
		c.Customers = len(d.customers)
		for _, p := range d.products {
			if !p.CreatedAt.Before(since) {
				c.NewProducts++
			}
		}
		for _, cu := range d.customers {
			if !cu.CreatedAt.Before(since) {
				c.NewCustomers++
			}
		}
		return nil
	})
	return c, err
}
