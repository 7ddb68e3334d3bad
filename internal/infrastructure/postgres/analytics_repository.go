package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// salesWhere condición común de SalesFilter sobre bills b: $1 inicio, $2 fin (NULL = sin límite), $3 solo PAID.
const salesWhere = `
	    ($1::timestamptz IS NULL OR b.created_at >= $1)
	AND ($2::timestamptz IS NULL OR b.created_at <= $2)
	AND (NOT $3::boolean OR b.status = 'PAID')`

// AnalyticsRepo consultas de solo lectura sobre facturas, líneas y catálogo.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func filterArgs(f repository.SalesFilter) []any {
	return []any{nullableTime(f.Start), nullableTime(f.End), f.PaidOnly}
}

// GetSalesSummary Σ total y número de facturas del filtro. COALESCE devuelve cero en períodos sin ventas.
func (r *AnalyticsRepo) GetSalesSummary(ctx context.Context, f repository.SalesFilter) (repository.SalesSummary, error) {
	query := `
	SELECT COALESCE(SUM(b.total), 0), COUNT(*)
	FROM bills b
	WHERE ` + salesWhere

	var s repository.SalesSummary
	if err := r.pool.QueryRow(ctx, query, filterArgs(f)...).Scan(&s.Revenue, &s.Count); err != nil {
		return repository.SalesSummary{}, wrapErr("analytics.GetSalesSummary", err)
	}
	return s, nil
}

// CountActiveCustomers clientes distintos con al menos una factura en el rango (cualquier estado).
func (r *AnalyticsRepo) CountActiveCustomers(ctx context.Context, start, end time.Time) (int, error) {
	query := `
	SELECT COUNT(DISTINCT b.customer_id)
	FROM bills b
	WHERE ` + salesWhere

	var n int
	err := r.pool.QueryRow(ctx, query, filterArgs(repository.SalesFilter{Start: start, End: end})...).Scan(&n)
	if err != nil {
		return 0, wrapErr("analytics.CountActiveCustomers", err)
	}
	return n, nil
}

// GetMonthlyRevenue agrupa por mes calendario en UTC; la clave YYYY-MM es única por construcción.
func (r *AnalyticsRepo) GetMonthlyRevenue(ctx context.Context, f repository.SalesFilter) ([]repository.MonthlyRevenueResult, error) {
	query := `
	SELECT
	    to_char(date_trunc('month', b.created_at AT TIME ZONE 'UTC'), 'YYYY-MM') AS month,
	    SUM(b.total)                                                            AS revenue,
	    COUNT(*)                                                                AS sales
	FROM bills b
	WHERE ` + salesWhere + `
	GROUP BY 1
	ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, filterArgs(f)...)
	if err != nil {
		return nil, wrapErr("analytics.GetMonthlyRevenue", err)
	}
	defer rows.Close()

	var results []repository.MonthlyRevenueResult
	for rows.Next() {
		var row repository.MonthlyRevenueResult
		if err := rows.Scan(&row.Month, &row.Revenue, &row.Sales); err != nil {
			return nil, fmt.Errorf("analytics.GetMonthlyRevenue scan: %w", err)
		}
		results = append(results, row)
	}
	return results, wrapErr("analytics.GetMonthlyRevenue rows", rows.Err())
}

// GetProductSales ingresos y unidades por producto (Σ de líneas), de mayor a menor ingreso.
func (r *AnalyticsRepo) GetProductSales(ctx context.Context, f repository.SalesFilter, limit int) ([]repository.ProductSalesResult, error) {
	query := `
	SELECT
	    i.product_id,
	    COALESCE(p.name, MAX(i.product_name))   AS product_name,
	    COALESCE(p.sku,  MAX(i.product_sku))    AS sku,
	    COALESCE(p.category, '')                AS category,
	    SUM(i.quantity)                         AS units_sold,
	    SUM(i.total)                            AS revenue
	FROM bill_items i
	JOIN bills b         ON b.id = i.bill_id
	LEFT JOIN products p ON p.id = i.product_id
	WHERE ` + salesWhere + `
	GROUP BY i.product_id, p.name, p.sku, p.category
	ORDER BY revenue DESC, product_name ASC`
	args := filterArgs(f)
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("analytics.GetProductSales", err)
	}
	defer rows.Close()

	var results []repository.ProductSalesResult
	for rows.Next() {
		var row repository.ProductSalesResult
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.SKU, &row.Category,
			&row.UnitsSold, &row.Revenue); err != nil {
			return nil, fmt.Errorf("analytics.GetProductSales scan: %w", err)
		}
		results = append(results, row)
	}
	return results, wrapErr("analytics.GetProductSales rows", rows.Err())
}

// GetRecentBills últimas facturas del filtro con datos del cliente.
func (r *AnalyticsRepo) GetRecentBills(ctx context.Context, f repository.SalesFilter, limit int) ([]repository.RecentBillResult, error) {
	query := `
	SELECT b.id, b.bill_number, c.name, c.email, b.total, b.status, b.created_at
	FROM bills b
	JOIN customers c ON c.id = b.customer_id
	WHERE ` + salesWhere + `
	ORDER BY b.created_at DESC, b.bill_number DESC
	LIMIT $4`

	rows, err := r.pool.Query(ctx, query, append(filterArgs(f), limit)...)
	if err != nil {
		return nil, wrapErr("analytics.GetRecentBills", err)
	}
	defer rows.Close()

	var results []repository.RecentBillResult
	for rows.Next() {
		var row repository.RecentBillResult
		if err := rows.Scan(&row.ID, &row.BillNumber, &row.CustomerName, &row.CustomerEmail,
			&row.Total, &row.Status, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("analytics.GetRecentBills scan: %w", err)
		}
		results = append(results, row)
	}
	return results, wrapErr("analytics.GetRecentBills rows", rows.Err())
}

// GetCatalogCounts totales de productos y clientes, y los creados desde since.
func (r *AnalyticsRepo) GetCatalogCounts(ctx context.Context, since time.Time) (repository.CatalogCounts, error) {
	const query = `
	SELECT
	    (SELECT COUNT(*) FROM products),
	    (SELECT COUNT(*) FROM products  WHERE created_at >= $1),
	    (SELECT COUNT(*) FROM customers),
	    (SELECT COUNT(*) FROM customers WHERE created_at >= $1)`

	var c repository.CatalogCounts
	if err := r.pool.QueryRow(ctx, query, since).Scan(&c.Products, &c.NewProducts, &c.Customers, &c.NewCustomers); err != nil {
		return repository.CatalogCounts{}, wrapErr("analytics.GetCatalogCounts", err)
	}
	return c, nil
}
