package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/infrastructure/memory"
)

func seedSales(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Email: "u@x.co"}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: "c1", Name: "Alice"}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{ID: "c2", Name: "Bob"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "Widget", Category: "tools"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p2", SKU: "B", Name: "Gadget", Category: "toys"}))

	add := func(id, customer string, status entity.BillStatus, at time.Time, lines ...entity.BillItem) {
		total := decimal.Zero
		for _, l := range lines {
			total = total.Add(l.Total)
		}
		require.NoError(t, store.Bills().Create(ctx, &entity.Bill{
			ID: id, BillNumber: "BILL-" + id, CustomerID: customer, UserID: "u1",
			Total: total, Status: status, CreatedAt: at,
		}))
		for i, l := range lines {
			l.ID = id + "-" + string(rune('a'+i))
			l.BillID = id
			require.NoError(t, store.Bills().CreateItem(ctx, &l))
		}
	}
	add("1", "c1", entity.BillStatusPaid, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		entity.BillItem{ProductID: "p1", Quantity: 2, Total: decimal.NewFromInt(20)})
	add("2", "c1", entity.BillStatusPaid, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		entity.BillItem{ProductID: "p2", Quantity: 1, Total: decimal.NewFromInt(50)},
		entity.BillItem{ProductID: "p1", Quantity: 1, Total: decimal.NewFromInt(10)})
	add("3", "c2", entity.BillStatusPending, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		entity.BillItem{ProductID: "p1", Quantity: 9, Total: decimal.NewFromInt(90)})
	return store
}

func TestAnalyticsUseCase_GetSalesReport(t *testing.T) {
	uc := NewAnalyticsUseCase(seedSales(t).Analytics())
	uc.now = func() time.Time { return time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC) }

	got, err := uc.GetSalesReport(context.Background(), dto.SalesReportRequest{Period: 3, TopN: 1})
	require.NoError(t, err)

	assert.Equal(t, "2026-01-01", got.Period.StartDate)
	assert.True(t, got.PaidOnly)
	assert.Equal(t, "80.00", got.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, got.TotalSales)
	assert.Equal(t, 2, got.ActiveCustomers)
	assert.Equal(t, "40.00", got.AvgOrderValue.StringFixed(2))

	require.Len(t, got.MonthlyRevenue, 3)
	assert.Equal(t, "2026-01", got.MonthlyRevenue[0].Month)
	assert.Equal(t, "2026-02", got.MonthlyRevenue[1].Month)
	assert.True(t, got.MonthlyRevenue[1].Revenue.IsZero())
	assert.Equal(t, "60.00", got.MonthlyRevenue[2].Revenue.StringFixed(2))

	require.Len(t, got.ProductSales, 2)
	assert.Equal(t, "p2", got.ProductSales[0].ProductID)
	assert.Equal(t, "toys", got.ProductSales[0].Category)
	require.Len(t, got.TopProducts, 1)
	assert.Equal(t, "p2", got.TopProducts[0].ProductID)
	assert.Len(t, got.RecentTransactions, 2)
}

func TestAnalyticsUseCase_IncludesPending(t *testing.T) {
	uc := NewAnalyticsUseCase(seedSales(t).Analytics())

	got, err := uc.GetSalesReport(context.Background(), dto.SalesReportRequest{
		StartDate: "2026-03-01", EndDate: "2026-03-31", PaidOnly: "false",
	})
	require.NoError(t, err)
	assert.Equal(t, "150.00", got.TotalRevenue.StringFixed(2))
	assert.Equal(t, 2, got.TotalSales)
	require.Len(t, got.MonthlyRevenue, 1)
	assert.Equal(t, 2, got.MonthlyRevenue[0].Sales)
	assert.Equal(t, "p1", got.ProductSales[0].ProductID)
	assert.Equal(t, 10, got.ProductSales[0].UnitsSold)
}

func TestAnalyticsUseCase_InvalidParams(t *testing.T) {
	uc := NewAnalyticsUseCase(memory.New().Analytics())
	ctx := context.Background()

	for _, req := range []dto.SalesReportRequest{
		{StartDate: "01/03/2026"},
		{EndDate: "2026-13-01"},
		{StartDate: "2026-04-01", EndDate: "2026-03-01"},
		{PaidOnly: "quizás"},
		{Period: 1000},
	} {
		_, err := uc.GetSalesReport(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", req)
	}
}
