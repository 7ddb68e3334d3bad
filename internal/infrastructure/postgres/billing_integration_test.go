package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Billing-api/internal/application/billing"
	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	domainbilling "github.com/jhoicas/Billing-api/internal/domain/billing"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/pkg/config"
)

// testPool conecta a TEST_DATABASE_URL, aplica migraciones y vacía las tablas. Sin la variable el test se omite.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, Migrate(url, nil))
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10}, nil)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE bill_items, bills, products, customers, user_settings, users CASCADE`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `UPDATE bill_sequences SET last_value = 0`)
	require.NoError(t, err)
	return pool
}

type pgFixture struct {
	pool       *pgxpool.Pool
	uc         *billing.CreateBillUseCase
	userID     string
	customerID string
	widgetID   string
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()
	pool := testPool(t)
	now := time.Now().UTC()

	f := &pgFixture{pool: pool, userID: uuid.NewString(), customerID: uuid.NewString(), widgetID: uuid.NewString()}
	require.NoError(t, NewUserRepository(pool).Create(ctx, &entity.User{
		ID: f.userID, Email: "seller@example.com", Name: "Seller", Role: entity.RoleSeller, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, NewCustomerRepository(pool).Create(ctx, &entity.Customer{
		ID: f.customerID, Name: "Alice", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, NewProductRepository(pool).Create(ctx, &entity.Product{
		ID: f.widgetID, SKU: "WID-1", Name: "Widget", Price: decimal.RequireFromString("5.00"),
		Stock: 10, MinStock: 2, CreatedAt: now, UpdatedAt: now,
	}))

	f.uc = billing.NewCreateBillUseCase(
		NewTxRunner(pool),
		NewBillRepository(pool),
		NewCustomerRepository(pool),
		NewProductRepository(pool),
		NewUserRepository(pool),
		nil,
		billing.Config{TaxRate: domainbilling.DefaultTaxRate},
		nil,
	)
	return f
}

func (f *pgFixture) stock(t *testing.T) int {
	t.Helper()
	p, err := NewProductRepository(f.pool).GetByID(context.Background(), f.widgetID)
	require.NoError(t, err)
	return p.Stock
}

func (f *pgFixture) billCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, f.pool.QueryRow(context.Background(), `SELECT COUNT(*) FROM bills`).Scan(&n))
	return n
}

func (f *pgFixture) request(qty int) dto.CreateBillRequest {
	return dto.CreateBillRequest{
		CustomerID: f.customerID,
		Items:      []dto.BillItemRequest{{ProductID: f.widgetID, Quantity: qty}},
	}
}

func TestPostgresBilling_Scenarios(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)

	first, err := f.uc.CreateBill(ctx, f.userID, "", f.request(3))
	require.NoError(t, err)
	assert.Equal(t, "BILL-001", first.BillNumber)
	assert.Equal(t, "16.50", first.Total.StringFixed(2))
	assert.Equal(t, 7, f.stock(t))

	second, err := f.uc.CreateBill(ctx, f.userID, "", f.request(4))
	require.NoError(t, err)
	assert.Equal(t, "BILL-002", second.BillNumber)
	assert.Equal(t, 3, f.stock(t))

	_, err = f.uc.CreateBill(ctx, f.userID, "", f.request(5))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 3, f.stock(t))
	assert.Equal(t, 2, f.billCount(t))

	req := f.request(1)
	req.Items = append(req.Items, dto.BillItemRequest{ProductID: uuid.NewString(), Quantity: 1})
	_, err = f.uc.CreateBill(ctx, f.userID, "", req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 3, f.stock(t))

	paid, err := f.uc.MarkPaid(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Status)
	paid, err = f.uc.MarkPaid(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Status)

	got, err := f.uc.GetBill(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Widget", got.Items[0].ProductName)
}

func TestPostgresBilling_ConcurrentOversell(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.CreateBill(ctx, f.userID, "", f.request(6))
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)
	assert.Equal(t, 4, f.stock(t))
}

func TestPostgresBilling_UniqueNumbersUnderLoad(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateBill(ctx, f.userID, "", f.request(1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var distinct, maxLen int
	require.NoError(t, f.pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT bill_number), MAX(length(bill_number)) FROM bills`).Scan(&distinct, &maxLen))
	assert.Equal(t, n, distinct)
	assert.Equal(t, len("BILL-010"), maxLen)
	assert.Equal(t, 0, f.stock(t))
}

func TestPostgresBilling_NumberingResync(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)

	_, err := f.uc.CreateBill(ctx, f.userID, "", f.request(1))
	require.NoError(t, err)

	_, err = f.pool.Exec(ctx, `UPDATE bill_sequences SET last_value = 0 WHERE name = 'BILL'`)
	require.NoError(t, err)

	resp, err := f.uc.CreateBill(ctx, f.userID, "", f.request(1))
	require.NoError(t, err)
	assert.Equal(t, "BILL-002", resp.BillNumber)
	assert.Equal(t, 8, f.stock(t))
}

func TestPostgresProduct_UpdateKeepsConcurrentSale(t *testing.T) {
	ctx := context.Background()
	f := newPGFixture(t)
	repo := NewProductRepository(f.pool)

	stale, err := repo.GetByID(ctx, f.widgetID)
	require.NoError(t, err)
	_, err = f.uc.CreateBill(ctx, f.userID, "", f.request(3))
	require.NoError(t, err)

	stale.Name = "Widget Pro"
	stale.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Update(ctx, stale))
	assert.Equal(t, 7, f.stock(t))

	stale.Stock = 20
	require.ErrorIs(t, repo.UpdateWithStock(ctx, stale, 10), domain.ErrConflict)
	assert.Equal(t, 7, f.stock(t))
	require.NoError(t, repo.UpdateWithStock(ctx, stale, 7))
	assert.Equal(t, 20, f.stock(t))
}
