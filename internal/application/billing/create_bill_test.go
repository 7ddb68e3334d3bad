package billing_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Billing-api/internal/application/billing"
	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	domainbilling "github.com/jhoicas/Billing-api/internal/domain/billing"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
	"github.com/jhoicas/Billing-api/internal/infrastructure/memory"
)

type fixture struct {
	store      *memory.Store
	idem       *memory.IdempotencyStore
	uc         *billing.CreateBillUseCase
	userID     string
	customerID string
	widgetID   string
	gadgetID   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	now := time.Now().UTC()

	f := &fixture{
		store:      store,
		idem:       memory.NewIdempotencyStore(),
		userID:     "user-1",
		customerID: "cust-alice",
		widgetID:   "prod-widget",
		gadgetID:   "prod-gadget",
	}
	require.NoError(t, store.Users().Create(ctx, &entity.User{
		ID: f.userID, Email: "seller@example.com", Name: "Seller", Role: entity.RoleSeller,
		CompanyName: "Acme", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Customers().Create(ctx, &entity.Customer{
		ID: f.customerID, Name: "Alice", Email: "alice@example.com", CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: f.widgetID, SKU: "WID-1", Name: "Widget", Price: decimal.RequireFromString("5.00"),
		Stock: 10, MinStock: 2, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: f.gadgetID, SKU: "GAD-1", Name: "Gadget", Price: decimal.RequireFromString("12.50"),
		Stock: 4, MinStock: 1, CreatedAt: now, UpdatedAt: now,
	}))

	f.uc = billing.NewCreateBillUseCase(
		memory.NewTxRunner(store),
		store.Bills(),
		store.Customers(),
		store.Products(),
		store.Users(),
		f.idem,
		billing.Config{TaxRate: domainbilling.DefaultTaxRate},
		nil,
	)
	return f
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *fixture) bills(t *testing.T) int {
	t.Helper()
	sum, err := f.store.Analytics().GetSalesSummary(context.Background(), repository.SalesFilter{})
	require.NoError(t, err)
	return sum.Count
}

func (f *fixture) request(items ...dto.BillItemRequest) dto.CreateBillRequest {
	return dto.CreateBillRequest{CustomerID: f.customerID, Items: items}
}

func item(productID string, qty int) dto.BillItemRequest {
	return dto.BillItemRequest{ProductID: productID, Quantity: qty}
}

func TestCreateBill_Scenarios(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// 1) primera factura
	first, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 3)))
	require.NoError(t, err)
	assert.Equal(t, "BILL-001", first.BillNumber)
	assert.Equal(t, "15.00", first.Subtotal.StringFixed(2))
	assert.Equal(t, "1.50", first.Tax.StringFixed(2))
	assert.Equal(t, "16.50", first.Total.StringFixed(2))
	assert.Equal(t, string(entity.BillStatusPending), first.Status)
	require.Len(t, first.Items, 1)
	assert.Equal(t, "Widget", first.Items[0].ProductName)
	assert.Equal(t, "5.00", first.Items[0].Price.StringFixed(2))
	assert.Equal(t, 7, f.stock(t, f.widgetID))

	// 2) segunda factura
	second, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 4)))
	require.NoError(t, err)
	assert.Equal(t, "BILL-002", second.BillNumber)
	assert.Equal(t, 3, f.stock(t, f.widgetID))

	// 3) stock insuficiente
	_, err = f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 5)))
	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, f.widgetID, stockErr.ProductID)
	assert.Equal(t, 3, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 3, f.stock(t, f.widgetID))
	assert.Equal(t, 2, f.bills(t))

	// 4) producto inexistente
	_, err = f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 1), item("no-such-product", 1)))
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "producto", nf.Entity)
	assert.Equal(t, 3, f.stock(t, f.widgetID))
	assert.Equal(t, 2, f.bills(t))

	// 5) markPaid idempotente
	paid, err := f.uc.MarkPaid(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BillStatusPaid), paid.Status)
	again, err := f.uc.MarkPaid(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.BillStatusPaid), again.Status)
	assert.Equal(t, paid.UpdatedAt, again.UpdatedAt)

	// el siguiente número sigue la secuencia tras un fallo
	third, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.gadgetID, 1)))
	require.NoError(t, err)
	assert.Equal(t, "BILL-003", third.BillNumber)
}

func TestCreateBill_ConcurrentOversell(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var (
		wg   sync.WaitGroup
		errs = make([]error, 2)
	)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 6)))
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
	assert.Equal(t, 4, f.stock(t, f.widgetID))
	assert.Equal(t, 1, f.bills(t))
}

func TestCreateBill_ConcurrentNumbersAreUnique(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 8
	numbers := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 1)))
			if assert.NoError(t, err) {
				numbers[i] = resp.BillNumber
			}
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, num := range numbers {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	for i := 1; i <= n; i++ {
		assert.True(t, seen[domainbilling.FormatBillNumber("BILL", int64(i))])
	}
	assert.Equal(t, 10-n, f.stock(t, f.widgetID))
}

func TestCreateBill_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	// el widget alcanza, el gadget no: nada debe quedar descontado
	_, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 2), item(f.gadgetID, 5)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, f.widgetID))
	assert.Equal(t, 4, f.stock(t, f.gadgetID))
	assert.Equal(t, 0, f.bills(t))

	resp, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.gadgetID, 1)))
	require.NoError(t, err)
	assert.Equal(t, "BILL-001", resp.BillNumber, "el contador no debe avanzar en una transacción revertida")
}

func TestCreateBill_AggregatesRepeatedProduct(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.gadgetID, 3), item(f.gadgetID, 2)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 4, f.stock(t, f.gadgetID))

	resp, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.gadgetID, 2), item(f.gadgetID, 2)))
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "50.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, 0, f.stock(t, f.gadgetID))
}

func TestCreateBill_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	tests := []struct {
		name  string
		user  string
		req   dto.CreateBillRequest
		field string
	}{
		{"sin cliente", f.userID, dto.CreateBillRequest{Items: []dto.BillItemRequest{item(f.widgetID, 1)}}, "customerId"},
		{"sin items", f.userID, f.request(), "items"},
		{"cantidad cero", f.userID, f.request(item(f.widgetID, 0)), "items[0].quantity"},
		{"sin producto", f.userID, f.request(item("", 1)), "items[0].productId"},
		{"estado cancelado", f.userID, dto.CreateBillRequest{
			CustomerID: f.customerID, Items: []dto.BillItemRequest{item(f.widgetID, 1)}, PaymentStatus: "CANCELLED",
		}, "paymentStatus"},
		{"descuento mayor al total", f.userID, dto.CreateBillRequest{
			CustomerID: f.customerID, Items: []dto.BillItemRequest{item(f.widgetID, 1)}, Discount: decimal.NewFromInt(100),
		}, "discount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.CreateBill(ctx, tt.user, "", tt.req)
			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 10, f.stock(t, f.widgetID))
	assert.Equal(t, 0, f.bills(t))

	_, err := f.uc.CreateBill(ctx, "", "", f.request(item(f.widgetID, 1)))
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.CreateBill(ctx, f.userID, "", dto.CreateBillRequest{CustomerID: "nadie", Items: []dto.BillItemRequest{item(f.widgetID, 1)}})
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "cliente", nf.Entity)
}

func TestCreateBill_QuantityBounds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := map[string]dto.CreateBillRequest{
		"línea por encima del tope": f.request(item(f.widgetID, billing.MaxQuantity+1)),
		"línea máxima del int":      f.request(item(f.widgetID, math.MaxInt)),
		"suma que desborda":         f.request(item(f.widgetID, math.MaxInt), item(f.widgetID, math.MaxInt)),
		"suma por encima del tope":  f.request(item(f.widgetID, billing.MaxQuantity), item(f.widgetID, 1)),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.CreateBill(ctx, f.userID, "", req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, 10, f.stock(t, f.widgetID))
			assert.Equal(t, 0, f.bills(t))
		})
	}

	// dentro del tope pero sin stock: sigue siendo stock insuficiente
	_, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, billing.MaxQuantity)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, f.widgetID))
}

func TestCreateBill_PaidOnCreation(t *testing.T) {
	f := newFixture(t)
	req := f.request(item(f.widgetID, 2))
	req.PaymentStatus = "paid"
	req.Discount = decimal.RequireFromString("1.00")

	resp, err := f.uc.CreateBill(context.Background(), f.userID, "", req)
	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.Status)
	assert.Equal(t, "10.00", resp.Subtotal.StringFixed(2))
	assert.Equal(t, "1.00", resp.Tax.StringFixed(2))
	assert.Equal(t, "10.00", resp.Total.StringFixed(2))
}

func TestCreateBill_RetriesNumberingConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 1)))
	require.NoError(t, err)

	// contador atrasado respecto a las facturas existentes
	require.NoError(t, f.store.Sequences().Seed(ctx, domainbilling.DefaultNumberPrefix, 0))

	resp, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 1)))
	require.NoError(t, err)
	assert.Equal(t, "BILL-002", resp.BillNumber)
	assert.Equal(t, 8, f.stock(t, f.widgetID))
}

func TestCreateBill_CancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 1)))
	require.ErrorIs(t, err, domain.ErrTransientStorage)
	assert.Equal(t, 10, f.stock(t, f.widgetID))
	assert.Equal(t, 0, f.bills(t))
}

func TestCreateBill_IdempotencyKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.uc.CreateBill(ctx, f.userID, "key-1", f.request(item(f.widgetID, 2)))
	require.NoError(t, err)
	replay, err := f.uc.CreateBill(ctx, f.userID, "key-1", f.request(item(f.widgetID, 2)))
	require.NoError(t, err)
	assert.Equal(t, first.ID, replay.ID)
	assert.Equal(t, 8, f.stock(t, f.widgetID))
	assert.Equal(t, 1, f.bills(t))

	// un fallo libera la clave para permitir el reintento
	_, err = f.uc.CreateBill(ctx, f.userID, "key-2", f.request(item(f.widgetID, 50)))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = f.uc.CreateBill(ctx, f.userID, "key-2", f.request(item(f.widgetID, 1)))
	require.NoError(t, err)

	_, reserved, err := f.idem.Reserve(ctx, billing.ScopedIdempotencyKey(f.userID, "key-3"))
	require.NoError(t, err)
	require.True(t, reserved)
	_, err = f.uc.CreateBill(ctx, f.userID, "key-3", f.request(item(f.widgetID, 1)))
	assert.ErrorIs(t, err, domain.ErrIdempotencyInProgress)
}

func TestCreateBill_IdempotencyKeyScopedPerUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC()
	require.NoError(t, f.store.Users().Create(ctx, &entity.User{
		ID: "user-2", Email: "other@example.com", Name: "Other", Role: entity.RoleSeller, CreatedAt: now, UpdatedAt: now,
	}))

	first, err := f.uc.CreateBill(ctx, f.userID, "shared", f.request(item(f.widgetID, 1)))
	require.NoError(t, err)
	other, err := f.uc.CreateBill(ctx, "user-2", "shared", f.request(item(f.widgetID, 1)))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
	assert.Equal(t, 8, f.stock(t, f.widgetID))

	// misma clave con otro cuerpo
	_, err = f.uc.CreateBill(ctx, f.userID, "shared", f.request(item(f.widgetID, 5)))
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Idempotency-Key", verr.Field)
	_, err = f.uc.CreateBill(ctx, f.userID, "shared", f.request(item(f.gadgetID, 1)))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 8, f.stock(t, f.widgetID))
	assert.Equal(t, 4, f.stock(t, f.gadgetID))
	assert.Equal(t, 2, f.bills(t))

	// las líneas repetidas que suman lo mismo son la misma petición
	replay, err := f.uc.CreateBill(ctx, f.userID, "split", f.request(item(f.widgetID, 1), item(f.widgetID, 1)))
	require.NoError(t, err)
	again, err := f.uc.CreateBill(ctx, f.userID, "split", f.request(item(f.widgetID, 2)))
	require.NoError(t, err)
	assert.Equal(t, replay.ID, again.ID)
	assert.Equal(t, 6, f.stock(t, f.widgetID))
}

type failingIdempotency struct{}

func (failingIdempotency) Reserve(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}
func (failingIdempotency) Complete(context.Context, string, string) error { return nil }
func (failingIdempotency) Release(context.Context, string) error          { return nil }

func TestCreateBill_IdempotencyStoreDown(t *testing.T) {
	f := newFixture(t)
	uc := billing.NewCreateBillUseCase(
		memory.NewTxRunner(f.store), f.store.Bills(), f.store.Customers(), f.store.Products(), f.store.Users(),
		failingIdempotency{}, billing.Config{TaxRate: domainbilling.DefaultTaxRate}, nil,
	)

	_, err := uc.CreateBill(context.Background(), f.userID, "key-1", f.request(item(f.widgetID, 1)))
	assert.ErrorIs(t, err, domain.ErrTransientStorage)
	assert.Equal(t, 10, f.stock(t, f.widgetID))
}

func TestUpdateStatus_Transitions(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	bill, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 3), item(f.gadgetID, 1)))
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock(t, f.widgetID))

	same, err := f.uc.UpdateStatus(ctx, bill.ID, dto.UpdateBillStatusRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", same.Status)

	cancelled, err := f.uc.UpdateStatus(ctx, bill.ID, dto.UpdateBillStatusRequest{Status: "CANCELLED"})
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.Equal(t, 10, f.stock(t, f.widgetID))
	assert.Equal(t, 4, f.stock(t, f.gadgetID))

	_, err = f.uc.MarkPaid(ctx, bill.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.UpdateStatus(ctx, bill.ID, dto.UpdateBillStatusRequest{Status: "REFUNDED"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.MarkPaid(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetBill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created, err := f.uc.CreateBill(ctx, f.userID, "", f.request(item(f.widgetID, 1)))
	require.NoError(t, err)

	got, err := f.uc.GetBill(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.BillNumber, got.BillNumber)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Alice", got.Customer.Name)
	require.NotNil(t, got.User)
	assert.Equal(t, "Seller", got.User.Name)
	require.Len(t, got.Items, 1)
	require.NotNil(t, got.Items[0].Product)
	assert.Equal(t, 9, got.Items[0].Product.Stock)

	_, err = f.uc.GetBill(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
