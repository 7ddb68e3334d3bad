package usecase

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
	"github.com/jhoicas/Billing-api/internal/infrastructure/memory"
)

// saleAfterRead ejecuta una venta justo después de la primera lectura del producto,
// simulando una factura que se confirma mientras se edita el producto.
type saleAfterRead struct {
	repository.ProductRepository
	sold bool
	qty  int
}

func (r *saleAfterRead) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := r.ProductRepository.GetByID(ctx, id)
	if err != nil || p == nil || r.sold {
		return p, err
	}
	r.sold = true
	if _, ok, err := r.ProductRepository.DecrementStock(ctx, id, r.qty); err != nil || !ok {
		return nil, err
	}
	return p, nil
}

func TestProductUseCase_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	uc := NewProductUseCase(memory.New().Products())

	created, err := uc.Create(ctx, dto.CreateProductRequest{
		SKU: " WID-1 ", Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 3, MinStock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "WID-1", created.SKU)
	assert.True(t, created.LowStock)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "WID-1", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	stock := 20
	price := decimal.RequireFromString("6.50")
	updated, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Stock: &stock, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Stock)
	assert.False(t, updated.LowStock)
	assert.Equal(t, "6.50", updated.Price.StringFixed(2))

	negative := -1
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{Stock: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_CreateValidation(t *testing.T) {
	uc := NewProductUseCase(memory.New().Products())
	for _, in := range []dto.CreateProductRequest{
		{Name: "sin sku"},
		{SKU: "X"},
		{SKU: "X", Name: "n", Price: decimal.NewFromInt(-1)},
		{SKU: "X", Name: "n", Stock: -2},
	} {
		_, err := uc.Create(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestProductUseCase_UpdateKeepsConcurrentSale(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	created, err := NewProductUseCase(store.Products()).Create(ctx, dto.CreateProductRequest{
		SKU: "WID-1", Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 10,
	})
	require.NoError(t, err)

	uc := NewProductUseCase(&saleAfterRead{ProductRepository: store.Products(), qty: 3})
	name := "Widget Pro"
	price := decimal.RequireFromString("6.00")
	updated, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &name, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, "Widget Pro", updated.Name)
	assert.Equal(t, 7, updated.Stock)

	p, err := store.Products().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, "6.00", p.Price.StringFixed(2))
}

func TestProductUseCase_StockEditConflictsWithConcurrentSale(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	created, err := NewProductUseCase(store.Products()).Create(ctx, dto.CreateProductRequest{
		SKU: "WID-1", Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 10,
	})
	require.NoError(t, err)

	uc := NewProductUseCase(&saleAfterRead{ProductRepository: store.Products(), qty: 3})
	stock := 25
	name := "Widget Pro"
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{Stock: &stock, Name: &name})
	require.ErrorIs(t, err, domain.ErrConflict)

	p, err := store.Products().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)
	assert.Equal(t, "Widget", p.Name)

	// sin ventas de por medio el ajuste explícito se aplica
	updated, err := NewProductUseCase(store.Products()).Update(ctx, created.ID, dto.UpdateProductRequest{Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 25, updated.Stock)
}

func TestProductUseCase_StockOutOfRange(t *testing.T) {
	uc := NewProductUseCase(memory.New().Products())
	_, err := uc.Create(context.Background(), dto.CreateProductRequest{SKU: "X", Name: "n", Stock: math.MaxInt32 + 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
