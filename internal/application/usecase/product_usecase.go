package usecase

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

// ProductUseCase casos de uso para productos. La facturación descuenta stock por su cuenta;
// aquí solo se ajusta desde gestión de inventario.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. SKU único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.SKU == "" {
		return nil, domain.NewValidationError("sku", "requerido")
	}
	if in.Name == "" {
		return nil, domain.NewValidationError("name", "requerido")
	}
	if err := validateAmounts(in.Price, in.Cost, in.Stock, in.MinStock); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Cost:        in.Cost,
		Stock:       in.Stock,
		MinStock:    in.MinStock,
		Category:    strings.TrimSpace(in.Category),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("producto", id)
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos enviados del producto. El stock solo se escribe si viene en la petición,
// y solo si nadie lo cambió desde la lectura (domain.ErrConflict en otro caso).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFoundError("producto", id)
	}
	readStock := product.Stock
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "requerido")
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Cost != nil {
		product.Cost = *in.Cost
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if err := validateAmounts(product.Price, product.Cost, product.Stock, product.MinStock); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()
	if in.Stock != nil {
		err = uc.repo.UpdateWithStock(ctx, product, readStock)
	} else {
		err = uc.repo.Update(ctx, product)
	}
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

func validateAmounts(price, cost decimal.Decimal, stock, minStock int) error {
	switch {
	case price.IsNegative():
		return domain.NewValidationError("price", "no puede ser negativo")
	case cost.IsNegative():
		return domain.NewValidationError("cost", "no puede ser negativo")
	case stock < 0:
		return domain.NewValidationError("stock", "no puede ser negativo")
	case stock > math.MaxInt32:
		return domain.NewValidationError("stock", "fuera de rango")
	case minStock < 0:
		return domain.NewValidationError("minStock", "no puede ser negativo")
	case minStock > math.MaxInt32:
		return domain.NewValidationError("minStock", "fuera de rango")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Cost:        p.Cost,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Category:    p.Category,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
