package repository

import (
	"context"

	"github.com/jhoicas/Billing-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// Update actualiza los datos del producto sin tocar stock: la facturación lo modifica de forma concurrente.
	Update(ctx context.Context, product *entity.Product) error
	// UpdateWithStock actualiza los datos y fija product.Stock solo si el stock actual sigue siendo expectedStock.
	// Si cambió entretanto devuelve domain.ErrConflict sin modificar nada.
	UpdateWithStock(ctx context.Context, product *entity.Product, expectedStock int) error
	// DecrementStock resta quantity solo si stock >= quantity, como una única operación atómica.
	// ok=false (sin error) indica stock insuficiente y no modifica nada.
	DecrementStock(ctx context.Context, id string, quantity int) (remaining int, ok bool, err error)
	// IncrementStock devuelve unidades al inventario (cancelación de factura).
	IncrementStock(ctx context.Context, id string, quantity int) error
	// ListLowStock productos con stock <= min_stock, ordenados por stock ascendente.
	ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error)
}
