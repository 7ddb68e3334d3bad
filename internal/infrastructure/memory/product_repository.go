package memory

import (
	"context"
	"slices"
	"time"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria. Devuelve copias: el caller nunca comparte estado con el Store.
type ProductRepo struct {
	sc scope
}

// Create persiste un nuevo producto. SKU repetido → domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.sc.write(ctx, func(d *data) error {
		for _, p := range d.products {
			if p.SKU == product.SKU {
				return domain.ErrDuplicate
			}
		}
		d.products[product.ID] = *product
		return nil
	})
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.sc.read(ctx, func(d *data) error {
		if p, ok := d.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.sc.read(ctx, func(d *data) error {
		for _, p := range d.products {
			if p.SKU == sku {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update reemplaza los datos del producto conservando el stock guardado.
// SKU de otro producto → domain.ErrDuplicate.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.update(ctx, product, nil)
}

// UpdateWithStock como Update, y fija el stock si sigue valiendo expectedStock; si no, domain.ErrConflict.
func (r *ProductRepo) UpdateWithStock(ctx context.Context, product *entity.Product, expectedStock int) error {
	return r.update(ctx, product, &expectedStock)
}

func (r *ProductRepo) update(ctx context.Context, product *entity.Product, expectedStock *int) error {
	return r.sc.write(ctx, func(d *data) error {
		current, ok := d.products[product.ID]
		if !ok {
			return domain.NewNotFoundError("producto", product.ID)
		}
		for id, p := range d.products {
			if id != product.ID && p.SKU == product.SKU {
				return domain.ErrDuplicate
			}
		}
		next := *product
		if expectedStock == nil {
			next.Stock = current.Stock
		} else if current.Stock != *expectedStock {
			return domain.ErrConflict
		}
		d.products[product.ID] = next
		return nil
	})
}

// DecrementStock resta quantity solo si alcanza el stock.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, quantity int) (int, bool, error) {
	var (
		remaining int
		ok        bool
	)
	err := r.sc.write(ctx, func(d *data) error {
		p, found := d.products[id]
		if !found || p.Stock < quantity {
			return nil
		}
		p.Stock -= quantity
		p.UpdatedAt = time.Now().UTC()
		d.products[id] = p
		remaining, ok = p.Stock, true
		return nil
	})
	return remaining, ok, err
}

// IncrementStock devuelve unidades al inventario.
func (r *ProductRepo) IncrementStock(ctx context.Context, id string, quantity int) error {
	return r.sc.write(ctx, func(d *data) error {
		p, found := d.products[id]
		if !found {
			return domain.NewNotFoundError("producto", id)
		}
		p.Stock += quantity
		p.UpdatedAt = time.Now().UTC()
		d.products[id] = p
		return nil
	})
}

// ListLowStock productos con stock <= min_stock, de menor a mayor stock.
func (r *ProductRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.sc.read(ctx, func(d *data) error {
		for _, p := range d.products {
			if p.IsLowStock() {
				out = append(out, &p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b *entity.Product) int {
		if a.Stock != b.Stock {
			return a.Stock - b.Stock
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
