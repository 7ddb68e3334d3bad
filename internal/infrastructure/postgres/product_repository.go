package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, sku, name, description, price, cost, stock, min_stock, category, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Price, &p.Cost,
		&p.Stock, &p.MinStock, &p.Category, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description, product.Price, product.Cost,
		product.Stock, product.MinStock, product.Category, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get product by sku", err)
	}
	return p, nil
}

// Update actualiza datos, precio, costo y mínimo. El stock no se escribe.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET sku = $2, name = $3, description = $4, price = $5, cost = $6,
			min_stock = $7, category = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description, product.Price, product.Cost,
		product.MinStock, product.Category, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("producto", product.ID)
	}
	return nil
}

// UpdateWithStock como Update, y además fija stock si sigue valiendo expectedStock (compare-and-set).
func (r *ProductRepo) UpdateWithStock(ctx context.Context, product *entity.Product, expectedStock int) error {
	query := `
		UPDATE products SET sku = $2, name = $3, description = $4, price = $5, cost = $6,
			stock = $7, min_stock = $8, category = $9, updated_at = $10
		WHERE id = $1 AND stock = $11`
	tag, err := r.q.Exec(ctx, query,
		product.ID, product.SKU, product.Name, product.Description, product.Price, product.Cost,
		product.Stock, product.MinStock, product.Category, product.UpdatedAt, expectedStock,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr("update product stock", err)
	}
	if tag.RowsAffected() == 0 {
		current, err := r.GetByID(ctx, product.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NewNotFoundError("producto", product.ID)
		}
		return domain.ErrConflict
	}
	return nil
}

// DecrementStock resta quantity en una sola sentencia condicional: sin lecturas previas ni locks explícitos.
// ok=false si el producto no tiene stock suficiente (o no existe).
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, quantity int) (int, bool, error) {
	if !validID(id) {
		return 0, false, nil
	}
	query := `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
		RETURNING stock`
	var remaining int
	err := r.q.QueryRow(ctx, query, id, quantity).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, wrapErr("decrement stock", err)
	}
	return remaining, true, nil
}

// IncrementStock devuelve unidades al inventario (cancelación de facturas).
func (r *ProductRepo) IncrementStock(ctx context.Context, id string, quantity int) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return wrapErr("increment stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFoundError("producto", id)
	}
	return nil
}

// ListLowStock productos con stock <= min_stock, de menor a mayor stock.
func (r *ProductRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.Product, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE stock <= min_stock
		ORDER BY stock ASC, name ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, wrapErr("list low stock", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, wrapErr("scan product", err)
		}
		list = append(list, p)
	}
	return list, wrapErr("list low stock", rows.Err())
}
