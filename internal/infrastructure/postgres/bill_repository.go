package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

const billColumns = `id, bill_number, customer_id, user_id, subtotal, tax, discount, total, status, created_at, updated_at`

// BillRepo implementación de BillRepository (cabecera + líneas). Usable con pool o tx.
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

func scanBill(row pgx.Row) (*entity.Bill, error) {
	var b entity.Bill
	var status string
	err := row.Scan(&b.ID, &b.BillNumber, &b.CustomerID, &b.UserID,
		&b.Subtotal, &b.Tax, &b.Discount, &b.Total, &status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.Status = entity.BillStatus(status)
	return &b, nil
}

// Create inserta la cabecera. Número repetido → *domain.NumberingConflictError;
// cliente o usuario inexistente → *domain.NotFoundError.
func (r *BillRepo) Create(ctx context.Context, bill *entity.Bill) error {
	query := `
		INSERT INTO bills (` + billColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		bill.ID, bill.BillNumber, bill.CustomerID, bill.UserID,
		bill.Subtotal, bill.Tax, bill.Discount, bill.Total, string(bill.Status),
		bill.CreatedAt, bill.UpdatedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err) && constraintName(err) == "bills_bill_number_key":
			return &domain.NumberingConflictError{BillNumber: bill.BillNumber}
		case isForeignKeyViolation(err) && constraintName(err) == "bills_user_id_fkey":
			return domain.NewNotFoundError("usuario", bill.UserID)
		case isForeignKeyViolation(err):
			return domain.NewNotFoundError("cliente", bill.CustomerID)
		}
		return wrapErr("insert bill", err)
	}
	return nil
}

// CreateItem inserta una línea.
func (r *BillRepo) CreateItem(ctx context.Context, item *entity.BillItem) error {
	query := `
		INSERT INTO bill_items (id, bill_id, product_id, product_name, product_sku, quantity, price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.BillID, item.ProductID, item.ProductName, item.ProductSKU,
		item.Quantity, item.Price, item.Total,
	)
	if err != nil {
		if isForeignKeyViolation(err) && constraintName(err) == "bill_items_product_id_fkey" {
			return domain.NewNotFoundError("producto", item.ProductID)
		}
		if isForeignKeyViolation(err) {
			return domain.NewNotFoundError("factura", item.BillID)
		}
		return wrapErr("insert bill item", err)
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *BillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	if !validID(id) {
		return nil, nil
	}
	b, err := scanBill(r.q.QueryRow(ctx, `SELECT `+billColumns+` FROM bills WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get bill", err)
	}
	return b, nil
}

// GetItemsByBillID líneas en orden de inserción.
func (r *BillRepo) GetItemsByBillID(ctx context.Context, billID string) ([]*entity.BillItem, error) {
	if !validID(billID) {
		return nil, nil
	}
	query := `
		SELECT id, bill_id, product_id, product_name, product_sku, quantity, price, total
		FROM bill_items WHERE bill_id = $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, billID)
	if err != nil {
		return nil, wrapErr("list bill items", err)
	}
	defer rows.Close()

	var items []*entity.BillItem
	for rows.Next() {
		var it entity.BillItem
		if err := rows.Scan(&it.ID, &it.BillID, &it.ProductID, &it.ProductName, &it.ProductSKU,
			&it.Quantity, &it.Price, &it.Total); err != nil {
			return nil, wrapErr("scan bill item", err)
		}
		items = append(items, &it)
	}
	return items, wrapErr("list bill items", rows.Err())
}

// GetLatest la factura más reciente; desempata por número para que BILL-010 gane a BILL-009.
func (r *BillRepo) GetLatest(ctx context.Context) (*entity.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills ORDER BY created_at DESC, length(bill_number) DESC, bill_number DESC LIMIT 1`
	b, err := scanBill(r.q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get latest bill", err)
	}
	return b, nil
}

// UpdateStatus cambia el estado solo si el actual es from. false si no se actualizó ninguna fila.
func (r *BillRepo) UpdateStatus(ctx context.Context, id string, from, to entity.BillStatus, at time.Time) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	tag, err := r.q.Exec(ctx,
		`UPDATE bills SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2`,
		id, string(from), string(to), at)
	if err != nil {
		return false, wrapErr("update bill status", err)
	}
	return tag.RowsAffected() == 1, nil
}
