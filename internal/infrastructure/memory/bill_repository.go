package memory

import (
	"context"
	"time"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var (
	_ repository.BillRepository         = (*BillRepo)(nil)
	_ repository.BillSequenceRepository = (*BillSequenceRepo)(nil)
)

// BillRepo facturas y líneas en memoria. Aplica las mismas restricciones que el esquema SQL:
// bill_number único y referencias a cliente, usuario y producto existentes.
type BillRepo struct {
	sc scope
}

// Create inserta la cabecera.
func (r *BillRepo) Create(ctx context.Context, bill *entity.Bill) error {
	return r.sc.write(ctx, func(d *data) error {
		for _, b := range d.bills {
			if b.BillNumber == bill.BillNumber {
				return &domain.NumberingConflictError{BillNumber: bill.BillNumber}
			}
		}
		if _, ok := d.customers[bill.CustomerID]; !ok {
			return domain.NewNotFoundError("cliente", bill.CustomerID)
		}
		if _, ok := d.users[bill.UserID]; !ok {
			return domain.NewNotFoundError("usuario", bill.UserID)
		}
		d.bills[bill.ID] = *bill
		d.billOrder = append(d.billOrder, bill.ID)
		return nil
	})
}

// CreateItem inserta una línea de la factura.
func (r *BillRepo) CreateItem(ctx context.Context, item *entity.BillItem) error {
	return r.sc.write(ctx, func(d *data) error {
		if _, ok := d.bills[item.BillID]; !ok {
			return domain.NewNotFoundError("factura", item.BillID)
		}
		if _, ok := d.products[item.ProductID]; !ok {
			return domain.NewNotFoundError("producto", item.ProductID)
		}
		d.items[item.BillID] = append(d.items[item.BillID], *item)
		return nil
	})
}

// GetByID obtiene una factura por ID.
func (r *BillRepo) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	var out *entity.Bill
	err := r.sc.read(ctx, func(d *data) error {
		if b, ok := d.bills[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

// GetItemsByBillID líneas en orden de inserción.
func (r *BillRepo) GetItemsByBillID(ctx context.Context, billID string) ([]*entity.BillItem, error) {
	var out []*entity.BillItem
	err := r.sc.read(ctx, func(d *data) error {
		for _, it := range d.items[billID] {
			out = append(out, &it)
		}
		return nil
	})
	return out, err
}

// GetLatest la factura con created_at más reciente.
func (r *BillRepo) GetLatest(ctx context.Context) (*entity.Bill, error) {
	var out *entity.Bill
	err := r.sc.read(ctx, func(d *data) error {
		for _, id := range d.billOrder {
			b := d.bills[id]
			if out == nil || !b.CreatedAt.Before(out.CreatedAt) {
				out = &b
			}
		}
		return nil
	})
	return out, err
}

// UpdateStatus cambia el estado solo si el actual es from.
func (r *BillRepo) UpdateStatus(ctx context.Context, id string, from, to entity.BillStatus, at time.Time) (bool, error) {
	var updated bool
	err := r.sc.write(ctx, func(d *data) error {
		b, ok := d.bills[id]
		if !ok || b.Status != from {
			return nil
		}
		b.Status = to
		b.UpdatedAt = at
		d.bills[id] = b
		updated = true
		return nil
	})
	return updated, err
}

// BillSequenceRepo contador de numeración en memoria.
type BillSequenceRepo struct {
	sc scope
}

// Next incrementa y devuelve el contador.
func (r *BillSequenceRepo) Next(ctx context.Context, name string) (int64, bool, error) {
	var (
		value int64
		found bool
	)
	err := r.sc.write(ctx, func(d *data) error {
		v, ok := d.sequences[name]
		if !ok {
			return nil
		}
		value, found = v+1, true
		d.sequences[name] = value
		return nil
	})
	return value, found, err
}

// Advance crea o incrementa el contador con un valor >= atLeast.
func (r *BillSequenceRepo) Advance(ctx context.Context, name string, atLeast int64) (int64, error) {
	var value int64
	err := r.sc.write(ctx, func(d *data) error {
		value = atLeast
		if v, ok := d.sequences[name]; ok && v+1 > atLeast {
			value = v + 1
		}
		d.sequences[name] = value
		return nil
	})
	return value, err
}

// Seed fija el contador (p. ej. al simular datos previos). Uso en desarrollo y tests.
func (r *BillSequenceRepo) Seed(ctx context.Context, name string, value int64) error {
	return r.sc.write(ctx, func(d *data) error {
		d.sequences[name] = value
		return nil
	})
}
