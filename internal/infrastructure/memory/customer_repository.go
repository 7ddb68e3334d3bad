package memory

import (
	"context"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo clientes en memoria.
type CustomerRepo struct {
	sc scope
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(ctx context.Context, customer *entity.Customer) error {
	return r.sc.write(ctx, func(d *data) error {
		if _, ok := d.customers[customer.ID]; ok {
			return domain.ErrDuplicate
		}
		d.customers[customer.ID] = *customer
		return nil
	})
}

// GetByID obtiene un cliente por ID.
func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	var out *entity.Customer
	err := r.sc.read(ctx, func(d *data) error {
		if c, ok := d.customers[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

// Update reemplaza el cliente.
func (r *CustomerRepo) Update(ctx context.Context, customer *entity.Customer) error {
	return r.sc.write(ctx, func(d *data) error {
		if _, ok := d.customers[customer.ID]; !ok {
			return domain.NewNotFoundError("cliente", customer.ID)
		}
		d.customers[customer.ID] = *customer
		return nil
	})
}
