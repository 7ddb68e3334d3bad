package memory

import (
	"context"

	"github.com/jhoicas/Billing-api/internal/application/billing"
	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con acceso exclusivo al Store.
// Si fn falla (o el contexto se cancela) el estado vuelve a la copia tomada al inicio.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// RunBilling ejecuta fn con los repos de facturación atados a la transacción.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	billRepo repository.BillRepository,
	seqRepo repository.BillSequenceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return domain.NewTransientStorageError("begin transaction", err)
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	sc := scope{s: s, inTx: true}
	err := fn(&ProductRepo{sc: sc}, &CustomerRepo{sc: sc}, &BillRepo{sc: sc}, &BillSequenceRepo{sc: sc})
	if err == nil && ctx.Err() != nil {
		err = domain.NewTransientStorageError("commit transaction", ctx.Err())
	}
	if err != nil {
		s.data = snapshot
		return err
	}
	return nil
}
