package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var _ repository.BillSequenceRepository = (*BillSequenceRepo)(nil)

// BillSequenceRepo contador de numeración en la tabla bill_sequences.
// El UPDATE toma el lock de la fila hasta el fin de la transacción: dos facturas concurrentes
// nunca obtienen el mismo valor, y un rollback devuelve el valor al contador.
type BillSequenceRepo struct {
	q Querier
}

// NewBillSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillSequenceRepository(q Querier) *BillSequenceRepo {
	return &BillSequenceRepo{q: q}
}

// Next incrementa y devuelve el contador. found=false si el contador no existe.
func (r *BillSequenceRepo) Next(ctx context.Context, name string) (int64, bool, error) {
	var v int64
	err := r.q.QueryRow(ctx,
		`UPDATE bill_sequences SET last_value = last_value + 1 WHERE name = $1 RETURNING last_value`,
		name).Scan(&v)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, wrapErr("next bill number", err)
	}
	return v, true, nil
}

// Advance crea o incrementa el contador garantizando un valor >= atLeast.
func (r *BillSequenceRepo) Advance(ctx context.Context, name string, atLeast int64) (int64, error) {
	query := `
		INSERT INTO bill_sequences (name, last_value) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE
			SET last_value = GREATEST(bill_sequences.last_value + 1, EXCLUDED.last_value)
		RETURNING last_value`
	var v int64
	if err := r.q.QueryRow(ctx, query, name, atLeast).Scan(&v); err != nil {
		return 0, wrapErr("advance bill number", err)
	}
	return v, nil
}
