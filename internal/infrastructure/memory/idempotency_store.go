package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Billing-api/internal/application/billing"
)

var _ billing.IdempotencyStore = (*IdempotencyStore)(nil)

// IdempotencyStore claves Idempotency-Key en un mapa; sin expiración.
type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]string // clave -> bill ID ("" mientras está en curso)
}

// NewIdempotencyStore crea un store vacío.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]string)}
}

// Reserve marca la clave como en curso si no existía.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if billID, ok := s.keys[key]; ok {
		return billID, false, nil
	}
	s.keys[key] = ""
	return "", true, nil
}

// Complete asocia la clave a la factura.
func (s *IdempotencyStore) Complete(_ context.Context, key, billID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = billID
	return nil
}

// Release elimina la clave.
func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.keys, key)
	return nil
}
