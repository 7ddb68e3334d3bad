// Package memory implementa los puertos de persistencia en memoria para desarrollo y tests
// (STORAGE_DRIVER=memory). Las transacciones se serializan con el lock del Store y se
// revierten restaurando una copia del estado.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
)

type data struct {
	products  map[string]entity.Product
	customers map[string]entity.Customer
	users     map[string]entity.User
	settings  map[string]entity.UserSettings
	bills     map[string]entity.Bill
	billOrder []string // orden de inserción, desempata created_at
	items     map[string][]entity.BillItem
	sequences map[string]int64
}

func newData() *data {
	return &data{
		products:  make(map[string]entity.Product),
		customers: make(map[string]entity.Customer),
		users:     make(map[string]entity.User),
		settings:  make(map[string]entity.UserSettings),
		bills:     make(map[string]entity.Bill),
		items:     make(map[string][]entity.BillItem),
		sequences: make(map[string]int64),
	}
}

func (d *data) clone() *data {
	c := &data{
		products:  maps.Clone(d.products),
		customers: maps.Clone(d.customers),
		users:     maps.Clone(d.users),
		settings:  maps.Clone(d.settings),
		bills:     maps.Clone(d.bills),
		billOrder: append([]string(nil), d.billOrder...),
		items:     make(map[string][]entity.BillItem, len(d.items)),
		sequences: maps.Clone(d.sequences),
	}
	for k, v := range d.items {
		c.items[k] = append([]entity.BillItem(nil), v...)
	}
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu   sync.RWMutex
	data *data
}

// New crea un Store vacío.
func New() *Store {
	return &Store{data: newData()}
}

// scope da acceso al estado: fuera de una transacción toma el lock; dentro, el TxRunner ya lo tiene.
type scope struct {
	s    *Store
	inTx bool
}

func (sc scope) read(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return domain.NewTransientStorageError("memory", err)
	}
	if !sc.inTx {
		sc.s.mu.RLock()
		defer sc.s.mu.RUnlock()
	}
	return fn(sc.s.data)
}

func (sc scope) write(ctx context.Context, fn func(d *data) error) error {
	if err := ctx.Err(); err != nil {
		return domain.NewTransientStorageError("memory", err)
	}
	if !sc.inTx {
		sc.s.mu.Lock()
		defer sc.s.mu.Unlock()
	}
	return fn(sc.s.data)
}

func (s *Store) scope() scope { return scope{s: s} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{sc: s.scope()} }

// Customers repositorio de clientes fuera de transacción.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{sc: s.scope()} }

// Bills repositorio de facturas fuera de transacción.
func (s *Store) Bills() *BillRepo { return &BillRepo{sc: s.scope()} }

// Sequences contador de numeración fuera de transacción.
func (s *Store) Sequences() *BillSequenceRepo { return &BillSequenceRepo{sc: s.scope()} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{sc: s.scope()} }

// Settings repositorio de preferencias.
func (s *Store) Settings() *SettingsRepo { return &SettingsRepo{sc: s.scope()} }

// Analytics consultas de analítica.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{sc: s.scope()} }
