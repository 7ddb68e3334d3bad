// Package seed carga datos de demostración: un usuario admin, clientes y productos de ejemplo.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
	"github.com/jhoicas/Billing-api/pkg/logger"
)

// Repos repositorios que escribe el seed.
type Repos struct {
	Users     repository.UserRepository
	Customers repository.CustomerRepository
	Products  repository.ProductRepository
}

// Admin credenciales del usuario administrador de demostración.
type Admin struct {
	Email       string
	Password    string
	Name        string
	CompanyName string
}

// Result lo que quedó disponible tras el seed.
type Result struct {
	Admin            *entity.User
	CustomersCreated int
	ProductsCreated  int
}

var demoCustomers = []entity.Customer{
	{Name: "John Doe", Email: "john.doe@example.com", Phone: "+1234567890", Address: "123 Main St, City, State 12345"},
	{Name: "Jane Smith", Email: "jane.smith@example.com", Phone: "+1234567891", Address: "456 Oak Ave, City, State 12345"},
	{Name: "Bob Johnson", Email: "bob.johnson@example.com", Phone: "+1234567892", Address: "789 Pine Rd, City, State 12345"},
}

var demoProducts = []struct {
	sku, name, description, price, cost string
	stock, minStock                     int
}{
	{"LAPTOP-001", "Laptop", "High-performance laptop", "999.99", "700.00", 50, 10},
	{"MOUSE-001", "Mouse", "Wireless mouse", "29.99", "15.00", 100, 20},
	{"KEYBOARD-001", "Keyboard", "Mechanical keyboard", "89.99", "45.00", 75, 15},
	{"MONITOR-001", "Monitor", "24-inch LED monitor", "199.99", "120.00", 30, 5},
	{"HEADPHONES-001", "Headphones", "Noise-cancelling headphones", "149.99", "80.00", 60, 12},
}

// Run crea el admin y el catálogo de ejemplo. Es re-ejecutable: si el admin ya existe
// no crea clientes, y los productos cuyo SKU ya existe se omiten.
func Run(ctx context.Context, repos Repos, admin Admin, log *logger.Logger) (*Result, error) {
	log = logger.OrNop(log).Named("seed")
	now := time.Now().UTC()
	res := &Result{}

	email := strings.ToLower(strings.TrimSpace(admin.Email))
	existing, err := repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("seed: buscar admin: %w", err)
	}
	if existing != nil {
		res.Admin = existing
		log.Info().Str("email", email).Msg("admin ya existe, se omiten clientes")
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("seed: hash de contraseña: %w", err)
		}
		user := &entity.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: string(hash),
			Name:         admin.Name,
			Role:         entity.RoleAdmin,
			CompanyName:  admin.CompanyName,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("seed: crear admin: %w", err)
		}
		res.Admin = user

		for _, c := range demoCustomers {
			c.ID = uuid.NewString()
			c.CreatedAt, c.UpdatedAt = now, now
			if err := repos.Customers.Create(ctx, &c); err != nil {
				return nil, fmt.Errorf("seed: crear cliente %s: %w", c.Name, err)
			}
			res.CustomersCreated++
		}
	}

	for _, p := range demoProducts {
		found, err := repos.Products.GetBySKU(ctx, p.sku)
		if err != nil {
			return nil, fmt.Errorf("seed: buscar producto %s: %w", p.sku, err)
		}
		if found != nil {
			continue
		}
		product := &entity.Product{
			ID:          uuid.NewString(),
			SKU:         p.sku,
			Name:        p.name,
			Description: p.description,
			Price:       decimal.RequireFromString(p.price),
			Cost:        decimal.RequireFromString(p.cost),
			Stock:       p.stock,
			MinStock:    p.minStock,
			Category:    "Electronics",
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return nil, fmt.Errorf("seed: crear producto %s: %w", p.sku, err)
		}
		res.ProductsCreated++
	}

	log.Info().
		Int("customers", res.CustomersCreated).
		Int("products", res.ProductsCreated).
		Msg("datos de demostración cargados")
	return res, nil
}
