package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Billing-api/internal/application/seed"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/infrastructure/memory"
)

func TestRun_IsRepeatable(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repos := seed.Repos{Users: store.Users(), Customers: store.Customers(), Products: store.Products()}
	admin := seed.Admin{Email: "Admin@Example.com", Password: "cambiar123", Name: "Admin", CompanyName: "Acme"}

	first, err := seed.Run(ctx, repos, admin, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, first.CustomersCreated)
	assert.Equal(t, 5, first.ProductsCreated)
	assert.Equal(t, "admin@example.com", first.Admin.Email)
	assert.Equal(t, entity.RoleAdmin, first.Admin.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(first.Admin.PasswordHash), []byte("cambiar123")))

	second, err := seed.Run(ctx, repos, admin, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Admin.ID, second.Admin.ID)
	assert.Zero(t, second.CustomersCreated)
	assert.Zero(t, second.ProductsCreated)

	laptop, err := store.Products().GetBySKU(ctx, "LAPTOP-001")
	require.NoError(t, err)
	require.NotNil(t, laptop)
	assert.Equal(t, "999.99", laptop.Price.StringFixed(2))
}
