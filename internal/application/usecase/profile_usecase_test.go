package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/infrastructure/memory"
)

func newProfileStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)
	store := memory.New()
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u1", Email: "ana@x.co", Name: "Ana", PasswordHash: string(hash), Role: entity.RoleAdmin}))
	require.NoError(t, store.Users().Create(ctx, &entity.User{ID: "u2", Email: "bob@x.co", Name: "Bob"}))
	return store
}

func TestProfileUseCase_Update(t *testing.T) {
	ctx := context.Background()
	uc := NewProfileUseCase(newProfileStore(t).Users())

	got, err := uc.Update(ctx, "u1", dto.UpdateProfileRequest{Name: " Ana María ", Email: "ANA.M@x.co"})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", got.Name)
	assert.Equal(t, "ana.m@x.co", got.Email)

	_, err = uc.Update(ctx, "u1", dto.UpdateProfileRequest{Name: "Ana", Email: "bob@x.co"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Update(ctx, "u1", dto.UpdateProfileRequest{Name: "Ana", Email: "no-es-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Get(ctx, "nadie")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProfileUseCase_ChangePassword(t *testing.T) {
	ctx := context.Background()
	store := newProfileStore(t)
	uc := NewProfileUseCase(store.Users())

	err := uc.ChangePassword(ctx, "u1", dto.ChangePasswordRequest{CurrentPassword: "incorrecta", NewPassword: "nuevaClave1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = uc.ChangePassword(ctx, "u1", dto.ChangePasswordRequest{CurrentPassword: "secreto123", NewPassword: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, uc.ChangePassword(ctx, "u1", dto.ChangePasswordRequest{CurrentPassword: "secreto123", NewPassword: "nuevaClave1"}))
	u, err := store.Users().GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("nuevaClave1")))
}

func TestSettingsUseCase(t *testing.T) {
	ctx := context.Background()
	store := newProfileStore(t)
	uc := NewSettingsUseCase(store.Users(), store.Settings())

	_, err := uc.UpdateCompanyName(ctx, "u1", dto.CompanyNameRequest{CompanyName: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	company, err := uc.UpdateCompanyName(ctx, "u1", dto.CompanyNameRequest{CompanyName: " Acme SAS "})
	require.NoError(t, err)
	assert.Equal(t, "Acme SAS", company.CompanyName)
	company, err = uc.GetCompanyName(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Acme SAS", company.CompanyName)

	prefs, err := uc.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, prefs.EmailNotifications)
	assert.False(t, prefs.SMSNotifications)
	assert.Equal(t, "USD", prefs.Currency)

	off := false
	cop := "cop"
	prefs, err = uc.UpdatePreferences(ctx, "u1", dto.PreferencesRequest{LowStockAlerts: &off, Currency: &cop})
	require.NoError(t, err)
	assert.False(t, prefs.LowStockAlerts)
	assert.Equal(t, "COP", prefs.Currency)
	assert.True(t, prefs.EmailNotifications)

	bad := "pesos"
	_, err = uc.UpdatePreferences(ctx, "u1", dto.PreferencesRequest{Currency: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
