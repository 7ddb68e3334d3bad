package repository

import (
	"context"

	"github.com/jhoicas/Billing-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persiste nombre, email, imagen y nombre de empresa. Email duplicado → domain.ErrEmailAlreadyExists.
	Update(ctx context.Context, user *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// SettingsRepository preferencias de notificación por usuario.
type SettingsRepository interface {
	// Get devuelve (nil, nil) si el usuario no guardó preferencias.
	Get(ctx context.Context, userID string) (*entity.UserSettings, error)
	Upsert(ctx context.Context, settings *entity.UserSettings) error
}
