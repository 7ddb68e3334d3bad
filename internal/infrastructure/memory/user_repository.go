package memory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.SettingsRepository = (*SettingsRepo)(nil)
)

// UserRepo usuarios en memoria. El email es único sin distinguir mayúsculas.
type UserRepo struct {
	sc scope
}

func emailTaken(d *data, email, exceptID string) bool {
	for id, u := range d.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.sc.write(ctx, func(d *data) error {
		if emailTaken(d, user.Email, "") {
			return domain.ErrEmailAlreadyExists
		}
		d.users[user.ID] = *user
		return nil
	})
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(ctx, func(d *data) error {
		if u, ok := d.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.sc.read(ctx, func(d *data) error {
		for _, u := range d.users {
			if strings.EqualFold(u.Email, email) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update persiste nombre, email, imagen y empresa.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.sc.write(ctx, func(d *data) error {
		cur, ok := d.users[user.ID]
		if !ok {
			return domain.ErrUserNotFound
		}
		if emailTaken(d, user.Email, user.ID) {
			return domain.ErrEmailAlreadyExists
		}
		cur.Name = user.Name
		cur.Email = user.Email
		cur.Image = user.Image
		cur.CompanyName = user.CompanyName
		cur.UpdatedAt = user.UpdatedAt
		d.users[user.ID] = cur
		return nil
	})
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.sc.write(ctx, func(d *data) error {
		cur, ok := d.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		cur.PasswordHash = passwordHash
		cur.UpdatedAt = time.Now().UTC()
		d.users[id] = cur
		return nil
	})
}

// SettingsRepo preferencias por usuario en memoria.
type SettingsRepo struct {
	sc scope
}

// Get devuelve (nil, nil) si no hay preferencias guardadas.
func (r *SettingsRepo) Get(ctx context.Context, userID string) (*entity.UserSettings, error) {
	var out *entity.UserSettings
	err := r.sc.read(ctx, func(d *data) error {
		if s, ok := d.settings[userID]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

// Upsert crea o reemplaza las preferencias.
func (r *SettingsRepo) Upsert(ctx context.Context, settings *entity.UserSettings) error {
	return r.sc.write(ctx, func(d *data) error {
		if _, ok := d.users[settings.UserID]; !ok {
			return domain.ErrUserNotFound
		}
		d.settings[settings.UserID] = *settings
		return nil
	})
}
