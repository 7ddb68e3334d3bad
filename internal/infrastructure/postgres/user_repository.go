package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

var (
	_ repository.UserRepository     = (*UserRepo)(nil)
	_ repository.SettingsRepository = (*SettingsRepo)(nil)
)

const userColumns = `id, email, password_hash, name, role, image, company_name, created_at, updated_at`

// UserRepo implementación del puerto UserRepository. El email es único sin distinguir mayúsculas
// (índice users_email_key sobre lower(email)).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

func (r *UserRepo) findOne(ctx context.Context, op, where string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.Image, &u.CompanyName,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return &u, nil
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.Image, user.CompanyName,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return wrapErr("insert user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.findOne(ctx, "get user by id", "id = $1", id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, "get user by email", "lower(email) = lower($1)", email)
}

// Update persiste nombre, email, imagen y nombre de empresa.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET email = $2, name = $3, image = $4, company_name = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Image, user.CompanyName, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return wrapErr("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return wrapErr("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SettingsRepo preferencias de notificación (tabla user_settings).
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// Get devuelve (nil, nil) si el usuario no guardó preferencias.
func (r *SettingsRepo) Get(ctx context.Context, userID string) (*entity.UserSettings, error) {
	if !validID(userID) {
		return nil, nil
	}
	query := `
		SELECT user_id, email_notifications, sms_notifications, new_order_notifications,
			low_stock_alerts, currency, updated_at
		FROM user_settings WHERE user_id = $1`
	var s entity.UserSettings
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.EmailNotifications, &s.SMSNotifications, &s.NewOrderNotifications,
		&s.LowStockAlerts, &s.Currency, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get settings", err)
	}
	return &s, nil
}

// Upsert crea o reemplaza las preferencias.
func (r *SettingsRepo) Upsert(ctx context.Context, s *entity.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, email_notifications, sms_notifications, new_order_notifications,
			low_stock_alerts, currency, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			email_notifications = EXCLUDED.email_notifications,
			sms_notifications = EXCLUDED.sms_notifications,
			new_order_notifications = EXCLUDED.new_order_notifications,
			low_stock_alerts = EXCLUDED.low_stock_alerts,
			currency = EXCLUDED.currency,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		s.UserID, s.EmailNotifications, s.SMSNotifications, s.NewOrderNotifications,
		s.LowStockAlerts, s.Currency, s.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return wrapErr("upsert settings", err)
	}
	return nil
}
