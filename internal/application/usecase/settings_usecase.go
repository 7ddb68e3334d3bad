package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

// SettingsUseCase nombre de empresa (se imprime en las facturas) y preferencias de notificación.
type SettingsUseCase struct {
	users    repository.UserRepository
	settings repository.SettingsRepository
}

// NewSettingsUseCase construye el caso de uso.
func NewSettingsUseCase(users repository.UserRepository, settings repository.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{users: users, settings: settings}
}

// GetCompanyName devuelve el nombre de empresa del usuario.
func (uc *SettingsUseCase) GetCompanyName(ctx context.Context, userID string) (*dto.CompanyNameResponse, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return &dto.CompanyNameResponse{CompanyName: user.CompanyName}, nil
}

// UpdateCompanyName guarda el nombre de empresa (requerido, sin espacios alrededor).
func (uc *SettingsUseCase) UpdateCompanyName(ctx context.Context, userID string, in dto.CompanyNameRequest) (*dto.CompanyNameResponse, error) {
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, domain.NewValidationError("companyName", "requerido")
	}
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.CompanyName = name
	user.UpdatedAt = time.Now().UTC()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return &dto.CompanyNameResponse{CompanyName: name}, nil
}

// GetPreferences devuelve las preferencias guardadas o los valores por defecto.
func (uc *SettingsUseCase) GetPreferences(ctx context.Context, userID string) (*dto.PreferencesResponse, error) {
	s, err := uc.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = entity.DefaultUserSettings(userID)
	}
	return toPreferencesResponse(s), nil
}

// UpdatePreferences aplica los campos enviados sobre las preferencias actuales.
func (uc *SettingsUseCase) UpdatePreferences(ctx context.Context, userID string, in dto.PreferencesRequest) (*dto.PreferencesResponse, error) {
	s, err := uc.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		s = entity.DefaultUserSettings(userID)
	}
	if in.EmailNotifications != nil {
		s.EmailNotifications = *in.EmailNotifications
	}
	if in.SMSNotifications != nil {
		s.SMSNotifications = *in.SMSNotifications
	}
	if in.NewOrderNotifications != nil {
		s.NewOrderNotifications = *in.NewOrderNotifications
	}
	if in.LowStockAlerts != nil {
		s.LowStockAlerts = *in.LowStockAlerts
	}
	if in.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if len(currency) != 3 {
			return nil, domain.NewValidationError("currency", "código ISO 4217 de 3 letras")
		}
		s.Currency = currency
	}
	s.UpdatedAt = time.Now().UTC()
	if err := uc.settings.Upsert(ctx, s); err != nil {
		return nil, err
	}
	return toPreferencesResponse(s), nil
}

func toPreferencesResponse(s *entity.UserSettings) *dto.PreferencesResponse {
	return &dto.PreferencesResponse{
		EmailNotifications:    s.EmailNotifications,
		SMSNotifications:      s.SMSNotifications,
		NewOrderNotifications: s.NewOrderNotifications,
		LowStockAlerts:        s.LowStockAlerts,
		Currency:              s.Currency,
	}
}
