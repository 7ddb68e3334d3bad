package entity

import "time"

// UserSettings preferencias de notificación del usuario.
type UserSettings struct {
	UserID                string
	EmailNotifications    bool
	SMSNotifications      bool
	NewOrderNotifications bool
	LowStockAlerts        bool
	Currency              string // ISO 4217, ej: USD
	UpdatedAt             time.Time
}

// DefaultUserSettings valores iniciales cuando el usuario aún no guardó preferencias.
func DefaultUserSettings(userID string) *UserSettings {
	return &UserSettings{
		UserID:                userID,
		EmailNotifications:    true,
		SMSNotifications:      false,
		NewOrderNotifications: true,
		LowStockAlerts:        true,
		Currency:              "USD",
	}
}
