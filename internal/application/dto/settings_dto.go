package dto

// CompanyNameRequest body para PUT /api/settings/company.
type CompanyNameRequest struct {
	CompanyName string `json:"companyName"`
}

// CompanyNameResponse nombre de empresa del usuario.
type CompanyNameResponse struct {
	CompanyName string `json:"companyName"`
}

// PreferencesRequest body para PUT /api/settings/preferences (campos opcionales).
type PreferencesRequest struct {
	EmailNotifications    *bool   `json:"emailNotifications"`
	SMSNotifications      *bool   `json:"smsNotifications"`
	NewOrderNotifications *bool   `json:"newOrderNotifications"`
	LowStockAlerts        *bool   `json:"lowStockAlerts"`
	Currency              *string `json:"currency"`
}

// PreferencesResponse preferencias de notificación.
type PreferencesResponse struct {
	EmailNotifications    bool   `json:"emailNotifications"`
	SMSNotifications      bool   `json:"smsNotifications"`
	NewOrderNotifications bool   `json:"newOrderNotifications"`
	LowStockAlerts        bool   `json:"lowStockAlerts"`
	Currency              string `json:"currency"`
}
