package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"minStock"`
	Category    string          `json:"category"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
// Stock se ajusta aquí desde gestión de inventario; la facturación lo descuenta por su cuenta.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Stock       *int             `json:"stock"`
	MinStock    *int             `json:"minStock"`
	Category    *string          `json:"category"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"minStock"`
	Category    string          `json:"category"`
	LowStock    bool            `json:"lowStock"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// LowStockNotification alerta de GET /api/notifications.
type LowStockNotification struct {
	ID        string `json:"id"`
	Type      string `json:"type"` // low_stock | out_of_stock
	ProductID string `json:"productId"`
	Product   string `json:"product"`
	SKU       string `json:"sku"`
	Stock     int    `json:"stock"`
	MinStock  int    `json:"minStock"`
	Message   string `json:"message"`
}

// NotificationsResponse respuesta de GET /api/notifications.
type NotificationsResponse struct {
	Notifications []LowStockNotification `json:"notifications"`
	Count         int                    `json:"count"`
}
