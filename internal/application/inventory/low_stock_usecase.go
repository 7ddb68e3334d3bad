// Package inventory contiene las alertas de inventario derivadas del stock de productos.
package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Billing-api/internal/application/dto"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
)

const (
	notificationLowStock   = "low_stock"
	notificationOutOfStock = "out_of_stock"
	maxNotifications       = 100
)

// LowStockUseCase genera las notificaciones de productos con stock <= min_stock.
// min_stock es solo un umbral de alerta: la facturación puede dejar el stock por debajo.
type LowStockUseCase struct {
	productRepo  repository.ProductRepository
	settingsRepo repository.SettingsRepository
}

// NewLowStockUseCase construye el caso de uso. settingsRepo puede ser nil (alertas siempre activas).
func NewLowStockUseCase(productRepo repository.ProductRepository, settingsRepo repository.SettingsRepository) *LowStockUseCase {
	return &LowStockUseCase{productRepo: productRepo, settingsRepo: settingsRepo}
}

// ListNotifications productos bajo mínimo, de menor a mayor stock.
// Si el usuario desactivó las alertas de stock la lista viene vacía.
func (uc *LowStockUseCase) ListNotifications(ctx context.Context, userID string) (*dto.NotificationsResponse, error) {
	resp := &dto.NotificationsResponse{Notifications: []dto.LowStockNotification{}}

	if uc.settingsRepo != nil && userID != "" {
		s, err := uc.settingsRepo.Get(ctx, userID)
		if err != nil {
			return nil, err
		}
		if s != nil && !s.LowStockAlerts {
			return resp, nil
		}
	}

	products, err := uc.productRepo.ListLowStock(ctx, maxNotifications)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		n := dto.LowStockNotification{
			ID:        fmt.Sprintf("%s-%s", notificationLowStock, p.ID),
			Type:      notificationLowStock,
			ProductID: p.ID,
			Product:   p.Name,
			SKU:       p.SKU,
			Stock:     p.Stock,
			MinStock:  p.MinStock,
			Message:   fmt.Sprintf("%s tiene %d unidades (mínimo %d)", p.Name, p.Stock, p.MinStock),
		}
		if p.Stock <= 0 {
			n.ID = fmt.Sprintf("%s-%s", notificationOutOfStock, p.ID)
			n.Type = notificationOutOfStock
			n.Message = fmt.Sprintf("%s está agotado", p.Name)
		}
		resp.Notifications = append(resp.Notifications, n)
	}
	resp.Count = len(resp.Notifications)
	return resp, nil
}
