package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Billing-api/internal/application/analytics"
	"github.com/jhoicas/Billing-api/internal/application/billing"
	"github.com/jhoicas/Billing-api/internal/application/inventory"
	"github.com/jhoicas/Billing-api/internal/application/usecase"
	"github.com/jhoicas/Billing-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateBill     *billing.CreateBillUseCase
	BillPDF        *billing.PDFUseCase
	CustomerUC     *billing.CustomerUseCase
	ProductUC      *usecase.ProductUseCase
	AnalyticsUC    *usecase.AnalyticsUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	LowStockUC     *inventory.LowStockUseCase
	ProfileUC      *usecase.ProfileUseCase
	SettingsUC     *usecase.SettingsUseCase
	JWTSecret      string
	RequestTimeout time.Duration
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", RequestTimeout(deps.RequestTimeout))

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleSeller)
	adminOnly := RequireRole(entity.RoleAdmin)

	// Bills
	bills := protected.Group("/bills", anyRole)
	billHandler := NewBillHandler(deps.CreateBill, deps.BillPDF)
	bills.Post("/", billHandler.Create)
	bills.Get("/:id", billHandler.GetByID)
	bills.Put("/:id", billHandler.UpdateStatus)
	bills.Post("/:id/pay", billHandler.MarkPaid)
	bills.Get("/:id/pdf", billHandler.DownloadPDF)

	// Customers
	customers := protected.Group("/customers", anyRole)
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)

	// Products (lectura para todos, escritura solo admin)
	products := protected.Group("/products", anyRole)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)

	// Analytics, dashboard y notificaciones
	protected.Get("/analytics", anyRole, NewAnalyticsHandler(deps.AnalyticsUC).GetSalesReport)
	protected.Get("/dashboard", anyRole, NewDashboardHandler(deps.DashboardUC).GetSummary)
	protected.Get("/notifications", anyRole, NewNotificationHandler(deps.LowStockUC).List)

	// Perfil y ajustes del usuario autenticado
	profileHandler := NewProfileHandler(deps.ProfileUC, deps.SettingsUC)
	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Put("/profile/password", profileHandler.ChangePassword)
	protected.Get("/settings/company", profileHandler.GetCompany)
	protected.Put("/settings/company", profileHandler.UpdateCompany)
	protected.Get("/settings/preferences", profileHandler.GetPreferences)
	protected.Put("/settings/preferences", profileHandler.UpdatePreferences)
}

// RequestTimeout fija un contexto con límite para la petición; d <= 0 no limita.
// Los casos de uso lo reciben vía c.UserContext() y lo propagan a la transacción.
func RequestTimeout(d time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), d)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
