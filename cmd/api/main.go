package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/Billing-api/docs"
	appanalytics "github.com/jhoicas/Billing-api/internal/application/analytics"
	"github.com/jhoicas/Billing-api/internal/application/billing"
	"github.com/jhoicas/Billing-api/internal/application/inventory"
	"github.com/jhoicas/Billing-api/internal/application/seed"
	"github.com/jhoicas/Billing-api/internal/application/usecase"
	"github.com/jhoicas/Billing-api/internal/domain/repository"
	"github.com/jhoicas/Billing-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Billing-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Billing-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Billing-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Billing-api/internal/interfaces/http"
	"github.com/jhoicas/Billing-api/pkg/config"
	"github.com/jhoicas/Billing-api/pkg/logger"
)

// backend repositorios y runner transaccional del driver de almacenamiento elegido.
type backend struct {
	txRunner  billing.BillingTxRunner
	products  repository.ProductRepository
	customers repository.CustomerRepository
	bills     repository.BillRepository
	users     repository.UserRepository
	settings  repository.SettingsRepository
	analytics repository.AnalyticsRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.Storage.Driver).
		Str("api_version", docs.SwaggerInfo.Version).
		Msg("iniciando aplicación")

	ctx := context.Background()
	be := openBackend(ctx, cfg, log)
	defer be.close()

	idempotency := openIdempotencyStore(ctx, cfg, log)

	createBillUC := billing.NewCreateBillUseCase(
		be.txRunner, be.bills, be.customers, be.products, be.users,
		idempotency,
		billing.Config{TaxRate: cfg.Billing.TaxRate, NumberPrefix: cfg.Billing.NumberPrefix},
		log,
	)
	billPDFUC := billing.NewPDFUseCase(be.bills, be.customers, be.users, infrapdf.NewMarotoPDFGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateBill:     createBillUC,
		BillPDF:        billPDFUC,
		CustomerUC:     billing.NewCustomerUseCase(be.customers),
		ProductUC:      usecase.NewProductUseCase(be.products),
		AnalyticsUC:    usecase.NewAnalyticsUseCase(be.analytics),
		DashboardUC:    appanalytics.NewDashboardUseCase(be.analytics),
		LowStockUC:     inventory.NewLowStockUseCase(be.products, be.settings),
		ProfileUC:      usecase.NewProfileUseCase(be.users),
		SettingsUC:     usecase.NewSettingsUseCase(be.users, be.settings),
		JWTSecret:      cfg.JWT.Secret,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openBackend(ctx context.Context, cfg *config.Config, log *logger.Logger) backend {
	if cfg.Storage.Driver == config.StorageMemory {
		store := memory.New()
		// En memoria no hay datos persistidos: se carga el catálogo de demostración.
		res, err := seed.Run(ctx, seed.Repos{
			Users: store.Users(), Customers: store.Customers(), Products: store.Products(),
		}, seed.Admin{
			Email: "admin@example.com", Password: "admin12345", Name: "Admin", CompanyName: cfg.App.Name,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("seed en memoria")
		}
		log.Warn().Str("admin_id", res.Admin.ID).Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return backend{
			txRunner:  memory.NewTxRunner(store),
			products:  store.Products(),
			customers: store.Customers(),
			bills:     store.Bills(),
			users:     store.Users(),
			settings:  store.Settings(),
			analytics: store.Analytics(),
			close:     func() {},
		}
	}

	if cfg.DB.Migrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	return backend{
		txRunner:  postgres.NewTxRunner(pool),
		products:  postgres.NewProductRepository(pool),
		customers: postgres.NewCustomerRepository(pool),
		bills:     postgres.NewBillRepository(pool),
		users:     postgres.NewUserRepository(pool),
		settings:  postgres.NewSettingsRepository(pool),
		analytics: postgres.NewAnalyticsRepository(pool),
		close:     pool.Close,
	}
}

// openIdempotencyStore usa Redis si REDIS_ADDR está definido; si no, un store en proceso.
func openIdempotencyStore(ctx context.Context, cfg *config.Config, log *logger.Logger) billing.IdempotencyStore {
	if cfg.Redis.Addr == "" {
		return memory.NewIdempotencyStore()
	}
	client, err := infraredis.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	return infraredis.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
}
