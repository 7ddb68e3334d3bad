// seed aplica las migraciones, carga el admin y el catálogo de demostración en PostgreSQL
// e imprime un token JWT de desarrollo para el admin.
//
// Uso: go run ./cmd/seed [-email admin@example.com] [-password admin12345]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/Billing-api/internal/application/seed"
	"github.com/jhoicas/Billing-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Billing-api/pkg/config"
	"github.com/jhoicas/Billing-api/pkg/jwt"
	"github.com/jhoicas/Billing-api/pkg/logger"
)

func main() {
	email := flag.String("email", "admin@example.com", "email del admin")
	password := flag.String("password", "admin12345", "contraseña del admin")
	name := flag.String("name", "Admin", "nombre del admin")
	company := flag.String("company", "Billing Demo", "nombre de empresa del admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	res, err := seed.Run(ctx, seed.Repos{
		Users:     postgres.NewUserRepository(pool),
		Customers: postgres.NewCustomerRepository(pool),
		Products:  postgres.NewProductRepository(pool),
	}, seed.Admin{Email: *email, Password: *password, Name: *name, CompanyName: *company}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}

	token, err := jwt.Generate(cfg.JWT.Secret, res.Admin.ID, res.Admin.Role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		log.Fatal().Err(err).Msg("generar token")
	}
	fmt.Printf("admin: %s (%s)\n", res.Admin.Email, res.Admin.ID)
	fmt.Printf("Authorization: Bearer %s\n", token)
}
