package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Billing-api/internal/application/billing"
	"github.com/jhoicas/Billing-api/pkg/config"
	"github.com/jhoicas/Billing-api/pkg/logger"
)

const (
	keyPrefix     = "idem:bill:"
	pendingMarker = "-"
	defaultTTL    = 24 * time.Hour
)

var _ billing.IdempotencyStore = (*IdempotencyStore)(nil)

// NewClient abre la conexión a Redis y verifica con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logger.OrNop(log).Info().Str("addr", cfg.Addr).Int("db", cfg.DB).Msg("Redis listo")
	return client, nil
}

// IdempotencyStore claves Idempotency-Key en Redis. La reserva es un SET NX con TTL,
// así dos réplicas de la API no pueden procesar la misma clave a la vez.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewIdempotencyStore crea el store. ttl <= 0 usa 24h.
func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve marca la clave como en curso. Si ya existía devuelve el ID de la factura
// asociada, o "" si la petición original no ha terminado.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	k := keyPrefix + key
	ok, err := s.client.SetNX(ctx, k, pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, k).Result()
	if errors.Is(err, goredis.Nil) {
		// expiró o se liberó entre SETNX y GET: se reintenta una vez
		ok, err = s.client.SetNX(ctx, k, pendingMarker, s.ttl).Result()
		if err != nil {
			return "", false, fmt.Errorf("redis setnx: %w", err)
		}
		return "", ok, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	if val == pendingMarker {
		return "", false, nil
	}
	return val, false, nil
}

// Complete asocia la clave a la factura creada conservando el TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key, billID string) error {
	if err := s.client.Set(ctx, keyPrefix+key, billID, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Release borra la clave para permitir reintentos con la misma clave.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
