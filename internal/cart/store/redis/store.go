// Package redis persists cart snapshots as JSON values in Redis.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Viniciusdacostasilva/Loja-de-roupas/internal/domain"
	"github.com/Viniciusdacostasilva/Loja-de-roupas/pkg/database"
)

const keyPrefix = "cart:"

// Store keeps one JSON snapshot per scope under "cart:<scopeKey>". Snapshots
// expire after the configured TTL so abandoned anonymous carts age out.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewStore(client *redis.Client, ttl time.Duration, logger *slog.Logger) *Store {
	return &Store{client: client, ttl: ttl, logger: logger}
}

// Load fetches the snapshot for a scope. A missing key reports ok=false with
// no error. A snapshot that fails to decode is treated as missing, so a
// corrupt value never blocks a shopper.
func (s *Store) Load(ctx context.Context, scopeKey string) (domain.Cart, bool, error) {
	key := keyPrefix + scopeKey
	ctx, end := database.TraceOp(ctx, "redis", "LoadCart", key)

	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		end(nil)
		return domain.Cart{}, false, nil
	}
	if err != nil {
		end(err)
		return domain.Cart{}, false, fmt.Errorf("get cart %s: %w", key, err)
	}

	var c domain.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		end(nil)
		s.logger.WarnContext(ctx, "discarding undecodable cart snapshot", "key", key, "error", err)
		return domain.Cart{}, false, nil
	}
	end(nil)
	return c, true, nil
}

// Save writes the snapshot for a scope, refreshing its TTL.
func (s *Store) Save(ctx context.Context, scopeKey string, c domain.Cart) error {
	key := keyPrefix + scopeKey
	ctx, end := database.TraceOp(ctx, "redis", "SaveCart", key)

	data, err := json.Marshal(c)
	if err != nil {
		end(err)
		return fmt.Errorf("marshal cart %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		end(err)
		return fmt.Errorf("set cart %s: %w", key, err)
	}
	end(nil)
	return nil
}

// Delete removes the snapshot for a scope. Deleting an absent key is not an
// error.
func (s *Store) Delete(ctx context.Context, scopeKey string) error {
	key := keyPrefix + scopeKey
	ctx, end := database.TraceOp(ctx, "redis", "DeleteCart", key)

	if err := s.client.Del(ctx, key).Err(); err != nil {
		end(err)
		return fmt.Errorf("del cart %s: %w", key, err)
	}
	end(nil)
	return nil
}

// Ping verifies the Redis connection, used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
