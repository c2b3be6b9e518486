package usecase

import (
	"context"
	"time"

	"dorm-link/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// IdempotencyGuard remembers the natural ids of domain events that were fully
// processed, so at-least-once redelivery does not duplicate notifications.
type IdempotencyGuard interface {
	Seen(ctx context.Context, key string) bool
	Mark(ctx context.Context, key string)
}

const dedupTTL = 24 * time.Hour

type redisGuard struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRedisGuard(client *redis.Client, log *logger.Logger) IdempotencyGuard {
	return &redisGuard{client: client, logger: log}
}

// Seen fails open: if Redis is unreachable the event is processed anyway.
// A duplicate notification is tolerable, a lost one is not.
func (g *redisGuard) Seen(ctx context.Context, key string) bool {
	exists, err := g.client.Exists(ctx, "dedup:"+key).Result()
	if err != nil {
		g.logger.Warn("[DEDUP] Failed to check key %s: %v (processing anyway)", key, err)
		return false
	}
	return exists > 0
}

func (g *redisGuard) Mark(ctx context.Context, key string) {
	if err := g.client.Set(ctx, "dedup:"+key, "1", dedupTTL).Err(); err != nil {
		g.logger.Warn("[DEDUP] Failed to mark key %s: %v", key, err)
	}
}
