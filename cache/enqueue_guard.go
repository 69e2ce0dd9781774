package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	enqueueGuardPrefix = "pricewatch:enqueue:"
	enqueueGuardTTL    = 10 * time.Minute
)

// EnqueueGuard suppresses repeated crawl requests for the same
// (fingerprint, requester) pair for a short window. Without Redis every
// request passes and the store's unique constraint is the only guard.
type EnqueueGuard struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.SugaredLogger
}

type NewEnqueueGuardParams struct {
	fx.In

	Client *redis.Client `optional:"true"`
	Logger *zap.SugaredLogger
}

func NewEnqueueGuard(p NewEnqueueGuardParams) *EnqueueGuard {
	return &EnqueueGuard{client: p.Client, ttl: enqueueGuardTTL, logger: p.Logger}
}

// Acquire returns false when the pair was seen within the TTL. Redis errors
// fail open.
func (g *EnqueueGuard) Acquire(ctx context.Context, fingerprint, requestedBy string) bool {
	if g == nil || g.client == nil {
		return true
	}

	ok, err := g.client.SetNX(ctx, guardKey(fingerprint, requestedBy), 1, g.ttl).Result()
	if err != nil {
		g.logger.Warnw("enqueue_guard_setnx_failed", "fingerprint", fingerprint, "err", err)
		return true
	}
	return ok
}

// Release drops the pair so a failed enqueue can be retried immediately.
func (g *EnqueueGuard) Release(ctx context.Context, fingerprint, requestedBy string) {
	if g == nil || g.client == nil {
		return
	}
	if err := g.client.Del(ctx, guardKey(fingerprint, requestedBy)).Err(); err != nil {
		g.logger.Warnw("enqueue_guard_release_failed", "fingerprint", fingerprint, "err", err)
	}
}

func guardKey(fingerprint, requestedBy string) string {
	return fmt.Sprintf("%s%s:%s", enqueueGuardPrefix, fingerprint, requestedBy)
}
