package app

import (
	"context"
	"fmt"

	"github.com/talentsift/resume-parser/internal/adapter/cache/redis"
)

// Pinger is the minimal interface for a dependency capable of Ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildReadinessChecks returns the db, redis and kafka probes for
// /readyz. A nil cache yields a nil redis check; the handler skips nil
// checks so an undeployed Redis does not fail readiness.
func BuildReadinessChecks(pool Pinger, cache *redis.ResultCache, queue Pinger) (
	func(ctx context.Context) error,
	func(ctx context.Context) error,
	func(ctx context.Context) error,
) {
	dbCheck := func(ctx context.Context) error {
		if pool == nil {
			return fmt.Errorf("db not configured")
		}
		return pool.Ping(ctx)
	}
	var redisCheck func(ctx context.Context) error
	if cache != nil {
		redisCheck = cache.Ping
	}
	kafkaCheck := func(ctx context.Context) error {
		if queue == nil {
			return fmt.Errorf("queue not configured")
		}
		return queue.Ping(ctx)
	}
	return dbCheck, redisCheck, kafkaCheck
}
