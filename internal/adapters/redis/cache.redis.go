package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mmodel"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/openledgerhq/transfer-engine/pkg/mredis"
)

const balanceKeyPrefix = "balance:"

// CacheRepository provides an interface for the balance read projection kept in Redis.
// A missing entry is not an error: Get returns (nil, nil).
//
//go:generate mockgen --destination=cache.mock.go --package=redis . CacheRepository
type CacheRepository interface {
	Get(ctx context.Context, userID string) (*mmodel.CachedBalance, error)
	Set(ctx context.Context, cached *mmodel.CachedBalance, ttl time.Duration) error
	Del(ctx context.Context, userID string) error
}

// BalanceCacheRedisRepository is a Redis implementation of the CacheRepository.
type BalanceCacheRedisRepository struct {
	conn *mredis.RedisConnection
}

// NewBalanceCacheRedisRepository returns a new instance of BalanceCacheRedisRepository using the given Redis connection.
func NewBalanceCacheRedisRepository(rc *mredis.RedisConnection) *BalanceCacheRedisRepository {
	r := &BalanceCacheRedisRepository{
		conn: rc,
	}

	if _, err := r.conn.GetClient(context.Background()); err != nil {
		panic("Failed to connect on redis")
	}

	return r
}

// Get retrieves the cached balance projection for the given user.
func (rr *BalanceCacheRedisRepository) Get(ctx context.Context, userID string) (*mmodel.CachedBalance, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.get_balance")
	defer span.End()

	rds, err := rr.conn.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis", err)

		return nil, err
	}

	payload, err := rds.Get(ctx, balanceKeyPrefix+userID).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}

		mopentelemetry.HandleSpanError(&span, "Failed to get on redis", err)

		return nil, err
	}

	var cached mmodel.CachedBalance

	if err := msgpack.Unmarshal(payload, &cached); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to decode cached balance", err)

		return nil, err
	}

	return &cached, nil
}

// Set stores the balance projection with the given expiry.
func (rr *BalanceCacheRedisRepository) Set(ctx context.Context, cached *mmodel.CachedBalance, ttl time.Duration) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.set_balance")
	defer span.End()

	rds, err := rr.conn.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis", err)

		return err
	}

	if ttl <= 0 {
		ttl = mredis.RedisTTL
	}

	payload, err := msgpack.Marshal(cached)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to encode cached balance", err)

		return err
	}

	statusCMD := rds.Set(ctx, balanceKeyPrefix+cached.UserID, payload, ttl)
	if statusCMD.Err() != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to set on redis", statusCMD.Err())

		return statusCMD.Err()
	}

	return nil
}

// Del invalidates the cached balance projection for the given user. Invalidation is
// idempotent: deleting a missing key succeeds.
func (rr *BalanceCacheRedisRepository) Del(ctx context.Context, userID string) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.del_balance")
	defer span.End()

	rds, err := rr.conn.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis", err)

		return err
	}

	if err := rds.Del(ctx, balanceKeyPrefix+userID).Err(); err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to del on redis", err)

		return err
	}

	return nil
}
