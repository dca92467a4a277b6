package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/openledgerhq/transfer-engine/pkg"
	"github.com/openledgerhq/transfer-engine/pkg/mopentelemetry"
	"github.com/openledgerhq/transfer-engine/pkg/mredis"
)

const lockKeyPrefix = "lock:"

// Lease is a held distributed lock. The token fences releases so a replica can never
// drop a lease acquired by another one after its own expired.
type Lease struct {
	Name       string
	Token      string
	AcquiredAt time.Time
	AtLeastFor time.Duration
}

// LockRepository provides an interface for the named distributed lease.
//
// Acquire is non-blocking: when the lease is held elsewhere it returns (nil, nil).
// atMostFor is the hard expiry of the store-side entry; atLeastFor is the floor
// before the same name becomes acquirable again after release.
//
//go:generate mockgen --destination=lock.mock.go --package=redis . LockRepository
type LockRepository interface {
	Acquire(ctx context.Context, name string, atMostFor, atLeastFor time.Duration) (*Lease, error)
	Release(ctx context.Context, lease *Lease) error
}

// releaseScript keeps the at-least-for floor: if the holder releases before the floor
// elapses, the key's TTL is rewritten to the remainder instead of being deleted.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    local remaining = tonumber(ARGV[2])
    if remaining > 0 then
        return redis.call("PEXPIRE", KEYS[1], remaining)
    end
    return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockRedisRepository is a Redis implementation of the LockRepository.
type LockRedisRepository struct {
	conn *mredis.RedisConnection
}

// NewLockRedisRepository returns a new instance of LockRedisRepository using the given Redis connection.
func NewLockRedisRepository(rc *mredis.RedisConnection) *LockRedisRepository {
	r := &LockRedisRepository{
		conn: rc,
	}

	if _, err := r.conn.GetClient(context.Background()); err != nil {
		panic("Failed to connect on redis")
	}

	return r
}

// Acquire attempts to take the named lease with the given bounds.
func (rr *LockRedisRepository) Acquire(ctx context.Context, name string, atMostFor, atLeastFor time.Duration) (*Lease, error) {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.acquire_lock")
	defer span.End()

	rds, err := rr.conn.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis", err)

		return nil, err
	}

	token := uuid.New().String()

	ok, err := rds.SetNX(ctx, lockKeyPrefix+name, token, atMostFor).Result()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to setnx on redis", err)

		return nil, err
	}

	if !ok {
		return nil, nil
	}

	return &Lease{
		Name:       name,
		Token:      token,
		AcquiredAt: time.Now(),
		AtLeastFor: atLeastFor,
	}, nil
}

// Release gives the lease back. When the holder finishes before the at-least-for floor,
// the store-side entry is kept alive for the remainder so another replica cannot
// re-acquire the name until the floor elapses.
func (rr *LockRedisRepository) Release(ctx context.Context, lease *Lease) error {
	tracer := pkg.NewTracerFromContext(ctx)

	ctx, span := tracer.Start(ctx, "redis.release_lock")
	defer span.End()

	rds, err := rr.conn.GetClient(ctx)
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to get redis", err)

		return err
	}

	remaining := lease.AtLeastFor - time.Since(lease.AcquiredAt)

	err = releaseScript.Run(ctx, rds, []string{lockKeyPrefix + lease.Name}, lease.Token, remaining.Milliseconds()).Err()
	if err != nil {
		mopentelemetry.HandleSpanError(&span, "Failed to release lock on redis", err)

		return err
	}

	return nil
}
