package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrCheckoutLocked = errors.New("checkout already in progress for this cart")

// CheckoutLocker serializes checkouts of the same cart across processes.
type CheckoutLocker interface {
	Acquire(ctx context.Context, cartID uuid.UUID) (release func(context.Context) error, err error)
}

// compare-and-delete so an expired holder cannot release a newer lock
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCheckoutLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCheckoutLocker(client *redis.Client, ttl time.Duration) *RedisCheckoutLocker {
	return &RedisCheckoutLocker{client: client, ttl: ttl}
}

func lockKey(cartID uuid.UUID) string {
	return "checkout:lock:" + cartID.String()
}

// Acquire returns ErrCheckoutLocked when another checkout of the cart holds the lock.
func (l *RedisCheckoutLocker) Acquire(ctx context.Context, cartID uuid.UUID) (func(context.Context) error, error) {
	key := lockKey(cartID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCheckoutLocked
	}

	return func(ctx context.Context) error {
		return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}, nil
}
