// Package sweeplock provides a Redis lease so that only one replica runs the
// expiry sweeper at a time.
package sweeplock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const DefaultKey = "booking:sweeper:lock"

var releaseScript = redis.NewScript(`
    -- KEYS[1] = lock key
    -- ARGV[1] = owner token

    if redis.call("GET", KEYS[1]) == ARGV[1] then
        return redis.call("DEL", KEYS[1])
    end

    return 0
`)

type Lock struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// New returns a lock on key that expires after ttl unless released. The ttl
// should exceed the time one sweep takes.
func New(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{
		client: client,
		key:    key,
		token:  uuid.NewString(),
		ttl:    ttl,
	}
}

func (l *Lock) TryLock(ctx context.Context) (bool, error) {
	acquired, err := l.client.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return false, err
	}

	return acquired, nil
}

// Unlock deletes the key only while it still holds this lock's token.
func (l *Lock) Unlock(ctx context.Context) error {
	err := releaseScript.Run(ctx, l.client, []string{l.key}, l.token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	return nil
}
