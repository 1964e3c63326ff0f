package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// UserLocker serializes gamification updates per user across instances
// with a SET NX lease. The TTL bounds how long a crashed holder can block
// others; unlock only deletes the key when it still holds its own token.
type UserLocker struct {
	client *redis.Client
	ttl    time.Duration
	retry  time.Duration
}

func NewUserLocker(client *redis.Client, ttl time.Duration) *UserLocker {
	return &UserLocker{
		client: client,
		ttl:    ttl,
		retry:  25 * time.Millisecond,
	}
}

var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Lock blocks until the user's lease is acquired or ctx is done.
func (l *UserLocker) Lock(ctx context.Context, userID string) (func(), error) {
	key := l.key(userID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	unlock := func() {
		_, _ = unlockScript.Run(context.Background(), l.client, []string{key}, token).Result()
	}
	return unlock, nil
}

func (l *UserLocker) key(userID string) string {
	return "lock:user:" + userID
}
