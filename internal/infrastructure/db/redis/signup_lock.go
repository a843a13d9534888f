package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const signupLockTTL = 30 * time.Second

// SignupLock holds a short-lived per-email lock while a signup runs so two
// concurrent requests for the same address cannot both pass the existence
// check. Key format: signup:<email>, compared exactly as the unique email
// index compares it.
type SignupLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSignupLock creates a SignupLock wrapping the given Redis client.
func NewSignupLock(client *redis.Client) *SignupLock {
	return &SignupLock{client: client, ttl: signupLockTTL}
}

// Acquire reports whether the lock was taken. false means another signup
// for the same email is in flight.
func (l *SignupLock) Acquire(ctx context.Context, email string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(email), "1", l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("signup lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock. The TTL cleans up after crashed holders.
func (l *SignupLock) Release(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *SignupLock) key(email string) string {
	return "signup:" + email
}
