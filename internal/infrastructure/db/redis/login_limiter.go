package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gocommerce/marketplace-api/internal/core/domain"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = 15 * time.Minute
)

// LoginLimiter throttles login attempts with a fixed window per kind+email.
// Key format: login_attempts:<kind>:<email>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive maxAttempts or window fall back to defaults.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// Allow counts this attempt and reports whether it is within the window
// budget. The window starts at the first attempt and is not extended by
// later ones.
func (l *LoginLimiter) Allow(ctx context.Context, kind domain.Kind, email string) (bool, error) {
	key := l.key(kind, email)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("login limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("login limiter expire: %w", err)
		}
	}
	return n <= int64(l.maxAttempts), nil
}

// Reset clears the attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, kind domain.Kind, email string) error {
	return l.client.Del(ctx, l.key(kind, email)).Err()
}

func (l *LoginLimiter) key(kind domain.Kind, email string) string {
	return fmt.Sprintf("login_attempts:%s:%s", kind, email)
}
