package inbound

import (
	"context"
	"time"
)

// RateLimitService guards the login endpoint against brute force. A nil or
// noop implementation disables limiting.
type RateLimitService interface {
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Increment(ctx context.Context, key string, window time.Duration) error
	Block(ctx context.Context, key string, duration time.Duration, reason string) error
	IsBlocked(ctx context.Context, key string) (bool, error)
}
