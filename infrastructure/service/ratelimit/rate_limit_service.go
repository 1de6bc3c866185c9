package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/authly/authly/application/port/inbound"
)

// rateLimitService implements inbound.RateLimitService with Redis
type rateLimitService struct {
	redisClient *redis.Client
	logger      *logrus.Logger
}

// RateLimitConfig configuration for rate limiting
type RateLimitConfig struct {
	Enabled       bool
	RedisURL      string
	IPAttempts    int
	IPWindow      time.Duration
	BlockDuration time.Duration
}

// NewRateLimitService creates a Redis-backed limiter, or a noop one when
// limiting is disabled.
func NewRateLimitService(config RateLimitConfig, logger *logrus.Logger) (inbound.RateLimitService, error) {
	if !config.Enabled {
		logger.Info("Rate limiting disabled")
		return &noopRateLimitService{}, nil
	}

	opt, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisClient := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"ip_attempts":    config.IPAttempts,
		"ip_window":      config.IPWindow,
		"block_duration": config.BlockDuration,
	}).Info("Rate limiting service initialized")

	return &rateLimitService{
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// CheckLimit reports whether the key is still under the attempt limit
func (s *rateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	count, err := s.redisClient.Get(ctx, key).Int()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		return false, fmt.Errorf("failed to get attempts: %w", err)
	}
	return count < limit, nil
}

// Increment bumps the attempt counter for the key
func (s *rateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	pipeline := s.redisClient.Pipeline()
	incrCmd := pipeline.Incr(ctx, key)
	pipeline.Expire(ctx, key, window)

	if _, err := pipeline.Exec(ctx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to increment rate limit counter")
		return fmt.Errorf("failed to increment rate limit: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":    key,
		"count":  incrCmd.Val(),
		"window": window,
	}).Debug("Rate limit incremented")

	return nil
}

// Block blocks the key for the given duration
func (s *rateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	blockKey := fmt.Sprintf("blocked:%s", key)

	blockData := map[string]interface{}{
		"reason":     reason,
		"blocked_at": time.Now().Unix(),
		"duration":   duration.Seconds(),
	}

	pipeline := s.redisClient.Pipeline()
	pipeline.HSet(ctx, blockKey, blockData)
	pipeline.Expire(ctx, blockKey, duration)

	if _, err := pipeline.Exec(ctx); err != nil {
		s.logger.WithContext(ctx).WithError(err).Error("Failed to block key")
		return fmt.Errorf("failed to block key: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(logrus.Fields{
		"key":      key,
		"duration": duration,
		"reason":   reason,
	}).Warn("Key blocked due to rate limit exceeded")

	return nil
}

// IsBlocked reports whether the key is currently blocked
func (s *rateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	blockKey := fmt.Sprintf("blocked:%s", key)

	exists, err := s.redisClient.Exists(ctx, blockKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check block status: %w", err)
	}

	return exists > 0, nil
}

// noopRateLimitService is used when rate limiting is disabled
type noopRateLimitService struct{}

func (n *noopRateLimitService) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

func (n *noopRateLimitService) Increment(ctx context.Context, key string, window time.Duration) error {
	return nil
}

func (n *noopRateLimitService) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	return nil
}

func (n *noopRateLimitService) IsBlocked(ctx context.Context, key string) (bool, error) {
	return false, nil
}
