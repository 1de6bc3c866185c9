package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/authly/authly/application/port/inbound"
	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/domain/entity"
	"github.com/authly/authly/domain/valueobject"
	"github.com/authly/authly/infrastructure/service/logger"
)

// ErrInvalidCredentials deliberately does not distinguish an unknown
// identifier from a wrong password.
var ErrInvalidCredentials = errors.New("incorrect identifier or password")

// ErrTooManyAttempts is returned when the login rate limit trips.
var ErrTooManyAttempts = errors.New("too many login attempts")

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 15 * time.Minute
	loginBlockDuration = time.Hour
)

type authUseCase struct {
	users       outbound.UserRepository
	passwords   outbound.PasswordService
	tokens      *TokenService
	rateLimiter inbound.RateLimitService
	logger      logger.Logger
}

func NewAuthUseCase(
	users outbound.UserRepository,
	passwords outbound.PasswordService,
	tokens *TokenService,
	rateLimiter inbound.RateLimitService,
	log logger.Logger,
) inbound.AuthUseCase {
	return &authUseCase{
		users:       users,
		passwords:   passwords,
		tokens:      tokens,
		rateLimiter: rateLimiter,
		logger:      log,
	}
}

func (uc *authUseCase) Register(ctx context.Context, req inbound.RegisterRequest) error {
	hash, err := uc.passwords.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := entity.NewUser(uuid.New().String(), req.Username, req.Email, hash)
	if err := uc.users.Create(ctx, user); err != nil {
		return err
	}

	logger.LogAuthEvent(ctx, uc.logger, "register", user.ID, true, map[string]interface{}{
		"username": user.Username,
	})
	return nil
}

func (uc *authUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*valueobject.TokenPair, error) {
	limitKey := "login:" + req.Identifier

	blocked, err := uc.rateLimiter.IsBlocked(ctx, limitKey)
	if err != nil {
		uc.logger.Error(ctx, "rate limit check failed", err, nil)
	} else if blocked {
		return nil, ErrTooManyAttempts
	}

	user, err := uc.users.FindByIdentifier(ctx, req.Identifier)
	if err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			uc.recordFailedAttempt(ctx, limitKey, req.Identifier)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := uc.passwords.VerifyPassword(req.Password, user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		uc.recordFailedAttempt(ctx, limitKey, req.Identifier)
		logger.LogAuthEvent(ctx, uc.logger, "login", user.ID, false, nil)
		return nil, ErrInvalidCredentials
	}

	pair, err := uc.tokens.Issue(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	logger.LogAuthEvent(ctx, uc.logger, "login", user.ID, true, nil)
	return pair, nil
}

func (uc *authUseCase) Refresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error) {
	return uc.tokens.Refresh(ctx, refreshToken)
}

func (uc *authUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokens.Revoke(ctx, refreshToken)
}

func (uc *authUseCase) recordFailedAttempt(ctx context.Context, key, identifier string) {
	if err := uc.rateLimiter.Increment(ctx, key, loginAttemptWindow); err != nil {
		uc.logger.Error(ctx, "failed to record login attempt", err, nil)
		return
	}
	allowed, err := uc.rateLimiter.CheckLimit(ctx, key, loginAttemptLimit, loginAttemptWindow)
	if err != nil || allowed {
		return
	}
	if err := uc.rateLimiter.Block(ctx, key, loginBlockDuration, "login attempt limit exceeded"); err != nil {
		uc.logger.Error(ctx, "failed to block login key", err, nil)
		return
	}
	logger.LogSecurityEvent(ctx, uc.logger, "login_rate_limited", "MEDIUM", map[string]interface{}{
		"identifier": identifier,
	})
}
