package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authly/authly/application/port/inbound"
	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/infrastructure/persistence/memory"
	"github.com/authly/authly/infrastructure/service/password"
)

// allowAllLimiter never blocks but records how often attempts were counted.
type allowAllLimiter struct {
	increments int
}

func (l *allowAllLimiter) CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

func (l *allowAllLimiter) Increment(ctx context.Context, key string, window time.Duration) error {
	l.increments++
	return nil
}

func (l *allowAllLimiter) Block(ctx context.Context, key string, duration time.Duration, reason string) error {
	return nil
}

func (l *allowAllLimiter) IsBlocked(ctx context.Context, key string) (bool, error) {
	return false, nil
}

type authFixture struct {
	auth    inbound.AuthUseCase
	users   outbound.UserRepository
	limiter *allowAllLimiter
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := memory.NewUserRepository()
	limiter := &allowAllLimiter{}
	auth := NewAuthUseCase(
		users,
		password.NewBcryptPasswordService(4),
		newTestTokenService(t, false),
		limiter,
		nopLogger{},
	)
	return &authFixture{auth: auth, users: users, limiter: limiter}
}

func register(t *testing.T, f *authFixture) inbound.RegisterRequest {
	t.Helper()
	req := inbound.RegisterRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "s3cret-pass",
	}
	require.NoError(t, f.auth.Register(context.Background(), req))
	return req
}

func TestAuthUseCase_RegisterRejectsDuplicates(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	register(t, f)

	err := f.auth.Register(ctx, inbound.RegisterRequest{
		Username: "testuser", Email: "other@example.com", Password: "pw123456",
	})
	assert.ErrorIs(t, err, outbound.ErrUsernameTaken)

	err = f.auth.Register(ctx, inbound.RegisterRequest{
		Username: "otheruser", Email: "test@example.com", Password: "pw123456",
	})
	assert.ErrorIs(t, err, outbound.ErrEmailAlreadyUsed)
}

func TestAuthUseCase_LoginByUsernameOrEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	req := register(t, f)

	for _, identifier := range []string{req.Username, req.Email} {
		pair, err := f.auth.Login(ctx, inbound.LoginRequest{Identifier: identifier, Password: req.Password})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
		assert.NotEmpty(t, pair.UserID)
	}
}

func TestAuthUseCase_LoginFailuresAreUniform(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	req := register(t, f)

	// unknown identifier and wrong password yield the same error
	_, err := f.auth.Login(ctx, inbound.LoginRequest{Identifier: "nobody", Password: req.Password})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.auth.Login(ctx, inbound.LoginRequest{Identifier: req.Username, Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 2, f.limiter.increments)
}

func TestAuthUseCase_LoginsAreIndependentSessions(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	req := register(t, f)
	login := inbound.LoginRequest{Identifier: req.Username, Password: req.Password}

	first, err := f.auth.Login(ctx, login)
	require.NoError(t, err)
	second, err := f.auth.Login(ctx, login)
	require.NoError(t, err)

	// logging out one device leaves the other session intact
	require.NoError(t, f.auth.Logout(ctx, first.RefreshToken))
	_, err = f.auth.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
	_, err = f.auth.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenReused)
}

func TestAuthUseCase_BlockedIdentifierCannotLogin(t *testing.T) {
	users := memory.NewUserRepository()
	auth := NewAuthUseCase(
		users,
		password.NewBcryptPasswordService(4),
		newTestTokenService(t, false),
		blockedLimiter{&allowAllLimiter{}},
		nopLogger{},
	)

	_, err := auth.Login(context.Background(), inbound.LoginRequest{Identifier: "testuser", Password: "whatever"})
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

type blockedLimiter struct{ *allowAllLimiter }

func (blockedLimiter) IsBlocked(ctx context.Context, key string) (bool, error) {
	return true, nil
}
