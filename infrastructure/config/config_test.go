package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SESSION_STORE", "memory")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "")
	t.Setenv("JWT_REFRESH_TOKEN_TTL", "")
	t.Setenv("SESSION_REVOKE_FAMILY_ON_REUSE", "")
	t.Setenv("REVOKE_SESSIONS_ON_PASSWORD_CHANGE", "")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "memory", cfg.SessionStoreBackend)
	assert.False(t, cfg.RevokeFamilyOnReuse)
	assert.False(t, cfg.RevokeSessionsOnPasswordChange)
}

func TestLoad_RequiresSecret(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoad_RefreshTTLMustExceedAccessTTL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "900")
	t.Setenv("JWT_REFRESH_TOKEN_TTL", "900")

	_, err := Load()
	assert.ErrorIs(t, err, ErrRefreshTTLTooShort)
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_STORE", "postgres")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)

	t.Setenv("DATABASE_URL", "postgres://localhost/authly")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.SessionStoreBackend)
}

func TestLoad_RejectsUnknownStoreKind(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_STORE", "cassandra")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidStoreKind)
}

func TestLoad_RejectsMalformedPolicyFlag(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_REVOKE_FAMILY_ON_REUSE", "ture")

	_, err := Load()
	assert.ErrorIs(t, err, ErrInvalidConfigValue)
}

func TestLoad_PolicyFlags(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SESSION_REVOKE_FAMILY_ON_REUSE", "true")
	t.Setenv("REVOKE_SESSIONS_ON_PASSWORD_CHANGE", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.RevokeFamilyOnReuse)
	assert.True(t, cfg.RevokeSessionsOnPasswordChange)
}
