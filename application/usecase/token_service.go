package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/domain/valueobject"
	"github.com/authly/authly/infrastructure/service/logger"
)

var (
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenKind = errors.New("wrong token kind")
	// ErrTokenReused marks a refresh token whose session already ended, by
	// rotation or revocation: either a client replay or a stolen token.
	ErrTokenReused  = errors.New("refresh token already used")
	ErrTokenRevoked = errors.New("session revoked")
)

// TokenService owns the session lifecycle behind token issuance: it is the
// only writer of the session store. Access verification stays stateless; only
// refresh and revocation consult the store.
type TokenService struct {
	signer              outbound.TokenSigner
	sessions            outbound.SessionStore
	logger              logger.Logger
	revokeFamilyOnReuse bool
}

func NewTokenService(signer outbound.TokenSigner, sessions outbound.SessionStore, log logger.Logger, revokeFamilyOnReuse bool) *TokenService {
	return &TokenService{
		signer:              signer,
		sessions:            sessions,
		logger:              log,
		revokeFamilyOnReuse: revokeFamilyOnReuse,
	}
}

// Issue creates a fresh session and signs a paired access and refresh token
// for it. Each call produces an independent session, so logins on different
// devices never interfere.
func (s *TokenService) Issue(ctx context.Context, userID string) (*valueobject.TokenPair, error) {
	session, err := s.sessions.Create(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.signer.SignAccess(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	refreshToken, err := s.signer.SignRefresh(userID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return valueobject.NewTokenPair(accessToken, refreshToken, userID), nil
}

// VerifyAccess checks an access token without touching the session store;
// access tokens stay valid until expiry regardless of later session state.
func (s *TokenService) VerifyAccess(token string) (*outbound.AccessClaims, error) {
	claims, err := s.signer.VerifyAccess(token)
	if err != nil {
		return nil, translateSignerError(err)
	}
	return claims, nil
}

// Refresh redeems a refresh token for a new pair. The token is single use:
// its session rotates to a terminal state and a successor session in the same
// family backs the new refresh token.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error) {
	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, translateSignerError(err)
	}

	successor, err := s.sessions.Rotate(ctx, claims.SessionID)
	if err != nil {
		// Rotated and revoked are both terminal: presenting the token again
		// is reuse either way.
		if errors.Is(err, outbound.ErrSessionRotated) || errors.Is(err, outbound.ErrSessionRevoked) {
			s.onReuse(ctx, claims.UserID, claims.SessionID)
			return nil, ErrTokenReused
		}
		return nil, translateStoreError(err)
	}

	accessToken, err := s.signer.SignAccess(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	newRefreshToken, err := s.signer.SignRefresh(claims.UserID, successor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return valueobject.NewTokenPair(accessToken, newRefreshToken, claims.UserID), nil
}

// Revoke invalidates the session behind a refresh token. Already rotated or
// revoked sessions are reported, not swallowed.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.signer.VerifyRefresh(refreshToken)
	if err != nil {
		return translateSignerError(err)
	}

	if err := s.sessions.Revoke(ctx, claims.SessionID); err != nil {
		if errors.Is(err, outbound.ErrSessionRotated) {
			s.onReuse(ctx, claims.UserID, claims.SessionID)
			return ErrTokenReused
		}
		return translateStoreError(err)
	}
	return nil
}

// RevokeAllForUser invalidates every active session of a user; wired to the
// credential-change policy.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID string) (int, error) {
	count, err := s.sessions.RevokeAllByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke user sessions: %w", err)
	}
	return count, nil
}

func (s *TokenService) onReuse(ctx context.Context, userID, sessionID string) {
	fields := map[string]interface{}{
		"user_id":    userID,
		"session_id": sessionID,
	}
	logger.LogSecurityEvent(ctx, s.logger, "refresh_token_reuse", "HIGH", fields)

	if !s.revokeFamilyOnReuse {
		return
	}
	count, err := s.sessions.RevokeFamily(ctx, sessionID)
	if err != nil {
		s.logger.Error(ctx, "failed to revoke session family after reuse", err, fields)
		return
	}
	fields["revoked_sessions"] = count
	s.logger.Warn(ctx, "revoked session family after refresh token reuse", fields)
}

func translateSignerError(err error) error {
	switch {
	case errors.Is(err, outbound.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, outbound.ErrWrongTokenKind):
		return ErrWrongTokenKind
	default:
		return ErrTokenInvalid
	}
}

func translateStoreError(err error) error {
	switch {
	case errors.Is(err, outbound.ErrSessionRevoked):
		return ErrTokenRevoked
	case errors.Is(err, outbound.ErrSessionExpired):
		return ErrTokenExpired
	case errors.Is(err, outbound.ErrSessionNotFound):
		return ErrTokenInvalid
	default:
		return err
	}
}
