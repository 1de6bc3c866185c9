package outbound

import (
	"context"
	"errors"

	"github.com/authly/authly/domain/entity"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionRotated  = errors.New("session already rotated")
	ErrSessionRevoked  = errors.New("session revoked")
	ErrSessionExpired  = errors.New("session expired")
)

// SessionStore is the authoritative record of which refresh-token session ids
// are currently redeemable. The TokenService is its only writer.
type SessionStore interface {
	Create(ctx context.Context, userID string) (*entity.Session, error)
	// Rotate atomically transitions the session to Rotated and creates a new
	// Active session in the same family. Under concurrent callers presenting
	// the same session id exactly one caller wins; the rest observe
	// ErrSessionRotated (or ErrSessionRevoked if the session was logged out).
	Rotate(ctx context.Context, sessionID string) (*entity.Session, error)
	// Revoke transitions an Active session to Revoked. Revoking a session that
	// is already rotated or revoked is reported as an error, not swallowed, so
	// callers can tell a double logout from a fresh one.
	Revoke(ctx context.Context, sessionID string) error
	Status(ctx context.Context, sessionID string) (entity.SessionStatus, error)
	RevokeAllByUser(ctx context.Context, userID string) (int, error)
	// RevokeFamily force-revokes every active session in the rotation lineage
	// containing sessionID; used by the opt-in reuse hardening policy.
	RevokeFamily(ctx context.Context, sessionID string) (int, error)
}
