package entity

import (
	"time"
)

// SessionStatus is the lifecycle state of a refresh-token session.
// Rotated and Revoked are terminal; there is no way back to Active.
type SessionStatus string

const (
	SessionActive  SessionStatus = "active"
	SessionRotated SessionStatus = "rotated"
	SessionRevoked SessionStatus = "revoked"
)

// Session is the server-side record backing one refresh token. FamilyID links
// a rotation lineage for audit and optional forward-invalidation; it is never
// consulted when validating a token.
type Session struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	FamilyID  string        `json:"family_id"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
	RotatedAt *time.Time    `json:"rotated_at,omitempty"`
	RevokedAt *time.Time    `json:"revoked_at,omitempty"`
}

func NewSession(id, userID, familyID string, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		UserID:    userID,
		FamilyID:  familyID,
		Status:    SessionActive,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) IsActive() bool {
	return s.Status == SessionActive && !s.IsExpired()
}
