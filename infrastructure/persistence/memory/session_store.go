package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/domain/entity"
)

// SessionStore keeps session state in process memory. All transitions run
// under one mutex, so the Active -> Rotated compare-and-swap is atomic and
// exactly one of N concurrent rotations of the same id can win.
type SessionStore struct {
	mu         sync.Mutex
	sessions   map[string]*entity.Session
	refreshTTL time.Duration
}

func NewSessionStore(refreshTTL time.Duration) *SessionStore {
	return &SessionStore{
		sessions:   make(map[string]*entity.Session),
		refreshTTL: refreshTTL,
	}
}

func (s *SessionStore) Create(ctx context.Context, userID string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	// the first session of a lineage is its own family root
	session := entity.NewSession(id, userID, id, time.Now().Add(s.refreshTTL))
	s.sessions[id] = session

	copied := *session
	return &copied, nil
}

func (s *SessionStore) Rotate(ctx context.Context, sessionID string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, outbound.ErrSessionNotFound
	}
	switch session.Status {
	case entity.SessionRotated:
		return nil, outbound.ErrSessionRotated
	case entity.SessionRevoked:
		return nil, outbound.ErrSessionRevoked
	}
	if session.IsExpired() {
		// expired rows carry no further information; reap lazily
		delete(s.sessions, sessionID)
		return nil, outbound.ErrSessionExpired
	}

	now := time.Now()
	session.Status = entity.SessionRotated
	session.RotatedAt = &now

	successor := entity.NewSession(uuid.New().String(), session.UserID, session.FamilyID, now.Add(s.refreshTTL))
	s.sessions[successor.ID] = successor

	copied := *successor
	return &copied, nil
}

func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return outbound.ErrSessionNotFound
	}
	switch session.Status {
	case entity.SessionRotated:
		return outbound.ErrSessionRotated
	case entity.SessionRevoked:
		return outbound.ErrSessionRevoked
	}
	if session.IsExpired() {
		delete(s.sessions, sessionID)
		return outbound.ErrSessionExpired
	}

	now := time.Now()
	session.Status = entity.SessionRevoked
	session.RevokedAt = &now
	return nil
}

func (s *SessionStore) Status(ctx context.Context, sessionID string) (entity.SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return "", outbound.ErrSessionNotFound
	}
	return session.Status, nil
}

func (s *SessionStore) RevokeAllByUser(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	count := 0
	for _, session := range s.sessions {
		if session.UserID == userID && session.Status == entity.SessionActive {
			session.Status = entity.SessionRevoked
			session.RevokedAt = &now
			count++
		}
	}
	return count, nil
}

func (s *SessionStore) RevokeFamily(ctx context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// rotated and revoked rows keep their family, so the lineage stays
	// resolvable from any member
	member, ok := s.sessions[sessionID]
	if !ok {
		return 0, outbound.ErrSessionNotFound
	}

	now := time.Now()
	count := 0
	for _, session := range s.sessions {
		if session.FamilyID == member.FamilyID && session.Status == entity.SessionActive {
			session.Status = entity.SessionRevoked
			session.RevokedAt = &now
			count++
		}
	}
	return count, nil
}
