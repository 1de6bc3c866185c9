package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/domain/entity"
)

type sessionStore struct {
	db         *sql.DB
	refreshTTL time.Duration
}

func NewSessionStore(db *sql.DB, refreshTTL time.Duration) outbound.SessionStore {
	return &sessionStore{db: db, refreshTTL: refreshTTL}
}

func (s *sessionStore) Create(ctx context.Context, userID string) (*entity.Session, error) {
	id := uuid.New().String()
	session := entity.NewSession(id, userID, id, time.Now().Add(s.refreshTTL))

	query := `
		INSERT INTO sessions (id, user_id, family_id, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		session.FamilyID,
		session.Status,
		session.CreatedAt,
		session.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Rotate relies on a conditional UPDATE as the compare-and-swap: only the one
// transaction that flips status from active wins; everyone else gets
// classified against the row they lost to.
func (s *sessionStore) Rotate(ctx context.Context, sessionID string) (*entity.Session, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rotate transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	var userID, familyID string
	query := `
		UPDATE sessions
		SET status = $1, rotated_at = $2
		WHERE id = $3 AND status = $4 AND expires_at > $2
		RETURNING user_id, family_id
	`
	err = tx.QueryRowContext(ctx, query,
		entity.SessionRotated, now, sessionID, entity.SessionActive,
	).Scan(&userID, &familyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classify(ctx, sessionID, now)
		}
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	successor := entity.NewSession(uuid.New().String(), userID, familyID, now.Add(s.refreshTTL))
	insert := `
		INSERT INTO sessions (id, user_id, family_id, status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, insert,
		successor.ID, successor.UserID, successor.FamilyID,
		successor.Status, successor.CreatedAt, successor.ExpiresAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create successor session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rotate transaction: %w", err)
	}
	return successor, nil
}

func (s *sessionStore) Revoke(ctx context.Context, sessionID string) error {
	now := time.Now()

	query := `
		UPDATE sessions
		SET status = $1, revoked_at = $2
		WHERE id = $3 AND status = $4 AND expires_at > $2
	`
	result, err := s.db.ExecContext(ctx, query,
		entity.SessionRevoked, now, sessionID, entity.SessionActive,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return s.classify(ctx, sessionID, now)
	}
	return nil
}

// classify explains why a conditional transition matched nothing.
func (s *sessionStore) classify(ctx context.Context, sessionID string, now time.Time) error {
	var status entity.SessionStatus
	var expiresAt time.Time

	query := `SELECT status, expires_at FROM sessions WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&status, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return outbound.ErrSessionNotFound
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	switch status {
	case entity.SessionRotated:
		return outbound.ErrSessionRotated
	case entity.SessionRevoked:
		return outbound.ErrSessionRevoked
	}
	if now.After(expiresAt) {
		// expired rows carry no further information; reap opportunistically
		_, _ = s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1 AND expires_at <= $2`, sessionID, now)
		return outbound.ErrSessionExpired
	}
	return outbound.ErrSessionNotFound
}

func (s *sessionStore) Status(ctx context.Context, sessionID string) (entity.SessionStatus, error) {
	var status entity.SessionStatus

	query := `SELECT status FROM sessions WHERE id = $1`
	err := s.db.QueryRowContext(ctx, query, sessionID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", outbound.ErrSessionNotFound
		}
		return "", fmt.Errorf("failed to load session status: %w", err)
	}
	return status, nil
}

func (s *sessionStore) RevokeAllByUser(ctx context.Context, userID string) (int, error) {
	query := `
		UPDATE sessions
		SET status = $1, revoked_at = $2
		WHERE user_id = $3 AND status = $4
	`
	result, err := s.db.ExecContext(ctx, query,
		entity.SessionRevoked, time.Now(), userID, entity.SessionActive,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke sessions by user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

func (s *sessionStore) RevokeFamily(ctx context.Context, sessionID string) (int, error) {
	query := `
		UPDATE sessions
		SET status = $1, revoked_at = $2
		WHERE family_id = (SELECT family_id FROM sessions WHERE id = $3)
		  AND status = $4
	`
	result, err := s.db.ExecContext(ctx, query,
		entity.SessionRevoked, time.Now(), sessionID, entity.SessionActive,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke session family: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}
