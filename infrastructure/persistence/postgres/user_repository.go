package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/domain/entity"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) outbound.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT id, username, email, password, password_version, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByIdentifier resolves a login identifier, which may be either the
// username or the email address.
func (r *userRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	query := `
		SELECT id, username, email, password, password_version, created_at, updated_at
		FROM users
		WHERE username = $1 OR email = $1
	`
	return r.scanUser(r.db.QueryRowContext(ctx, query, identifier))
}

func (r *userRepository) scanUser(row *sql.Row) (*entity.User, error) {
	user := &entity.User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.PasswordVersion,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, outbound.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, password, password_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.PasswordVersion,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	query := `
		UPDATE users
		SET password = $1, password_version = password_version + 1, updated_at = $2
		WHERE id = $3
	`
	return r.update(ctx, query, hashedPassword, time.Now(), id)
}

func (r *userRepository) UpdateEmail(ctx context.Context, id, email string) error {
	query := `
		UPDATE users
		SET email = $1, updated_at = $2
		WHERE id = $3
	`
	return r.update(ctx, query, email, time.Now(), id)
}

func (r *userRepository) UpdateUsername(ctx context.Context, id, username string) error {
	query := `
		UPDATE users
		SET username = $1, updated_at = $2
		WHERE id = $3
	`
	return r.update(ctx, query, username, time.Now(), id)
}

func (r *userRepository) update(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if conflict := translateUniqueViolation(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return outbound.ErrUserNotFound
	}
	return nil
}

// translateUniqueViolation maps postgres unique-constraint errors onto the
// repository's conflict sentinels, keyed by constraint name.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		return nil
	}
	switch pqErr.Constraint {
	case "users_username_key":
		return outbound.ErrUsernameTaken
	case "users_email_key":
		return outbound.ErrEmailAlreadyUsed
	}
	return fmt.Errorf("unique constraint violated: %s", pqErr.Constraint)
}
