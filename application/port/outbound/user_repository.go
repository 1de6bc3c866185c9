package outbound

import (
	"context"
	"errors"

	"github.com/authly/authly/domain/entity"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already taken")
	ErrEmailAlreadyUsed = errors.New("email already used")
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
	// FindByIdentifier resolves a login identifier that may be either a
	// username or an email address.
	FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	// UpdatePassword replaces the stored hash and bumps PasswordVersion.
	UpdatePassword(ctx context.Context, id, hashedPassword string) error
	UpdateEmail(ctx context.Context, id, email string) error
	UpdateUsername(ctx context.Context, id, username string) error
}
