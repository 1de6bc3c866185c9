package memory

import (
	"context"
	"sync"
	"time"

	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/domain/entity"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]*entity.User)}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, outbound.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			copied := *user
			return &copied, nil
		}
	}
	return nil, outbound.ErrUserNotFound
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username {
			return outbound.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return outbound.ErrEmailAlreadyUsed
		}
	}

	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hashedPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return outbound.ErrUserNotFound
	}
	user.Password = hashedPassword
	user.PasswordVersion++
	user.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return outbound.ErrUserNotFound
	}
	for _, existing := range r.users {
		if existing.ID != id && existing.Email == email {
			return outbound.ErrEmailAlreadyUsed
		}
	}
	user.Email = email
	user.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) UpdateUsername(ctx context.Context, id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return outbound.ErrUserNotFound
	}
	for _, existing := range r.users {
		if existing.ID != id && existing.Username == username {
			return outbound.ErrUsernameTaken
		}
	}
	user.Username = username
	user.UpdatedAt = time.Now()
	return nil
}
