package inbound

import (
	"context"

	"github.com/authly/authly/domain/valueobject"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type AuthUseCase interface {
	Register(ctx context.Context, req RegisterRequest) error
	Login(ctx context.Context, req LoginRequest) (*valueobject.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*valueobject.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}
