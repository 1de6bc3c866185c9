package inbound

import (
	"context"
)

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type ChangeEmailRequest struct {
	Email string `json:"email"`
}

type ChangeUsernameRequest struct {
	Username string `json:"username"`
}

// CredentialChangeUseCase applies credential changes for an already
// authenticated user. Every operation verifies the change against the current
// credentials before touching any state.
type CredentialChangeUseCase interface {
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
	ChangeEmail(ctx context.Context, userID string, req ChangeEmailRequest) error
	ChangeUsername(ctx context.Context, userID string, req ChangeUsernameRequest) error
}
