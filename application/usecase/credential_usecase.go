package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/authly/authly/application/port/inbound"
	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/infrastructure/service/logger"
)

// ErrWrongOldPassword is returned when a password change presents a current
// password that does not match; nothing is mutated in that case.
var ErrWrongOldPassword = errors.New("old password is incorrect")

type credentialUseCase struct {
	users                  outbound.UserRepository
	passwords              outbound.PasswordService
	tokens                 *TokenService
	revokeOnPasswordChange bool
	logger                 logger.Logger
}

func NewCredentialUseCase(
	users outbound.UserRepository,
	passwords outbound.PasswordService,
	tokens *TokenService,
	revokeOnPasswordChange bool,
	log logger.Logger,
) inbound.CredentialChangeUseCase {
	return &credentialUseCase{
		users:                  users,
		passwords:              passwords,
		tokens:                 tokens,
		revokeOnPasswordChange: revokeOnPasswordChange,
		logger:                 log,
	}
}

func (uc *credentialUseCase) ChangePassword(ctx context.Context, userID string, req inbound.ChangePasswordRequest) error {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	match, err := uc.passwords.VerifyPassword(req.OldPassword, user.Password)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !match {
		logger.LogAuthEvent(ctx, uc.logger, "change_password", userID, false, nil)
		return ErrWrongOldPassword
	}

	hash, err := uc.passwords.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := uc.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	logger.LogAuthEvent(ctx, uc.logger, "change_password", userID, true, nil)

	// Existing access tokens stay valid until expiry either way; the policy
	// only decides whether refresh sessions survive the change.
	if uc.revokeOnPasswordChange {
		count, err := uc.tokens.RevokeAllForUser(ctx, userID)
		if err != nil {
			uc.logger.Error(ctx, "failed to revoke sessions after password change", err, map[string]interface{}{
				"user_id": userID,
			})
			return nil
		}
		uc.logger.Info(ctx, "revoked sessions after password change", map[string]interface{}{
			"user_id":          userID,
			"revoked_sessions": count,
		})
	}
	return nil
}

func (uc *credentialUseCase) ChangeEmail(ctx context.Context, userID string, req inbound.ChangeEmailRequest) error {
	if err := uc.users.UpdateEmail(ctx, userID, req.Email); err != nil {
		return err
	}
	logger.LogAuthEvent(ctx, uc.logger, "change_email", userID, true, nil)
	return nil
}

func (uc *credentialUseCase) ChangeUsername(ctx context.Context, userID string, req inbound.ChangeUsernameRequest) error {
	if err := uc.users.UpdateUsername(ctx, userID, req.Username); err != nil {
		return err
	}
	logger.LogAuthEvent(ctx, uc.logger, "change_username", userID, true, nil)
	return nil
}
