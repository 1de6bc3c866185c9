package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authly/authly/application/port/inbound"
	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/application/usecase"
	"github.com/authly/authly/infrastructure/http/middleware"
	"github.com/authly/authly/infrastructure/http/response"
	"github.com/authly/authly/infrastructure/http/validator"
	"github.com/authly/authly/infrastructure/service/logger"
)

type AuthHandler struct {
	auth        inbound.AuthUseCase
	credentials inbound.CredentialChangeUseCase
	logger      logger.Logger
}

func NewAuthHandler(auth inbound.AuthUseCase, credentials inbound.CredentialChangeUseCase, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:        auth,
		credentials: credentials,
		logger:      log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req inbound.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !validator.ValidateRequired(req.Username) || !validator.ValidateRequired(req.Email) || !validator.ValidateRequired(req.Password) {
		response.BadRequest(w, "username, email and password are required")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "invalid email address")
		return
	}
	if !validator.ValidatePassword(req.Password) {
		response.BadRequest(w, "password must be at least 8 characters")
		return
	}

	if err := h.auth.Register(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, outbound.ErrUsernameTaken):
			response.BadRequest(w, "username already taken")
		case errors.Is(err, outbound.ErrEmailAlreadyUsed):
			response.BadRequest(w, "email already used")
		default:
			h.logger.Error(r.Context(), "register failed", err, nil)
			response.InternalServerError(w, "internal server error")
		}
		return
	}

	response.Message(w, http.StatusOK, "user registered")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if !validator.ValidateRequired(req.Identifier) || !validator.ValidateRequired(req.Password) {
		response.BadRequest(w, "identifier and password are required")
		return
	}

	pair, err := h.auth.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			response.BadRequest(w, "incorrect identifier or password")
		case errors.Is(err, usecase.ErrTooManyAttempts):
			response.TooManyRequests(w, "too many login attempts, please try again later")
		default:
			h.logger.Error(r.Context(), "login failed", err, nil)
			response.InternalServerError(w, "internal server error")
		}
		return
	}

	response.JSON(w, http.StatusOK, pair)
}

// Refresh redeems the refresh token presented in the Authorization header for
// a fresh pair. Every failure is 403 except a missing header.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := h.refreshTokenFromHeader(w, r)
	if !ok {
		return
	}

	pair, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		response.Forbidden(w, middleware.TokenErrorMessage(err))
		return
	}
	response.JSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := h.refreshTokenFromHeader(w, r)
	if !ok {
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		response.Forbidden(w, middleware.TokenErrorMessage(err))
		return
	}
	response.Message(w, http.StatusOK, "logged out")
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req inbound.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validator.ValidateRequired(req.OldPassword) || !validator.ValidateRequired(req.NewPassword) {
		response.BadRequest(w, "old and new passwords are required")
		return
	}
	if !validator.ValidatePassword(req.NewPassword) {
		response.BadRequest(w, "password must be at least 8 characters")
		return
	}

	if err := h.credentials.ChangePassword(r.Context(), userID, req); err != nil {
		if errors.Is(err, usecase.ErrWrongOldPassword) {
			response.BadRequest(w, "old password is incorrect")
			return
		}
		h.logger.Error(r.Context(), "password change failed", err, nil)
		response.InternalServerError(w, "internal server error")
		return
	}
	response.Message(w, http.StatusOK, "password changed")
}

func (h *AuthHandler) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req inbound.ChangeEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "invalid email address")
		return
	}

	if err := h.credentials.ChangeEmail(r.Context(), userID, req); err != nil {
		if errors.Is(err, outbound.ErrEmailAlreadyUsed) {
			response.BadRequest(w, "email already used")
			return
		}
		h.logger.Error(r.Context(), "email change failed", err, nil)
		response.InternalServerError(w, "internal server error")
		return
	}
	response.Message(w, http.StatusOK, "email changed")
}

func (h *AuthHandler) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req inbound.ChangeUsernameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !validator.ValidateRequired(req.Username) {
		response.BadRequest(w, "username is required")
		return
	}

	if err := h.credentials.ChangeUsername(r.Context(), userID, req); err != nil {
		if errors.Is(err, outbound.ErrUsernameTaken) {
			response.BadRequest(w, "username already taken")
			return
		}
		h.logger.Error(r.Context(), "username change failed", err, nil)
		response.InternalServerError(w, "internal server error")
		return
	}
	response.Message(w, http.StatusOK, "username changed")
}

// refreshTokenFromHeader applies the same header contract as the access
// guard: absent header is 401, anything unparseable is 403.
func (h *AuthHandler) refreshTokenFromHeader(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		response.Unauthorized(w, "authorization header required")
		return "", false
	}
	token, ok := middleware.ParseAuthorization(header)
	if !ok {
		response.Forbidden(w, "invalid authorization header")
		return "", false
	}
	return token, true
}
