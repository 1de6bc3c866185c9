package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/authly/authly/application/port/outbound"
	"github.com/authly/authly/application/usecase"
	"github.com/authly/authly/infrastructure/http/response"
)

type userIDKey struct{}

// AccessVerifier checks an access token and yields its claims.
type AccessVerifier interface {
	VerifyAccess(token string) (*outbound.AccessClaims, error)
}

type AuthGuard struct {
	verifier AccessVerifier
}

func NewAuthGuard(verifier AccessVerifier) *AuthGuard {
	return &AuthGuard{verifier: verifier}
}

// ParseAuthorization extracts the token from a "jwt <token>" Authorization
// header. The scheme is matched case-sensitively with exactly one space.
func ParseAuthorization(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "jwt" {
		return "", false
	}
	token := parts[1]
	if token == "" || strings.Contains(token, " ") {
		return "", false
	}
	return token, true
}

// RequireAuth admits only requests carrying a valid access token. A missing
// header is 401; a header that is present but malformed, expired, tampered or
// of the wrong kind is 403.
func (g *AuthGuard) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			response.Unauthorized(w, "authorization header required")
			return
		}

		token, ok := ParseAuthorization(header)
		if !ok {
			response.Forbidden(w, "invalid authorization header")
			return
		}

		claims, err := g.verifier.VerifyAccess(token)
		if err != nil {
			response.Forbidden(w, TokenErrorMessage(err))
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey{}, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// UserIDFromContext returns the authenticated user id placed by RequireAuth.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey{}).(string); ok {
		return id
	}
	return ""
}

// TokenErrorMessage maps token verification failures onto client-facing
// messages without leaking anything about the token internals.
func TokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, usecase.ErrWrongTokenKind):
		return "wrong token kind"
	case errors.Is(err, usecase.ErrTokenReused):
		return "token already used"
	case errors.Is(err, usecase.ErrTokenRevoked):
		return "session revoked"
	default:
		return "invalid token"
	}
}
