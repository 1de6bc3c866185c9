package outbound

import "errors"

// Verification failures are collapsed into a small closed set so callers can
// branch without knowing the token encoding.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenKind = errors.New("wrong token kind")
)

// TokenKind discriminates the two credential types; a token of one kind is
// never accepted where the other is expected.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

type AccessClaims struct {
	UserID string
}

type RefreshClaims struct {
	UserID    string
	SessionID string
}

// TokenSigner produces and verifies compact signed tokens with embedded
// expiry. Verification is a pure function of the secret, the token bytes and
// the clock; any ambiguity fails closed.
type TokenSigner interface {
	SignAccess(userID string) (string, error)
	SignRefresh(userID, sessionID string) (string, error)
	VerifyAccess(token string) (*AccessClaims, error)
	VerifyRefresh(token string) (*RefreshClaims, error)
}
