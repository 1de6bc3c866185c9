package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authly/authly/application/port/outbound"
)

// Service signs and verifies access and refresh tokens with HS256 over a
// process-wide secret. Both directions are pure functions of secret, claims
// and clock; verification fails closed on any ambiguity.
type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

type signedClaims struct {
	Kind      string `json:"type"`
	SessionID string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("signing secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	if refreshTTL <= accessTTL {
		return nil, errors.New("refresh TTL must exceed access TTL")
	}
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (s *Service) SignAccess(userID string) (string, error) {
	return s.sign(outbound.TokenKindAccess, userID, "", s.accessTTL)
}

func (s *Service) SignRefresh(userID, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("refresh token requires a session id")
	}
	return s.sign(outbound.TokenKindRefresh, userID, sessionID, s.refreshTTL)
}

func (s *Service) sign(kind outbound.TokenKind, userID, sessionID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}
	now := time.Now()
	claims := signedClaims{
		Kind:      string(kind),
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

func (s *Service) VerifyAccess(tokenString string) (*outbound.AccessClaims, error) {
	claims, err := s.verify(tokenString, outbound.TokenKindAccess)
	if err != nil {
		return nil, err
	}
	return &outbound.AccessClaims{UserID: claims.Subject}, nil
}

func (s *Service) VerifyRefresh(tokenString string) (*outbound.RefreshClaims, error) {
	claims, err := s.verify(tokenString, outbound.TokenKindRefresh)
	if err != nil {
		return nil, err
	}
	if claims.SessionID == "" {
		return nil, outbound.ErrInvalidToken
	}
	return &outbound.RefreshClaims{UserID: claims.Subject, SessionID: claims.SessionID}, nil
}

func (s *Service) verify(tokenString string, expected outbound.TokenKind) (*signedClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &signedClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, translateParseError(err)
	}

	claims, ok := token.Claims.(*signedClaims)
	if !ok || !token.Valid {
		return nil, outbound.ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, outbound.ErrInvalidToken
	}
	// Kind check comes after signature and expiry so a tampered token never
	// reports WrongTokenKind.
	if claims.Kind != string(expected) {
		return nil, outbound.ErrWrongTokenKind
	}
	return claims, nil
}

func translateParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return outbound.ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return outbound.ErrTokenExpired
	default:
		return outbound.ErrInvalidToken
	}
}
