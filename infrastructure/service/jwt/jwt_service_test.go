package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/authly/authly/application/port/outbound"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, err := NewService("test-secret", 15*time.Minute, 24*time.Hour)
	if err != nil {
		t.Fatalf("Failed to create JWT service: %v", err)
	}
	return service
}

func TestNewService(t *testing.T) {
	t.Run("RejectsEmptySecret", func(t *testing.T) {
		if _, err := NewService("", time.Minute, time.Hour); err == nil {
			t.Error("Should reject empty secret")
		}
	})

	t.Run("RejectsRefreshTTLNotExceedingAccessTTL", func(t *testing.T) {
		if _, err := NewService("secret", time.Hour, time.Hour); err == nil {
			t.Error("Should reject refresh TTL equal to access TTL")
		}
		if _, err := NewService("secret", time.Hour, time.Minute); err == nil {
			t.Error("Should reject refresh TTL below access TTL")
		}
	})
}

func TestSignAndVerify(t *testing.T) {
	service := newTestService(t)

	t.Run("AccessRoundTrip", func(t *testing.T) {
		token, err := service.SignAccess("user123")
		if err != nil {
			t.Fatalf("Failed to sign access token: %v", err)
		}
		claims, err := service.VerifyAccess(token)
		if err != nil {
			t.Fatalf("Failed to verify access token: %v", err)
		}
		if claims.UserID != "user123" {
			t.Errorf("Expected user ID 'user123', got '%s'", claims.UserID)
		}
	})

	t.Run("RefreshRoundTrip", func(t *testing.T) {
		token, err := service.SignRefresh("user123", "sess-1")
		if err != nil {
			t.Fatalf("Failed to sign refresh token: %v", err)
		}
		claims, err := service.VerifyRefresh(token)
		if err != nil {
			t.Fatalf("Failed to verify refresh token: %v", err)
		}
		if claims.UserID != "user123" || claims.SessionID != "sess-1" {
			t.Errorf("Unexpected claims: %+v", claims)
		}
	})

	t.Run("PairIsNeverEqual", func(t *testing.T) {
		access, _ := service.SignAccess("user123")
		refresh, _ := service.SignRefresh("user123", "sess-1")
		if access == refresh {
			t.Error("Access and refresh tokens must differ")
		}
	})

	t.Run("RefreshRequiresSessionID", func(t *testing.T) {
		if _, err := service.SignRefresh("user123", ""); err == nil {
			t.Error("Should refuse to sign a refresh token without a session id")
		}
	})
}

func TestVerifyRejections(t *testing.T) {
	service := newTestService(t)

	t.Run("WrongKind", func(t *testing.T) {
		refresh, _ := service.SignRefresh("user123", "sess-1")
		if _, err := service.VerifyAccess(refresh); !errors.Is(err, outbound.ErrWrongTokenKind) {
			t.Errorf("Expected ErrWrongTokenKind, got %v", err)
		}
		access, _ := service.SignAccess("user123")
		if _, err := service.VerifyRefresh(access); !errors.Is(err, outbound.ErrWrongTokenKind) {
			t.Errorf("Expected ErrWrongTokenKind, got %v", err)
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		if _, err := service.VerifyAccess("not-a-token"); !errors.Is(err, outbound.ErrMalformedToken) {
			t.Errorf("Expected ErrMalformedToken, got %v", err)
		}
	})

	t.Run("TamperedSignature", func(t *testing.T) {
		token, _ := service.SignAccess("user123")
		tampered := token[:len(token)-2] + "xx"
		if _, err := service.VerifyAccess(tampered); !errors.Is(err, outbound.ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other, err := NewService("other-secret", 15*time.Minute, 24*time.Hour)
		if err != nil {
			t.Fatalf("Failed to create JWT service: %v", err)
		}
		token, _ := other.SignAccess("user123")
		if _, err := service.VerifyAccess(token); !errors.Is(err, outbound.ErrInvalidToken) {
			t.Errorf("Expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("Expired", func(t *testing.T) {
		short := &Service{secret: []byte("test-secret"), accessTTL: -time.Minute, refreshTTL: time.Hour}
		token, err := short.SignAccess("user123")
		if err != nil {
			t.Fatalf("Failed to sign access token: %v", err)
		}
		if _, err := service.VerifyAccess(token); !errors.Is(err, outbound.ErrTokenExpired) {
			t.Errorf("Expected ErrTokenExpired, got %v", err)
		}
	})

	t.Run("TokenHasThreeSegments", func(t *testing.T) {
		token, _ := service.SignAccess("user123")
		if len(strings.Split(token, ".")) != 3 {
			t.Error("Signed token should be a compact JWT")
		}
	})
}
