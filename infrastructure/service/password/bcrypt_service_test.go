package password

import (
	"testing"
)

func TestBcryptPasswordService(t *testing.T) {
	service := NewBcryptPasswordService(bcryptTestCost)

	t.Run("HashAndVerify", func(t *testing.T) {
		hash, err := service.HashPassword("Password123")
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}
		if hash == "Password123" {
			t.Error("Hash should not equal the plaintext")
		}

		ok, err := service.VerifyPassword("Password123", hash)
		if err != nil {
			t.Fatalf("Failed to verify password: %v", err)
		}
		if !ok {
			t.Error("Correct password should verify")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		hash, _ := service.HashPassword("Password123")
		ok, err := service.VerifyPassword("wrongPassword", hash)
		if err != nil {
			t.Fatalf("Verify returned error for mismatch: %v", err)
		}
		if ok {
			t.Error("Wrong password should not verify")
		}
	})

	t.Run("EmptyInputs", func(t *testing.T) {
		if _, err := service.HashPassword(""); err == nil {
			t.Error("Should reject empty password")
		}
		if _, err := service.VerifyPassword("", "hash"); err == nil {
			t.Error("Should reject empty password on verify")
		}
		if _, err := service.VerifyPassword("password", ""); err == nil {
			t.Error("Should reject empty hash on verify")
		}
	})
}

// low cost keeps the test fast
const bcryptTestCost = 4
