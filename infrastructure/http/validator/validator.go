package validator

import (
	"net/mail"
	"strings"
)

const minPasswordLength = 8

func ValidateEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func ValidatePassword(password string) bool {
	return len(password) >= minPasswordLength
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}
