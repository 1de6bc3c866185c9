package entity

import (
	"time"
)

// User carries only what the session core needs; PasswordVersion marks
// "issued before the credential changed" without owning credential storage.
type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Password        string    `json:"-"`
	PasswordVersion int       `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewUser(id, username, email, hashedPassword string) *User {
	now := time.Now()
	return &User{
		ID:              id,
		Username:        username,
		Email:           email,
		Password:        hashedPassword,
		PasswordVersion: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
