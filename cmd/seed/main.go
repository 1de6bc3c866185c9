package main

import (
	"database/sql"
	"errors"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo account for local development against the postgres backend.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	username := getenvDefault("SEED_USER_NAME", "demo")
	email := getenvDefault("SEED_USER_EMAIL", "demo@example.com")
	password := getenvDefault("SEED_USER_PASSWORD", "Demo1234!")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// an existing row matching either identifier is re-seeded in place; a
	// plain ON CONFLICT upsert can only watch one unique constraint
	var id string
	err = db.QueryRow("SELECT id FROM users WHERE username = $1 OR email = $2", username, email).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(`
			INSERT INTO users (id, username, email, password, password_version, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 1, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		`, uuid.New().String(), username, email, string(hash))
	case err == nil:
		_, err = db.Exec(`
			UPDATE users SET username = $2, email = $3, password = $4, updated_at = CURRENT_TIMESTAMP
			WHERE id = $1
		`, id, username, email, string(hash))
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	log.Printf("seeded user %s <%s>", username, email)
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
