package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
)

const migrationsDir = "migrations"

type migration struct {
	version int
	name    string
	path    string
}

func main() {
	mode := flag.String("mode", "up", "up or down")
	flag.Parse()

	suffix := ".up.sql"
	switch *mode {
	case "up":
	case "down":
		suffix = ".down.sql"
	default:
		log.Fatalf("unknown mode: %s", *mode)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		log.Fatalf("failed to create schema_migrations: %v", err)
	}

	migrations, err := loadMigrations(migrationsDir, suffix)
	if err != nil {
		log.Fatalf("failed to load migrations: %v", err)
	}

	if *mode == "up" {
		err = applyUp(db, migrations)
	} else {
		err = applyDown(db, migrations)
	}
	if err != nil {
		log.Fatalf("migration %s failed: %v", *mode, err)
	}
	log.Printf("migration %s completed", *mode)
}

// loadMigrations returns the migrations matching suffix sorted by version
// ascending. File names follow 001_create_users_table.up.sql.
func loadMigrations(dir, suffix string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var migrations []migration
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		version, title, err := parseMigrationName(strings.TrimSuffix(name, suffix))
		if err != nil {
			return nil, fmt.Errorf("bad migration file name %s: %w", name, err)
		}
		migrations = append(migrations, migration{
			version: version,
			name:    title,
			path:    filepath.Join(dir, name),
		})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].version < migrations[j].version })
	return migrations, nil
}

func parseMigrationName(base string) (int, string, error) {
	parts := strings.SplitN(base, "_", 2)
	if len(parts) != 2 {
		return 0, "", errors.New("want <version>_<name>")
	}
	version, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", err
	}
	return version, parts[1], nil
}

func applyUp(db *sql.DB, migrations []migration) error {
	for _, m := range migrations {
		applied, err := isApplied(db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		log.Printf("applying %03d_%s", m.version, m.name)
		if err := execFile(db, m.path); err != nil {
			return fmt.Errorf("apply %s: %w", m.path, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", m.version, m.name); err != nil {
			return err
		}
	}
	return nil
}

func applyDown(db *sql.DB, migrations []migration) error {
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		applied, err := isApplied(db, m.version)
		if err != nil {
			return err
		}
		if !applied {
			continue
		}

		log.Printf("reverting %03d_%s", m.version, m.name)
		if err := execFile(db, m.path); err != nil {
			return fmt.Errorf("revert %s: %w", m.path, err)
		}
		if _, err := db.Exec("DELETE FROM schema_migrations WHERE version = $1", m.version); err != nil {
			return err
		}
	}
	return nil
}

func isApplied(db *sql.DB, version int) (bool, error) {
	var exists bool
	err := db.QueryRow("SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)", version).Scan(&exists)
	return exists, err
}

func execFile(db *sql.DB, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = db.Exec(string(contents))
	return err
}
