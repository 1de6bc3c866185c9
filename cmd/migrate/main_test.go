package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"002_create_sessions_table.up.sql",
		"001_create_users_table.up.sql",
		"001_create_users_table.down.sql",
		"notes.txt",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1"), 0o644))
	}

	ups, err := loadMigrations(dir, ".up.sql")
	require.NoError(t, err)
	require.Len(t, ups, 2)
	assert.Equal(t, 1, ups[0].version)
	assert.Equal(t, "create_users_table", ups[0].name)
	assert.Equal(t, 2, ups[1].version)
	assert.Equal(t, "create_sessions_table", ups[1].name)

	downs, err := loadMigrations(dir, ".down.sql")
	require.NoError(t, err)
	require.Len(t, downs, 1)
	assert.Equal(t, filepath.Join(dir, "001_create_users_table.down.sql"), downs[0].path)
}

func TestLoadMigrationsRejectsUnversionedNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "first.up.sql"), []byte("SELECT 1"), 0o644))

	_, err := loadMigrations(dir, ".up.sql")
	assert.Error(t, err)
}
