package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// OpenTestStore opens an initialized store in a fresh file under t.TempDir()
// and closes it when the test ends.
func OpenTestStore(t testing.TB, configure ...func(*Options)) *Store {
	t.Helper()

	opts := Options{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: logger.Silent,
	}
	for _, fn := range configure {
		fn(&opts)
	}

	store, err := Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Initialize(context.Background()))
	return store
}

// CreateTestUser inserts a bare user row. An empty name is stored as NULL.
func CreateTestUser(t testing.TB, s *Store, id, name string) {
	t.Helper()

	var nameArg any
	if name != "" {
		nameArg = name
	}
	err := s.Exec(context.Background(), `INSERT INTO users (id, name) VALUES (?, ?)`, id, nameArg)
	require.NoError(t, err)
}
