package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spoor-app/spoor/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "spoor_test.db")
	database, err := Open(context.Background(), Options{Path: path})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})
	return database
}

func createTestHunt(t *testing.T, database *DB, name string) *models.Hunt {
	t.Helper()

	hunt := &models.Hunt{Name: name}
	if err := NewHuntRepository(database).Create(context.Background(), hunt); err != nil {
		t.Fatalf("failed to create test hunt: %v", err)
	}
	return hunt
}
