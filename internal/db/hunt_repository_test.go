package db

import (
	"context"
	"errors"
	"testing"

	"github.com/spoor-app/spoor/internal/models"
)

func TestHuntRepository_CreateAndList(t *testing.T) {
	database := setupTestDB(t)
	repo := NewHuntRepository(database)
	ctx := context.Background()

	hunt1 := &models.Hunt{
		Name:              "learn woodworking",
		Terrain:           "the garage",
		VictoryConditions: "build a usable bookshelf",
		Duration:          "12 weeks",
	}
	hunt2 := &models.Hunt{Name: "read the classics"}

	if err := repo.Create(ctx, hunt1); err != nil {
		t.Fatalf("Create hunt1 failed: %v", err)
	}
	if err := repo.Create(ctx, hunt2); err != nil {
		t.Fatalf("Create hunt2 failed: %v", err)
	}
	if hunt1.ID == "" {
		t.Fatal("expected id to be assigned on create")
	}
	if hunt1.Status != models.HuntStatusActive {
		t.Fatalf("expected default active status, got %s", hunt1.Status)
	}

	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 hunts, got %d", len(all))
	}
}

func TestHuntRepository_GetUpdateDelete(t *testing.T) {
	database := setupTestDB(t)
	repo := NewHuntRepository(database)
	ctx := context.Background()

	hunt := createTestHunt(t, database, "track the badger")

	got, err := repo.Get(ctx, hunt.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "track the badger" {
		t.Fatalf("unexpected name: %s", got.Name)
	}

	got.Status = models.HuntStatusCompleted
	got.FailureModes = "badger moved away"
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	updated, err := repo.Get(ctx, hunt.ID)
	if err != nil {
		t.Fatalf("Get after update failed: %v", err)
	}
	if updated.Status != models.HuntStatusCompleted {
		t.Fatalf("status not updated: %s", updated.Status)
	}
	if updated.FailureModes != "badger moved away" {
		t.Fatalf("failure modes not updated: %s", updated.FailureModes)
	}

	if err := repo.Delete(ctx, hunt.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, hunt.ID); !errors.Is(err, ErrHuntNotFound) {
		t.Fatalf("expected ErrHuntNotFound, got %v", err)
	}
}

func TestHuntRepository_NotFound(t *testing.T) {
	database := setupTestDB(t)
	repo := NewHuntRepository(database)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "nope"); !errors.Is(err, ErrHuntNotFound) {
		t.Fatalf("expected ErrHuntNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "nope"); !errors.Is(err, ErrHuntNotFound) {
		t.Fatalf("expected ErrHuntNotFound on delete, got %v", err)
	}
}

func TestHuntRepository_ValidatesName(t *testing.T) {
	database := setupTestDB(t)
	repo := NewHuntRepository(database)

	err := repo.Create(context.Background(), &models.Hunt{})
	if err == nil {
		t.Fatal("expected validation error for empty name")
	}

	all, listErr := repo.List(context.Background())
	if listErr != nil {
		t.Fatalf("List failed: %v", listErr)
	}
	if len(all) != 0 {
		t.Fatalf("invalid hunt should not be persisted, found %d rows", len(all))
	}
}
