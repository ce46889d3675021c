package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"
)

func TestTransactionCommits(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	err := database.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO hunts (id, name, status, start_date, created_at, updated_at)
			VALUES ('tx-hunt', 'committed', 'active', ?, ?, ?)
		`, "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z")
		return err
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	if _, err := NewHuntRepository(database).Get(ctx, "tx-hunt"); err != nil {
		t.Fatalf("committed row not visible: %v", err)
	}
}

func TestTransactionRollsBackOnError(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := database.Transaction(ctx, func(tx *sql.Tx) error {
		_, execErr := tx.ExecContext(ctx, `
			INSERT INTO hunts (id, name, status, start_date, created_at, updated_at)
			VALUES ('tx-hunt', 'rolled back', 'active', ?, ?, ?)
		`, "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z", "2026-01-01T00:00:00Z")
		if execErr != nil {
			return execErr
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error back, got %v", err)
	}

	if _, err := NewHuntRepository(database).Get(ctx, "tx-hunt"); !errors.Is(err, ErrHuntNotFound) {
		t.Fatalf("rolled-back row still visible: %v", err)
	}
}

func TestTransactionWithRetryRetriesBusy(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	attempts := 0
	err := database.TransactionWithRetry(ctx, 5, time.Millisecond, func(tx *sql.Tx) error {
		attempts++
		if attempts < 3 {
			return errors.New("database is locked")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("TransactionWithRetry failed: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestTransactionWithRetryGivesUpAfterMaxAttempts(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	attempts := 0
	err := database.TransactionWithRetry(ctx, 2, time.Millisecond, func(tx *sql.Tx) error {
		attempts++
		return errors.New("database is locked")
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestTransactionWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()

	boom := errors.New("constraint violated")
	attempts := 0
	err := database.TransactionWithRetry(ctx, 5, time.Millisecond, func(tx *sql.Tx) error {
		attempts++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected fn error back, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("non-busy error should not retry, got %d attempts", attempts)
	}
}
