package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spoor-app/spoor/internal/models"
)

// Hunt repository errors.
var (
	ErrHuntNotFound = errors.New("hunt not found")
)

// HuntRepository handles hunt persistence.
type HuntRepository struct {
	db *DB
}

// NewHuntRepository creates a new HuntRepository.
func NewHuntRepository(db *DB) *HuntRepository {
	return &HuntRepository{db: db}
}

// Create adds a new hunt to the database.
func (r *HuntRepository) Create(ctx context.Context, hunt *models.Hunt) error {
	if err := hunt.Validate(); err != nil {
		return fmt.Errorf("invalid hunt: %w", err)
	}

	if hunt.ID == "" {
		hunt.ID = uuid.New().String()
	}
	if hunt.Status == "" {
		hunt.Status = models.HuntStatusActive
	}

	now := time.Now().UTC()
	if hunt.StartDate.IsZero() {
		hunt.StartDate = now
	}
	hunt.CreatedAt = now
	hunt.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO hunts (
			id, name, terrain, victory_conditions, failure_modes,
			duration, status, start_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		hunt.ID,
		hunt.Name,
		hunt.Terrain,
		hunt.VictoryConditions,
		hunt.FailureModes,
		hunt.Duration,
		string(hunt.Status),
		hunt.StartDate.Format(time.RFC3339),
		hunt.CreatedAt.Format(time.RFC3339),
		hunt.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert hunt: %w", err)
	}
	return nil
}

// Get retrieves a hunt by id.
func (r *HuntRepository) Get(ctx context.Context, id string) (*models.Hunt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, terrain, victory_conditions, failure_modes,
			duration, status, start_date, created_at, updated_at
		FROM hunts WHERE id = ?
	`, id)
	return scanHunt(row)
}

// List retrieves all hunts ordered by creation time, newest first.
func (r *HuntRepository) List(ctx context.Context) ([]*models.Hunt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, terrain, victory_conditions, failure_modes,
			duration, status, start_date, created_at, updated_at
		FROM hunts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hunts: %w", err)
	}
	defer rows.Close()

	var hunts []*models.Hunt
	for rows.Next() {
		hunt, err := scanHunt(rows)
		if err != nil {
			return nil, err
		}
		hunts = append(hunts, hunt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating hunts: %w", err)
	}
	return hunts, nil
}

// Update replaces the mutable fields of a hunt.
func (r *HuntRepository) Update(ctx context.Context, hunt *models.Hunt) error {
	if err := hunt.Validate(); err != nil {
		return fmt.Errorf("invalid hunt: %w", err)
	}

	hunt.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		UPDATE hunts SET
			name = ?, terrain = ?, victory_conditions = ?, failure_modes = ?,
			duration = ?, status = ?, updated_at = ?
		WHERE id = ?
	`,
		hunt.Name,
		hunt.Terrain,
		hunt.VictoryConditions,
		hunt.FailureModes,
		hunt.Duration,
		string(hunt.Status),
		hunt.UpdatedAt.Format(time.RFC3339),
		hunt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update hunt: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return ErrHuntNotFound
	}
	return nil
}

// Delete removes a hunt and, via cascade, its nodes and logs.
func (r *HuntRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hunts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete hunt: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrHuntNotFound
	}
	return nil
}

// rowScanner abstracts sql.Row and sql.Rows for shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanHunt(row rowScanner) (*models.Hunt, error) {
	var hunt models.Hunt
	var status string
	var terrain, victory, failure, duration sql.NullString
	var startDate, createdAt, updatedAt string

	err := row.Scan(
		&hunt.ID,
		&hunt.Name,
		&terrain,
		&victory,
		&failure,
		&duration,
		&status,
		&startDate,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHuntNotFound
		}
		return nil, fmt.Errorf("failed to scan hunt: %w", err)
	}

	hunt.Terrain = terrain.String
	hunt.VictoryConditions = victory.String
	hunt.FailureModes = failure.String
	hunt.Duration = duration.String
	hunt.Status = models.HuntStatus(status)

	if hunt.StartDate, err = parseTimestamp(startDate, "start_date"); err != nil {
		return nil, err
	}
	if hunt.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if hunt.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &hunt, nil
}

func parseTimestamp(value, column string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return parsed, nil
}
