package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spoor-app/spoor/internal/models"
)

// Log repository errors.
var (
	ErrLogNotFound = errors.New("log entry not found")
)

// LogRepository handles hunt log persistence.
type LogRepository struct {
	db *DB
}

// NewLogRepository creates a new LogRepository.
func NewLogRepository(db *DB) *LogRepository {
	return &LogRepository{db: db}
}

// Create adds a log entry to a hunt.
func (r *LogRepository) Create(ctx context.Context, log *models.HuntLog) error {
	if err := log.Validate(); err != nil {
		return fmt.Errorf("invalid log entry: %w", err)
	}

	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Breakthroughs == nil {
		log.Breakthroughs = []string{}
	}
	if log.FailedApproaches == nil {
		log.FailedApproaches = []string{}
	}
	log.CreatedAt = time.Now().UTC()

	breakthroughsJSON, err := json.Marshal(log.Breakthroughs)
	if err != nil {
		return fmt.Errorf("failed to marshal breakthroughs: %w", err)
	}
	failedJSON, err := json.Marshal(log.FailedApproaches)
	if err != nil {
		return fmt.Errorf("failed to marshal failed approaches: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO hunt_logs (
			id, hunt_id, week_number, entry,
			breakthroughs_json, failed_approaches_json, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		log.ID,
		log.HuntID,
		log.WeekNumber,
		log.Entry,
		string(breakthroughsJSON),
		string(failedJSON),
		log.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert log entry: %w", err)
	}
	return nil
}

// ListByHunt retrieves all log entries for a hunt, newest first.
func (r *LogRepository) ListByHunt(ctx context.Context, huntID string) ([]*models.HuntLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, hunt_id, week_number, entry,
			breakthroughs_json, failed_approaches_json, created_at
		FROM hunt_logs
		WHERE hunt_id = ?
		ORDER BY created_at DESC
	`, huntID)
	if err != nil {
		return nil, fmt.Errorf("failed to query log entries: %w", err)
	}
	defer rows.Close()

	var logs []*models.HuntLog
	for rows.Next() {
		log, err := r.scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}
	return logs, nil
}

// Delete removes a log entry.
func (r *LogRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hunt_logs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete log entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrLogNotFound
	}
	return nil
}

func (r *LogRepository) scanLog(row rowScanner) (*models.HuntLog, error) {
	var log models.HuntLog
	var weekNumber sql.NullInt64
	var breakthroughsJSON, failedJSON sql.NullString
	var createdAt string

	err := row.Scan(
		&log.ID,
		&log.HuntID,
		&weekNumber,
		&log.Entry,
		&breakthroughsJSON,
		&failedJSON,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLogNotFound
		}
		return nil, fmt.Errorf("failed to scan log entry: %w", err)
	}

	log.WeekNumber = int(weekNumber.Int64)
	log.Breakthroughs = []string{}
	log.FailedApproaches = []string{}
	if breakthroughsJSON.Valid && breakthroughsJSON.String != "" {
		if err := json.Unmarshal([]byte(breakthroughsJSON.String), &log.Breakthroughs); err != nil {
			r.db.logger.Warn().Err(err).Str("log_id", log.ID).Msg("failed to parse breakthroughs")
		}
	}
	if failedJSON.Valid && failedJSON.String != "" {
		if err := json.Unmarshal([]byte(failedJSON.String), &log.FailedApproaches); err != nil {
			r.db.logger.Warn().Err(err).Str("log_id", log.ID).Msg("failed to parse failed approaches")
		}
	}

	if log.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &log, nil
}
