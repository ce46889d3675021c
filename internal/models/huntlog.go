package models

import (
	"time"
)

// HuntLog is a weekly journal entry attached to a hunt.
type HuntLog struct {
	// ID is the unique identifier for the log entry.
	ID string `json:"id"`

	// HuntID scopes the entry to a hunt.
	HuntID string `json:"huntId"`

	// WeekNumber orders entries within the hunt.
	WeekNumber int `json:"weekNumber"`

	// Entry is the free-form journal text.
	Entry string `json:"entry"`

	// Breakthroughs lists notable wins for the week.
	Breakthroughs []string `json:"breakthroughs"`

	// FailedApproaches lists approaches tried and abandoned.
	FailedApproaches []string `json:"failedApproaches"`

	// CreatedAt is when the entry was recorded.
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks if the log entry is valid.
func (l *HuntLog) Validate() error {
	validation := &ValidationErrors{}
	if l.HuntID == "" {
		validation.Add("hunt_id", ErrInvalidHuntID)
	}
	if l.Entry == "" {
		validation.AddMessage("entry", "entry text is required")
	}
	return validation.Err()
}
