// Package models defines the core domain types for spoor.
package models

import (
	"time"
)

// HuntStatus represents the lifecycle state of a hunt.
type HuntStatus string

const (
	HuntStatusActive    HuntStatus = "active"
	HuntStatusCompleted HuntStatus = "completed"
	HuntStatusAbandoned HuntStatus = "abandoned"
)

// Hunt is a long-running personal project. It scopes which nodes are
// loaded onto the canvas; everything beyond id and name is owned by the
// surrounding CRUD surface.
type Hunt struct {
	// ID is the unique identifier for the hunt.
	ID string `json:"id"`

	// Name is the human-friendly name for the hunt.
	Name string `json:"name"`

	// Terrain describes where the hunt takes place.
	Terrain string `json:"terrain,omitempty"`

	// VictoryConditions describes what success looks like.
	VictoryConditions string `json:"victoryConditions,omitempty"`

	// FailureModes describes known ways the hunt can go wrong.
	FailureModes string `json:"failureModes,omitempty"`

	// Duration is the expected time span (free-form, e.g. "6 weeks").
	Duration string `json:"duration,omitempty"`

	// Status is the lifecycle state.
	Status HuntStatus `json:"status"`

	// StartDate is when the hunt began.
	StartDate time.Time `json:"startDate"`

	// CreatedAt is when the hunt record was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the hunt record was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks if the hunt record is valid.
func (h *Hunt) Validate() error {
	validation := &ValidationErrors{}
	if h.Name == "" {
		validation.Add("name", ErrInvalidHuntName)
	}
	switch h.Status {
	case "", HuntStatusActive, HuntStatusCompleted, HuntStatusAbandoned:
	default:
		validation.Add("status", ErrInvalidHuntStatus)
	}
	return validation.Err()
}
