package models

import (
	"time"
)

// NodeType tags how a node is rendered. It carries no behavior beyond
// color on the canvas.
type NodeType string

const (
	NodeTypeNote NodeType = "note"
	NodeTypeLLM  NodeType = "llm"
)

// Node is a rectangular, positioned annotation on a hunt's canvas.
type Node struct {
	// ID is assigned by the persistence layer on creation and immutable
	// thereafter.
	ID string `json:"id"`

	// HuntID scopes the node to a hunt.
	HuntID string `json:"huntId"`

	// X and Y are the top-left position in canvas-space coordinates.
	X float64 `json:"x"`
	Y float64 `json:"y"`

	// Width and Height are derived from Text by the layout engine and
	// cached here. They are recomputed when Text changes, never from a
	// position change alone.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Text is the user-entered content.
	Text string `json:"text"`

	// Type is the rendering tag (note or llm).
	Type NodeType `json:"type"`

	// Connections holds target node ids for directed edges. A target id
	// that no longer exists is silently ignored at render time.
	Connections []string `json:"connections"`

	// CreatedAt is when the node was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the node was last updated.
	UpdatedAt time.Time `json:"updatedAt"`
}

// NodeDraft is the client-side shape sent to the persistence layer on
// creation, before an id exists.
type NodeDraft struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Width       float64  `json:"width"`
	Height      float64  `json:"height"`
	Text        string   `json:"text"`
	Type        NodeType `json:"type"`
	Connections []string `json:"connections"`
}

// Validate checks if the node record is valid.
func (n *Node) Validate() error {
	validation := &ValidationErrors{}
	if n.HuntID == "" {
		validation.Add("hunt_id", ErrInvalidHuntID)
	}
	if n.Text == "" {
		validation.Add("text", ErrEmptyNodeText)
	}
	switch n.Type {
	case "", NodeTypeNote, NodeTypeLLM:
	default:
		validation.Add("type", ErrInvalidNodeType)
	}
	return validation.Err()
}

// Validate checks if the draft is valid.
func (d *NodeDraft) Validate() error {
	validation := &ValidationErrors{}
	if d.Text == "" {
		validation.Add("text", ErrEmptyNodeText)
	}
	switch d.Type {
	case "", NodeTypeNote, NodeTypeLLM:
	default:
		validation.Add("type", ErrInvalidNodeType)
	}
	return validation.Err()
}
