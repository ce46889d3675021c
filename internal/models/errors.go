package models

import "errors"

// Domain validation errors.
var (
	ErrInvalidHuntName   = errors.New("hunt name is required")
	ErrInvalidHuntStatus = errors.New("hunt status must be active, completed, or abandoned")
	ErrInvalidHuntID     = errors.New("hunt id is required")
	ErrEmptyNodeText     = errors.New("node text is required")
	ErrInvalidNodeType   = errors.New("node type must be note or llm")
)
