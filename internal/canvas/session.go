package canvas

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/spoor-app/spoor/internal/events"
	"github.com/spoor-app/spoor/internal/logging"
	"github.com/spoor-app/spoor/internal/models"
)

// StateKind identifies the active interaction state.
type StateKind int

const (
	StateIdle StateKind = iota
	StateDragging
	StatePanning
	StateCreating
	StateEditing
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateDragging:
		return "dragging"
	case StatePanning:
		return "panning"
	case StateCreating:
		return "creating"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// State is the tagged interaction state. Only the fields belonging to
// Kind are meaningful; modeling it this way rules out impossible
// combinations like dragging and panning at once.
type State struct {
	Kind StateKind

	// Dragging
	DragNodeID string
	GrabOffset Point

	// Panning: last pointer point in screen space.
	LastPoint Point

	// Creating: the clicked point, used as placement fallback.
	CreateAt Point

	// Editing
	EditNodeID string

	// Draft is the overlay text for Creating and Editing.
	Draft string
}

// CreateEffect is a pending CreateNode write the caller must execute
// against the Store, feeding the result back via ApplyCreated or
// WriteFailed.
type CreateEffect struct {
	HuntID string
	Draft  models.NodeDraft
}

// UpdateEffect is a pending UpdateNode write the caller must execute
// against the Store, feeding the result back via ApplyUpdated or
// WriteFailed.
type UpdateEffect struct {
	NodeID string
	Node   models.Node
}

// Session owns the canvas state for one open hunt: the node collection,
// the pan offset, and the interaction state machine. All methods must be
// called from a single goroutine (the interaction loop); persistence
// results re-enter through the Apply methods on that same loop.
type Session struct {
	huntID string
	nodes  []models.Node
	pan    Point
	state  State

	engine *Engine
	placer *Placer
	logger zerolog.Logger
	bus    *events.Bus
}

// SessionConfig configures a canvas session.
type SessionConfig struct {
	HuntID string
	Engine *Engine
	Placer *Placer
	Logger zerolog.Logger
	Bus    *events.Bus
}

// NewSession creates a session with no nodes loaded and the pan offset
// at the origin.
func NewSession(cfg SessionConfig) *Session {
	engine := cfg.Engine
	if engine == nil {
		engine = NewEngine(nil)
	}
	placer := cfg.Placer
	if placer == nil {
		placer = NewPlacer(nil)
	}
	return &Session{
		huntID: cfg.HuntID,
		engine: engine,
		placer: placer,
		logger: logging.WithHunt(cfg.Logger, cfg.HuntID),
		bus:    cfg.Bus,
	}
}

// HuntID returns the hunt this session is scoped to.
func (s *Session) HuntID() string { return s.huntID }

// Nodes returns the live node collection. Callers must not retain it
// across state transitions.
func (s *Session) Nodes() []models.Node { return s.nodes }

// Pan returns the current pan offset.
func (s *Session) Pan() Point { return s.pan }

// State returns the current interaction state.
func (s *Session) State() State { return s.state }

// Engine returns the layout engine the session derives geometry with.
func (s *Session) Engine() *Engine { return s.engine }

// toCanvas converts screen-space pointer coordinates to canvas space.
func (s *Session) toCanvas(x, y float64) Point {
	return Point{X: x - s.pan.X, Y: y - s.pan.Y}
}

// PointerDown begins a drag when the pointer lands on a node, or a pan
// on empty canvas. Ignored outside Idle.
func (s *Session) PointerDown(x, y float64) {
	if s.state.Kind != StateIdle {
		return
	}
	pos := s.toCanvas(x, y)
	if node := NodeAt(s.nodes, pos.X, pos.Y); node != nil {
		s.state = State{
			Kind:       StateDragging,
			DragNodeID: node.ID,
			GrabOffset: Point{X: pos.X - node.X, Y: pos.Y - node.Y},
		}
		return
	}
	s.state = State{Kind: StatePanning, LastPoint: Point{X: x, Y: y}}
}

// PointerMove updates the dragged node's position or accumulates pan
// delta. Local state only; nothing is persisted per move.
func (s *Session) PointerMove(x, y float64) {
	switch s.state.Kind {
	case StateDragging:
		node := s.nodeByID(s.state.DragNodeID)
		if node == nil {
			return
		}
		pos := s.toCanvas(x, y)
		node.X = pos.X - s.state.GrabOffset.X
		node.Y = pos.Y - s.state.GrabOffset.Y
	case StatePanning:
		s.pan.X += x - s.state.LastPoint.X
		s.pan.Y += y - s.state.LastPoint.Y
		s.state.LastPoint = Point{X: x, Y: y}
	}
}

// PointerUp ends the active gesture. Completing a drag returns exactly
// one UpdateEffect carrying the final position; ending a pan returns
// nil (pan is never persisted).
func (s *Session) PointerUp() *UpdateEffect {
	defer func() { s.state = State{Kind: StateIdle} }()

	if s.state.Kind != StateDragging {
		return nil
	}
	node := s.nodeByID(s.state.DragNodeID)
	if node == nil {
		return nil
	}
	return &UpdateEffect{NodeID: node.ID, Node: *node}
}

// DoubleClick opens the edit overlay on a node, or the create overlay on
// empty canvas with the clicked point as the placement fallback. Ignored
// outside Idle.
func (s *Session) DoubleClick(x, y float64) {
	if s.state.Kind != StateIdle {
		return
	}
	pos := s.toCanvas(x, y)
	if node := NodeAt(s.nodes, pos.X, pos.Y); node != nil {
		s.state = State{Kind: StateEditing, EditNodeID: node.ID, Draft: node.Text}
		return
	}
	s.state = State{Kind: StateCreating, CreateAt: pos}
}

// ContextClick opens the create overlay at the clicked point, whether or
// not a node is under the pointer. Ignored outside Idle.
func (s *Session) ContextClick(x, y float64) {
	if s.state.Kind != StateIdle {
		return
	}
	s.state = State{Kind: StateCreating, CreateAt: s.toCanvas(x, y)}
}

// SetDraft replaces the overlay draft text while creating or editing.
func (s *Session) SetDraft(text string) {
	if s.state.Kind == StateCreating || s.state.Kind == StateEditing {
		s.state.Draft = text
	}
}

// Cancel discards the overlay draft and returns to Idle without any
// write.
func (s *Session) Cancel() {
	if s.state.Kind == StateCreating || s.state.Kind == StateEditing {
		s.state = State{Kind: StateIdle}
	}
}

// ConfirmCreate completes the create flow: the placer chooses a position
// using the current node set with the clicked point as fallback, the
// layout engine derives geometry, and the returned effect carries the
// draft for persistence. The server-assigned node re-enters through
// ApplyCreated. Confirming an empty draft is a no-op that stays in
// Creating.
func (s *Session) ConfirmCreate(typ models.NodeType) *CreateEffect {
	if s.state.Kind != StateCreating || strings.TrimSpace(s.state.Draft) == "" {
		return nil
	}
	if typ == "" {
		typ = models.NodeTypeNote
	}

	text := s.state.Draft
	position := s.placer.Place(text, s.nodes, s.state.CreateAt)
	layout := s.engine.Layout(text)

	s.state = State{Kind: StateIdle}

	return &CreateEffect{
		HuntID: s.huntID,
		Draft: models.NodeDraft{
			X:           position.X,
			Y:           position.Y,
			Width:       layout.Width,
			Height:      layout.Height,
			Text:        text,
			Type:        typ,
			Connections: []string{},
		},
	}
}

// ConfirmEdit completes the edit flow: geometry is recomputed from the
// new text and the returned effect carries the merged node (all original
// fields plus new text and geometry). The authoritative record re-enters
// through ApplyUpdated. Confirming an empty draft is a no-op.
func (s *Session) ConfirmEdit() *UpdateEffect {
	if s.state.Kind != StateEditing || strings.TrimSpace(s.state.Draft) == "" {
		return nil
	}
	node := s.nodeByID(s.state.EditNodeID)
	if node == nil {
		s.state = State{Kind: StateIdle}
		return nil
	}

	layout := s.engine.Layout(s.state.Draft)
	merged := *node
	merged.Text = s.state.Draft
	merged.Width = layout.Width
	merged.Height = layout.Height

	s.state = State{Kind: StateIdle}

	return &UpdateEffect{NodeID: merged.ID, Node: merged}
}

// SetNodes replaces the node collection, typically with the initial
// ListNodes result.
func (s *Session) SetNodes(nodes []models.Node) {
	s.nodes = nodes
}

// LoadFailed records a failed initial load. The canvas opens empty; the
// failure goes to the diagnostic channel only.
func (s *Session) LoadFailed(err error) {
	s.logger.Error().Err(err).Msg("failed to load nodes")
	s.publishFailure("list", "", err)
}

// ApplyCreated appends the server-assigned node to local state.
func (s *Session) ApplyCreated(node models.Node) {
	s.nodes = append(s.nodes, node)
	if s.bus != nil {
		s.bus.Publish(events.Event{Type: events.TypeNodeCreated, HuntID: s.huntID, NodeID: node.ID})
	}
}

// ApplyUpdated replaces the local node with the authoritative server
// response. If multiple writes race, the last response to arrive wins.
func (s *Session) ApplyUpdated(node models.Node) {
	for i := range s.nodes {
		if s.nodes[i].ID == node.ID {
			s.nodes[i] = node
			break
		}
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{Type: events.TypeNodeUpdated, HuntID: s.huntID, NodeID: node.ID})
	}
}

// WriteFailed records a failed create or update. The state machine has
// already returned to Idle; the locally-moved position of a failed drag
// commit is deliberately left in place, and the failure is surfaced on
// the event bus so a consumer can notify or retry.
func (s *Session) WriteFailed(op, nodeID string, err error) {
	nodeLogger := logging.WithNode(s.logger, nodeID)
	nodeLogger.Error().Err(err).
		Str("op", op).
		Msg("persistence write failed")
	s.publishFailure(op, nodeID, err)
}

func (s *Session) publishFailure(op, nodeID string, err error) {
	if s.bus == nil {
		return
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	s.bus.Publish(events.Event{
		Type:   events.TypeWriteFailed,
		HuntID: s.huntID,
		NodeID: nodeID,
		Op:     op,
		Err:    msg,
	})
}

func (s *Session) nodeByID(id string) *models.Node {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return &s.nodes[i]
		}
	}
	return nil
}
