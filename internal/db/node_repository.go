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

// Node repository errors.
var (
	ErrNodeNotFound = errors.New("node not found")
)

// NodeRepository handles canvas node persistence. It satisfies the
// canvas Store interface, so the TUI can run directly against the local
// database.
type NodeRepository struct {
	db *DB
}

// NewNodeRepository creates a new NodeRepository.
func NewNodeRepository(db *DB) *NodeRepository {
	return &NodeRepository{db: db}
}

// ListNodes retrieves all nodes for a hunt.
func (r *NodeRepository) ListNodes(ctx context.Context, huntID string) ([]models.Node, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, hunt_id, x, y, width, height, text, type,
			connections_json, created_at, updated_at
		FROM hunt_nodes
		WHERE hunt_id = ?
		ORDER BY created_at
	`, huntID)
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	var nodes []models.Node
	for rows.Next() {
		node, err := r.scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, *node)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating nodes: %w", err)
	}
	return nodes, nil
}

// CreateNode persists a draft for a hunt, assigning the node id.
func (r *NodeRepository) CreateNode(ctx context.Context, huntID string, draft models.NodeDraft) (*models.Node, error) {
	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("invalid node draft: %w", err)
	}

	node := models.Node{
		ID:          uuid.New().String(),
		HuntID:      huntID,
		X:           draft.X,
		Y:           draft.Y,
		Width:       draft.Width,
		Height:      draft.Height,
		Text:        draft.Text,
		Type:        draft.Type,
		Connections: draft.Connections,
	}
	if node.Type == "" {
		node.Type = models.NodeTypeNote
	}
	if node.Width <= 0 {
		node.Width = 200
	}
	if node.Height <= 0 {
		node.Height = 50
	}
	if node.Connections == nil {
		node.Connections = []string{}
	}

	now := time.Now().UTC()
	node.CreatedAt = now
	node.UpdatedAt = now

	connectionsJSON, err := json.Marshal(node.Connections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal connections: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO hunt_nodes (
			id, hunt_id, x, y, width, height, text, type,
			connections_json, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		node.ID,
		node.HuntID,
		node.X,
		node.Y,
		node.Width,
		node.Height,
		node.Text,
		string(node.Type),
		string(connectionsJSON),
		node.CreatedAt.Format(time.RFC3339),
		node.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert node: %w", err)
	}
	return &node, nil
}

// GetNode retrieves a node by id.
func (r *NodeRepository) GetNode(ctx context.Context, id string) (*models.Node, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, hunt_id, x, y, width, height, text, type,
			connections_json, created_at, updated_at
		FROM hunt_nodes WHERE id = ?
	`, id)
	node, err := r.scanNode(row)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// UpdateNode replaces the full node record and returns the stored
// result.
func (r *NodeRepository) UpdateNode(ctx context.Context, nodeID string, node models.Node) (*models.Node, error) {
	if err := node.Validate(); err != nil {
		return nil, fmt.Errorf("invalid node: %w", err)
	}

	node.ID = nodeID
	node.UpdatedAt = time.Now().UTC()
	if node.Connections == nil {
		node.Connections = []string{}
	}

	connectionsJSON, err := json.Marshal(node.Connections)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal connections: %w", err)
	}

	// Update and re-read in one transaction so the returned record is
	// the exact stored state even under concurrent writers.
	var stored *models.Node
	err = r.db.TransactionWithRetry(ctx, 0, 0, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE hunt_nodes SET
				x = ?, y = ?, width = ?, height = ?, text = ?, type = ?,
				connections_json = ?, updated_at = ?
			WHERE id = ?
		`,
			node.X,
			node.Y,
			node.Width,
			node.Height,
			node.Text,
			string(node.Type),
			string(connectionsJSON),
			node.UpdatedAt.Format(time.RFC3339),
			nodeID,
		)
		if err != nil {
			return fmt.Errorf("failed to update node: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check update result: %w", err)
		}
		if affected == 0 {
			return ErrNodeNotFound
		}

		row := tx.QueryRowContext(ctx, `
			SELECT id, hunt_id, x, y, width, height, text, type,
				connections_json, created_at, updated_at
			FROM hunt_nodes WHERE id = ?
		`, nodeID)
		stored, err = r.scanNode(row)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// DeleteNode removes a node. Dangling connections referencing it are
// tolerated by the renderer, so no edge cleanup is needed.
func (r *NodeRepository) DeleteNode(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM hunt_nodes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete node: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return ErrNodeNotFound
	}
	return nil
}

func (r *NodeRepository) scanNode(row rowScanner) (*models.Node, error) {
	var node models.Node
	var typ string
	var connectionsJSON sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&node.ID,
		&node.HuntID,
		&node.X,
		&node.Y,
		&node.Width,
		&node.Height,
		&node.Text,
		&typ,
		&connectionsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNodeNotFound
		}
		return nil, fmt.Errorf("failed to scan node: %w", err)
	}

	node.Type = models.NodeType(typ)
	node.Connections = []string{}
	if connectionsJSON.Valid && connectionsJSON.String != "" {
		if err := json.Unmarshal([]byte(connectionsJSON.String), &node.Connections); err != nil {
			r.db.logger.Warn().Err(err).Str("node_id", node.ID).Msg("failed to parse connections")
			node.Connections = []string{}
		}
	}

	if node.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if node.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &node, nil
}
