package canvas

import (
	"context"

	"github.com/spoor-app/spoor/internal/models"
)

// Store is the persistence collaborator for the canvas. The canvas does
// not care whether the other side is the local database or a remote
// daemon; it only issues these three operations.
type Store interface {
	// ListNodes fetches all nodes for a hunt. Called once when the
	// canvas opens.
	ListNodes(ctx context.Context, huntID string) ([]models.Node, error)

	// CreateNode persists a draft; the store assigns the id.
	CreateNode(ctx context.Context, huntID string, draft models.NodeDraft) (*models.Node, error)

	// UpdateNode replaces the full node record and returns the
	// authoritative result.
	UpdateNode(ctx context.Context, nodeID string, node models.Node) (*models.Node, error)
}
