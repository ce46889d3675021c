package db

import (
	"context"
	"errors"
	"testing"

	"github.com/spoor-app/spoor/internal/canvas"
	"github.com/spoor-app/spoor/internal/models"
)

// The TUI runs straight against the repository in local mode.
var _ canvas.Store = (*NodeRepository)(nil)

func TestNodeRepository_CreateDefaults(t *testing.T) {
	database := setupTestDB(t)
	repo := NewNodeRepository(database)
	ctx := context.Background()

	hunt := createTestHunt(t, database, "find the spring")

	node, err := repo.CreateNode(ctx, hunt.ID, models.NodeDraft{
		X:    100,
		Y:    200,
		Text: "fresh tracks by the creek",
	})
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	if node.ID == "" {
		t.Fatal("expected id to be assigned")
	}
	if node.Type != models.NodeTypeNote {
		t.Fatalf("expected default note type, got %s", node.Type)
	}
	if node.Width != 200 || node.Height != 50 {
		t.Fatalf("expected default geometry 200x50, got %gx%g", node.Width, node.Height)
	}
	if node.Connections == nil || len(node.Connections) != 0 {
		t.Fatalf("expected empty connections slice, got %v", node.Connections)
	}
}

func TestNodeRepository_ListRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	repo := NewNodeRepository(database)
	ctx := context.Background()

	hunt := createTestHunt(t, database, "map the ridge")

	first, err := repo.CreateNode(ctx, hunt.ID, models.NodeDraft{
		X: 10, Y: 20, Width: 270, Height: 68,
		Text: "start at the trailhead",
		Type: models.NodeTypeNote,
	})
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}
	second, err := repo.CreateNode(ctx, hunt.ID, models.NodeDraft{
		X: 300, Y: 40, Width: 270, Height: 50,
		Text:        "summarize findings",
		Type:        models.NodeTypeLLM,
		Connections: []string{first.ID},
	})
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}

	nodes, err := repo.ListNodes(ctx, hunt.ID)
	if err != nil {
		t.Fatalf("ListNodes failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[1].ID != second.ID {
		t.Fatalf("expected creation order, got %s first", nodes[0].Text)
	}
	if nodes[1].Type != models.NodeTypeLLM {
		t.Fatalf("type not preserved: %s", nodes[1].Type)
	}
	if len(nodes[1].Connections) != 1 || nodes[1].Connections[0] != first.ID {
		t.Fatalf("connections not preserved: %v", nodes[1].Connections)
	}
}

func TestNodeRepository_ListScopedToHunt(t *testing.T) {
	database := setupTestDB(t)
	repo := NewNodeRepository(database)
	ctx := context.Background()

	huntA := createTestHunt(t, database, "hunt a")
	huntB := createTestHunt(t, database, "hunt b")

	if _, err := repo.CreateNode(ctx, huntA.ID, models.NodeDraft{Text: "only in a"}); err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}

	nodes, err := repo.ListNodes(ctx, huntB.ID)
	if err != nil {
		t.Fatalf("ListNodes failed: %v", err)
	}
	if len(nodes) != 0 {
		t.Fatalf("expected no nodes for hunt b, got %d", len(nodes))
	}
}

func TestNodeRepository_Update(t *testing.T) {
	database := setupTestDB(t)
	repo := NewNodeRepository(database)
	ctx := context.Background()

	hunt := createTestHunt(t, database, "follow the river")
	node, err := repo.CreateNode(ctx, hunt.ID, models.NodeDraft{X: 50, Y: 60, Text: "old text"})
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}

	changed := *node
	changed.X = 500
	changed.Y = 600
	changed.Text = "moved and rewritten"
	changed.Height = 86

	stored, err := repo.UpdateNode(ctx, node.ID, changed)
	if err != nil {
		t.Fatalf("UpdateNode failed: %v", err)
	}
	if stored.X != 500 || stored.Y != 600 {
		t.Fatalf("position not updated: (%g, %g)", stored.X, stored.Y)
	}
	if stored.Text != "moved and rewritten" {
		t.Fatalf("text not updated: %s", stored.Text)
	}
	if stored.Height != 86 {
		t.Fatalf("height not updated: %g", stored.Height)
	}
	if !stored.UpdatedAt.After(stored.CreatedAt) && !stored.UpdatedAt.Equal(stored.CreatedAt) {
		t.Fatal("updated_at should not precede created_at")
	}
}

func TestNodeRepository_UpdateMissing(t *testing.T) {
	database := setupTestDB(t)
	repo := NewNodeRepository(database)

	hunt := createTestHunt(t, database, "hunt")
	_, err := repo.UpdateNode(context.Background(), "missing", models.Node{
		HuntID: hunt.ID,
		Text:   "anything",
	})
	if !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestNodeRepository_Delete(t *testing.T) {
	database := setupTestDB(t)
	repo := NewNodeRepository(database)
	ctx := context.Background()

	hunt := createTestHunt(t, database, "hunt")
	node, err := repo.CreateNode(ctx, hunt.ID, models.NodeDraft{Text: "doomed"})
	if err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}

	if err := repo.DeleteNode(ctx, node.ID); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}
	if _, err := repo.GetNode(ctx, node.ID); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound after delete, got %v", err)
	}
	if err := repo.DeleteNode(ctx, node.ID); !errors.Is(err, ErrNodeNotFound) {
		t.Fatalf("expected ErrNodeNotFound on second delete, got %v", err)
	}
}

func TestNodeRepository_RejectsEmptyText(t *testing.T) {
	database := setupTestDB(t)
	repo := NewNodeRepository(database)

	hunt := createTestHunt(t, database, "hunt")
	if _, err := repo.CreateNode(context.Background(), hunt.ID, models.NodeDraft{}); err == nil {
		t.Fatal("expected validation error for empty text")
	}
}

func TestNodeRepository_CascadeOnHuntDelete(t *testing.T) {
	database := setupTestDB(t)
	nodes := NewNodeRepository(database)
	hunts := NewHuntRepository(database)
	ctx := context.Background()

	hunt := createTestHunt(t, database, "short-lived")
	if _, err := nodes.CreateNode(ctx, hunt.ID, models.NodeDraft{Text: "goes with the hunt"}); err != nil {
		t.Fatalf("CreateNode failed: %v", err)
	}

	if err := hunts.Delete(ctx, hunt.ID); err != nil {
		t.Fatalf("Delete hunt failed: %v", err)
	}

	remaining, err := nodes.ListNodes(ctx, hunt.ID)
	if err != nil {
		t.Fatalf("ListNodes failed: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected nodes to cascade with the hunt, found %d", len(remaining))
	}
}
