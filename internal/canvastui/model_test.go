package canvastui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spoor-app/spoor/internal/canvas"
	"github.com/spoor-app/spoor/internal/models"
)

type fakeStore struct {
	nodes      []models.Node
	creates    int
	updates    int
	failUpdate error
}

func (f *fakeStore) ListNodes(ctx context.Context, huntID string) ([]models.Node, error) {
	return append([]models.Node(nil), f.nodes...), nil
}

func (f *fakeStore) CreateNode(ctx context.Context, huntID string, draft models.NodeDraft) (*models.Node, error) {
	f.creates++
	node := models.Node{
		ID:          "created-1",
		HuntID:      huntID,
		X:           draft.X,
		Y:           draft.Y,
		Width:       draft.Width,
		Height:      draft.Height,
		Text:        draft.Text,
		Type:        draft.Type,
		Connections: draft.Connections,
	}
	return &node, nil
}

func (f *fakeStore) UpdateNode(ctx context.Context, nodeID string, node models.Node) (*models.Node, error) {
	if f.failUpdate != nil {
		return nil, f.failUpdate
	}
	f.updates++
	node.ID = nodeID
	return &node, nil
}

func newTestModel(t *testing.T, store *fakeStore) *Model {
	t.Helper()

	m := New(Options{
		Hunt:  &models.Hunt{ID: "hunt-1", Name: "test hunt"},
		Store: store,
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(nodesLoadedMsg{nodes: store.nodes})
	return m
}

func press(m *Model, x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	return cmd
}

func release(m *Model, x, y int) tea.Cmd {
	_, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
	return cmd
}

func motion(m *Model, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
}

func typeText(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func TestDoubleClickOnEmptyOpensCreateOverlay(t *testing.T) {
	m := newTestModel(t, &fakeStore{})

	press(m, 10, 5)
	release(m, 10, 5)
	press(m, 10, 5)

	assert.Equal(t, canvas.StateCreating, m.Session().State().Kind)
	assert.Contains(t, m.View(), "New node")
}

func TestCreateFlow(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(t, store)

	press(m, 10, 5)
	release(m, 10, 5)
	press(m, 10, 5)
	require.Equal(t, canvas.StateCreating, m.Session().State().Kind)

	typeText(m, "first clue")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, canvas.StateIdle, m.Session().State().Kind)

	msg := cmd()
	result, ok := msg.(createResultMsg)
	require.True(t, ok)
	require.NoError(t, result.err)
	assert.Equal(t, "first clue", result.node.Text)

	m.Update(msg)
	require.Len(t, m.Session().Nodes(), 1)
	assert.Equal(t, "created-1", m.Session().Nodes()[0].ID)
	assert.Equal(t, 1, store.creates)
}

func TestCreateLLMNodeWithCtrlL(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(t, store)

	m.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	require.Equal(t, canvas.StateCreating, m.Session().State().Kind)

	typeText(m, "summarize the week")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	require.NotNil(t, cmd)

	result := cmd().(createResultMsg)
	require.NoError(t, result.err)
	assert.Equal(t, models.NodeTypeLLM, result.node.Type)
}

func TestEmptyDraftStaysInOverlay(t *testing.T) {
	m := newTestModel(t, &fakeStore{})

	m.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, canvas.StateCreating, m.Session().State().Kind)
}

func TestEscCancelsOverlay(t *testing.T) {
	m := newTestModel(t, &fakeStore{})

	m.Update(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	typeText(m, "discarded")
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, canvas.StateIdle, m.Session().State().Kind)
	assert.Empty(t, m.Session().Nodes())
}

func TestDragCommitsOneUpdate(t *testing.T) {
	store := &fakeStore{nodes: []models.Node{{
		ID: "n1", HuntID: "hunt-1", X: 80, Y: 80, Width: 200, Height: 50, Text: "clue",
	}}}
	m := newTestModel(t, store)

	// Cell (13, 6) is canvas (104, 90), inside the node.
	press(m, 13, 6)
	require.Equal(t, canvas.StateDragging, m.Session().State().Kind)

	motion(m, 20, 6)
	motion(m, 25, 7)
	cmd := release(m, 25, 7)
	require.NotNil(t, cmd)

	m.Update(cmd())
	assert.Equal(t, 1, store.updates)
	assert.Equal(t, canvas.StateIdle, m.Session().State().Kind)
}

func TestDoubleClickOnNodeOpensEditOverlay(t *testing.T) {
	store := &fakeStore{nodes: []models.Node{{
		ID: "n1", HuntID: "hunt-1", X: 80, Y: 80, Width: 200, Height: 50, Text: "old text",
	}}}
	m := newTestModel(t, store)

	press(m, 13, 6)
	release(m, 13, 6)
	press(m, 13, 6)

	require.Equal(t, canvas.StateEditing, m.Session().State().Kind)
	assert.Equal(t, "old text", m.Session().State().Draft)
	assert.Contains(t, m.View(), "Edit node")
}

func TestSlowSecondClickIsNotADoubleClick(t *testing.T) {
	m := New(Options{
		Hunt:        &models.Hunt{ID: "hunt-1", Name: "test hunt"},
		Store:       &fakeStore{},
		DoubleClick: time.Millisecond,
	})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m.Update(nodesLoadedMsg{})

	press(m, 10, 5)
	release(m, 10, 5)
	time.Sleep(5 * time.Millisecond)
	press(m, 10, 5)

	assert.Equal(t, canvas.StatePanning, m.Session().State().Kind)
}

func TestWriteFailureShowsNotice(t *testing.T) {
	store := &fakeStore{
		nodes:      []models.Node{{ID: "n1", HuntID: "hunt-1", X: 80, Y: 80, Width: 200, Height: 50, Text: "clue"}},
		failUpdate: errors.New("connection refused"),
	}
	m := newTestModel(t, store)

	press(m, 13, 6)
	motion(m, 20, 6)
	cmd := release(m, 20, 6)
	require.NotNil(t, cmd)

	wait := m.waitEventCmd()
	m.Update(cmd())

	busMsg := wait()
	require.NotNil(t, busMsg)
	m.Update(busMsg)

	assert.Contains(t, m.View(), "save failed")
	assert.Contains(t, m.notice, "connection refused")
}

func TestPanningNeverWrites(t *testing.T) {
	store := &fakeStore{}
	m := newTestModel(t, store)

	press(m, 10, 5)
	require.Equal(t, canvas.StatePanning, m.Session().State().Kind)
	motion(m, 20, 8)
	cmd := release(m, 20, 8)

	assert.Nil(t, cmd)
	assert.Equal(t, 0, store.updates)
	assert.NotZero(t, m.Session().Pan().X)
}

func TestViewRendersNodeBoxes(t *testing.T) {
	store := &fakeStore{nodes: []models.Node{{
		ID: "n1", HuntID: "hunt-1", X: 80, Y: 80, Width: 270, Height: 50, Text: "clue",
	}}}
	m := newTestModel(t, store)

	view := m.View()
	assert.Contains(t, view, "┌")
	assert.Contains(t, view, "clue")
	assert.Contains(t, view, "test hunt")
}

func TestGridSurfaceBoxTypes(t *testing.T) {
	s := newGridSurface(60, 12)
	s.Box(0, 0, 270, 50, models.NodeTypeNote)
	s.Box(320, 0, 270, 50, models.NodeTypeLLM)

	out := s.String()
	assert.Contains(t, out, "┌")
	assert.Contains(t, out, "╔")
}

func TestGridSurfaceLineStopsAtBoxes(t *testing.T) {
	s := newGridSurface(60, 12)
	s.Line(0, 90, 400, 90)
	s.Box(0, 72, 100, 50, models.NodeTypeNote)

	lines := strings.Split(s.String(), "\n")
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "─")
	// The box interior was cleared after the edge was drawn.
	assert.Contains(t, joined, "┌")
}

func TestThemeSelectsPalette(t *testing.T) {
	dark := newStyles("default")
	light := newStyles("light")
	require.NotEqual(t, dark.header.GetForeground(), light.header.GetForeground())

	// Unknown themes fall back to the default palette.
	assert.Equal(t, dark.header.GetForeground(), newStyles("mystery").header.GetForeground())

	m := New(Options{
		Hunt:  &models.Hunt{ID: "hunt-1", Name: "themed"},
		Store: &fakeStore{},
		Theme: "light",
	})
	assert.Equal(t, light.header.GetForeground(), m.styles.header.GetForeground())
}
