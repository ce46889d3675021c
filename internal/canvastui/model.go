// Package canvastui is the interactive terminal canvas for a hunt's
// node graph. Mouse gestures drive the canvas session state machine;
// persistence runs asynchronously through bubbletea commands so the
// interaction loop never blocks on the store.
package canvastui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/spoor-app/spoor/internal/canvas"
	"github.com/spoor-app/spoor/internal/events"
	"github.com/spoor-app/spoor/internal/models"
)

// headerRows and footerRows frame the canvas area inside the terminal.
const (
	headerRows = 1
	footerRows = 1
)

const defaultDoubleClick = 350 * time.Millisecond

type nodesLoadedMsg struct {
	nodes []models.Node
	err   error
}

type createResultMsg struct {
	node *models.Node
	err  error
}

type updateResultMsg struct {
	nodeID string
	node   *models.Node
	err    error
}

type busEventMsg struct {
	event events.Event
}

// Options configures the canvas model.
type Options struct {
	Hunt   *models.Hunt
	Store  canvas.Store
	Logger zerolog.Logger

	// Theme selects the color palette (default, light).
	Theme string

	// DoubleClick is the maximum gap between presses that counts as a
	// double click. Zero means the default.
	DoubleClick time.Duration
}

// Model is the bubbletea model for the canvas.
type Model struct {
	hunt    *models.Hunt
	store   canvas.Store
	session *canvas.Session
	render  *canvas.Renderer
	logger  zerolog.Logger
	styles  styles

	bus   *events.Bus
	busCh chan events.Event

	width  int
	height int

	input       textarea.Model
	notice      string
	loadErr     error
	doubleClick time.Duration

	lastPressAt time.Time
	lastPressX  int
	lastPressY  int
}

// New creates a canvas model for a hunt.
func New(opts Options) *Model {
	bus := events.NewBus()

	engine := canvas.NewEngine(nil)
	session := canvas.NewSession(canvas.SessionConfig{
		HuntID: opts.Hunt.ID,
		Engine: engine,
		Logger: opts.Logger,
		Bus:    bus,
	})

	input := textarea.New()
	input.Placeholder = "node text"
	input.ShowLineNumbers = false
	input.SetWidth(48)
	input.SetHeight(4)

	window := opts.DoubleClick
	if window <= 0 {
		window = defaultDoubleClick
	}

	m := &Model{
		hunt:        opts.Hunt,
		store:       opts.Store,
		session:     session,
		render:      canvas.NewRenderer(engine),
		logger:      opts.Logger,
		styles:      newStyles(opts.Theme),
		bus:         bus,
		busCh:       make(chan events.Event, 16),
		input:       input,
		doubleClick: window,
	}

	// Only failures reach the footer; created/updated events stay quiet.
	_ = bus.Subscribe("canvastui", events.Filter{Types: []events.Type{events.TypeWriteFailed}}, func(ev events.Event) {
		select {
		case m.busCh <- ev:
		default:
		}
	})

	return m
}

// Session exposes the underlying canvas session.
func (m *Model) Session() *canvas.Session { return m.session }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitEventCmd())
}

func (m *Model) loadCmd() tea.Cmd {
	store := m.store
	huntID := m.hunt.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		nodes, err := store.ListNodes(ctx, huntID)
		return nodesLoadedMsg{nodes: nodes, err: err}
	}
}

func (m *Model) createCmd(eff *canvas.CreateEffect) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		node, err := store.CreateNode(ctx, eff.HuntID, eff.Draft)
		return createResultMsg{node: node, err: err}
	}
}

func (m *Model) updateCmd(eff *canvas.UpdateEffect) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		node, err := store.UpdateNode(ctx, eff.NodeID, eff.Node)
		return updateResultMsg{nodeID: eff.NodeID, node: node, err: err}
	}
}

func (m *Model) waitEventCmd() tea.Cmd {
	ch := m.busCh
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return busEventMsg{event: ev}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil

	case nodesLoadedMsg:
		if typed.err != nil {
			m.loadErr = typed.err
			m.session.LoadFailed(typed.err)
			return m, nil
		}
		m.loadErr = nil
		m.session.SetNodes(typed.nodes)
		return m, nil

	case createResultMsg:
		if typed.err != nil {
			m.session.WriteFailed("create", "", typed.err)
			return m, nil
		}
		m.session.ApplyCreated(*typed.node)
		return m, nil

	case updateResultMsg:
		if typed.err != nil {
			m.session.WriteFailed("update", typed.nodeID, typed.err)
			return m, nil
		}
		m.session.ApplyUpdated(*typed.node)
		return m, nil

	case busEventMsg:
		if typed.event.Type == events.TypeWriteFailed {
			m.notice = fmt.Sprintf("save failed (%s): %s", typed.event.Op, typed.event.Err)
		}
		return m, m.waitEventCmd()

	case tea.KeyMsg:
		return m.handleKey(typed)

	case tea.MouseMsg:
		return m.handleMouse(typed)
	}

	return m, nil
}

func (m *Model) overlayOpen() bool {
	kind := m.session.State().Kind
	return kind == canvas.StateCreating || kind == canvas.StateEditing
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlayOpen() {
		return m.handleOverlayKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "r":
		return m, m.loadCmd()
	case "left", "h":
		m.panBy(unitsPerCol*2, 0)
	case "right", "l":
		m.panBy(-unitsPerCol*2, 0)
	case "up", "k":
		m.panBy(0, unitsPerRow)
	case "down", "j":
		m.panBy(0, -unitsPerRow)
	case "n":
		// Keyboard path to the create overlay: center of the view.
		cx := float64(m.width) / 2 * unitsPerCol
		cy := float64(m.canvasHeight()) / 2 * unitsPerRow
		m.session.ContextClick(cx, cy)
		m.openOverlay("")
	}
	return m, nil
}

// panBy fakes a pan gesture through the state machine so keyboard and
// mouse panning share one code path.
func (m *Model) panBy(dx, dy float64) {
	m.session.PointerDown(-1e9, -1e9)
	if m.session.State().Kind != canvas.StatePanning {
		return
	}
	m.session.PointerMove(-1e9+dx, -1e9+dy)
	m.session.PointerUp()
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.session.Cancel()
		m.input.Blur()
		return m, nil
	case "enter":
		return m.confirmOverlay(models.NodeTypeNote)
	case "ctrl+l":
		return m.confirmOverlay(models.NodeTypeLLM)
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.SetDraft(m.input.Value())
	return m, cmd
}

func (m *Model) confirmOverlay(typ models.NodeType) (tea.Model, tea.Cmd) {
	m.session.SetDraft(m.input.Value())

	switch m.session.State().Kind {
	case canvas.StateCreating:
		eff := m.session.ConfirmCreate(typ)
		if eff == nil {
			// Empty draft stays in the overlay.
			return m, nil
		}
		m.input.Blur()
		return m, m.createCmd(eff)
	case canvas.StateEditing:
		eff := m.session.ConfirmEdit()
		if eff == nil {
			return m, nil
		}
		m.input.Blur()
		return m, m.updateCmd(eff)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.overlayOpen() {
		return m, nil
	}

	x := float64(msg.X) * unitsPerCol
	y := float64(msg.Y-headerRows) * unitsPerRow

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if m.isDoubleClick(msg.X, msg.Y) {
				m.lastPressAt = time.Time{}
				m.session.DoubleClick(x, y)
				if m.overlayOpen() {
					m.openOverlay(m.session.State().Draft)
				}
				return m, nil
			}
			m.lastPressAt = time.Now()
			m.lastPressX = msg.X
			m.lastPressY = msg.Y
			m.session.PointerDown(x, y)
		case tea.MouseButtonRight:
			m.session.ContextClick(x, y)
			m.openOverlay("")
		}

	case tea.MouseActionMotion:
		m.session.PointerMove(x, y)

	case tea.MouseActionRelease:
		kind := m.session.State().Kind
		if kind == canvas.StateDragging || kind == canvas.StatePanning {
			if eff := m.session.PointerUp(); eff != nil {
				return m, m.updateCmd(eff)
			}
		}
	}

	return m, nil
}

func (m *Model) isDoubleClick(x, y int) bool {
	if m.lastPressAt.IsZero() {
		return false
	}
	if time.Since(m.lastPressAt) > m.doubleClick {
		return false
	}
	return x == m.lastPressX && y == m.lastPressY
}

func (m *Model) openOverlay(draft string) {
	if !m.overlayOpen() {
		return
	}
	m.input.SetValue(draft)
	m.input.Focus()
	m.notice = ""
}

func (m *Model) canvasHeight() int {
	return maxInt(1, m.height-headerRows-footerRows)
}

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	surface := newGridSurface(m.width, m.canvasHeight())
	m.render.Render(surface, m.session.Nodes(), m.session.Pan())

	header := m.renderHeader()
	footer := m.renderFooter()
	body := surface.String()

	if m.overlayOpen() {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.renderOverlay(), footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) renderHeader() string {
	name := m.hunt.Name
	state := m.session.State().Kind.String()
	head := fmt.Sprintf("CANVAS  %s  nodes:%d  [%s]", name, len(m.session.Nodes()), state)
	return m.styles.header.Width(m.width).Render(truncate(head, m.width))
}

func (m *Model) renderFooter() string {
	if m.notice != "" {
		return m.styles.notice.Width(m.width).Render(truncate(m.notice, m.width))
	}
	if m.loadErr != nil {
		return m.styles.notice.Width(m.width).Render(truncate("load failed: "+m.loadErr.Error(), m.width))
	}
	help := "drag: move  dblclick: edit/new  rclick: new  n: new  arrows: pan  r: reload  q: quit"
	return m.styles.footer.Width(m.width).Render(truncate(help, m.width))
}

func (m *Model) renderOverlay() string {
	title := "New node  (enter: note, ctrl+l: llm, esc: cancel)"
	if m.session.State().Kind == canvas.StateEditing {
		title = "Edit node  (enter: save, esc: cancel)"
	}
	panel := m.styles.overlay.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.overlayTitle.Render(title),
		m.input.View(),
	))
	return lipgloss.Place(m.width, m.canvasHeight(), lipgloss.Center, lipgloss.Center, panel)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 1 {
		return string(runes[:width])
	}
	return string(runes[:width-1]) + "…"
}

// Run starts the canvas program in the alternate screen with full mouse
// reporting, and blocks until the user quits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	m.bus.Close()
	return err
}
