package tabslist

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"termtabs/internal/term"
)

// Service is the slice of the terminal service the widget consumes.
type Service interface {
	Instances() []term.Snapshot
	ActiveInstanceID() string
	SetActiveInstance(id string) error
	CreateTerminal(ctx context.Context, launch *term.ShellLaunchConfig) (term.Snapshot, error)
	SplitInstance(ctx context.Context, id string) (term.Snapshot, error)
	DisposeInstance(ctx context.Context, id string) error
	FocusInstance(id string) error
	SendText(id, text string, addNewline bool) error
	GroupForInstance(id string) (term.GroupInfo, error)
	PreparePathForShell(ctx context.Context, path string, shell term.ShellType) (string, error)
}

// NoticeMsg surfaces widget outcomes on the app status line.
type NoticeMsg struct {
	Text  string
	IsErr bool
}

const (
	// headerHeight is the row count above the first tab row.
	headerHeight = 1
	// doubleClickInterval is the longest gap between two clicks that still
	// counts as a double click.
	doubleClickInterval = 400 * time.Millisecond
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a6adc8")).
			Bold(true)
	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cdd6f4"))
	activeRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#cdd6f4")).
			Background(lipgloss.Color("#313244")).
			Bold(true)
	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1e1e2e")).
				Background(lipgloss.Color("#b4befe"))
	prefixStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6c7086"))
	actionBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9399b2"))
	badgeWarningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f9e2af"))
	badgeErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f38ba8"))
	badgeInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94e2d5"))
)

// Model is the tabs list widget: one row per terminal instance.
type Model struct {
	svc              Service
	width            int
	height           int
	focused          bool
	singleClickFocus bool

	rows   []term.Snapshot
	cursor int
	offset int

	selected map[string]struct{}

	lastClickAt  time.Time
	lastClickRow int

	drag dragController
}

// New builds the widget around a terminal service.
func New(svc Service, singleClickFocus bool) Model {
	return Model{
		svc:              svc,
		singleClickFocus: singleClickFocus,
		selected:         make(map[string]struct{}),
		lastClickRow:     -1,
	}
}

// Refresh re-reads the instance snapshots. The app calls it on every service
// change notification.
func (m *Model) Refresh() {
	m.rows = m.svc.Instances()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	for id := range m.selected {
		if !m.hasRow(id) {
			delete(m.selected, id)
		}
	}
	m.clampOffset()
}

func (m *Model) hasRow(id string) bool {
	for _, r := range m.rows {
		if r.ID == id {
			return true
		}
	}
	return false
}

// SetSize updates the widget viewport.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampOffset()
}

// SetFocused toggles keyboard focus for the list.
func (m *Model) SetFocused(focused bool) { m.focused = focused }

// Focused reports whether the list has keyboard focus.
func (m Model) Focused() bool { return m.focused }

// CursorID returns the instance under the cursor, or "".
func (m Model) CursorID() string {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ""
	}
	return m.rows[m.cursor].ID
}

// SelectedIDs returns the multi-selection in row order.
func (m Model) SelectedIDs() []string {
	out := make([]string, 0, len(m.selected))
	for _, r := range m.rows {
		if _, ok := m.selected[r.ID]; ok {
			out = append(out, r.ID)
		}
	}
	return out
}

func (m *Model) maxVisible() int {
	n := m.height - headerHeight
	if n < 1 {
		n = 1
	}
	return n
}

func (m *Model) clampOffset() {
	if m.offset > len(m.rows)-m.maxVisible() {
		m.offset = len(m.rows) - m.maxVisible()
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) ensureCursorVisible() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.maxVisible() {
		m.offset = m.cursor - m.maxVisible() + 1
	}
	m.clampOffset()
}

// rowAt maps a local Y coordinate to a row index, or -1 for empty space.
func (m *Model) rowAt(y int) int {
	idx := m.offset + y - headerHeight
	if y < headerHeight || idx < 0 || idx >= len(m.rows) {
		return -1
	}
	return idx
}

// Update handles keys (when focused), mouse events in local coordinates, and
// the drag hover timer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case hoverFiredMsg:
		if m.drag.fire(msg) {
			return m, m.activate(msg.id, false)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.ensureCursorVisible()
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.ensureCursorVisible()
		}
	case "enter":
		if id := m.CursorID(); id != "" {
			return m, m.activate(id, true)
		}
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if msg.Action == tea.MouseActionPress {
			m.offset--
			m.clampOffset()
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if msg.Action == tea.MouseActionPress {
			m.offset++
			m.clampOffset()
		}
		return m, nil
	case tea.MouseButtonLeft:
		switch msg.Action {
		case tea.MouseActionPress:
			return m.handleLeftPress(msg)
		case tea.MouseActionMotion:
			// A held button moving across rows is a drag in progress.
			return m, m.DragHover(m.rowAt(msg.Y))
		case tea.MouseActionRelease:
			return m, nil
		}
	case tea.MouseButtonMiddle:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if idx := m.rowAt(msg.Y); idx >= 0 {
			// Middle click closes the terminal.
			return m, m.dispose(m.rows[idx].ID)
		}
	case tea.MouseButtonRight:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		return m.handleRightPress(msg)
	case tea.MouseButtonNone:
		if msg.Action == tea.MouseActionMotion {
			return m, m.DragHover(m.rowAt(msg.Y))
		}
	}
	return m, nil
}

func (m Model) handleLeftPress(msg tea.MouseMsg) (Model, tea.Cmd) {
	idx := m.rowAt(msg.Y)
	now := time.Now()
	isDouble := idx == m.lastClickRow && now.Sub(m.lastClickAt) <= doubleClickInterval
	m.lastClickAt = now
	m.lastClickRow = idx

	if idx < 0 {
		// Empty space: double click opens a fresh terminal.
		m.selected = make(map[string]struct{})
		if isDouble {
			m.lastClickRow = -1
			return m, m.createTerminal()
		}
		return m, nil
	}

	inst := m.rows[idx]
	m.cursor = idx
	m.ensureCursorVisible()

	if zone := m.actionBarZone(msg.X); zone != actionNone {
		switch zone {
		case actionSplit:
			return m, m.split(inst.ID)
		case actionKill:
			return m, m.dispose(inst.ID)
		}
	}

	if msg.Ctrl {
		if _, ok := m.selected[inst.ID]; ok {
			delete(m.selected, inst.ID)
		} else {
			m.selected[inst.ID] = struct{}{}
		}
		return m, nil
	}

	if isDouble {
		m.lastClickRow = -1
		return m, m.activate(inst.ID, true)
	}

	// A plain click collapses the selection to this row; ctrl+click
	// returned above.
	m.selected = map[string]struct{}{inst.ID: {}}
	if m.singleClickFocus {
		return m, m.focus(inst.ID)
	}
	return m, nil
}

// handleRightPress keeps an existing multi-selection intact so context
// actions can apply to all of it; otherwise the clicked row takes focus.
func (m Model) handleRightPress(msg tea.MouseMsg) (Model, tea.Cmd) {
	idx := m.rowAt(msg.Y)
	if idx < 0 {
		return m, nil
	}
	inst := m.rows[idx]
	if _, ok := m.selected[inst.ID]; ok {
		return m, nil
	}
	m.selected = map[string]struct{}{inst.ID: {}}
	m.cursor = idx
	m.ensureCursorVisible()
	return m, m.focus(inst.ID)
}

type actionZone int

const (
	actionNone actionZone = iota
	actionSplit
	actionKill
)

// actionBarZone maps a local X coordinate to an inline button. The bar is the
// trailing " ⊞ ✕" cell block rendered only on wide lists.
func (m Model) actionBarZone(x int) actionZone {
	if !ActionBarVisible(m.width) {
		return actionNone
	}
	switch {
	case x >= m.width-2 && x < m.width:
		return actionKill
	case x >= m.width-4 && x < m.width-2:
		return actionSplit
	default:
		return actionNone
	}
}

func (m Model) activate(id string, focus bool) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if focus {
			if err := svc.FocusInstance(id); err != nil {
				return NoticeMsg{Text: err.Error(), IsErr: true}
			}
			return nil
		}
		if err := svc.SetActiveInstance(id); err != nil {
			return NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return nil
	}
}

func (m Model) focus(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.FocusInstance(id); err != nil {
			return NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return nil
	}
}

func (m Model) dispose(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if err := svc.DisposeInstance(context.Background(), id); err != nil {
			return NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return NoticeMsg{Text: "Terminal closed"}
	}
}

func (m Model) split(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		if _, err := svc.SplitInstance(context.Background(), id); err != nil {
			return NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return NoticeMsg{Text: "Terminal split"}
	}
}

func (m Model) createTerminal() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		snap, err := svc.CreateTerminal(context.Background(), nil)
		if err != nil {
			return NoticeMsg{Text: err.Error(), IsErr: true}
		}
		if err := svc.SetActiveInstance(snap.ID); err != nil {
			return NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return NoticeMsg{Text: "Terminal created"}
	}
}

// View renders the widget. Rendering a live instance without a resolvable
// group is an invariant violation and panics.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("TERMINALS (%d)", len(m.rows))))
	visible := m.maxVisible()
	for i := m.offset; i < len(m.rows) && i < m.offset+visible; i++ {
		b.WriteString("\n")
		line, err := m.renderRow(m.rows[i], i == m.cursor)
		if err != nil {
			panic(fmt.Sprintf("tabs list: %v", err))
		}
		b.WriteString(line)
	}
	return b.String()
}
