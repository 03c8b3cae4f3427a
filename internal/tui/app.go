package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"pkt.systems/pslog"

	"termtabs/internal/config"
	"termtabs/internal/term"
	"termtabs/internal/tui/tabslist"
)

// App is the root model: the tabs list sidebar, a detail pane for the
// active terminal, and a status footer.
type App struct {
	ctx context.Context
	cfg config.Config
	svc *term.Service
	log pslog.Logger

	list   tabslist.Model
	picker picker

	width        int
	height       int
	sidebarWidth int

	modal        modalState
	renameBuffer string
	renamingID   string

	status    string
	statusErr bool
}

type modalState string

const (
	modalNone   modalState = ""
	modalRename modalState = "rename"
	modalPicker modalState = "picker"
)

func New(ctx context.Context, cfg config.Config, svc *term.Service, log pslog.Logger) *App {
	if log == nil {
		log = pslog.Ctx(ctx)
	}
	list := tabslist.New(svc, cfg.UI.SingleClickFocus)
	list.Refresh()
	return &App{
		ctx:          ctx,
		cfg:          cfg,
		svc:          svc,
		log:          log,
		list:         list,
		sidebarWidth: cfg.UI.ListWidth,
	}
}

func (a *App) Init() tea.Cmd {
	return waitEvent(a.svc.Events())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.sidebarWidth = a.cfg.UI.ListWidth
		if a.sidebarWidth > a.width/2 {
			a.sidebarWidth = a.width / 2
		}
		if a.sidebarWidth < 8 {
			a.sidebarWidth = 8
		}
		a.list.SetSize(a.sidebarWidth, a.height-2)
		return a, nil

	case eventsClosedMsg:
		return a, tea.Quit

	case termEventMsg:
		a.handleEvent(m.event)
		return a, waitEvent(a.svc.Events())

	case tabslist.NoticeMsg:
		a.status = m.Text
		a.statusErr = m.IsErr
		if m.IsErr {
			a.log.Warn("operation failed", "err", m.Text)
		}
		return a, nil

	case tea.KeyMsg:
		if m.Paste {
			return a.handlePaste(string(m.Runes))
		}
		if a.modal == modalRename {
			return a.handleRenameKey(m)
		}
		if a.modal == modalPicker {
			return a.handlePickerKey(m)
		}
		return a.handleKey(m)

	case tea.MouseMsg:
		if m.X < a.sidebarWidth {
			var cmd tea.Cmd
			a.list, cmd = a.list.Update(m)
			return a, cmd
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(msg)
	return a, cmd
}

func (a *App) handleEvent(ev term.Event) {
	switch ev.Kind {
	case term.EventFocusTabsRequested:
		a.list.SetFocused(true)
	case term.EventFocusRequested:
		a.list.SetFocused(false)
		a.list.Refresh()
	default:
		a.list.Refresh()
	}
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, keys.Quit):
		return a, tea.Quit

	case key.Matches(m, keys.FocusTabs):
		a.svc.FocusTabs()
		return a, nil

	case key.Matches(m, keys.FocusActive):
		a.list.SetFocused(false)
		a.status = ""
		return a, nil

	case key.Matches(m, keys.NewTerminal):
		return a, a.createTerminalCmd()

	case key.Matches(m, keys.KillTerminal):
		ids := a.list.SelectedIDs()
		if len(ids) == 0 {
			if id := a.list.CursorID(); id != "" {
				ids = []string{id}
			}
		}
		if len(ids) == 0 {
			return a, nil
		}
		return a, a.disposeCmd(ids)

	case key.Matches(m, keys.Split):
		id := a.list.CursorID()
		if id == "" {
			return a, nil
		}
		return a, a.splitCmd(id)

	case key.Matches(m, keys.Rename):
		id := a.list.CursorID()
		if id == "" {
			return a, nil
		}
		snap, err := a.svc.Instance(id)
		if err != nil {
			return a, nil
		}
		a.modal = modalRename
		a.renamingID = id
		a.renameBuffer = snap.Title
		return a, nil

	case key.Matches(m, keys.Relaunch):
		id := a.list.CursorID()
		if id == "" {
			return a, nil
		}
		return a, a.relaunchCmd(id)

	case key.Matches(m, keys.Picker):
		a.modal = modalPicker
		a.picker = newPicker(a.svc.Instances())
		return a, nil
	}

	var cmd tea.Cmd
	a.list, cmd = a.list.Update(m)
	return a, cmd
}

// handlePaste routes bracketed paste: an open modal consumes it as text
// input; otherwise it is a file drop, but only while a drag hovers the list.
func (a *App) handlePaste(payload string) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalRename:
		a.renameBuffer += payload
		return a, nil
	case modalPicker:
		a.picker.setQuery(a.picker.query+payload, a.svc.Instances())
		return a, nil
	}
	if a.list.DragTarget() == "" {
		return a, nil
	}
	return a, a.list.Drop(payload)
}

func (a *App) handleRenameKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		a.renameBuffer = ""
		a.renamingID = ""
	case tea.KeyEnter:
		title := strings.TrimSpace(a.renameBuffer)
		id := a.renamingID
		a.modal = modalNone
		a.renameBuffer = ""
		a.renamingID = ""
		if title == "" || id == "" {
			return a, nil
		}
		return a, a.renameCmd(id, title)
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.renameBuffer) > 0 {
			a.renameBuffer = a.renameBuffer[:len(a.renameBuffer)-1]
		}
	case tea.KeySpace:
		a.renameBuffer += " "
	case tea.KeyRunes:
		a.renameBuffer += string(m.Runes)
	}
	return a, nil
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
	case tea.KeyEnter:
		sel, ok := a.picker.selection()
		a.modal = modalNone
		if !ok {
			return a, nil
		}
		return a, a.focusCmd(sel.ID)
	case tea.KeyUp, tea.KeyCtrlP:
		a.picker.moveCursor(-1)
	case tea.KeyDown, tea.KeyCtrlN:
		a.picker.moveCursor(1)
	case tea.KeyBackspace, tea.KeyCtrlH:
		if len(a.picker.query) > 0 {
			a.picker.setQuery(a.picker.query[:len(a.picker.query)-1], a.svc.Instances())
		}
	case tea.KeySpace:
		a.picker.setQuery(a.picker.query+" ", a.svc.Instances())
	case tea.KeyRunes:
		a.picker.setQuery(a.picker.query+string(m.Runes), a.svc.Instances())
	}
	return a, nil
}

// commands

func (a *App) createTerminalCmd() tea.Cmd {
	return func() tea.Msg {
		snap, err := a.svc.CreateTerminal(a.ctx, nil)
		if err != nil {
			return tabslist.NoticeMsg{Text: err.Error(), IsErr: true}
		}
		if err := a.svc.FocusWhenReady(snap.ID); err != nil {
			return tabslist.NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return tabslist.NoticeMsg{Text: "Terminal created"}
	}
}

func (a *App) disposeCmd(ids []string) tea.Cmd {
	return func() tea.Msg {
		for _, id := range ids {
			if err := a.svc.DisposeInstance(a.ctx, id); err != nil {
				return tabslist.NoticeMsg{Text: err.Error(), IsErr: true}
			}
		}
		if len(ids) == 1 {
			return tabslist.NoticeMsg{Text: "Terminal closed"}
		}
		return tabslist.NoticeMsg{Text: fmt.Sprintf("%d terminals closed", len(ids))}
	}
}

func (a *App) splitCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := a.svc.SplitInstance(a.ctx, id); err != nil {
			return tabslist.NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return tabslist.NoticeMsg{Text: "Terminal split"}
	}
}

func (a *App) renameCmd(id, title string) tea.Cmd {
	return func() tea.Msg {
		if err := a.svc.SetTitle(id, title); err != nil {
			return tabslist.NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return tabslist.NoticeMsg{Text: "Renamed to " + title}
	}
}

func (a *App) relaunchCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.svc.RelaunchInstance(a.ctx, id); err != nil {
			return tabslist.NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return tabslist.NoticeMsg{Text: "Shell relaunched"}
	}
}

func (a *App) focusCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := a.svc.FocusInstance(id); err != nil {
			return tabslist.NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return nil
	}
}

func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}
	sidebar := sidebarStyle.
		Width(a.sidebarWidth).
		Height(a.height - 2).
		Render(a.list.View())
	detail := lipgloss.NewStyle().
		Width(a.width - a.sidebarWidth - 1).
		Height(a.height - 2).
		Padding(0, 1).
		Render(a.renderDetail())
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, detail)

	out := body + "\n" + a.renderFooter()
	if a.modal != modalNone {
		out += "\n" + a.renderModal()
	}
	return out
}

func (a *App) renderDetail() string {
	id := a.svc.ActiveInstanceID()
	if id == "" {
		return detailLabelStyle.Render("No terminals. Press n to create one.")
	}
	snap, err := a.svc.Instance(id)
	if err != nil {
		return detailLabelStyle.Render("No terminals. Press n to create one.")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(snap.Title))
	b.WriteString("\n\n")
	if label, err := a.list.AccessibilityLabelFor(id); err == nil {
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString("\n")
	}
	b.WriteString(detailLabelStyle.Render("Shell: "))
	b.WriteString(snap.Shell.Executable)
	b.WriteString("\n")
	if snap.Resource != "" {
		b.WriteString(detailLabelStyle.Render("Cwd: "))
		b.WriteString(snap.Resource)
		b.WriteString("\n")
	}
	if !snap.Ready {
		b.WriteString(statusErrStyle.Render("Shell not running"))
		b.WriteString("\n")
	}
	if len(snap.Statuses) > 0 {
		b.WriteString("\n")
		b.WriteString(tabslist.Tooltip(snap))
	}
	return b.String()
}

func (a *App) renderFooter() string {
	help := helpStyle.Render("[n] new  [s] split  [x] kill  [r] rename  [R] relaunch  [p] switch  [tab] tabs  [q] quit")
	if a.status == "" {
		return help
	}
	style := statusStyle
	if a.statusErr {
		style = statusErrStyle
	}
	return help + "  " + style.Render(a.status)
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalRename:
		return modalStyle.Render(fmt.Sprintf("Rename terminal\n%s▌\n[enter] Save  [esc] Cancel", a.renameBuffer))
	case modalPicker:
		var b strings.Builder
		b.WriteString(fmt.Sprintf("Switch terminal: %s▌\n", a.picker.query))
		for i, snap := range a.picker.matches {
			marker := "  "
			if i == a.picker.cursor {
				marker = pickerMatchStyle.Render("▶ ")
			}
			b.WriteString(fmt.Sprintf("%s%s\n", marker, snap.Title))
		}
		if len(a.picker.matches) == 0 {
			b.WriteString(detailLabelStyle.Render("  no matches\n"))
		}
		b.WriteString("[enter] Focus  [esc] Cancel")
		return modalStyle.Render(b.String())
	default:
		return ""
	}
}
