package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"

	"termtabs/internal/config"
	"termtabs/internal/term"
	"termtabs/internal/tui/tabslist"
)

type recordRunner struct {
	writes *[]string
}

func (r recordRunner) Start(context.Context) error { return nil }
func (r recordRunner) Stop() error                 { return nil }

func (r recordRunner) Write(text string) error {
	*r.writes = append(*r.writes, text)
	return nil
}

func newTestApp(t *testing.T, titles ...string) (*App, *term.Service, *[]string) {
	t.Helper()
	writes := &[]string{}
	svc := term.NewService(term.Options{
		Defaults: term.ShellLaunchConfig{Executable: "/bin/sh", Type: term.ShellSh},
		NewRunner: func(term.ShellLaunchConfig, func(error)) term.Runner {
			return recordRunner{writes: writes}
		},
	})
	t.Cleanup(svc.Close)
	for _, title := range titles {
		snap, err := svc.CreateTerminal(context.Background(), nil)
		if err != nil {
			t.Fatalf("CreateTerminal: %v", err)
		}
		if err := svc.SetTitle(snap.ID, title); err != nil {
			t.Fatalf("SetTitle: %v", err)
		}
	}
	cfg := config.Config{}
	cfg.UI.SingleClickFocus = true
	cfg.UI.ListWidth = 24
	app := New(context.Background(), cfg, svc, nil)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app.list.Refresh()
	return app, svc, writes
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds a message and executes any resulting command.
func step(t *testing.T, app *App, msg tea.Msg) {
	t.Helper()
	_, cmd := app.Update(msg)
	if cmd == nil {
		return
	}
	if out := cmd(); out != nil {
		app.Update(out)
	}
}

func TestFocusTabsEventFocusesList(t *testing.T) {
	app, _, _ := newTestApp(t, "build")

	app.Update(termEventMsg{event: term.Event{Kind: term.EventFocusTabsRequested}})
	if !app.list.Focused() {
		t.Fatal("list not focused after focus tabs event")
	}

	app.Update(termEventMsg{event: term.Event{Kind: term.EventFocusRequested}})
	if app.list.Focused() {
		t.Fatal("list still focused after terminal focus event")
	}
}

func TestRenameFlow(t *testing.T) {
	app, svc, _ := newTestApp(t, "build")
	id := app.list.CursorID()

	step(t, app, runes("r"))
	if app.modal != modalRename {
		t.Fatalf("modal = %q, want rename", app.modal)
	}
	if app.renameBuffer != "build" {
		t.Fatalf("rename buffer = %q, want current title", app.renameBuffer)
	}

	// Clear and type a new name.
	for range "build" {
		step(t, app, tea.KeyMsg{Type: tea.KeyBackspace})
	}
	step(t, app, runes("watcher"))
	step(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	snap, err := svc.Instance(id)
	if err != nil {
		t.Fatalf("Instance: %v", err)
	}
	if snap.Title != "watcher" {
		t.Errorf("title = %q, want watcher", snap.Title)
	}
	if app.modal != modalNone {
		t.Errorf("modal = %q, want closed", app.modal)
	}
}

func TestPickerFocusesFuzzyMatch(t *testing.T) {
	app, svc, _ := newTestApp(t, "build", "server", "logs")

	step(t, app, runes("p"))
	if app.modal != modalPicker {
		t.Fatalf("modal = %q, want picker", app.modal)
	}
	step(t, app, runes("ser"))
	step(t, app, tea.KeyMsg{Type: tea.KeyEnter})

	snap, err := svc.Instance(svc.ActiveInstanceID())
	if err != nil {
		t.Fatalf("Instance: %v", err)
	}
	if snap.Title != "server" {
		t.Errorf("active terminal = %q, want server", snap.Title)
	}
}

func TestPasteDuringDragSendsPath(t *testing.T) {
	app, _, writes := newTestApp(t, "build")

	// Drag over the first row, then drop via bracketed paste.
	app.Update(tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionMotion, Button: tea.MouseButtonNone})
	if app.list.DragTarget() == "" {
		t.Fatal("drag target not set by mouse motion")
	}
	step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("file:///tmp/my%20dir"), Paste: true})

	if len(*writes) != 1 {
		t.Fatalf("writes = %v, want one", *writes)
	}
	if got := (*writes)[0]; got != "'/tmp/my dir'" {
		t.Errorf("sent %q, want quoted path", got)
	}
}

func TestKillUsesMultiSelection(t *testing.T) {
	app, svc, _ := newTestApp(t, "a", "b", "c")

	click := tea.MouseMsg{X: 2, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	step(t, app, click)
	ctrl := tea.MouseMsg{X: 2, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, Ctrl: true}
	step(t, app, ctrl)

	step(t, app, runes("x"))
	app.list.Refresh()

	if got := len(svc.Instances()); got != 1 {
		t.Fatalf("instances = %d, want 1 after killing selection", got)
	}
	if !strings.Contains(app.status, "closed") {
		t.Errorf("status = %q, want close notice", app.status)
	}
}

func TestPasteIntoRenameModalEditsBuffer(t *testing.T) {
	app, _, writes := newTestApp(t, "build")

	step(t, app, runes("r"))
	if app.modal != modalRename {
		t.Fatalf("modal = %q, want rename", app.modal)
	}
	step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-ng"), Paste: true})

	if app.renameBuffer != "build-ng" {
		t.Fatalf("rename buffer = %q, want build-ng", app.renameBuffer)
	}
	if len(*writes) != 0 {
		t.Fatalf("writes = %v, paste in a modal must not reach a terminal", *writes)
	}
}

func TestPasteIntoPickerEditsQuery(t *testing.T) {
	app, _, _ := newTestApp(t, "build", "server")

	step(t, app, runes("p"))
	step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ser"), Paste: true})

	if app.picker.query != "ser" {
		t.Fatalf("picker query = %q, want ser", app.picker.query)
	}
}

func TestPasteWithoutDragTargetIsNotADrop(t *testing.T) {
	app, _, writes := newTestApp(t, "build")

	if app.list.DragTarget() != "" {
		t.Fatal("unexpected drag target")
	}
	step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/tmp/loose.txt"), Paste: true})

	if len(*writes) != 0 {
		t.Fatalf("writes = %v, want none without a drag in progress", *writes)
	}
}

func TestErrorNoticesAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := pslog.NewWithOptions(&buf, pslog.Options{
		Mode:    pslog.ModeStructured,
		NoColor: true,
	})
	app, _, _ := newTestApp(t, "build")
	app.log = logger

	app.Update(tabslist.NoticeMsg{Text: "boom", IsErr: true})
	if !strings.Contains(buf.String(), "boom") {
		t.Fatalf("log output %q missing error notice", buf.String())
	}

	buf.Reset()
	app.Update(tabslist.NoticeMsg{Text: "Terminal created"})
	if buf.Len() != 0 {
		t.Fatalf("log output %q, non-error notices should not log", buf.String())
	}
}
