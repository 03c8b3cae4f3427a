package tabslist

import (
	"context"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"termtabs/internal/term"
)

// hoverActivateDelay is how long a drag must hover over a tab before the
// tab auto-activates so the drop can land inside it.
const hoverActivateDelay = 500 * time.Millisecond

// hoverFiredMsg is emitted when the hover timer for one target elapses. The
// seq ties it to the hover generation that scheduled it; stale timers are
// ignored.
type hoverFiredMsg struct {
	seq int
	id  string
}

// dragController tracks the current drag hover target. Moving to a new
// target restarts the timer, and each target activates at most once per
// hover.
type dragController struct {
	hoverID string
	seq     int
	fired   bool
}

func (d *dragController) hover(id string) (int, bool) {
	if id == d.hoverID {
		return 0, false
	}
	d.hoverID = id
	d.seq++
	d.fired = false
	return d.seq, id != ""
}

func (d *dragController) fire(msg hoverFiredMsg) bool {
	if msg.seq != d.seq || msg.id != d.hoverID || d.fired {
		return false
	}
	d.fired = true
	return true
}

func (d *dragController) reset() {
	d.hoverID = ""
	d.seq++
	d.fired = false
}

// DragHover records the row index a drag is over and schedules the
// auto-activate timer for it. An index of -1 clears the target.
func (m *Model) DragHover(idx int) tea.Cmd {
	id := ""
	if idx >= 0 && idx < len(m.rows) {
		id = m.rows[idx].ID
	}
	seq, schedule := m.drag.hover(id)
	if !schedule {
		return nil
	}
	return tea.Tick(hoverActivateDelay, func(time.Time) tea.Msg {
		return hoverFiredMsg{seq: seq, id: id}
	})
}

// DragTarget returns the instance a drag currently hovers, or "".
func (m Model) DragTarget() string { return m.drag.hoverID }

// Drop delivers a dropped payload to the hovered terminal, falling back to
// the cursor row. The payload's filesystem path is quoted for the target
// shell and typed into it without a newline.
func (m *Model) Drop(payload string) tea.Cmd {
	defer m.drag.reset()

	path, ok := PathFromDropPayload(payload)
	if !ok {
		return nil
	}
	target := m.drag.hoverID
	if target == "" {
		target = m.CursorID()
	}
	if target == "" {
		return nil
	}
	var inst *term.Snapshot
	for i := range m.rows {
		if m.rows[i].ID == target {
			inst = &m.rows[i]
			break
		}
	}
	if inst == nil {
		return nil
	}
	shell := inst.Shell.Type
	title := inst.Title
	svc := m.svc
	return func() tea.Msg {
		if err := svc.FocusInstance(target); err != nil {
			return NoticeMsg{Text: err.Error(), IsErr: true}
		}
		prepared, err := svc.PreparePathForShell(context.Background(), path, shell)
		if err != nil {
			return NoticeMsg{Text: err.Error(), IsErr: true}
		}
		if err := svc.SendText(target, prepared, false); err != nil {
			return NoticeMsg{Text: err.Error(), IsErr: true}
		}
		return NoticeMsg{Text: "Path sent to " + title}
	}
}

// PathFromDropPayload extracts a filesystem path from a drop payload. File
// manager drops arrive as file:// URI lists; plain paths pass through. Only
// the first entry of a multi-item drop is used.
func PathFromDropPayload(payload string) (string, bool) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", false
	}
	first := payload
	if i := strings.IndexAny(payload, "\r\n"); i >= 0 {
		first = strings.TrimSpace(payload[:i])
	}
	if strings.HasPrefix(first, "file://") {
		u, err := url.Parse(first)
		if err != nil || u.Path == "" {
			return "", false
		}
		return u.Path, true
	}
	if strings.HasPrefix(first, "/") || strings.HasPrefix(first, "~") {
		return first, true
	}
	return "", false
}
