package tabslist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"termtabs/internal/term"
)

const (
	// textMinWidth is the narrowest list that still shows titles. Below it
	// rows collapse to icon plus status badge.
	textMinWidth = 14
	// actionBarMinWidth is the narrowest list that shows the inline split
	// and kill buttons.
	actionBarMinWidth = 26
)

const (
	splitGlyphFirst  = "┌"
	splitGlyphMiddle = "├"
	splitGlyphLast   = "└"
	actionBar        = " ⊞ ✕"
)

// TextVisible reports whether a list of the given width shows tab titles.
func TextVisible(width int) bool { return width >= textMinWidth }

// ActionBarVisible reports whether a list of the given width shows the
// inline action buttons.
func ActionBarVisible(width int) bool { return width >= actionBarMinWidth }

// splitPrefix returns the tree glyph for a member of a split group, or a
// blank cell for a solo terminal.
func splitPrefix(pos, size int) string {
	if size <= 1 {
		return " "
	}
	switch pos {
	case 1:
		return splitGlyphFirst
	case size:
		return splitGlyphLast
	default:
		return splitGlyphMiddle
	}
}

var colorNames = map[string]string{
	"red":      "#f38ba8",
	"peach":    "#fab387",
	"yellow":   "#f9e2af",
	"green":    "#a6e3a1",
	"teal":     "#94e2d5",
	"cyan":     "#89dceb",
	"blue":     "#89b4fa",
	"lavender": "#b4befe",
	"pink":     "#f5c2e7",
	"magenta":  "#cba6f7",
}

// iconFor styles the instance icon with its user color when one is set.
func iconFor(inst term.Snapshot) string {
	icon := inst.Icon
	if icon == "" {
		icon = "❯"
	}
	if hex, ok := colorNames[inst.Color]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render(icon)
	}
	return icon
}

func badgeStyle(sev term.Severity) lipgloss.Style {
	switch sev {
	case term.SeverityError:
		return badgeErrorStyle
	case term.SeverityWarning:
		return badgeWarningStyle
	default:
		return badgeInfoStyle
	}
}

// renderRow draws one tab row at the widget width. It fails when the
// instance's split group cannot be resolved.
func (m Model) renderRow(inst term.Snapshot, isCursor bool) (string, error) {
	group, err := m.svc.GroupForInstance(inst.ID)
	if err != nil {
		return "", fmt.Errorf("render row %s: %w", inst.ID, err)
	}
	pos, size, ok := group.Position(inst.ID)
	if !ok {
		return "", fmt.Errorf("render row %s: %w", inst.ID, term.ErrNoGroup)
	}

	prefix := prefixStyle.Render(splitPrefix(pos, size))
	icon := iconFor(inst)

	bar := ""
	if ActionBarVisible(m.width) {
		bar = actionBarStyle.Render(actionBar)
	}

	// Cell budget for the title: full width minus prefix, icon cell, the
	// spaces around them, and the trailing action bar.
	iconW := runewidth.StringWidth(inst.Icon)
	if iconW == 0 {
		iconW = 1
	}
	textW := m.width - 1 - 1 - iconW - 1 - runewidth.StringWidth(actionBar)*boolToInt(bar != "")

	body := ""
	switch {
	case TextVisible(m.width):
		title := runewidth.Truncate(inst.Title, max(textW, 0), "…")
		badge := ""
		if st, ok := inst.PrimaryStatus(); ok {
			badge = " " + badgeStyle(st.Severity).Render(st.Icon)
			title = runewidth.Truncate(inst.Title, max(textW-2, 0), "…")
		}
		body = title + badge
	default:
		// Too narrow for text: the status badge stands in for the title.
		if st, ok := inst.PrimaryStatus(); ok {
			body = badgeStyle(st.Severity).Render(st.Icon)
		}
	}

	line := prefix + " " + icon + " " + body
	pad := m.width - lipgloss.Width(line) - lipgloss.Width(bar)
	if pad > 0 {
		line += strings.Repeat(" ", pad)
	}
	line += bar

	style := rowStyle
	if inst.ID == m.svc.ActiveInstanceID() {
		style = activeRowStyle
	}
	if _, sel := m.selected[inst.ID]; sel {
		style = selectedRowStyle
	}
	if isCursor && m.focused {
		style = style.Underline(true)
	}
	return style.MaxWidth(m.width).Render(line), nil
}

// Tooltip aggregates the hover text for a row: the full title followed by
// every status message on its own line.
func Tooltip(inst term.Snapshot) string {
	parts := []string{inst.Title}
	for _, st := range inst.Statuses {
		if st.Tooltip != "" {
			parts = append(parts, st.Tooltip)
		}
	}
	return strings.Join(parts, "\n")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
