package tabslist

import (
	"fmt"

	"termtabs/internal/term"
)

// AccessibilityLabel builds the screen-reader label for a tab row. The
// ordinal is the 1-based position of the row in the list. Split members get
// their position within the group appended.
func AccessibilityLabel(ordinal int, inst term.Snapshot, pos, size int) string {
	if size > 1 {
		return fmt.Sprintf("Terminal %d %s, split %d of %d", ordinal, inst.Title, pos, size)
	}
	return fmt.Sprintf("Terminal %d %s", ordinal, inst.Title)
}

// AccessibilityLabelFor resolves the label for a row by instance ID.
func (m Model) AccessibilityLabelFor(id string) (string, error) {
	for i, inst := range m.rows {
		if inst.ID != id {
			continue
		}
		group, err := m.svc.GroupForInstance(id)
		if err != nil {
			return "", err
		}
		pos, size, ok := group.Position(id)
		if !ok {
			return "", term.ErrNoGroup
		}
		return AccessibilityLabel(i+1, inst, pos, size), nil
	}
	return "", term.ErrInstanceNotFound
}
