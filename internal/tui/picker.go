package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"termtabs/internal/term"
)

// rankTabs orders instances by how well their titles match the query.
// Prefix matches beat substring matches, which beat edit-distance matches;
// titles too far from the query are dropped entirely. An empty query keeps
// list order.
func rankTabs(query string, rows []term.Snapshot) []term.Snapshot {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]term.Snapshot, len(rows))
		copy(out, rows)
		return out
	}

	type scored struct {
		snap  term.Snapshot
		score int
	}
	var matches []scored
	for _, r := range rows {
		title := strings.ToLower(r.Title)
		switch {
		case strings.HasPrefix(title, query):
			matches = append(matches, scored{r, 0})
		case strings.Contains(title, query):
			matches = append(matches, scored{r, 1})
		default:
			d := levenshtein.ComputeDistance(query, title)
			// Allow roughly one typo per three query characters.
			if d <= len(query)/3+1 {
				matches = append(matches, scored{r, 1 + d})
			}
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score < matches[j].score })

	out := make([]term.Snapshot, len(matches))
	for i, m := range matches {
		out[i] = m.snap
	}
	return out
}

// picker is the fuzzy tab switcher modal.
type picker struct {
	query   string
	matches []term.Snapshot
	cursor  int
}

func newPicker(rows []term.Snapshot) picker {
	return picker{matches: rankTabs("", rows)}
}

func (p *picker) setQuery(query string, rows []term.Snapshot) {
	p.query = query
	p.matches = rankTabs(query, rows)
	if p.cursor >= len(p.matches) {
		p.cursor = len(p.matches) - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
}

func (p *picker) moveCursor(delta int) {
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if p.cursor >= len(p.matches) {
		p.cursor = len(p.matches) - 1
	}
}

func (p picker) selection() (term.Snapshot, bool) {
	if p.cursor < 0 || p.cursor >= len(p.matches) {
		return term.Snapshot{}, false
	}
	return p.matches[p.cursor], true
}
