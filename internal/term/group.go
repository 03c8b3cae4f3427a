package term

// group is a set of instances rendered together as a split view. Every live
// instance belongs to exactly one group; single instances form a group of one.
type group struct {
	id      string
	members []string
}

func (g *group) remove(id string) {
	for i, m := range g.members {
		if m == id {
			g.members = append(g.members[:i], g.members[i+1:]...)
			return
		}
	}
}

func (g *group) insertAfter(anchor, id string) {
	for i, m := range g.members {
		if m == anchor {
			g.members = append(g.members[:i+1], append([]string{id}, g.members[i+1:]...)...)
			return
		}
	}
	g.members = append(g.members, id)
}

// GroupInfo is the read-only view of a split group.
type GroupInfo struct {
	ID        string
	Instances []string
}

// Position reports the 1-based position of id within the group and the group
// size. ok is false when id is not a member.
func (g GroupInfo) Position(id string) (pos, size int, ok bool) {
	for i, m := range g.Instances {
		if m == id {
			return i + 1, len(g.Instances), true
		}
	}
	return 0, len(g.Instances), false
}
