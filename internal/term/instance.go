package term

// ShellType identifies the quoting dialect of a shell.
type ShellType string

const (
	ShellSh   ShellType = "sh"
	ShellBash ShellType = "bash"
	ShellZsh  ShellType = "zsh"
	ShellFish ShellType = "fish"
	ShellPwsh ShellType = "pwsh"
	ShellCmd  ShellType = "cmd"
)

// ShellLaunchConfig describes how an instance's shell process is started.
// It is fixed at creation time.
type ShellLaunchConfig struct {
	Executable string
	Args       []string
	Cwd        string
	Type       ShellType
}

// instance is the service-owned state of a single terminal session.
// It is never handed out directly; callers see Snapshot values.
type instance struct {
	id       string
	title    string
	icon     string
	color    string
	resource string
	launch   ShellLaunchConfig
	groupID  string
	statuses []Status
	runner   Runner
	ready    bool
}

// Snapshot is a read-only copy of an instance's display state.
type Snapshot struct {
	ID       string
	Title    string
	Icon     string
	Color    string
	Resource string
	Shell    ShellLaunchConfig
	GroupID  string
	Statuses []Status
	Active   bool
	Ready    bool
}

func (i *instance) snapshot(active bool) Snapshot {
	statuses := make([]Status, len(i.statuses))
	copy(statuses, i.statuses)
	return Snapshot{
		ID:       i.id,
		Title:    i.title,
		Icon:     i.icon,
		Color:    i.color,
		Resource: i.resource,
		Shell:    i.launch,
		GroupID:  i.groupID,
		Statuses: statuses,
		Active:   active,
		Ready:    i.ready,
	}
}

// PrimaryStatus returns the badge shown when row text is hidden: the highest
// severity status, preferring the most recently added on ties.
func (s Snapshot) PrimaryStatus() (Status, bool) {
	found := false
	var primary Status
	for _, st := range s.Statuses {
		if !found || st.Severity >= primary.Severity {
			primary = st
			found = true
		}
	}
	return primary, found
}
