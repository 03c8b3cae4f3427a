package term

import "context"

// SessionRecord is the persisted shape of an instance, enough to relaunch it
// on the next run.
type SessionRecord struct {
	ID       string
	Title    string
	Icon     string
	Color    string
	Shell    string
	Args     []string
	Cwd      string
	Type     string
	GroupID  string
	GroupPos int
}

// SessionStore persists session records across runs. A nil store disables
// persistence.
type SessionStore interface {
	SaveInstance(ctx context.Context, rec SessionRecord) error
	DeleteInstance(ctx context.Context, id string) error
	ListInstances(ctx context.Context) ([]SessionRecord, error)
}

func (i *instance) record(pos int) SessionRecord {
	return SessionRecord{
		ID:       i.id,
		Title:    i.title,
		Icon:     i.icon,
		Color:    i.color,
		Shell:    i.launch.Executable,
		Args:     i.launch.Args,
		Cwd:      i.launch.Cwd,
		Type:     string(i.launch.Type),
		GroupID:  i.groupID,
		GroupPos: pos,
	}
}
