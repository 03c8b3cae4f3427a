package term

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"pkt.systems/pslog"
)

// Service owns every terminal instance: creation, disposal, grouping, the
// active instance, and change notifications. Everything else in the program
// observes it through Snapshot values and the Events channel.
type Service struct {
	mu           sync.Mutex
	log          pslog.Logger
	defaults     ShellLaunchConfig
	store        SessionStore
	newRunner    RunnerFactory
	instances    map[string]*instance
	order        []string
	groups       map[string]*group
	active       string
	pendingFocus map[string]bool
	events       chan Event
	closed       bool
}

// Options configures a Service. Logger and Defaults are required in practice;
// Store and NewRunner have working defaults.
type Options struct {
	Logger    pslog.Logger
	Defaults  ShellLaunchConfig
	Store     SessionStore
	NewRunner RunnerFactory
}

// NewService constructs an empty service.
func NewService(opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	factory := opts.NewRunner
	if factory == nil {
		factory = NewExecRunner
	}
	return &Service{
		log:          logger,
		defaults:     opts.Defaults,
		store:        opts.Store,
		newRunner:    factory,
		instances:    make(map[string]*instance),
		groups:       make(map[string]*group),
		pendingFocus: make(map[string]bool),
		events:       make(chan Event, 128),
	}
}

// CreateTerminal creates a new instance in its own group and starts its
// shell. A nil launch uses the service defaults.
func (s *Service) CreateTerminal(ctx context.Context, launch *ShellLaunchConfig) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cfg := s.defaults
	if launch != nil {
		cfg = *launch
	}
	inst, err := s.createLocked(ctx, cfg, "")
	if err != nil {
		return Snapshot{}, err
	}
	if s.active == "" {
		s.setActiveLocked(inst.id)
	}
	s.emit(Event{Kind: EventInstancesChanged})
	s.log.Info("terminal created", "instance", inst.id, "shell", cfg.Executable)
	return inst.snapshot(s.active == inst.id), nil
}

// SplitInstance creates a sibling instance in the same group as id, placed
// directly after it. The sibling inherits id's launch config.
func (s *Service) SplitInstance(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	src, ok := s.instances[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("split %s: %w", id, ErrInstanceNotFound)
	}
	inst, err := s.createLocked(ctx, src.launch, src.groupID)
	if err != nil {
		return Snapshot{}, err
	}
	s.groups[src.groupID].insertAfter(id, inst.id)
	s.insertOrderAfter(id, inst.id)
	s.persistGroupLocked(src.groupID)
	s.emit(Event{Kind: EventInstancesChanged})
	s.log.Info("terminal split", "instance", inst.id, "from", id)
	return inst.snapshot(false), nil
}

// createLocked builds and starts an instance. An empty groupID allocates a
// fresh single-member group.
func (s *Service) createLocked(ctx context.Context, cfg ShellLaunchConfig, groupID string) (*instance, error) {
	id := uuid.NewString()
	fresh := groupID == ""
	if fresh {
		groupID = uuid.NewString()
	}
	inst := &instance{
		id:       id,
		title:    titleForLaunch(cfg),
		icon:     defaultIcon,
		resource: cfg.Cwd,
		launch:   cfg,
		groupID:  groupID,
	}
	inst.runner = s.newRunner(cfg, func(err error) { s.onRunnerExit(id, err) })
	if err := inst.runner.Start(ctx); err != nil {
		return nil, fmt.Errorf("create terminal: %w", err)
	}
	inst.ready = true
	s.instances[id] = inst
	if fresh {
		s.groups[groupID] = &group{id: groupID, members: []string{id}}
		s.order = append(s.order, id)
		s.persistInstanceLocked(inst)
	}
	return inst, nil
}

// DisposeInstance stops the shell and removes the instance. When the active
// instance is disposed, the next one in list order (preferring its own group)
// becomes active.
func (s *Service) DisposeInstance(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return fmt.Errorf("dispose %s: %w", id, ErrInstanceNotFound)
	}
	if inst.runner != nil {
		if err := inst.runner.Stop(); err != nil {
			s.log.Warn("runner stop failed", "instance", id, "err", err)
		}
	}
	if g, ok := s.groups[inst.groupID]; ok {
		g.remove(id)
		if len(g.members) == 0 {
			delete(s.groups, inst.groupID)
		}
	}
	s.removeOrder(id)
	delete(s.instances, id)
	delete(s.pendingFocus, id)
	if s.store != nil {
		if err := s.store.DeleteInstance(ctx, id); err != nil {
			s.log.Warn("session delete failed", "instance", id, "err", err)
		}
	}
	if s.active == id {
		s.setActiveLocked(s.nextActiveLocked(inst.groupID))
	}
	s.emit(Event{Kind: EventInstancesChanged})
	s.log.Info("terminal disposed", "instance", id)
	return nil
}

func (s *Service) nextActiveLocked(preferGroup string) string {
	if g, ok := s.groups[preferGroup]; ok && len(g.members) > 0 {
		return g.members[0]
	}
	if len(s.order) > 0 {
		return s.order[0]
	}
	return ""
}

// SetActiveInstance makes id the active instance.
func (s *Service) SetActiveInstance(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[id]; !ok {
		return fmt.Errorf("activate %s: %w", id, ErrInstanceNotFound)
	}
	s.setActiveLocked(id)
	return nil
}

func (s *Service) setActiveLocked(id string) {
	if s.active == id {
		return
	}
	s.active = id
	s.emit(Event{Kind: EventActiveInstanceChanged, InstanceID: id})
}

// ActiveInstanceID returns the active instance ID, or "" when there is none.
func (s *Service) ActiveInstanceID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// FocusInstance activates id and requests input focus for it.
func (s *Service) FocusInstance(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[id]; !ok {
		return fmt.Errorf("focus %s: %w", id, ErrInstanceNotFound)
	}
	s.setActiveLocked(id)
	s.emit(Event{Kind: EventFocusRequested, InstanceID: id})
	return nil
}

// FocusWhenReady focuses id immediately if its shell is running, otherwise
// defers the focus until it is.
func (s *Service) FocusWhenReady(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return fmt.Errorf("focus %s: %w", id, ErrInstanceNotFound)
	}
	if !inst.ready {
		s.pendingFocus[id] = true
		return nil
	}
	s.setActiveLocked(id)
	s.emit(Event{Kind: EventFocusRequested, InstanceID: id})
	return nil
}

// FocusTabs asks the UI to move input focus to the tab list itself.
func (s *Service) FocusTabs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit(Event{Kind: EventFocusTabsRequested})
}

// Instances returns snapshots in list order.
func (s *Service) Instances() []Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Snapshot, 0, len(s.order))
	for _, id := range s.order {
		if inst, ok := s.instances[id]; ok {
			out = append(out, inst.snapshot(id == s.active))
		}
	}
	return out
}

// Instance returns a snapshot of one instance.
func (s *Service) Instance(id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return Snapshot{}, fmt.Errorf("instance %s: %w", id, ErrInstanceNotFound)
	}
	return inst.snapshot(id == s.active), nil
}

// GroupForInstance resolves the split group of a live instance. A live
// instance without a group is a programming error surfaced as ErrNoGroup.
func (s *Service) GroupForInstance(id string) (GroupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return GroupInfo{}, fmt.Errorf("group for %s: %w", id, ErrInstanceNotFound)
	}
	g, ok := s.groups[inst.groupID]
	if !ok {
		return GroupInfo{}, fmt.Errorf("group for %s: %w", id, ErrNoGroup)
	}
	members := make([]string, len(g.members))
	copy(members, g.members)
	return GroupInfo{ID: g.id, Instances: members}, nil
}

// SendText writes text into the instance's shell input. addNewline appends a
// line break so the shell executes the text immediately.
func (s *Service) SendText(id, text string, addNewline bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return fmt.Errorf("send text %s: %w", id, ErrInstanceNotFound)
	}
	if addNewline {
		text += "\n"
	}
	if err := inst.runner.Write(text); err != nil {
		return fmt.Errorf("send text %s: %w", id, err)
	}
	return nil
}

// SetTitle renames an instance.
func (s *Service) SetTitle(id, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return fmt.Errorf("set title %s: %w", id, ErrInstanceNotFound)
	}
	if inst.title == title {
		return nil
	}
	inst.title = title
	s.persistInstanceLocked(inst)
	s.emit(Event{Kind: EventTitleChanged, InstanceID: id})
	return nil
}

// SetIcon changes an instance's icon glyph.
func (s *Service) SetIcon(id, icon string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return fmt.Errorf("set icon %s: %w", id, ErrInstanceNotFound)
	}
	inst.icon = icon
	s.persistInstanceLocked(inst)
	s.emit(Event{Kind: EventIconChanged, InstanceID: id})
	return nil
}

// SetColor changes an instance's accent color name.
func (s *Service) SetColor(id, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return fmt.Errorf("set color %s: %w", id, ErrInstanceNotFound)
	}
	inst.color = color
	s.persistInstanceLocked(inst)
	s.emit(Event{Kind: EventIconChanged, InstanceID: id})
	return nil
}

// AddStatus appends (or replaces, by ID) a status entry.
func (s *Service) AddStatus(id string, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return fmt.Errorf("add status %s: %w", id, ErrInstanceNotFound)
	}
	for i, st := range inst.statuses {
		if st.ID == status.ID {
			inst.statuses = append(inst.statuses[:i], inst.statuses[i+1:]...)
			break
		}
	}
	inst.statuses = append(inst.statuses, status)
	s.emit(Event{Kind: EventPrimaryStatusChanged, InstanceID: id})
	return nil
}

// RemoveStatus drops a status entry by ID. Removing an absent status is a
// no-op.
func (s *Service) RemoveStatus(id, statusID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return fmt.Errorf("remove status %s: %w", id, ErrInstanceNotFound)
	}
	for i, st := range inst.statuses {
		if st.ID == statusID {
			inst.statuses = append(inst.statuses[:i], inst.statuses[i+1:]...)
			s.emit(Event{Kind: EventPrimaryStatusChanged, InstanceID: id})
			return nil
		}
	}
	return nil
}

// RelaunchInstance restarts the shell of an instance whose process exited,
// using its original launch config. Deferred focus requests are honored once
// the shell is running again.
func (s *Service) RelaunchInstance(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return fmt.Errorf("relaunch %s: %w", id, ErrInstanceNotFound)
	}
	if inst.runner != nil {
		if err := inst.runner.Stop(); err != nil {
			s.log.Warn("runner stop failed", "instance", id, "err", err)
		}
	}
	inst.runner = s.newRunner(inst.launch, func(err error) { s.onRunnerExit(id, err) })
	if err := inst.runner.Start(ctx); err != nil {
		return fmt.Errorf("relaunch %s: %w", id, err)
	}
	inst.ready = true
	for i, st := range inst.statuses {
		if st.ID == StatusShellExited {
			inst.statuses = append(inst.statuses[:i], inst.statuses[i+1:]...)
			break
		}
	}
	inst.statuses = append(inst.statuses, Status{
		ID:       StatusRelaunched,
		Severity: SeverityInfo,
		Icon:     "↻",
		Tooltip:  "Shell relaunched",
	})
	s.emit(Event{Kind: EventPrimaryStatusChanged, InstanceID: id})
	if s.pendingFocus[id] {
		delete(s.pendingFocus, id)
		s.setActiveLocked(id)
		s.emit(Event{Kind: EventFocusRequested, InstanceID: id})
	}
	s.log.Info("terminal relaunched", "instance", id)
	return nil
}

// onRunnerExit flags an instance whose shell terminated on its own.
func (s *Service) onRunnerExit(id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.instances[id]
	if !ok {
		return
	}
	inst.ready = false
	tooltip := "Shell exited"
	if err != nil {
		tooltip = fmt.Sprintf("Shell exited: %v", err)
	}
	inst.statuses = append(inst.statuses, Status{
		ID:       StatusShellExited,
		Severity: SeverityError,
		Icon:     "⚠",
		Tooltip:  tooltip,
	})
	s.emit(Event{Kind: EventPrimaryStatusChanged, InstanceID: id})
	s.log.Warn("shell exited", "instance", id, "err", err)
}

// Close stops every runner and closes the event channel.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, inst := range s.instances {
		if inst.runner != nil {
			if err := inst.runner.Stop(); err != nil {
				s.log.Warn("runner stop failed", "instance", id, "err", err)
			}
		}
	}
	close(s.events)
}

func (s *Service) insertOrderAfter(anchor, id string) {
	for i, o := range s.order {
		if o == anchor {
			s.order = append(s.order[:i+1], append([]string{id}, s.order[i+1:]...)...)
			return
		}
	}
	s.order = append(s.order, id)
}

func (s *Service) removeOrder(id string) {
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

func (s *Service) persistInstanceLocked(inst *instance) {
	if s.store == nil {
		return
	}
	pos := 0
	if g, ok := s.groups[inst.groupID]; ok {
		for i, m := range g.members {
			if m == inst.id {
				pos = i
				break
			}
		}
	}
	if err := s.store.SaveInstance(context.Background(), inst.record(pos)); err != nil {
		s.log.Warn("session save failed", "instance", inst.id, "err", err)
	}
}

func (s *Service) persistGroupLocked(groupID string) {
	g, ok := s.groups[groupID]
	if !ok {
		return
	}
	for _, id := range g.members {
		if inst, ok := s.instances[id]; ok {
			s.persistInstanceLocked(inst)
		}
	}
}

const defaultIcon = "❯"

func titleForLaunch(cfg ShellLaunchConfig) string {
	if cfg.Executable == "" {
		return "shell"
	}
	return filepath.Base(cfg.Executable)
}
