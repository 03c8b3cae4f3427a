package term

// EventKind enumerates the change notifications the service emits.
type EventKind int

const (
	// EventInstancesChanged fires when instances are created, disposed, or
	// reordered.
	EventInstancesChanged EventKind = iota
	// EventTitleChanged fires when an instance's title changes.
	EventTitleChanged
	// EventIconChanged fires when an instance's icon or color changes.
	EventIconChanged
	// EventPrimaryStatusChanged fires when an instance's status list changes.
	EventPrimaryStatusChanged
	// EventActiveInstanceChanged fires when the active instance changes.
	EventActiveInstanceChanged
	// EventFocusRequested fires when an instance asks for input focus.
	EventFocusRequested
	// EventFocusTabsRequested fires when the tabs list itself should take focus.
	EventFocusTabsRequested
)

func (k EventKind) String() string {
	switch k {
	case EventInstancesChanged:
		return "instances-changed"
	case EventTitleChanged:
		return "title-changed"
	case EventIconChanged:
		return "icon-changed"
	case EventPrimaryStatusChanged:
		return "primary-status-changed"
	case EventActiveInstanceChanged:
		return "active-instance-changed"
	case EventFocusRequested:
		return "focus-requested"
	case EventFocusTabsRequested:
		return "focus-tabs-requested"
	default:
		return "unknown"
	}
}

// Event is a single change notification. InstanceID is empty for events that
// concern the whole list.
type Event struct {
	Kind       EventKind
	InstanceID string
}

// emit delivers an event without blocking the caller. The channel is sized
// generously; a full channel means the UI stopped draining, and dropping is
// preferable to deadlocking a runner goroutine.
func (s *Service) emit(e Event) {
	if s.closed {
		return
	}
	select {
	case s.events <- e:
	default:
		s.log.Warn("event dropped", "kind", e.Kind.String(), "instance", e.InstanceID)
	}
}

// Events returns the change notification channel. It is closed by Close.
func (s *Service) Events() <-chan Event {
	return s.events
}
