package term

import "errors"

var (
	// ErrInstanceNotFound is returned for operations against a disposed or
	// unknown instance ID.
	ErrInstanceNotFound = errors.New("terminal instance not found")
	// ErrNoGroup is returned when a live instance has no resolvable split
	// group. Every rendered instance must belong to exactly one group, so
	// hitting this is an invariant violation, not a runtime condition.
	ErrNoGroup = errors.New("terminal instance has no split group")
	// ErrNotReady is returned when text is sent before the shell process is
	// running.
	ErrNotReady = errors.New("terminal instance not ready")
)
