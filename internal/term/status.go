package term

// Severity orders status badges; higher values win the primary slot.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

// Status is one entry in an instance's ordered status list.
type Status struct {
	ID       string
	Severity Severity
	Icon     string
	Tooltip  string
}

// Well-known status IDs set by the service itself.
const (
	StatusShellExited = "shell-exited"
	StatusRelaunched  = "relaunched"
)
