package autosave

// State is the phase of the auto-save cycle.
type State string

const (
	StateIdle   State = "idle"
	StateSaving State = "saving"
	StateSaved  State = "saved"
	StateError  State = "error"
)

// ErrorKind classifies a failed save.
type ErrorKind string

const (
	ErrorValidation ErrorKind = "validation"
	ErrorStorage    ErrorKind = "storage"
	ErrorUnknown    ErrorKind = "unknown"
)

// Status is the observable state of the coordinator.
type Status struct {
	State  State     `json:"state"`
	Kind   ErrorKind `json:"kind,omitempty"`
	Reason string    `json:"reason,omitempty"`
}

// Text returns the message shown to the user for the status.
func (s Status) Text() string {
	switch s.State {
	case StateSaving:
		return "Saving..."
	case StateSaved:
		return "All changes saved"
	case StateError:
		switch s.Kind {
		case ErrorValidation:
			return "Validation error: Please check your data."
		case ErrorStorage:
			return "Storage error: " + s.Reason
		default:
			return "Unknown error occurred during save."
		}
	default:
		return ""
	}
}

// IsError reports whether the last save attempt failed.
func (s Status) IsError() bool {
	return s.State == StateError
}
