package bootstrap

// State is the lifecycle state of an App.
//
//	INITIALIZING → RUNNING → STOPPING → STOPPED
//
// A failed Initialize or Run leaves the App in ERROR.
type State int

const (
	StateInitializing State = iota
	StateRunning
	StateStopping
	StateStopped
	StateError
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateRunning:
		return "RUNNING"
	case StateStopping:
		return "STOPPING"
	case StateStopped:
		return "STOPPED"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
