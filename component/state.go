package component

// State is a component lifecycle state.
//
//	CREATED → INITIALIZING → INITIALIZED → STARTING → STARTED → STOPPING → STOPPED
//
// A failing hook moves the component to ERROR. ERROR is left only by a new
// Initialize or by Stop.
type State int

const (
	StateCreated State = iota
	StateInitializing
	StateInitialized
	StateStarting
	StateStarted
	StateStopping
	StateStopped
	StateError
)

var stateNames = [...]string{
	StateCreated:      "CREATED",
	StateInitializing: "INITIALIZING",
	StateInitialized:  "INITIALIZED",
	StateStarting:     "STARTING",
	StateStarted:      "STARTED",
	StateStopping:     "STOPPING",
	StateStopped:      "STOPPED",
	StateError:        "ERROR",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

// Stoppable reports whether Stop does anything in state s.
func (s State) Stoppable() bool {
	return s == StateStarted || s == StateError
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
