package domain

// State is the checkout orchestrator's position in the handoff sequence.
type State string

const (
	StateIdle        State = "idle"
	StateRequesting  State = "requesting"
	StateRedirecting State = "redirecting"
	StateFailed      State = "failed"
)

func (s State) String() string {
	return string(s)
}

// Status is the observable checkout state. Loading is true from the moment a
// checkout starts until it reaches a terminal outcome.
type Status struct {
	State   State `json:"state"`
	Loading bool  `json:"loading"`
}

// IdleStatus is the resting status of a fresh orchestrator.
func IdleStatus() Status {
	return Status{State: StateIdle}
}
