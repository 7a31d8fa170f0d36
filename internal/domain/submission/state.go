package submission

// State is where a single invoice submission is in its lifecycle
type State string

const (
	StateIdle       State = "IDLE"
	StateSubmitting State = "SUBMITTING"
	StateSucceeded  State = "SUCCEEDED"
	StateFailed     State = "FAILED"
)

var validStates = map[State]bool{
	StateIdle:       true,
	StateSubmitting: true,
	StateSucceeded:  true,
	StateFailed:     true,
}

var outcomeStates = map[State]bool{
	StateSucceeded: true,
	StateFailed:    true,
}

// IsOutcome returns true if the state records how the boundary call ended
func (s State) IsOutcome() bool {
	return outcomeStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known submission state
func (s State) IsValid() bool {
	return validStates[s]
}
