package submission

import (
	"fmt"
	"sync"
)

// transitions is the lifecycle Idle -> Submitting -> {Succeeded, Failed} -> Idle
var transitions = map[State]map[Trigger]State{
	StateIdle: {
		TriggerDispatch: StateSubmitting,
	},
	StateSubmitting: {
		TriggerSucceed: StateSucceeded,
		TriggerFail:    StateFailed,
	},
	StateSucceeded: {
		TriggerReset: StateIdle,
	},
	StateFailed: {
		TriggerReset: StateIdle,
	},
}

// Listener observes every accepted transition
type Listener func(from, to State, trigger Trigger)

// Machine tracks the state of one submission
type Machine struct {
	mu        sync.Mutex
	current   State
	outcome   State
	listeners []Listener
}

// NewMachine creates a machine in the Idle state
func NewMachine(listeners ...Listener) *Machine {
	return &Machine{
		current:   StateIdle,
		listeners: listeners,
	}
}

// State returns the current state
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Outcome returns the last Succeeded or Failed state reached, empty before any
func (m *Machine) Outcome() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcome
}

// CanFire returns true if the trigger is permitted in the current state
func (m *Machine) CanFire(trigger Trigger) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := transitions[m.current][trigger]
	return ok
}

// Fire applies the trigger and notifies listeners
func (m *Machine) Fire(trigger Trigger) error {
	m.mu.Lock()
	from := m.current
	to, ok := transitions[from][trigger]
	if !ok {
		m.mu.Unlock()
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, from)
	}
	m.current = to
	if to.IsOutcome() {
		m.outcome = to
	}
	listeners := m.listeners
	m.mu.Unlock()

	for _, l := range listeners {
		l(from, to, trigger)
	}
	return nil
}

// PermittedTriggers returns the triggers accepted in the current state
func (m *Machine) PermittedTriggers() []Trigger {
	m.mu.Lock()
	defer m.mu.Unlock()

	triggers := make([]Trigger, 0, len(transitions[m.current]))
	for trigger := range transitions[m.current] {
		triggers = append(triggers, trigger)
	}
	return triggers
}
