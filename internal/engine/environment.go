package engine

// Environment is the simulator surface the trainer drives: reset to a start
// state, then apply one action per tick.
type Environment interface {
	// Reset re-initializes the simulator and returns the starting observation.
	Reset() Observation
	// Step applies one action and returns the resulting observation, the
	// reward for the transition, and whether the episode ended.
	Step(Action) (Observation, float64, bool)
}

// StepEvent is a notable happening during a simulator step, returned as data
// instead of being written to some shared narration buffer.
type StepEvent struct {
	Kind    string
	Message string
}

// EventSource is implemented by environments that report the events of the
// most recent step.
type EventSource interface {
	LastEvents() []StepEvent
}
