package voice

// State is one of the five session states in the barge-in protocol.
type State string

const (
	StateIdle        State = "IDLE"
	StateListening   State = "LISTENING"
	StateProcessing  State = "PROCESSING"
	StateSpeaking    State = "SPEAKING"
	StateInterrupted State = "INTERRUPTED"
)

var validTransitions = map[State]map[State]bool{
	StateIdle:        {StateListening: true},
	StateListening:   {StateProcessing: true, StateIdle: true},
	StateProcessing:  {StateSpeaking: true, StateListening: true, StateIdle: true},
	StateSpeaking:    {StateInterrupted: true, StateListening: true, StateIdle: true},
	StateInterrupted: {StateListening: true, StateIdle: true},
}

// stateMachine enforces the transition table. Rejection never throws —
// Transition returns a boolean success flag and leaves the state
// unchanged.
type stateMachine struct {
	current State
	logger  Logger
}

func newStateMachine(logger Logger) *stateMachine {
	if logger == nil {
		logger = NoOpLogger{}
	}
	return &stateMachine{current: StateIdle, logger: logger}
}

func (m *stateMachine) State() State {
	return m.current
}

// Transition moves the machine to next if the transition is valid. It
// returns false and logs a warning otherwise, leaving current unchanged.
func (m *stateMachine) Transition(next State) bool {
	if allowed, ok := validTransitions[m.current]; !ok || !allowed[next] {
		m.logger.Warn("rejected invalid state transition", "from", m.current, "to", next)
		return false
	}
	m.current = next
	return true
}
