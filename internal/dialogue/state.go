package dialogue

type State int

const (
	Idle State = iota
	AwaitingCommand
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingCommand:
		return "awaiting-command"
	default:
		return "unknown"
	}
}

// Event is the outcome of one listen-interpret step.
type Event int

const (
	Silence    Event = iota // nothing usable heard
	WakeHeard               // wake phrase while idle
	Unrelated               // speech without a wake phrase while idle
	Reprompt                // wake phrase again while awaiting a command
	Cancelled
	Stopped // stop phrase that the dispatcher chose to survive
	Ignored // no command verb
	Dispatched
)

func (e Event) String() string {
	switch e {
	case Silence:
		return "silence"
	case WakeHeard:
		return "wake"
	case Unrelated:
		return "unrelated"
	case Reprompt:
		return "reprompt"
	case Cancelled:
		return "cancelled"
	case Stopped:
		return "stopped"
	case Ignored:
		return "ignored"
	case Dispatched:
		return "dispatched"
	default:
		return "unknown"
	}
}

var transitions = map[State]map[Event]State{
	Idle: {
		Silence:   Idle,
		Unrelated: Idle,
		WakeHeard: AwaitingCommand,
	},
	AwaitingCommand: {
		Silence:    Idle,
		Reprompt:   AwaitingCommand,
		Cancelled:  Idle,
		Stopped:    Idle,
		Ignored:    AwaitingCommand,
		Dispatched: Idle,
	},
}

// Next returns the state reached from s on e. Unknown pairs fall back to
// Idle.
func Next(s State, e Event) State {
	if next, ok := transitions[s][e]; ok {
		return next
	}
	return Idle
}
