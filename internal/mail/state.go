package mail

// State is a step of a single Send call.
type State int

const (
	StateValidating State = iota
	StateComposing
	StateConnecting
	StateAuthenticating
	StateTransmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateComposing:
		return "composing"
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateTransmitting:
		return "transmitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
