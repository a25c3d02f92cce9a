package portal

// Phase is the connection state shown in the status bar.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseConnecting Phase = "connecting"
	PhaseConnected  Phase = "connected"
	PhaseFailed     Phase = "failed"
)

const (
	colorPending = "#ffa500"
	colorSuccess = "#43e97b"
	colorFailure = "#f5576c"
)

// ConnectionStatus is the status bar state.
type ConnectionStatus struct {
	Phase   Phase   `json:"phase"`
	Message string  `json:"message"`
	Color   string  `json:"color"`
	Opacity float64 `json:"opacity"`
	Visible bool    `json:"visible"`
}

func newStatus(phase Phase, message string) ConnectionStatus {
	return ConnectionStatus{
		Phase:   phase,
		Message: message,
		Color:   phase.color(),
		Opacity: 1,
		Visible: true,
	}
}

func (p Phase) color() string {
	switch p {
	case PhaseConnected:
		return colorSuccess
	case PhaseFailed:
		return colorFailure
	default:
		return colorPending
	}
}
