package analysis

// Phase enumerates the lifecycle of an analysis request.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseError   Phase = "error"
	PhaseSuccess Phase = "success"
)

// State is the single analysis-state slot shared with the view layer.
// Message is set only for PhaseError, Result only for PhaseSuccess.
type State struct {
	Phase   Phase   `json:"phase"`
	Message string  `json:"message,omitempty"`
	Result  *Result `json:"result,omitempty"`
}

func Idle() State {
	return State{Phase: PhaseIdle}
}

func Loading() State {
	return State{Phase: PhaseLoading}
}

func Errored(message string) State {
	return State{Phase: PhaseError, Message: message}
}

func Succeeded(result *Result) State {
	return State{Phase: PhaseSuccess, Result: result}
}
