package chat

// ProgressStep is one step of a progress track announced by the agent.
// Done and Error are mutually exclusive terminal markings; once either is
// set the step never changes again.
type ProgressStep struct {
	Label string `json:"label"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// Terminal reports whether the step has reached a terminal marking.
func (s ProgressStep) Terminal() bool {
	return s.Done || s.Error != ""
}

// Custom event names carrying progress updates. Anything else is ignored.
const (
	customProgressStart = "progress-start"
	customProgressDone  = "progress-done"
	customProgressError = "progress-error"
)

// progressStartPayload is the value of a progress-start custom event.
type progressStartPayload struct {
	ID    string         `json:"id"`
	Steps []ProgressStep `json:"steps"`
}

// progressStepPayload is the value of a progress-done or progress-error
// custom event.
type progressStepPayload struct {
	ID      string `json:"id"`
	Step    int    `json:"step"`
	Message string `json:"message,omitempty"`
}
