package printer

// Descriptor is what port resolution learned about a named printer. Port and
// ShareName may be empty; an empty field only narrows which transports can
// run, it never fails a dispatch up front.
type Descriptor struct {
	Name      string
	Port      string
	ShareName string
}

// State tracks a dispatch through its lifecycle.
type State int

const (
	StateNotAttempted State = iota
	StateAttempting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAttempting:
		return "ATTEMPTING"
	case StateSucceeded:
		return "SUCCEEDED"
	case StateFailed:
		return "FAILED"
	default:
		return "NOT_ATTEMPTED"
	}
}

// Attempt records the outcome of one transport in the chain.
type Attempt struct {
	Strategy  string `json:"strategy"`
	Error     string `json:"error,omitempty"`
	Untrusted bool   `json:"untrusted,omitempty"`
}

// Result is the outcome of a full dispatch. A failed dispatch is data, not a
// Go error: it carries the resolved endpoint, the per-strategy attempt log
// and the retained payload path for manual recovery.
type Result struct {
	Success  bool      `json:"success"`
	State    State     `json:"-"`
	Printer  string    `json:"printer"`
	Port     string    `json:"port"`
	Share    string    `json:"share"`
	Message  string    `json:"message,omitempty"`
	TempFile string    `json:"tempFile,omitempty"`
	Attempts []Attempt `json:"attempts,omitempty"`
}
