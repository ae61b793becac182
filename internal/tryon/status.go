package tryon

// Status is the remote job state reported by the status endpoint.
// Values the API may add later map to StatusUnrecognized and end the session.
type Status int

const (
	StatusUnrecognized Status = iota
	StatusPending
	StatusProcessing
	StatusCompleted
	StatusFailed
)

// ParseStatus maps the wire value onto Status
func ParseStatus(s string) Status {
	switch s {
	case "pending":
		return StatusPending
	case "processing":
		return StatusProcessing
	case "completed":
		return StatusCompleted
	case "failed":
		return StatusFailed
	default:
		return StatusUnrecognized
	}
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unrecognized"
	}
}

// Terminal reports whether no further status query follows this state
func (s Status) Terminal() bool {
	return s != StatusPending && s != StatusProcessing
}

// SubmissionResult is the decoded body of a successful submission
type SubmissionResult struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// StatusResult is the decoded body of a successful status query
type StatusResult struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Output []string `json:"output,omitempty"`
	Error  string   `json:"error"`
}
