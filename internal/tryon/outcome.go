package tryon

// OutcomeKind classifies how a try-on session ended
type OutcomeKind int

const (
	KindSucceeded OutcomeKind = iota
	KindConfigurationError
	KindHTTPError
	KindRemoteJobError
	KindProcessingFailure
	KindEmptyResult
	KindUnknownRemoteState
	KindTransientTransportError
	KindAttemptBudgetExhausted
	KindCanceled
)

var kindNames = map[OutcomeKind]string{
	KindSucceeded:               "succeeded",
	KindConfigurationError:      "configuration_error",
	KindHTTPError:               "http_error",
	KindRemoteJobError:          "remote_job_error",
	KindProcessingFailure:       "processing_failure",
	KindEmptyResult:             "empty_result",
	KindUnknownRemoteState:      "unknown_remote_state",
	KindTransientTransportError: "transient_transport_error",
	KindAttemptBudgetExhausted:  "attempt_budget_exhausted",
	KindCanceled:                "canceled",
}

func (k OutcomeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Outcome is the only value the core hands back to its callers
type Outcome struct {
	Success   bool        `json:"success"`
	ResultURL string      `json:"result_url,omitempty"`
	Error     string      `json:"error,omitempty"`
	ID        string      `json:"id,omitempty"`
	Kind      OutcomeKind `json:"-"`
}

// terminal is the state a session ended in before it is mapped to an Outcome
type terminal struct {
	kind      OutcomeKind
	resultURL string
	message   string
}

func classify(id string, t terminal) Outcome {
	if t.kind == KindSucceeded {
		return Outcome{Success: true, ResultURL: t.resultURL, ID: id, Kind: t.kind}
	}
	return Outcome{Success: false, Error: t.message, ID: id, Kind: t.kind}
}

// classifyStatus maps one status response onto a terminal state.
// ok is false while the job is still pending or processing.
func classifyStatus(res *StatusResult) (t terminal, ok bool) {
	if res.Error != "" {
		return terminal{kind: KindRemoteJobError, message: res.Error}, true
	}

	switch ParseStatus(res.Status) {
	case StatusCompleted:
		if len(res.Output) > 0 {
			return terminal{kind: KindSucceeded, resultURL: res.Output[0]}, true
		}
		return terminal{kind: KindEmptyResult, message: MessageNoOutput}, true
	case StatusFailed:
		return terminal{kind: KindProcessingFailure, message: MessageProcessingFailed}, true
	case StatusPending, StatusProcessing:
		return terminal{}, false
	default:
		return terminal{kind: KindUnknownRemoteState, message: messageUnknownStatus + res.Status}, true
	}
}
