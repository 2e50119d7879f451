package types

// Result statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Result is the uniform envelope returned for every mutation. On error
// Data is nil and Error carries the diagnostic; no partial state is
// included.
type Result struct {
	Status string  `json:"status"`
	Data   any     `json:"data"`
	Error  *string `json:"error"`
}

// Success wraps data in a success envelope.
func Success(data any) Result {
	return Result{Status: StatusSuccess, Data: data}
}

// Failure wraps err in an error envelope.
func Failure(err error) Result {
	msg := err.Error()
	return Result{Status: StatusError, Error: &msg}
}

// OK reports whether the envelope carries a success.
func (r Result) OK() bool {
	return r.Status == StatusSuccess
}

// StakeholderResult is the payload of a stakeholder mutation.
type StakeholderResult struct {
	StakeholderID string      `json:"stakeholder_id"`
	Stakeholder   Stakeholder `json:"stakeholder"`
	Created       bool        `json:"created"`
	UpdatedAt     Timestamp   `json:"updated_at"`
}

// AssumptionResult is the payload of an assumption mutation.
type AssumptionResult struct {
	AssumptionID string     `json:"assumption_id"`
	Assumption   Assumption `json:"assumption"`
	UpdatedAt    Timestamp  `json:"updated_at"`
}

// IdeaResult is the payload of an idea mutation.
type IdeaResult struct {
	IdeaID    string    `json:"idea_id"`
	Idea      Idea      `json:"idea"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// InsightResult is the payload of an insight creation.
type InsightResult struct {
	InsightID string    `json:"insight_id"`
	Insight   Insight   `json:"insight"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// PlaybackResult is the payload of a playback creation.
type PlaybackResult struct {
	PlaybackID string    `json:"playback_id"`
	Playback   Playback  `json:"playback"`
	UpdatedAt  Timestamp `json:"updated_at"`
}

// PhaseResult is the payload of a phase transition.
type PhaseResult struct {
	OldPhase  Phase     `json:"old_phase"`
	NewPhase  Phase     `json:"new_phase"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// Evaluation is the outcome of checking one phase's completion criteria.
type Evaluation struct {
	Phase    Phase    `json:"phase"`
	Complete bool     `json:"complete"`
	Reasons  []string `json:"reasons"`
	Project  string   `json:"project"`
}

// ValidationReport combines schema violations with the workflow gaps of
// the document's current phase.
type ValidationReport struct {
	Valid   bool     `json:"valid"`
	Errors  []string `json:"errors"`
	Gaps    []string `json:"gaps"`
	Phase   Phase    `json:"phase"`
	Project string   `json:"project"`
}
