package types

import "encoding/json"

// Stakeholder is a person or group whose needs the project investigates.
type Stakeholder struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Type       string   `json:"type"` // group or individual
	Role       string   `json:"role,omitempty"`
	Needs      []string `json:"needs,omitempty"`
	PainPoints []string `json:"pain_points,omitempty"`
	NotesLinks []string `json:"notes_links,omitempty"`

	// Extra holds keys this package does not model.
	Extra map[string]json.RawMessage `json:"-"`
}

// Assumption is a belief the team holds, graded by certainty and risk.
// Certainty and Risk stay nil until graded and serialize as null.
type Assumption struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	Certainty      *Grade `json:"certainty"`
	Risk           *Grade `json:"risk"`
	ValidationPlan string `json:"validation_plan,omitempty"`
	Status         string `json:"status,omitempty"`

	// Extra holds keys this package does not model.
	Extra map[string]json.RawMessage `json:"-"`
}

// Graded reports whether both certainty and risk are set.
func (a Assumption) Graded() bool {
	return a.Certainty != nil && a.Risk != nil
}

// NeedsValidationPlan reports whether the assumption is low certainty and
// high risk, which requires a validation plan before leaving define.
func (a Assumption) NeedsValidationPlan() bool {
	return a.Certainty != nil && *a.Certainty == GradeLow &&
		a.Risk != nil && *a.Risk == GradeHigh
}

// Idea is a candidate solution.
type Idea struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Status         string   `json:"status"`
	Impact         Grade    `json:"impact,omitempty"`
	Feasibility    Grade    `json:"feasibility,omitempty"`
	IdeaDocLink    string   `json:"idea_doc_link,omitempty"`
	PrototypeLinks []string `json:"prototype_links,omitempty"`

	// Extra holds keys this package does not model.
	Extra map[string]json.RawMessage `json:"-"`
}

// Graded reports whether both impact and feasibility are set.
func (i Idea) Graded() bool {
	return i.Impact != "" && i.Feasibility != ""
}

// Insight is a synthesized research finding. Insights are append-only.
type Insight struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Confidence   Grade    `json:"confidence,omitempty"`
	Sources      []string `json:"sources,omitempty"`
	Implications string   `json:"implications,omitempty"`

	// Extra holds keys this package does not model.
	Extra map[string]json.RawMessage `json:"-"`
}

// PlaybackDateLayout is the calendar date format of Playback.Date.
const PlaybackDateLayout = "2006-01-02"

// Playback records a session where progress was presented. Playbacks are
// append-only.
type Playback struct {
	ID            string   `json:"id"`
	Date          string   `json:"date"`
	Audience      []string `json:"audience"`
	Phase         Phase    `json:"phase,omitempty"`
	ArtifactsLink string   `json:"artifacts_link,omitempty"`
	Decisions     []string `json:"decisions,omitempty"`

	// Extra holds keys this package does not model.
	Extra map[string]json.RawMessage `json:"-"`
}
