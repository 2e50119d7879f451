package types

// StakeholderPatch lists the stakeholder fields a caller wants to change.
// Nil fields are left untouched.
type StakeholderPatch struct {
	Name       *string
	Type       *string
	Role       *string
	Needs      *ListUpdate
	PainPoints *ListUpdate
	NotesLinks *ListUpdate
}

// AssumptionPatch lists the assumption fields a caller wants to change.
type AssumptionPatch struct {
	Certainty      *string
	Risk           *string
	ValidationPlan *string
	Status         *string
}

// IdeaPatch lists the idea fields a caller wants to change.
type IdeaPatch struct {
	Impact         *string
	Feasibility    *string
	Status         *string
	IdeaDocLink    *string
	PrototypeLinks *ListUpdate
}

// NewInsight carries the fields of an insight to append. An empty ID is
// replaced with a generated one.
type NewInsight struct {
	ID           string
	Title        string
	Description  string
	Confidence   *string
	Sources      []string
	Implications *string
}

// NewPlayback carries the fields of a playback to append. An empty ID is
// replaced with a generated one.
type NewPlayback struct {
	ID            string
	Date          string
	Audience      []string
	Phase         *string
	ArtifactsLink *string
	Decisions     []string
}

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T {
	return &v
}
