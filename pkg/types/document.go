package types

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Document is the state document of one project.
type Document struct {
	ProjectName      string
	ProblemStatement string
	CreatedAt        Timestamp
	UpdatedAt        Timestamp
	Phase            Phase
	Stakeholders     []Stakeholder
	Assumptions      []Assumption
	Ideas            []Idea
	Insights         []Insight
	Playbacks        []Playback

	// Extra holds top-level keys this package does not model. They are
	// written back unchanged after the known keys, sorted by key.
	Extra map[string]json.RawMessage
}

// documentJSON fixes the on-disk key order of the known fields.
type documentJSON struct {
	ProjectName      string        `json:"project_name"`
	ProblemStatement string        `json:"problem_statement,omitempty"`
	CreatedAt        Timestamp     `json:"created_at"`
	UpdatedAt        Timestamp     `json:"updated_at"`
	Phase            Phase         `json:"phase"`
	Stakeholders     []Stakeholder `json:"stakeholders"`
	Assumptions      []Assumption  `json:"assumptions"`
	Ideas            []Idea        `json:"ideas"`
	Insights         []Insight     `json:"insights"`
	Playbacks        []Playback    `json:"playbacks"`
}

// knownKeys are the top-level keys modelled by documentJSON.
var knownKeys = jsonKeys(reflect.TypeOf(documentJSON{}))

// NewDocument returns an empty document in the empathize phase created at
// now.
func NewDocument(projectName string, now time.Time) *Document {
	ts := NewTimestamp(now)
	return &Document{
		ProjectName:  projectName,
		CreatedAt:    ts,
		UpdatedAt:    ts,
		Phase:        PhaseEmpathize,
		Stakeholders: []Stakeholder{},
		Assumptions:  []Assumption{},
		Ideas:        []Idea{},
		Insights:     []Insight{},
		Playbacks:    []Playback{},
	}
}

// Normalize replaces nil entity lists with empty ones so they serialize
// as [] rather than null.
func (d *Document) Normalize() {
	if d.Stakeholders == nil {
		d.Stakeholders = []Stakeholder{}
	}
	if d.Assumptions == nil {
		d.Assumptions = []Assumption{}
	}
	if d.Ideas == nil {
		d.Ideas = []Idea{}
	}
	if d.Insights == nil {
		d.Insights = []Insight{}
	}
	if d.Playbacks == nil {
		d.Playbacks = []Playback{}
	}
}

// Clone returns a deep copy of d. Editors mutate a clone so a rejected
// change never leaks into the caller's document.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarshalJSON writes the known keys in fixed order followed by Extra.
func (d Document) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(documentJSON{
		ProjectName:      d.ProjectName,
		ProblemStatement: d.ProblemStatement,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
		Phase:            d.Phase,
		Stakeholders:     d.Stakeholders,
		Assumptions:      d.Assumptions,
		Ideas:            d.Ideas,
		Insights:         d.Insights,
		Playbacks:        d.Playbacks,
	})
	if err != nil {
		return nil, err
	}
	return withExtra(known, d.Extra, knownKeys)
}

// UnmarshalJSON reads the known keys and keeps the rest in Extra.
func (d *Document) UnmarshalJSON(data []byte) error {
	var known documentJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraKeys(data, knownKeys)
	if err != nil {
		return err
	}

	*d = Document{
		ProjectName:      known.ProjectName,
		ProblemStatement: known.ProblemStatement,
		CreatedAt:        known.CreatedAt,
		UpdatedAt:        known.UpdatedAt,
		Phase:            known.Phase,
		Stakeholders:     known.Stakeholders,
		Assumptions:      known.Assumptions,
		Ideas:            known.Ideas,
		Insights:         known.Insights,
		Playbacks:        known.Playbacks,
		Extra:            extra,
	}
	return nil
}

// Touch sets UpdatedAt to now. When now is not after the stored value,
// UpdatedAt advances by one nanosecond instead, so every write yields a
// new revision even under clock skew.
func (d *Document) Touch(now time.Time) {
	ts := NewTimestamp(now)
	if !ts.After(d.UpdatedAt.Time) {
		ts = NewTimestamp(d.UpdatedAt.Add(time.Nanosecond))
	}
	d.UpdatedAt = ts
}

// StakeholderIndex returns the position of the stakeholder with id, or -1.
func (d *Document) StakeholderIndex(id string) int {
	for i := range d.Stakeholders {
		if d.Stakeholders[i].ID == id {
			return i
		}
	}
	return -1
}

// AssumptionIndex returns the position of the assumption with id, or -1.
func (d *Document) AssumptionIndex(id string) int {
	for i := range d.Assumptions {
		if d.Assumptions[i].ID == id {
			return i
		}
	}
	return -1
}

// IdeaIndex returns the position of the idea with id, or -1.
func (d *Document) IdeaIndex(id string) int {
	for i := range d.Ideas {
		if d.Ideas[i].ID == id {
			return i
		}
	}
	return -1
}

// InsightIndex returns the position of the insight with id, or -1.
func (d *Document) InsightIndex(id string) int {
	for i := range d.Insights {
		if d.Insights[i].ID == id {
			return i
		}
	}
	return -1
}

// PlaybackIndex returns the position of the playback with id, or -1.
func (d *Document) PlaybackIndex(id string) int {
	for i := range d.Playbacks {
		if d.Playbacks[i].ID == id {
			return i
		}
	}
	return -1
}

// String identifies the document in log lines.
func (d *Document) String() string {
	return fmt.Sprintf("%s@%s", d.ProjectName, d.Phase)
}
