package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

func testDocument() *types.Document {
	doc := types.NewDocument("onboarding", time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC))
	doc.Phase = types.PhaseDefine
	doc.ProblemStatement = "New hires take weeks to ship"
	doc.Stakeholders = []types.Stakeholder{{
		ID:         "s1",
		Name:       "New hires",
		Type:       types.StakeholderGroup,
		Role:       "Primary users",
		Needs:      []string{"clear first task"},
		PainPoints: []string{"stale docs", "slow laptop setup"},
		NotesLinks: []string{"research/interviews.md"},
	}}
	doc.Assumptions = []types.Assumption{{
		ID:          "a1",
		Description: "Mentors have spare time",
		Certainty:   types.GradePtr(types.GradeLow),
		Risk:        types.GradePtr(types.GradeHigh),
		Status:      types.AssumptionValidating,
	}}
	doc.Ideas = []types.Idea{{
		ID:             "i1",
		Title:          "Starter issue queue",
		Status:         types.IdeaPrototyping,
		Impact:         types.GradeHigh,
		Feasibility:    types.GradeMedium,
		PrototypeLinks: []string{"figma/queue"},
	}}
	doc.Insights = []types.Insight{{
		ID:          "n1",
		Title:       "Setup dominates week one",
		Description: "Most of the first week is spent on tooling",
		Confidence:  types.GradeMedium,
		Sources:     []string{"s1"},
	}}
	doc.Playbacks = []types.Playback{{
		ID:       "p1",
		Date:     "2026-02-10",
		Audience: []string{"LT"},
		Phase:    types.PhaseEmpathize,
	}}
	return doc
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	doc := testDocument()

	require.NoError(t, Save(path, doc))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestSaveWritesIndentedJSONWithTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, Save(path, testDocument()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"project_name\": \"onboarding\""))
	assert.True(t, strings.HasSuffix(string(data), "}\n"))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, Save(path, testDocument()))
	require.NoError(t, Save(path, testDocument()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultFileName, entries[0].Name())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), DefaultFileName))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"project_name": "x", `), 0o644))

	_, err := Load(path)
	assert.ErrorIs(t, err, types.ErrParse)
}

func TestLoadNormalizesMissingLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	content := `{"project_name":"p","created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z","phase":"empathize"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.NotNil(t, doc.Stakeholders)
	assert.NotNil(t, doc.Assumptions)
	assert.NotNil(t, doc.Ideas)
	assert.NotNil(t, doc.Insights)
	assert.NotNil(t, doc.Playbacks)
}

func TestSaveRenameFailureLeavesOriginalUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	original := testDocument()
	require.NoError(t, Save(path, original))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	restore := fileOps.rename
	fileOps.rename = func(string, string) error { return errors.New("simulated crash") }
	defer func() { fileOps.rename = restore }()

	changed := testDocument()
	changed.Phase = types.PhaseIterate
	err = Save(path, changed)
	require.ErrorIs(t, err, types.ErrStore)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must be cleaned up")
}

func TestInterruptedTempWriteIsInvisibleToReaders(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)
	original := testDocument()
	require.NoError(t, Save(path, original))

	// A writer killed mid-write leaves a truncated temp file behind.
	data, err := Encode(original)
	require.NoError(t, err)
	partial := filepath.Join(dir, "."+DefaultFileName+"-123.tmp")
	require.NoError(t, os.WriteFile(partial, data[:len(data)/2], 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestSaveIntoMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", DefaultFileName)
	err := Save(path, testDocument())
	assert.ErrorIs(t, err, types.ErrStore)
}

func TestRevision(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	doc := testDocument()
	require.NoError(t, Save(path, doc))

	rev, err := Revision(path)
	require.NoError(t, err)
	assert.True(t, rev.Equal(doc.UpdatedAt.Time))

	_, err = Revision(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSaveKeepsFileMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	require.NoError(t, Save(path, testDocument()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	require.NoError(t, os.Chmod(path, 0o600))
	changed := testDocument()
	changed.Phase = types.PhaseIdeate
	require.NoError(t, Save(path, changed))

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
