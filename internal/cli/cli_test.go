package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/waypoint/internal/store"
	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// testEnv is an isolated workspace for one test.
type testEnv struct {
	t         *testing.T
	workspace string
}

type runResult struct {
	code   int
	stdout string
	stderr string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("WAYPOINT_CONFIG_DIR", t.TempDir())
	t.Setenv("WAYPOINT_WORKSPACE", "")
	return &testEnv{t: t, workspace: t.TempDir()}
}

func (e *testEnv) run(args ...string) runResult {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--workspace", e.workspace}, args...)
	code := Run(context.Background(), full, &stdout, &stderr)
	return runResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (e *testEnv) mustRun(args ...string) runResult {
	e.t.Helper()
	r := e.run(args...)
	require.Equal(e.t, exitSuccess, r.code, "waypoint %s\nstdout: %s\nstderr: %s",
		strings.Join(args, " "), r.stdout, r.stderr)
	return r
}

func (e *testEnv) document(project string) *types.Document {
	e.t.Helper()
	doc, err := store.Load(filepath.Join(e.workspace, "projects", project, store.DefaultFileName))
	require.NoError(e.t, err)
	return doc
}

func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(s), &v), "output: %s", s)
	return v
}

func TestInitCreatesProjectAndConfig(t *testing.T) {
	env := newTestEnv(t)
	r := env.mustRun("init", "onboarding", "--problem", "New hires churn")
	assert.Contains(t, r.stdout, "Initialized onboarding")

	doc := env.document("onboarding")
	assert.Equal(t, "onboarding", doc.ProjectName)
	assert.Equal(t, "New hires churn", doc.ProblemStatement)
	assert.FileExists(t, filepath.Join(env.workspace, "waypoint.yaml"))

	r = env.run("init", "onboarding")
	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stderr, "already exists")
}

func TestStakeholderAppendAndReplace(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "onboarding")

	env.mustRun("stakeholder", "onboarding", "s1", "--name", "Customers", "--type", "group",
		"--needs", "speed, reliability")
	env.mustRun("stakeholder", "onboarding", "s1", "--needs", "cost", "--append-needs")
	doc := env.document("onboarding")
	require.Len(t, doc.Stakeholders, 1)
	assert.Equal(t, []string{"speed, reliability", "cost"}, doc.Stakeholders[0].Needs)

	env.mustRun("stakeholder", "onboarding", "s1", "--role", "buyer")
	doc = env.document("onboarding")
	assert.Equal(t, "buyer", doc.Stakeholders[0].Role)
	assert.Equal(t, []string{"speed, reliability", "cost"}, doc.Stakeholders[0].Needs)

	env.mustRun("stakeholder", "onboarding", "s1", "--needs", "cost")
	assert.Equal(t, []string{"cost"}, env.document("onboarding").Stakeholders[0].Needs)
}

func TestMutationJSONEnvelope(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "onboarding")

	r := env.mustRun("--json", "insight", "onboarding", "--id", "n1", "--title", "t", "--description", "d")
	env1 := parseJSON[map[string]any](t, r.stdout)
	assert.Equal(t, "success", env1["status"])
	assert.Nil(t, env1["error"])
	data := env1["data"].(map[string]any)
	assert.Equal(t, "n1", data["insight_id"])

	r = env.run("--json", "insight", "onboarding", "--id", "n1", "--title", "t", "--description", "d")
	assert.Equal(t, exitFailure, r.code)
	env2 := parseJSON[map[string]any](t, r.stdout)
	assert.Equal(t, "error", env2["status"])
	assert.Nil(t, env2["data"])
	assert.Contains(t, env2["error"], "already exists")
}

func TestInvalidValuesExitNonZero(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "onboarding")

	tests := [][]string{
		{"phase", "onboarding", "launch"},
		{"assumption", "onboarding", "a1", "--risk", "high"},
		{"idea", "onboarding", "i1", "--status", "bogus"},
		{"playback", "onboarding", "--date", "tomorrow", "--audience", "LT"},
		{"stakeholder", "onboarding", "s1", "--name", "Only name"},
		{"phase", "missing-project", "define"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			r := env.run(args...)
			assert.Equal(t, exitFailure, r.code)
			assert.Contains(t, r.stderr, "Error:")
		})
	}
}

func TestCheckExitCodes(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "onboarding")

	r := env.run("check", "onboarding")
	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stdout, "Remaining Requirements:")
	assert.Contains(t, r.stdout, "Need at least 2 stakeholder groups defined")

	r = env.run("--json", "check", "onboarding", "--phase", "define")
	assert.Equal(t, exitFailure, r.code)
	eval := parseJSON[types.Evaluation](t, r.stdout)
	assert.Equal(t, types.PhaseDefine, eval.Phase)
	assert.False(t, eval.Complete)
	assert.Equal(t, "onboarding", eval.Project)
}

func TestCheckCompletePhase(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "onboarding")
	path := filepath.Join(env.workspace, "projects", "onboarding", store.DefaultFileName)
	doc, err := store.Load(path)
	require.NoError(t, err)
	doc.Ideas = []types.Idea{{ID: "i1", Title: "Buddy", Status: types.IdeaIdeated}}
	require.NoError(t, store.Save(path, doc))

	env.mustRun("idea", "onboarding", "i1", "--status", "prototyping", "--prototype-links", "proto.md")
	env.mustRun("phase", "onboarding", "prototype")

	r := env.mustRun("check", "onboarding")
	assert.Contains(t, r.stdout, "Phase completion criteria met")
}

func TestValidate(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "onboarding")

	r := env.mustRun("--json", "validate", "onboarding")
	report := parseJSON[types.ValidationReport](t, r.stdout)
	assert.True(t, report.Valid)
	assert.Contains(t, report.Gaps, "No stakeholders defined")

	path := filepath.Join(env.workspace, "projects", "onboarding", store.DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"project_name":"x","phase":"launch"}`), 0o644))
	r = env.run("validate", "onboarding")
	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stdout, "Structure Errors:")
}

func TestToolCommand(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "onboarding")

	r := env.mustRun("tool", "update_phase", "--param", "project=onboarding", "--param", "phase=define")
	res := parseJSON[map[string]any](t, r.stdout)
	assert.Equal(t, "success", res["status"])
	assert.Equal(t, types.PhaseDefine, env.document("onboarding").Phase)

	r = env.mustRun("tool", "add_insight", "--params",
		`{"project":"onboarding","title":"t","description":"d","sources":["a","b"]}`)
	res = parseJSON[map[string]any](t, r.stdout)
	assert.Equal(t, "success", res["status"])

	r = env.run("tool", "read_file", "--param", "project=onboarding")
	assert.Equal(t, exitFailure, r.code)
	res = parseJSON[map[string]any](t, r.stdout)
	assert.Contains(t, res["error"], "Available tools")

	r = env.run("tool", "add_insight", "--params", "{not json")
	assert.Equal(t, exitFailure, r.code)

	r = env.mustRun("tool", "--list")
	assert.Contains(t, r.stdout, "check_completion")
}

func TestParseToolParams(t *testing.T) {
	params, err := parseToolParams(`{"project":"p"}`,
		[]string{"audience=LT", "audience=PM", "date=2026-03-01"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "p", params["project"])
	assert.Equal(t, []any{"LT", "PM"}, params["audience"])
	assert.Equal(t, "2026-03-01", params["date"])

	params, err = parseToolParams("-", nil, strings.NewReader(`{"phase":"define"}`))
	require.NoError(t, err)
	assert.Equal(t, "define", params["phase"])

	_, err = parseToolParams("", []string{"novalue"}, nil)
	assert.ErrorIs(t, err, types.ErrInvalidValue)
}

func TestProjectsListing(t *testing.T) {
	env := newTestEnv(t)
	r := env.mustRun("projects")
	assert.Contains(t, r.stdout, "No projects found")

	env.mustRun("init", "alpha")
	env.mustRun("init", "beta")
	env.mustRun("phase", "beta", "ideate")

	r = env.mustRun("projects")
	assert.Contains(t, r.stdout, "PROJECT")
	assert.Contains(t, r.stdout, "alpha")
	assert.Contains(t, r.stdout, "ideate")

	r = env.mustRun("--json", "projects", "--phase", "ideate")
	list := parseJSON[[]map[string]any](t, r.stdout)
	require.Len(t, list, 1)
	assert.Equal(t, "beta", list[0]["name"])

	r = env.run("projects", "--phase", "launch")
	assert.Equal(t, exitFailure, r.code)

	r = env.mustRun("projects", "--by-phase")
	assert.Regexp(t, `empathize\s+1\n`, r.stdout)
	assert.Regexp(t, `ideate\s+1\n`, r.stdout)
	assert.Regexp(t, `iterate\s+0\n`, r.stdout)

	r = env.mustRun("--json", "projects", "--by-phase")
	counts := parseJSON[map[string]int](t, r.stdout)
	assert.Equal(t, map[string]int{"empathize": 1, "ideate": 1}, counts)
}

func TestProjectPathArguments(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("init", "onboarding")

	env.mustRun("phase", "projects/onboarding", "define")
	abs := filepath.Join(env.workspace, "projects", "onboarding")
	env.mustRun("phase", abs, "ideate")
	assert.Equal(t, types.PhaseIdeate, env.document("onboarding").Phase)
}

func TestConfigErrorsExitNonZero(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(env.workspace, "waypoint.yaml"),
		[]byte("concurrency: locked\n"), 0o644))
	r := env.run("projects")
	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stderr, "concurrency")

	r = env.run("--json", "projects")
	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stdout, `"error"`)
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	r := env.mustRun("version")
	assert.Contains(t, r.stdout, "waypoint v")
	assert.Contains(t, r.stdout, "github.com/mesh-intelligence/waypoint")
}

func TestUnknownCommand(t *testing.T) {
	env := newTestEnv(t)
	r := env.run("frobnicate")
	assert.Equal(t, exitFailure, r.code)
	assert.Contains(t, r.stderr, "unknown command")
}
