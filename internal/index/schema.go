package index

// Schema DDL. The index is derived data: it is dropped and rebuilt from
// the state documents, never written back.
const (
	createProjects = `CREATE TABLE IF NOT EXISTS projects (
    name TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    project_name TEXT,
    phase TEXT,
    created_at TEXT,
    updated_at TEXT,
    stakeholders INTEGER NOT NULL DEFAULT 0,
    assumptions INTEGER NOT NULL DEFAULT 0,
    ideas INTEGER NOT NULL DEFAULT 0,
    insights INTEGER NOT NULL DEFAULT 0,
    playbacks INTEGER NOT NULL DEFAULT 0,
    valid INTEGER NOT NULL DEFAULT 0,
    complete INTEGER NOT NULL DEFAULT 0,
    load_error TEXT
);`

	createOpenReasons = `CREATE TABLE IF NOT EXISTS open_reasons (
    name TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    reason TEXT NOT NULL,
    PRIMARY KEY (name, ordinal),
    FOREIGN KEY (name) REFERENCES projects(name) ON DELETE CASCADE
);`

	idxProjectsPhase = `CREATE INDEX IF NOT EXISTS idx_projects_phase ON projects(phase);`
)

var schemaDDL = []string{
	createProjects,
	createOpenReasons,
	idxProjectsPhase,
}

var projectColumns = []string{
	"name", "path", "project_name", "phase", "created_at", "updated_at",
	"stakeholders", "assumptions", "ideas", "insights", "playbacks",
	"valid", "complete", "load_error",
}
