// Package index maintains a SQLite view over every project in a
// workspace. The JSON state documents remain the source of truth; the
// index is rebuilt from them on demand and answers listing queries such
// as "which projects are in ideate".
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/waypoint/internal/gate"
	"github.com/mesh-intelligence/waypoint/internal/schema"
	"github.com/mesh-intelligence/waypoint/internal/store"
	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// DefaultConcurrency bounds the number of documents read at once.
const DefaultConcurrency = 8

// Summary describes one project as recorded in the index.
type Summary struct {
	Name        string         `json:"name"`
	Path        string         `json:"path"`
	ProjectName string         `json:"project_name,omitempty"`
	Phase       types.Phase    `json:"phase,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Counts      map[string]int `json:"counts"`
	Valid       bool           `json:"valid"`
	Complete    bool           `json:"complete"`
	OpenReasons []string       `json:"open_reasons,omitempty"`
	LoadError   string         `json:"load_error,omitempty"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Phase types.Phase
	// Incomplete keeps only projects whose current phase gate is unmet.
	Incomplete bool
}

// Options configures an Index.
type Options struct {
	// Path is the database file. Empty keeps the index in memory.
	Path string

	StateFile   string
	Schema      *schema.Schema
	Concurrency int
	Logger      *log.Logger
}

// Index is a rebuildable SQLite view of a workspace's projects.
type Index struct {
	mu          sync.RWMutex
	db          *sql.DB
	stateFile   string
	schema      *schema.Schema
	concurrency int
	logger      *log.Logger
}

// Open creates the index database. An existing database file is removed
// so the schema is always fresh.
func Open(opts Options) (*Index, error) {
	dsn := ":memory:"
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
		_ = os.Remove(opts.Path)
		dsn = opts.Path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	// An in-memory database exists per connection.
	db.SetMaxOpenConns(1)

	for _, ddl := range append([]string{"PRAGMA foreign_keys = ON"}, schemaDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating index schema: %w", err)
		}
	}

	idx := &Index{
		db:          db,
		stateFile:   opts.StateFile,
		schema:      opts.Schema,
		concurrency: opts.Concurrency,
		logger:      opts.Logger,
	}
	if idx.stateFile == "" {
		idx.stateFile = store.DefaultFileName
	}
	if idx.schema == nil {
		idx.schema = schema.Default()
	}
	if idx.concurrency <= 0 {
		idx.concurrency = DefaultConcurrency
	}
	if idx.logger == nil {
		idx.logger = log.New(io.Discard)
	}
	return idx, nil
}

// Close releases the database.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.db == nil {
		return nil
	}
	err := x.db.Close()
	x.db = nil
	return err
}

// Rebuild replaces the index contents with a scan of projectsDir. Each
// immediate subdirectory holding a state document is one project. A
// document that cannot be loaded is still indexed with its load error.
// A missing projectsDir yields an empty index.
func (x *Index) Rebuild(ctx context.Context, projectsDir string) (int, error) {
	entries, err := os.ReadDir(projectsDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("reading %s: %w", projectsDir, err)
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if _, err := os.Stat(filepath.Join(projectsDir, e.Name(), x.stateFile)); err != nil {
			continue
		}
		dirs = append(dirs, e.Name())
	}

	summaries := make([]Summary, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(x.concurrency)
	for i, name := range dirs {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			summaries[i] = x.summarize(name, filepath.Join(projectsDir, name, x.stateFile))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if err := x.replace(ctx, summaries); err != nil {
		return 0, err
	}
	x.logger.Debug("index rebuilt", "dir", projectsDir, "projects", len(summaries))
	return len(summaries), nil
}

func (x *Index) summarize(name, path string) Summary {
	sum := Summary{Name: name, Path: path, Counts: map[string]int{}}
	doc, err := store.Load(path)
	if err != nil {
		x.logger.Warn("skipping unreadable project", "project", name, "err", err)
		sum.LoadError = err.Error()
		return sum
	}
	sum.ProjectName = doc.ProjectName
	sum.Phase = doc.Phase
	sum.CreatedAt = doc.CreatedAt.Time
	sum.UpdatedAt = doc.UpdatedAt.Time
	sum.Counts = countsOf(doc)
	sum.Valid, _ = x.schema.Validate(doc)
	eval := gate.EvaluateCurrent(doc)
	sum.Complete = eval.Complete
	sum.OpenReasons = eval.Reasons
	return sum
}

func countsOf(doc *types.Document) map[string]int {
	return map[string]int{
		"stakeholders": len(doc.Stakeholders),
		"assumptions":  len(doc.Assumptions),
		"ideas":        len(doc.Ideas),
		"insights":     len(doc.Insights),
		"playbacks":    len(doc.Playbacks),
	}
}

// replace swaps the index contents in one transaction.
func (x *Index) replace(ctx context.Context, summaries []Summary) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.db == nil {
		return fmt.Errorf("index is closed")
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning rebuild transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{"DELETE FROM open_reasons", "DELETE FROM projects"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing index: %w", err)
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(projectColumns)), ", ")
	insertProject, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO projects (%s) VALUES (%s)", strings.Join(projectColumns, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("preparing project insert: %w", err)
	}
	defer insertProject.Close()

	insertReason, err := tx.PrepareContext(ctx,
		"INSERT INTO open_reasons (name, ordinal, reason) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing reason insert: %w", err)
	}
	defer insertReason.Close()

	for _, s := range summaries {
		_, err := insertProject.ExecContext(ctx,
			s.Name, s.Path, nullString(s.ProjectName), nullString(string(s.Phase)),
			formatTime(s.CreatedAt), formatTime(s.UpdatedAt),
			s.Counts["stakeholders"], s.Counts["assumptions"], s.Counts["ideas"],
			s.Counts["insights"], s.Counts["playbacks"],
			boolInt(s.Valid), boolInt(s.Complete), nullString(s.LoadError))
		if err != nil {
			return fmt.Errorf("indexing %s: %w", s.Name, err)
		}
		for i, reason := range s.OpenReasons {
			if _, err := insertReason.ExecContext(ctx, s.Name, i, reason); err != nil {
				return fmt.Errorf("indexing %s reasons: %w", s.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rebuild: %w", err)
	}
	return nil
}

// List returns the indexed projects matching f, ordered by name.
func (x *Index) List(ctx context.Context, f Filter) ([]Summary, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.db == nil {
		return nil, fmt.Errorf("index is closed")
	}

	query := "SELECT " + strings.Join(projectColumns, ", ") + " FROM projects"
	var (
		where []string
		args  []any
	)
	if f.Phase != "" {
		where = append(where, "phase = ?")
		args = append(args, string(f.Phase))
	}
	if f.Incomplete {
		where = append(where, "complete = 0")
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name"

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying projects: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading projects: %w", err)
	}

	for i := range out {
		reasons, err := x.reasons(ctx, out[i].Name)
		if err != nil {
			return nil, err
		}
		out[i].OpenReasons = reasons
	}
	return out, nil
}

// PhaseCounts returns the number of indexed projects per phase.
func (x *Index) PhaseCounts(ctx context.Context) (map[types.Phase]int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.db == nil {
		return nil, fmt.Errorf("index is closed")
	}
	rows, err := x.db.QueryContext(ctx,
		"SELECT phase, COUNT(*) FROM projects WHERE phase IS NOT NULL GROUP BY phase")
	if err != nil {
		return nil, fmt.Errorf("counting phases: %w", err)
	}
	defer rows.Close()

	counts := map[types.Phase]int{}
	for rows.Next() {
		var (
			phase string
			n     int
		)
		if err := rows.Scan(&phase, &n); err != nil {
			return nil, fmt.Errorf("scanning phase count: %w", err)
		}
		counts[types.Phase(phase)] = n
	}
	return counts, rows.Err()
}

func (x *Index) reasons(ctx context.Context, name string) ([]string, error) {
	rows, err := x.db.QueryContext(ctx,
		"SELECT reason FROM open_reasons WHERE name = ? ORDER BY ordinal", name)
	if err != nil {
		return nil, fmt.Errorf("querying reasons: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scanning reason: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (Summary, error) {
	var (
		s                    Summary
		projectName, phase   sql.NullString
		createdAt, updatedAt sql.NullString
		loadError            sql.NullString
		stakeholders, ideas  int
		assumptions          int
		insights, playbacks  int
		valid, complete      int
	)
	err := row.Scan(&s.Name, &s.Path, &projectName, &phase, &createdAt, &updatedAt,
		&stakeholders, &assumptions, &ideas, &insights, &playbacks,
		&valid, &complete, &loadError)
	if err != nil {
		return s, fmt.Errorf("scanning project: %w", err)
	}
	s.ProjectName = projectName.String
	s.Phase = types.Phase(phase.String)
	s.CreatedAt = parseTime(createdAt)
	s.UpdatedAt = parseTime(updatedAt)
	s.Counts = map[string]int{
		"stakeholders": stakeholders,
		"assumptions":  assumptions,
		"ideas":        ideas,
		"insights":     insights,
		"playbacks":    playbacks,
	}
	s.Valid = valid != 0
	s.Complete = complete != 0
	s.LoadError = loadError.String
	return s, nil
}

// SortByUpdated orders summaries most recently updated first.
func SortByUpdated(summaries []Summary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	ts, err := types.ParseTimestamp(s.String)
	if err != nil {
		return time.Time{}
	}
	return ts.Time
}
