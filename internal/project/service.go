// Package project owns the read-validate-mutate-write cycle of a single
// project's state document. Each exported operation loads the document,
// applies one field-level change to a copy, re-validates the whole
// document and persists it atomically. Reading and writing are never
// exposed as separate steps.
package project

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/waypoint/internal/schema"
	"github.com/mesh-intelligence/waypoint/internal/store"
	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// Concurrency modes.
const (
	// ConcurrencyOptimistic abandons a write when the document's
	// updated_at changed between load and persist.
	ConcurrencyOptimistic = "optimistic"
	// ConcurrencyNone persists unconditionally; the last writer wins.
	ConcurrencyNone = "none"
)

// Options configures a Service. Zero values select defaults.
type Options struct {
	// StateFile is the document's file name inside the project directory.
	StateFile string

	// Schema validates documents before they are persisted.
	Schema *schema.Schema

	// Concurrency is ConcurrencyOptimistic (default) or ConcurrencyNone.
	Concurrency string

	Logger *log.Logger

	// Now and NewID are replaced in tests.
	Now   func() time.Time
	NewID func() (string, error)
}

// Service edits the state document of one project directory.
type Service struct {
	dir        string
	path       string
	schema     *schema.Schema
	optimistic bool
	logger     *log.Logger
	now        func() time.Time
	newID      func() (string, error)
}

// New returns a Service for the project in dir.
func New(dir string, opts Options) (*Service, error) {
	if dir == "" {
		return nil, fmt.Errorf("project directory is required")
	}
	s := &Service{
		dir:    dir,
		path:   filepath.Join(dir, store.DefaultFileName),
		schema: opts.Schema,
		logger: opts.Logger,
		now:    opts.Now,
		newID:  opts.NewID,
	}
	if opts.StateFile != "" {
		s.path = filepath.Join(dir, opts.StateFile)
	}
	switch opts.Concurrency {
	case "", ConcurrencyOptimistic:
		s.optimistic = true
	case ConcurrencyNone:
	default:
		return nil, fmt.Errorf("unknown concurrency mode %q (want %s or %s)",
			opts.Concurrency, ConcurrencyOptimistic, ConcurrencyNone)
	}
	if s.schema == nil {
		s.schema = schema.Default()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newUUID
	}
	return s, nil
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Dir returns the project directory.
func (s *Service) Dir() string { return s.dir }

// Path returns the state document path.
func (s *Service) Path() string { return s.path }

// Schema returns the schema documents are validated against.
func (s *Service) Schema() *schema.Schema { return s.schema }

// Document loads the current state document.
func (s *Service) Document(ctx context.Context) (*types.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return store.Load(s.path)
}

// Init writes a fresh empty document for projectName. Returns
// ErrAlreadyExists if the project already has a document.
func (s *Service) Init(ctx context.Context, projectName, problem string) (*types.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(projectName) == "" {
		return nil, fmt.Errorf("project name is required: %w", types.ErrInvalidValue)
	}
	if _, err := store.Revision(s.path); err == nil {
		return nil, fmt.Errorf("%s: %w", s.path, types.ErrAlreadyExists)
	}
	doc := types.NewDocument(projectName, s.now())
	doc.ProblemStatement = problem
	if ok, violations := s.schema.Validate(doc); !ok {
		return nil, fmt.Errorf("%s: %w", strings.Join(violations, "; "), types.ErrSchemaViolation)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %v: %w", s.dir, err, types.ErrStore)
	}
	if err := store.Save(s.path, doc); err != nil {
		return nil, err
	}
	s.logger.Info("initialized state document", "project", projectName, "path", s.path)
	return doc, nil
}

// mutate runs one read-validate-mutate-write cycle. apply edits a copy of
// the loaded document; nothing is persisted when apply, validation or the
// revision check fails.
func (s *Service) mutate(ctx context.Context, op string, apply func(doc *types.Document) error) (*types.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loaded, err := store.Load(s.path)
	if err != nil {
		return nil, err
	}
	revision := loaded.UpdatedAt.Time

	doc, err := loaded.Clone()
	if err != nil {
		return nil, fmt.Errorf("copying document: %v: %w", err, types.ErrParse)
	}
	if err := apply(doc); err != nil {
		s.logger.Debug("mutation rejected", "op", op, "err", err)
		return nil, err
	}
	doc.Touch(s.now())

	if ok, violations := s.schema.Validate(doc); !ok {
		s.logger.Warn("document failed validation", "op", op, "violations", len(violations))
		return nil, fmt.Errorf("%s: %w", strings.Join(violations, "; "), types.ErrSchemaViolation)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.optimistic {
		current, err := store.Revision(s.path)
		if err != nil {
			return nil, err
		}
		if !current.Equal(revision) {
			s.logger.Warn("concurrent write detected", "op", op, "read", revision, "current", current)
			return nil, fmt.Errorf("%s: %w", s.path, types.ErrConflict)
		}
	}

	if err := store.Save(s.path, doc); err != nil {
		return nil, err
	}
	s.logger.Debug("persisted", "op", op, "path", s.path, "updated_at", doc.UpdatedAt)
	return doc, nil
}

// checkEnums validates caller-supplied enum values before any load.
func (s *Service) checkEnums(collection string, fields map[string]*string) error {
	for _, field := range []string{"type", "certainty", "risk", "status", "impact", "feasibility", "confidence", "phase"} {
		v, ok := fields[field]
		if !ok || v == nil {
			continue
		}
		if err := s.schema.CheckEnum(collection, field, *v); err != nil {
			return err
		}
	}
	return nil
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s id is required: %w", kind, types.ErrInvalidValue)
	}
	return nil
}
