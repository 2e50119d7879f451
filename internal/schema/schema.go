// Package schema validates state documents against a declarative schema.
//
// The schema is a YAML document listing required top-level keys, closed
// value sets and, per entity collection, required keys, enum fields,
// calendar dates and the unique key. A default schema is compiled into the
// binary; Load reads a replacement from disk so the rules can change
// without recompiling.
package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

//go:embed currentstate.schema.yaml
var defaultSchemaYAML []byte

// defaultKey is the unique key of a collection when none is declared.
const defaultKey = "id"

// Schema is the parsed declarative description of a state document.
type Schema struct {
	Version     int                 `yaml:"version"`
	Required    []string            `yaml:"required"`
	Enums       map[string][]string `yaml:"enums"`
	Collections []Collection        `yaml:"collections"`
}

// Collection describes one entity list.
type Collection struct {
	Name     string              `yaml:"name"`
	Label    string              `yaml:"label"`
	Key      string              `yaml:"key"`
	Required []string            `yaml:"required"`
	Enums    map[string][]string `yaml:"enums"`
	Dates    []string            `yaml:"dates"`
}

var defaultSchema = mustParse(defaultSchemaYAML)

// Default returns the compiled-in schema.
func Default() *Schema {
	return defaultSchema
}

// Load reads a schema from path. An empty path returns the default.
func Load(path string) (*Schema, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schema %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and checks a schema document.
func Parse(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if len(s.Collections) == 0 && len(s.Required) == 0 {
		return nil, fmt.Errorf("schema declares no fields")
	}
	seen := make(map[string]bool)
	for i := range s.Collections {
		c := &s.Collections[i]
		if c.Name == "" {
			return nil, fmt.Errorf("collection %d has no name", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("collection %q declared twice", c.Name)
		}
		seen[c.Name] = true
		if c.Key == "" {
			c.Key = defaultKey
		}
		if c.Label == "" {
			c.Label = c.Name
		}
	}
	return &s, nil
}

func mustParse(data []byte) *Schema {
	s, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("schema: embedded schema: %v", err))
	}
	return s
}

// Collection returns the named collection, or nil.
func (s *Schema) Collection(name string) *Collection {
	for i := range s.Collections {
		if s.Collections[i].Name == name {
			return &s.Collections[i]
		}
	}
	return nil
}

// Enum returns the closed value set of field. An empty collection names a
// top-level field. Returns nil when the field is not an enum.
func (s *Schema) Enum(collection, field string) []string {
	if collection == "" {
		return s.Enums[field]
	}
	c := s.Collection(collection)
	if c == nil {
		return nil
	}
	return c.Enums[field]
}

// CheckEnum returns ErrInvalidValue if value is outside the closed set of
// field. Fields without a declared set accept any value.
func (s *Schema) CheckEnum(collection, field, value string) error {
	values := s.Enum(collection, field)
	if values == nil || contains(values, value) {
		return nil
	}
	return fmt.Errorf("invalid %s %q (must be one of %s): %w",
		field, value, strings.Join(values, ", "), types.ErrInvalidValue)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

// sortedKeys returns the keys of m in lexical order so violations come
// out in a stable order.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
