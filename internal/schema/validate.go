package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// Validate checks doc against the default schema.
func Validate(doc *types.Document) (bool, []string) {
	return Default().Validate(doc)
}

// Validate checks the whole document and returns every violation found.
// It never fails: a document that cannot be inspected is reported as a
// violation. Checks run in order: required top-level fields, top-level
// enums, then per collection the item shape, required fields, enums,
// dates and key uniqueness.
func (s *Schema) Validate(doc *types.Document) (bool, []string) {
	violations := []string{}
	if doc == nil {
		return false, append(violations, "document is missing")
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return false, append(violations, fmt.Sprintf("document cannot be encoded: %v", err))
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return false, append(violations, fmt.Sprintf("document cannot be decoded: %v", err))
	}

	for _, field := range s.Required {
		if isEmpty(m[field]) {
			violations = append(violations, fmt.Sprintf("Missing required field: %s", field))
		}
	}

	for _, field := range sortedKeys(s.Enums) {
		v := m[field]
		if isEmpty(v) {
			continue
		}
		if msg := checkEnum(v, s.Enums[field]); msg != "" {
			violations = append(violations, fmt.Sprintf("Invalid %s: %s. Must be one of [%s]",
				field, msg, strings.Join(s.Enums[field], ", ")))
		}
	}

	for i := range s.Collections {
		violations = append(violations, s.Collections[i].validate(m[s.Collections[i].Name])...)
	}

	return len(violations) == 0, violations
}

// validate checks one collection's raw JSON value.
func (c *Collection) validate(raw any) []string {
	if raw == nil {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return []string{fmt.Sprintf("Field %s must be a list", c.Name)}
	}

	var violations []string
	seen := make(map[string]int)
	for idx, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			violations = append(violations, fmt.Sprintf("%s %d is not an object", c.Label, idx))
			continue
		}

		for _, field := range c.Required {
			if isEmpty(obj[field]) {
				violations = append(violations,
					fmt.Sprintf("%s %d missing required field: %s", c.Label, idx, field))
			}
		}

		for _, field := range sortedKeys(c.Enums) {
			v := obj[field]
			if isEmpty(v) {
				continue
			}
			if msg := checkEnum(v, c.Enums[field]); msg != "" {
				violations = append(violations,
					fmt.Sprintf("%s %d has invalid %s: %s", c.Label, idx, field, msg))
			}
		}

		for _, field := range c.Dates {
			v, ok := obj[field].(string)
			if !ok || v == "" {
				continue
			}
			if _, err := time.Parse(types.PlaybackDateLayout, v); err != nil {
				violations = append(violations,
					fmt.Sprintf("%s %d has invalid %s: %s. Must be YYYY-MM-DD", c.Label, idx, field, v))
			}
		}

		key, ok := obj[c.Key].(string)
		if !ok || key == "" {
			continue
		}
		if first, dup := seen[key]; dup {
			violations = append(violations,
				fmt.Sprintf("%s %d duplicates %s %q of %s %d", c.Label, idx, c.Key, key, c.Label, first))
			continue
		}
		seen[key] = idx
	}
	return violations
}

// checkEnum returns a description of v when it is not one of values, or
// the empty string when it is.
func checkEnum(v any, values []string) string {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%v", v)
	}
	if contains(values, s) {
		return ""
	}
	return s
}

// isEmpty treats absent, null, empty strings and empty lists as missing.
func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case []any:
		return len(x) == 0
	}
	return false
}
