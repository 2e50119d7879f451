package dispatch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// Params holds tool parameters keyed by snake_case name.
type Params map[string]any

// normalize rewrites kebab-case keys to snake_case.
func normalize(in map[string]any) Params {
	out := make(Params, len(in))
	for k, v := range in {
		out[strings.ReplaceAll(strings.TrimLeft(k, "-"), "-", "_")] = v
	}
	return out
}

// String returns the value of key, or "" when absent.
func (p Params) String(key string) (string, error) {
	s, err := p.OptString(key)
	if err != nil || s == nil {
		return "", err
	}
	return *s, nil
}

// OptString returns nil when key is absent or null.
func (p Params) OptString(key string) (*string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch x := v.(type) {
	case string:
		return &x, nil
	case fmt.Stringer:
		s := x.String()
		return &s, nil
	case bool, int, int64, float64:
		s := fmt.Sprint(x)
		return &s, nil
	}
	return nil, fmt.Errorf("parameter %s must be a string: %w", key, types.ErrInvalidValue)
}

// List returns the list value of key. A single string is a one-item list.
func (p Params) List(key string) ([]string, bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	switch x := v.(type) {
	case []string:
		return x, true, nil
	case string:
		return []string{x}, true, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, false, fmt.Errorf("parameter %s must be a list of strings: %w", key, types.ErrInvalidValue)
			}
			out = append(out, s)
		}
		return out, true, nil
	}
	return nil, false, fmt.Errorf("parameter %s must be a list of strings: %w", key, types.ErrInvalidValue)
}

// Bool reports a flag value. Absent flags are false.
func (p Params) Bool(key string) (bool, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return false, nil
	}
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(x)
		if err != nil {
			return false, fmt.Errorf("parameter %s must be a boolean: %w", key, types.ErrInvalidValue)
		}
		return b, nil
	}
	return false, fmt.Errorf("parameter %s must be a boolean: %w", key, types.ErrInvalidValue)
}

// ListUpdate builds a list update from key and its append flag.
func (p Params) ListUpdate(key, appendKey string) (*types.ListUpdate, error) {
	items, ok, err := p.List(key)
	if err != nil || !ok {
		return nil, err
	}
	appendItems, err := p.Bool(appendKey)
	if err != nil {
		return nil, err
	}
	return types.NewListUpdate(items, appendItems), nil
}
