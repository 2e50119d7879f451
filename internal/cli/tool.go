package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

func (a *app) newToolCmd() *cobra.Command {
	var (
		rawParams string
		pairs     []string
		list      bool
	)
	cmd := &cobra.Command{
		Use:   "tool <name>",
		Short: "Invoke a tool by name and print its result envelope",
		Long: `Invoke a tool by name. Parameters come from --params as a JSON object
(use - to read it from stdin) and from repeated --param key=value pairs.
Keys may be snake_case or kebab-case. The result envelope is always JSON.

Example:
  waypoint tool update_phase --param project=onboarding --param phase=define
  echo '{"project":"onboarding","id":"n1","title":"t","description":"d"}' | waypoint tool add_insight --params -`,
		Args: func(cmd *cobra.Command, args []string) error {
			if list {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			d := a.dispatcher()
			if list {
				for _, name := range d.Tools() {
					desc, _ := d.Describe(name)
					fmt.Fprintf(a.out, "%-20s %s\n", name, desc)
				}
				return nil
			}

			params, err := parseToolParams(rawParams, pairs, cmd.InOrStdin())
			if err != nil {
				res := types.Failure(err)
				_ = a.writeJSON(res)
				return errReported
			}
			res := d.Dispatch(cmd.Context(), args[0], params)
			if err := a.writeJSON(res); err != nil {
				return err
			}
			if !res.OK() {
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rawParams, "params", "", "parameters as a JSON object, or - for stdin")
	cmd.Flags().StringArrayVar(&pairs, "param", nil, "parameter as key=value (repeatable; repeated keys form a list)")
	cmd.Flags().BoolVar(&list, "list", false, "list available tools")
	return cmd
}

// parseToolParams merges a JSON object with key=value pairs. A key given
// more than once as a pair becomes a list.
func parseToolParams(raw string, pairs []string, stdin io.Reader) (map[string]any, error) {
	params := map[string]any{}
	if raw == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read params: %w", err)
		}
		raw = string(data)
	}
	if strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return nil, fmt.Errorf("params must be a JSON object: %v: %w", err, types.ErrInvalidValue)
		}
		if params == nil {
			params = map[string]any{}
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q (expected key=value): %w", pair, types.ErrInvalidValue)
		}
		switch existing := params[key].(type) {
		case nil:
			params[key] = value
		case []any:
			params[key] = append(existing, value)
		default:
			params[key] = []any{existing, value}
		}
	}
	return params, nil
}
