package cli

import (
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/waypoint/pkg/types"
)

// writeJSON prints v as indented JSON on stdout.
func (a *app) writeJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(a.out, string(out))
	return nil
}

// fail reports err in the active output mode.
func (a *app) fail(err error) {
	if a.flags.jsonMode {
		_ = a.writeJSON(map[string]string{"error": err.Error()})
		return
	}
	a.print.Error(err.Error())
}

// emitResult prints a mutation envelope. JSON mode prints the envelope
// as is; human mode prints the payload or the error.
func (a *app) emitResult(res types.Result) error {
	if a.flags.jsonMode {
		if err := a.writeJSON(res); err != nil {
			return err
		}
	} else if res.OK() {
		a.print.Result(res.Data)
	} else {
		a.print.Error(*res.Error)
	}
	if !res.OK() {
		return errReported
	}
	return nil
}

// emitCheck prints an evaluation or validation payload directly, without
// the envelope, and maps an unmet outcome to a failing exit code.
func (a *app) emitCheck(res types.Result) error {
	if !res.OK() {
		a.fail(fmt.Errorf("%s", *res.Error))
		return errReported
	}
	if a.flags.jsonMode {
		if err := a.writeJSON(res.Data); err != nil {
			return err
		}
	} else {
		a.print.Result(res.Data)
	}
	switch d := res.Data.(type) {
	case types.Evaluation:
		if !d.Complete {
			return errReported
		}
	case types.ValidationReport:
		if !d.Valid {
			return errReported
		}
	}
	return nil
}
