// Package filter compiles boolean expressions over pins using the expr
// language, for client-side narrowing of meta groups.
package filter

import (
	"math"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/pinctl/pinctl/pinapi"
)

// PinFilter represents a compiled pin filter
type PinFilter struct {
	program    *vm.Program
	expression string
}

// Compile compiles a filter expression into an executable pin filter.
// Expressions evaluate to a boolean over a single pin, e.g.:
//
//	Alert && Opacity < 0.5
//	hasIcon() && contains(HTML, "fire exit")
//	near(10.0, 0.0, 2.5, 3.0)
func Compile(expression string) (*PinFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.Env(staticEnv()),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	return &PinFilter{program: program, expression: expression}, nil
}

// Evaluate evaluates the filter against a pin. Runtime errors never
// propagate; a pin that cannot be evaluated simply does not match.
func (f *PinFilter) Evaluate(pin pinapi.Pin) bool {
	result, err := expr.Run(f.program, runtimeEnv(pin))
	if err != nil {
		return false
	}

	// AsBool() at compile time guarantees a boolean result.
	return result.(bool)
}

// Apply returns the pins matching the filter, preserving order.
func (f *PinFilter) Apply(pins []pinapi.Pin) []pinapi.Pin {
	matched := make([]pinapi.Pin, 0, len(pins))
	for _, pin := range pins {
		if f.Evaluate(pin) {
			matched = append(matched, pin)
		}
	}
	return matched
}

// Expression returns the original expression
func (f *PinFilter) Expression() string {
	return f.expression
}

// staticEnv declares the helper functions available at compile time.
func staticEnv() map[string]any {
	return map[string]any{
		"contains": func(str, substr string) bool {
			return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
		},
		"startsWith": func(str, prefix string) bool {
			return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
		},
		"endsWith": func(str, suffix string) bool {
			return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
		},
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
	}
}

// runtimeEnv builds the evaluation environment for a single pin.
func runtimeEnv(pin pinapi.Pin) map[string]any {
	env := staticEnv()

	env["hasIcon"] = func() bool {
		return pin.Icon != ""
	}
	env["hasColor"] = func() bool {
		return pin.Color != ""
	}
	env["near"] = func(x, y, z, radius float64) bool {
		dx := pin.Position.X - x
		dy := pin.Position.Y - y
		dz := pin.Position.Z - z
		return math.Sqrt(dx*dx+dy*dy+dz*dz) <= radius
	}

	// Direct pin properties for convenience
	env["Pin"] = pin
	env["ID"] = pin.ID
	env["MetaID"] = pin.MetaID
	env["Position"] = pin.Position
	env["Offset"] = pin.Offset
	env["HTML"] = pin.HTML
	env["Opacity"] = pin.Opacity
	env["EnableLine"] = pin.EnableLine
	env["Alert"] = pin.Alert
	env["Icon"] = pin.Icon
	env["Color"] = pin.Color

	return env
}
