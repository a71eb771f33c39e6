package catalog

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Parameter is one column of the catalog: a declared model property
// with a display title and an optional unit. Derived parameters are
// computed from the other values instead of being read from the data
// file; they are excluded from grouped tables.
type Parameter struct {
	Title   string
	Name    string
	Unit    string
	Derived bool

	derive *vm.Program
	format *vm.Program
}

func newParameter(title, name, unit string) *Parameter {
	return &Parameter{Title: title, Name: name, Unit: unit}
}

// setDerive compiles the arithmetic expression that computes this
// parameter from the other values, e.g. "width * depth * height".
func (p *Parameter) setDerive(src string) error {
	program, err := expr.Compile(src)
	if err != nil {
		return fmt.Errorf("catalog: parameter %s: compiling derive expression: %w", p.Name, err)
	}
	p.derive = program
	p.Derived = true
	return nil
}

// setFormat compiles the expression that renders a value of this
// parameter, e.g. `sprintf("%.1f cm", value / 10.0)`.
func (p *Parameter) setFormat(src string) error {
	program, err := expr.Compile(src)
	if err != nil {
		return fmt.Errorf("catalog: parameter %s: compiling format expression: %w", p.Name, err)
	}
	p.format = program
	return nil
}

// HasDerive reports whether a derive expression is attached. A
// parameter may be flagged Derived without one; it then keeps the
// value from the data file and is merely excluded from grouped tables.
func (p *Parameter) HasDerive() bool { return p.derive != nil }

// Derive evaluates the derive expression over the given values. The
// expression sees each value under its parameter name as int64,
// float64 or string. Whole float results collapse to integers.
func (p *Parameter) Derive(values map[string]Value) (Value, error) {
	if p.derive == nil {
		return Value{}, fmt.Errorf("%w: parameter %s has no derive expression", ErrBadExpression, p.Name)
	}
	env := make(map[string]any, len(values))
	for name, v := range values {
		env[name] = v.Native()
	}
	out, err := expr.Run(p.derive, env)
	if err != nil {
		return Value{}, fmt.Errorf("catalog: parameter %s: evaluating derive expression: %w", p.Name, err)
	}
	v, err := ValueOf(out)
	if err != nil {
		return Value{}, fmt.Errorf("parameter %s: derive expression: %w", p.Name, err)
	}
	return v, nil
}

// FormatValue renders a value of this parameter. With a format
// expression attached, the expression sees the value as "value" and a
// "sprintf" helper; it must return a string. Otherwise the default
// rendering with the parameter's unit applies.
func (p *Parameter) FormatValue(v Value) (string, error) {
	if p.format == nil {
		return v.Format(p.Unit), nil
	}
	env := map[string]any{
		"value":   v.Native(),
		"sprintf": fmt.Sprintf,
	}
	out, err := expr.Run(p.format, env)
	if err != nil {
		return "", fmt.Errorf("catalog: parameter %s: evaluating format expression: %w", p.Name, err)
	}
	text, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("%w: parameter %s: format expression returned %T, want string", ErrBadExpression, p.Name, out)
	}
	return text, nil
}
