package bytecode

import "fmt"

// ParamMap describes the parameter shape a closure accepts: how many
// arguments are required, how many more are optional, and whether trailing
// arguments are collected into a rest parameter.
type ParamMap struct {
	Required int
	Optional int
	Rest     bool
}

// String returns a compact arity description, e.g. "2..3+rest".
func (p ParamMap) String() string {
	s := fmt.Sprintf("%d", p.Required)
	if p.Optional > 0 {
		s = fmt.Sprintf("%s..%d", s, p.Required+p.Optional)
	}
	if p.Rest {
		s += "+rest"
	}
	return s
}

// Lambda represents a compiled closure template. It is immutable after
// creation and contains all the static information needed to instantiate
// the closure at runtime.
type Lambda struct {
	bytecode *Bytecode
	params   ParamMap
	name     string  // "" for anonymous closures
	captures []uint8 // enclosing-scope slot indices captured by this closure
	yields   bool    // true for generator-like (suspendable) closures
}

// LambdaParams contains parameters for creating a new Lambda.
type LambdaParams struct {
	Bytecode *Bytecode
	Params   ParamMap
	Name     string
	Captures []uint8
	Yields   bool
}

// NewLambda creates a new immutable Lambda from the given parameters.
// The captures slice is copied to ensure immutability.
func NewLambda(params LambdaParams) *Lambda {
	return &Lambda{
		bytecode: params.Bytecode,
		params:   params.Params,
		name:     params.Name,
		captures: copyBytes(params.Captures),
		yields:   params.Yields,
	}
}

// Bytecode returns the compiled body of this closure.
func (l *Lambda) Bytecode() *Bytecode {
	return l.bytecode
}

// Params returns the parameter-shape descriptor.
func (l *Lambda) Params() ParamMap {
	return l.params
}

// Name returns the closure name, or empty string for anonymous closures.
func (l *Lambda) Name() string {
	return l.name
}

// IsNamed returns true if the closure has a name.
func (l *Lambda) IsNamed() bool {
	return l.name != ""
}

// CaptureCount returns the number of captured enclosing-scope slots.
func (l *Lambda) CaptureCount() int {
	return len(l.captures)
}

// CaptureAt returns the captured slot index at the given index.
func (l *Lambda) CaptureAt(index int) uint8 {
	return l.captures[index]
}

// Yields returns true for generator-like (suspendable) closures.
func (l *Lambda) Yields() bool {
	return l.yields
}

// String returns a short description of the closure.
func (l *Lambda) String() string {
	if l.name != "" {
		return fmt.Sprintf("lambda %s(%s)", l.name, l.params)
	}
	return fmt.Sprintf("lambda(%s)", l.params)
}
