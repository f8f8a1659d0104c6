package bytecode

import "fmt"

// Stay is a heap-allocated storage cell backing a variable that may be
// captured by closures or assigned at the toplevel. Identity matters: two
// Bytecodes referencing the same Stay observe each other's writes, and that
// sharing must survive a cache round trip. A Stay carries no value at rest;
// cells reconstructed from a cache start nil and are populated when the
// corresponding toplevel-let action runs.
type Stay struct {
	value any
}

// NewStay creates a storage cell holding the given initial value.
func NewStay(value any) *Stay {
	return &Stay{value: value}
}

// Value returns the cell's current value.
func (s *Stay) Value() any {
	return s.value
}

// Set replaces the cell's current value.
func (s *Stay) Set(value any) {
	s.value = value
}

// String describes the cell without exposing its identity.
func (s *Stay) String() string {
	if s.value == nil {
		return "stay()"
	}
	return fmt.Sprintf("stay(%v)", s.value)
}

// StaySourceKind discriminates the StaySource variants.
type StaySourceKind uint8

const (
	// StayEmpty binds a fresh cell with no initial value.
	StayEmpty StaySourceKind = iota
	// StayParam binds a cell initialized from a positional parameter slot.
	StayParam
	// StayCaptured binds a cell captured from the enclosing closure.
	StayCaptured
	// StayPreExisting binds a specific already-allocated cell. This is the
	// variant for which cell identity must be preserved across a round trip.
	StayPreExisting
)

// String returns the lowercase name of the stay source kind.
func (k StaySourceKind) String() string {
	switch k {
	case StayEmpty:
		return "empty"
	case StayParam:
		return "param"
	case StayCaptured:
		return "captured"
	case StayPreExisting:
		return "pre-existing"
	default:
		return "unknown"
	}
}

// StaySource describes where one of a Bytecode's cell bindings originates.
// Only the fields selected by Kind are meaningful.
type StaySource struct {
	Kind StaySourceKind
	Slot uint8 // StayParam, StayCaptured
	Stay *Stay // StayPreExisting
}

// EmptyStaySource returns a binding for a fresh, empty cell.
func EmptyStaySource() StaySource {
	return StaySource{Kind: StayEmpty}
}

// ParamStaySource returns a binding initialized from a parameter slot.
func ParamStaySource(slot uint8) StaySource {
	return StaySource{Kind: StayParam, Slot: slot}
}

// CapturedStaySource returns a binding captured from the enclosing closure.
func CapturedStaySource(slot uint8) StaySource {
	return StaySource{Kind: StayCaptured, Slot: slot}
}

// PreExistingStaySource returns a binding to a specific existing cell.
func PreExistingStaySource(stay *Stay) StaySource {
	return StaySource{Kind: StayPreExisting, Stay: stay}
}
