// Package source provides interned handles for source-code locations.
//
// A Span is a small opaque handle into a session-wide table of SpanStorage
// records. Spans are attached to every compiled instruction for diagnostics,
// so they are deduplicated aggressively: registering the same storage record
// twice yields the same handle. Filenames are interned the same way, since
// many spans in one file share a single path string.
package source

import "fmt"

// Filename is an opaque handle to an interned source file path.
type Filename uint32

// Span is an opaque handle to an interned SpanStorage record.
type Span uint32

// SpanKind discriminates the three SpanStorage variants.
type SpanKind uint8

const (
	// Loaded is a location directly in a source file.
	Loaded SpanKind = iota
	// Expanded is a location produced by macro expansion. It refers to two
	// previously registered spans: the expansion site and the expanded form.
	Expanded
	// Generated is synthesized code with no source origin.
	Generated
)

// String returns the lowercase name of the span kind.
func (k SpanKind) String() string {
	switch k {
	case Loaded:
		return "loaded"
	case Expanded:
		return "expanded"
	case Generated:
		return "generated"
	default:
		return "unknown"
	}
}

// SpanStorage is the stored form of a Span. It is a value type: two storage
// records with equal fields describe the same location and intern to the
// same Span handle.
//
// Only the fields selected by Kind are meaningful. For Expanded records the
// parent spans must already be registered, so expansion edges always point
// strictly backward in registration order.
type SpanStorage struct {
	Kind SpanKind

	// Loaded
	Filename Filename
	Line     int

	// Expanded. Sym is the name of the expanding form, or "" when the
	// expansion was anonymous.
	Sym     string
	Parent0 Span
	Parent1 Span
}

// LoadedSpan returns the storage record for a location in a source file.
func LoadedSpan(filename Filename, line int) SpanStorage {
	return SpanStorage{Kind: Loaded, Filename: filename, Line: line}
}

// ExpandedSpan returns the storage record for a macro-expanded location.
func ExpandedSpan(sym string, parent0, parent1 Span) SpanStorage {
	return SpanStorage{Kind: Expanded, Sym: sym, Parent0: parent0, Parent1: parent1}
}

// GeneratedSpan returns the storage record for synthesized code.
func GeneratedSpan() SpanStorage {
	return SpanStorage{Kind: Generated}
}

// String returns a compact representation for diagnostics.
func (s SpanStorage) String() string {
	switch s.Kind {
	case Loaded:
		return fmt.Sprintf("loaded(file#%d:%d)", s.Filename, s.Line)
	case Expanded:
		if s.Sym != "" {
			return fmt.Sprintf("expanded(%s, span#%d, span#%d)", s.Sym, s.Parent0, s.Parent1)
		}
		return fmt.Sprintf("expanded(span#%d, span#%d)", s.Parent0, s.Parent1)
	case Generated:
		return "generated"
	default:
		return "unknown"
	}
}
