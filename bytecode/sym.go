package bytecode

// Sym is an interned-symbol literal. It is distinct from string so a
// start-register holding the symbol `foo` round-trips as a symbol rather
// than the string "foo".
type Sym string

// String returns the symbol's name.
func (s Sym) String() string {
	return string(s)
}
