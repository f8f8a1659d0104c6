package cache

import (
	"fmt"

	"github.com/MilkTool/glsp/bytecode"
	"github.com/MilkTool/glsp/source"
)

// Action is one step in a recorded load sequence. The executor consumes
// actions strictly front-to-back; most are just a toplevel Bytecode to run.
// Nested load operations are bracketed by StartLoad and EndLoad so a replay
// validator can compare the recorded sequence against live execution.
type Action interface {
	action()
	fmt.Stringer
}

// Execute runs the given Bytecode as a toplevel unit.
type Execute struct {
	Code *bytecode.Bytecode
}

// ToplevelLet binds the result of the most recent Execute into a cell.
type ToplevelLet struct {
	Stay *bytecode.Stay
}

// StartLoad marks the start of a nested load operation.
type StartLoad struct {
	Filename source.Filename
}

// EndLoad marks the end of the most recent nested load operation.
type EndLoad struct{}

func (Execute) action()     {}
func (ToplevelLet) action() {}
func (StartLoad) action()   {}
func (EndLoad) action()     {}

func (a Execute) String() string {
	if a.Code == nil {
		return "execute"
	}
	return fmt.Sprintf("execute(%d instrs)", a.Code.InstrCount())
}

func (a ToplevelLet) String() string {
	return "toplevel-let"
}

func (a StartLoad) String() string {
	return fmt.Sprintf("start-load(file#%d)", a.Filename)
}

func (EndLoad) String() string {
	return "end-load"
}
