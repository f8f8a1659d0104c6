package bytecode

import (
	"fmt"

	"github.com/MilkTool/glsp/op"
)

// Instr is one fixed-width register-machine instruction. The cache layer
// moves instructions verbatim and never inspects their operands.
type Instr struct {
	Op op.Code
	A  uint8
	B  uint8
	C  uint8
}

// String returns the instruction mnemonic with its operands.
func (i Instr) String() string {
	switch op.GetInfo(i.Op).OperandCount {
	case 0:
		return i.Op.String()
	case 1:
		return fmt.Sprintf("%s %d", i.Op, i.A)
	case 2:
		return fmt.Sprintf("%s %d %d", i.Op, i.A, i.B)
	default:
		return fmt.Sprintf("%s %d %d %d", i.Op, i.A, i.B, i.C)
	}
}
