// Package op defines opcodes for the glsp register virtual machine.
package op

// Code is an integer opcode that indicates an operation to execute.
// Operands are register indices unless noted otherwise.
type Code uint8

const (
	Invalid Code = 0

	// Execution
	Nop     Code = 1
	CopyReg Code = 2
	Call0   Code = 3
	Call1   Code = 4
	Call2   Code = 5
	CallN   Code = 6
	Ret     Code = 7
	Yield   Code = 8
	Splay   Code = 9

	// Jump (first operand is an instruction offset)
	Jump        Code = 10
	JumpIfTrue  Code = 11
	JumpIfFalse Code = 12

	// Globals (second operand indexes the literal pool)
	LoadGlobal Code = 20
	SetGlobal  Code = 21

	// Stays (shared storage cells)
	LoadStay Code = 30
	SetStay  Code = 31
	MakeStay Code = 32

	// Closures
	MakeLambda Code = 40

	// Arithmetic
	Add Code = 50
	Sub Code = 51
	Mul Code = 52
	Div Code = 53
	Rem Code = 54
	Abs Code = 55
	Neg Code = 56

	// Comparison
	NumEq Code = 60
	Lt    Code = 61
	Lte   Code = 62
	Gt    Code = 63
	Gte   Code = 64
	Not   Code = 65

	// Collections
	ArrPush   Code = 70
	ArrPop    Code = 71
	Len       Code = 72
	Access    Code = 73
	SetAccess Code = 74

	// Defer blocks
	PushDefer       Code = 80
	RunAndPopDefers Code = 81
	EndDefer        Code = 82
)

// Info contains information about an opcode.
type Info struct {
	Code         Code
	Name         string
	OperandCount int
}

var infos = make([]Info, 256)

func init() {
	type opInfo struct {
		op    Code
		name  string
		count int
	}
	ops := []opInfo{
		{Nop, "NOP", 0},
		{CopyReg, "COPY_REG", 2},
		{Call0, "CALL_0", 2},
		{Call1, "CALL_1", 3},
		{Call2, "CALL_2", 3},
		{CallN, "CALL_N", 3},
		{Ret, "RET", 1},
		{Yield, "YIELD", 2},
		{Splay, "SPLAY", 1},
		{Jump, "JUMP", 1},
		{JumpIfTrue, "JUMP_IF_TRUE", 2},
		{JumpIfFalse, "JUMP_IF_FALSE", 2},
		{LoadGlobal, "LOAD_GLOBAL", 2},
		{SetGlobal, "SET_GLOBAL", 2},
		{LoadStay, "LOAD_STAY", 2},
		{SetStay, "SET_STAY", 2},
		{MakeStay, "MAKE_STAY", 2},
		{MakeLambda, "MAKE_LAMBDA", 2},
		{Add, "ADD", 3},
		{Sub, "SUB", 3},
		{Mul, "MUL", 3},
		{Div, "DIV", 3},
		{Rem, "REM", 3},
		{Abs, "ABS", 2},
		{Neg, "NEG", 2},
		{NumEq, "NUM_EQ", 3},
		{Lt, "LT", 3},
		{Lte, "LTE", 3},
		{Gt, "GT", 3},
		{Gte, "GTE", 3},
		{Not, "NOT", 2},
		{ArrPush, "ARR_PUSH", 2},
		{ArrPop, "ARR_POP", 2},
		{Len, "LEN", 2},
		{Access, "ACCESS", 3},
		{SetAccess, "SET_ACCESS", 3},
		{PushDefer, "PUSH_DEFER", 1},
		{RunAndPopDefers, "RUN_AND_POP_DEFERS", 1},
		{EndDefer, "END_DEFER", 0},
	}
	for _, o := range ops {
		infos[o.op] = Info{
			Name:         o.name,
			Code:         o.op,
			OperandCount: o.count,
		}
	}
}

// GetInfo returns information about the given opcode.
func GetInfo(op Code) Info {
	return infos[op]
}

// String returns the mnemonic for the opcode, or "INVALID" if unknown.
func (c Code) String() string {
	info := infos[c]
	if info.Name == "" {
		return "INVALID"
	}
	return info.Name
}
