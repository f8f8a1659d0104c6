package bytecode

import (
	"github.com/MilkTool/glsp/source"
)

// Bytecode represents a compiled toplevel form or closure body.
// It is immutable after creation and safe for concurrent use.
//
// Start-register values are restricted to scalar literals (nil, bool,
// int64, float64, rune, string, Sym); the cache layer rejects anything else
// at encode time.
type Bytecode struct {
	instrs     []Instr
	spans      []source.Span // one per instruction
	startRegs  []any
	startStays []StaySource
	lambdas    []*Lambda
	defers     []int // instruction offsets of defer-block entry points

	localCount   uint8
	scratchCount uint8
	literalCount uint8
}

// BytecodeParams contains parameters for creating a new Bytecode.
type BytecodeParams struct {
	Instrs     []Instr
	Spans      []source.Span
	StartRegs  []any
	StartStays []StaySource
	Lambdas    []*Lambda
	Defers     []int

	LocalCount   uint8
	ScratchCount uint8
	LiteralCount uint8
}

// NewBytecode creates a new immutable Bytecode from the given parameters.
// Input slices are copied to ensure immutability.
func NewBytecode(params BytecodeParams) *Bytecode {
	return &Bytecode{
		instrs:       copyInstrs(params.Instrs),
		spans:        copySpans(params.Spans),
		startRegs:    copyAny(params.StartRegs),
		startStays:   copyStaySources(params.StartStays),
		lambdas:      copyLambdas(params.Lambdas),
		defers:       copyInts(params.Defers),
		localCount:   params.LocalCount,
		scratchCount: params.ScratchCount,
		literalCount: params.LiteralCount,
	}
}

// InstrCount returns the number of instructions.
func (b *Bytecode) InstrCount() int {
	return len(b.instrs)
}

// InstrAt returns the instruction at the given index.
func (b *Bytecode) InstrAt(index int) Instr {
	return b.instrs[index]
}

// SpanCount returns the number of span references. This matches InstrCount
// for bytecode produced by the compiler.
func (b *Bytecode) SpanCount() int {
	return len(b.spans)
}

// SpanAt returns the span reference for the instruction at the given index.
func (b *Bytecode) SpanAt(index int) source.Span {
	return b.spans[index]
}

// StartRegCount returns the number of initial register values.
func (b *Bytecode) StartRegCount() int {
	return len(b.startRegs)
}

// StartRegAt returns the initial register value at the given index.
func (b *Bytecode) StartRegAt(index int) any {
	return b.startRegs[index]
}

// StartStayCount returns the number of cell bindings.
func (b *Bytecode) StartStayCount() int {
	return len(b.startStays)
}

// StartStayAt returns the cell binding at the given index.
func (b *Bytecode) StartStayAt(index int) StaySource {
	return b.startStays[index]
}

// LambdaCount returns the number of nested closures defined by this code.
func (b *Bytecode) LambdaCount() int {
	return len(b.lambdas)
}

// LambdaAt returns the nested closure at the given index.
func (b *Bytecode) LambdaAt(index int) *Lambda {
	return b.lambdas[index]
}

// DeferCount returns the number of defer-block entry points.
func (b *Bytecode) DeferCount() int {
	return len(b.defers)
}

// DeferAt returns the defer-block entry offset at the given index.
func (b *Bytecode) DeferAt(index int) int {
	return b.defers[index]
}

// LocalCount returns the number of local register slots.
func (b *Bytecode) LocalCount() uint8 {
	return b.localCount
}

// ScratchCount returns the number of scratch register slots.
func (b *Bytecode) ScratchCount() uint8 {
	return b.scratchCount
}

// LiteralCount returns the number of literal register slots.
func (b *Bytecode) LiteralCount() uint8 {
	return b.literalCount
}
