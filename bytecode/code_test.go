package bytecode

import (
	"testing"

	"github.com/MilkTool/glsp/op"
	"github.com/MilkTool/glsp/source"
	"github.com/stretchr/testify/require"
)

func TestNewBytecodeImmutability(t *testing.T) {
	instrs := []Instr{
		{Op: op.LoadGlobal, A: 0, B: 0},
		{Op: op.Ret, A: 0},
	}
	spans := []source.Span{3, 3}
	startRegs := []any{int64(42), "hello"}
	startStays := []StaySource{EmptyStaySource(), ParamStaySource(1)}
	defers := []int{7}

	code := NewBytecode(BytecodeParams{
		Instrs:       instrs,
		Spans:        spans,
		StartRegs:    startRegs,
		StartStays:   startStays,
		Defers:       defers,
		LocalCount:   2,
		ScratchCount: 1,
		LiteralCount: 2,
	})

	// Modify the original slices
	instrs[0] = Instr{Op: op.Nop}
	spans[0] = 99
	startRegs[0] = int64(99)
	startStays[0] = ParamStaySource(9)
	defers[0] = 99

	// Verify the code was not affected by the modifications
	require.Equal(t, op.LoadGlobal, code.InstrAt(0).Op)
	require.Equal(t, source.Span(3), code.SpanAt(0))
	require.Equal(t, int64(42), code.StartRegAt(0))
	require.Equal(t, StayEmpty, code.StartStayAt(0).Kind)
	require.Equal(t, 7, code.DeferAt(0))
}

func TestBytecodeAccessors(t *testing.T) {
	inner := NewBytecode(BytecodeParams{
		Instrs: []Instr{{Op: op.Ret}},
		Spans:  []source.Span{0},
	})
	lambda := NewLambda(LambdaParams{
		Bytecode: inner,
		Params:   ParamMap{Required: 1},
		Name:     "adder",
		Captures: []uint8{0},
	})
	code := NewBytecode(BytecodeParams{
		Instrs:       []Instr{{Op: op.MakeLambda}, {Op: op.Ret}},
		Spans:        []source.Span{1, 1},
		StartRegs:    []any{nil, true},
		StartStays:   []StaySource{CapturedStaySource(2)},
		Lambdas:      []*Lambda{lambda},
		LocalCount:   1,
		ScratchCount: 3,
		LiteralCount: 2,
	})

	require.Equal(t, 2, code.InstrCount())
	require.Equal(t, 2, code.SpanCount())
	require.Equal(t, 2, code.StartRegCount())
	require.Equal(t, 1, code.StartStayCount())
	require.Equal(t, 1, code.LambdaCount())
	require.Equal(t, 0, code.DeferCount())
	require.Equal(t, uint8(1), code.LocalCount())
	require.Equal(t, uint8(3), code.ScratchCount())
	require.Equal(t, uint8(2), code.LiteralCount())
	require.Same(t, lambda, code.LambdaAt(0))
	require.Equal(t, uint8(2), code.StartStayAt(0).Slot)
}

func TestInstrString(t *testing.T) {
	require.Equal(t, "END_DEFER", Instr{Op: op.EndDefer}.String())
	require.Equal(t, "RET 3", Instr{Op: op.Ret, A: 3}.String())
	require.Equal(t, "LOAD_STAY 1 2", Instr{Op: op.LoadStay, A: 1, B: 2}.String())
	require.Equal(t, "ADD 1 2 3", Instr{Op: op.Add, A: 1, B: 2, C: 3}.String())
}
