package bytecode

import (
	"testing"

	"github.com/MilkTool/glsp/op"
	"github.com/stretchr/testify/require"
)

func TestNewLambdaImmutability(t *testing.T) {
	captures := []uint8{0, 2, 5}
	code := NewBytecode(BytecodeParams{Instrs: []Instr{{Op: op.Ret}}})
	lambda := NewLambda(LambdaParams{
		Bytecode: code,
		Params:   ParamMap{Required: 2, Optional: 1},
		Name:     "helper",
		Captures: captures,
		Yields:   true,
	})

	captures[0] = 9

	require.Equal(t, uint8(0), lambda.CaptureAt(0))
	require.Equal(t, 3, lambda.CaptureCount())
	require.Same(t, code, lambda.Bytecode())
	require.True(t, lambda.Yields())
	require.True(t, lambda.IsNamed())
	require.Equal(t, "helper", lambda.Name())
}

func TestParamMapString(t *testing.T) {
	require.Equal(t, "2", ParamMap{Required: 2}.String())
	require.Equal(t, "1..3", ParamMap{Required: 1, Optional: 2}.String())
	require.Equal(t, "0+rest", ParamMap{Rest: true}.String())
	require.Equal(t, "1..2+rest", ParamMap{Required: 1, Optional: 1, Rest: true}.String())
}

func TestLambdaString(t *testing.T) {
	code := NewBytecode(BytecodeParams{})
	named := NewLambda(LambdaParams{Bytecode: code, Name: "loop", Params: ParamMap{Required: 1}})
	anon := NewLambda(LambdaParams{Bytecode: code})
	require.Equal(t, "lambda loop(1)", named.String())
	require.Equal(t, "lambda(0)", anon.String())
}

func TestStayCell(t *testing.T) {
	stay := NewStay(nil)
	require.Nil(t, stay.Value())
	require.Equal(t, "stay()", stay.String())

	stay.Set(int64(7))
	require.Equal(t, int64(7), stay.Value())
	require.Equal(t, "stay(7)", stay.String())

	// Identity, not value, distinguishes cells.
	other := NewStay(int64(7))
	require.NotSame(t, stay, other)
}
