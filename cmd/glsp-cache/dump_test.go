package main

import (
	"testing"

	"github.com/MilkTool/glsp/bytecode"
	"github.com/MilkTool/glsp/op"
	"github.com/MilkTool/glsp/source"
	"github.com/stretchr/testify/require"
)

func TestDescribeSpan(t *testing.T) {
	table := source.NewTable()
	file := table.InternFilename("a.glsp")
	loaded := table.InternSpan(source.LoadedSpan(file, 12))
	expanded := table.InternSpan(source.ExpandedSpan("when", loaded, loaded))
	generated := table.InternSpan(source.GeneratedSpan())

	require.Equal(t, "a.glsp:12", describeSpan(table, loaded))
	require.Equal(t, "(when) <- a.glsp:12", describeSpan(table, expanded))
	require.Equal(t, "generated", describeSpan(table, generated))
	require.Equal(t, "?", describeSpan(table, source.Span(99)))
}

func TestDumpBytecodeJSON(t *testing.T) {
	table := source.NewTable()
	file := table.InternFilename("b.glsp")
	span := table.InternSpan(source.LoadedSpan(file, 3))

	inner := bytecode.NewBytecode(bytecode.BytecodeParams{
		Instrs: []bytecode.Instr{{Op: op.Ret, A: 0}},
		Spans:  []source.Span{span},
	})
	code := bytecode.NewBytecode(bytecode.BytecodeParams{
		Instrs: []bytecode.Instr{{Op: op.MakeLambda, A: 0, B: 0}, {Op: op.Ret, A: 0}},
		Spans:  []source.Span{span, span},
		Lambdas: []*bytecode.Lambda{
			bytecode.NewLambda(bytecode.LambdaParams{
				Bytecode: inner,
				Params:   bytecode.ParamMap{Required: 1},
				Name:     "f",
			}),
		},
		LocalCount: 2,
	})

	d := dumpBytecodeJSON(code, table)
	require.Len(t, d.Instrs, 2)
	require.Equal(t, []string{"b.glsp:3", "b.glsp:3"}, d.Spans)
	require.Equal(t, uint8(2), d.LocalCount)
	require.Len(t, d.Lambdas, 1)
	require.Equal(t, "f", d.Lambdas[0].Name)
	require.Equal(t, "1", d.Lambdas[0].Params)
	require.Len(t, d.Lambdas[0].Bytecode.Instrs, 1)
}
