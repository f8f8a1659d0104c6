package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MilkTool/glsp/bytecode"
	"github.com/MilkTool/glsp/cache"
	"github.com/MilkTool/glsp/source"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Fully decode a cache file and list its recorded actions",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			fatal(err)
		}

		table := source.NewTable()
		rec, err := cache.Unmarshal(data, table)
		if err != nil {
			fatal(err)
		}
		log.Debug().Str("path", path).Int("actions", rec.Len()).Msg("decoded recording")

		switch viper.GetString("output") {
		case "json":
			dumpJSON(rec, table)
		case "text", "":
			dumpText(rec, table)
		default:
			fatal(fmt.Sprintf("unknown output format: %s", viper.GetString("output")))
		}
	},
}

func dumpText(rec *cache.Recording, table *source.Table) {
	for i := 0; !rec.IsEmpty(); i++ {
		action, err := rec.Pop()
		if err != nil {
			fatal(err)
		}
		fmt.Printf("%s %s\n", faint("%4d", i), bold("%s", action.String()))
		if execute, ok := action.(cache.Execute); ok {
			dumpBytecodeText(execute.Code, table, "      ")
		}
	}
}

func dumpBytecodeText(code *bytecode.Bytecode, table *source.Table, indent string) {
	for i := 0; i < code.InstrCount(); i++ {
		fmt.Printf("%s%s %-24s %s\n",
			indent,
			faint("%04d", i),
			code.InstrAt(i).String(),
			faint("; %s", describeSpan(table, code.SpanAt(i))))
	}
	for i := 0; i < code.LambdaCount(); i++ {
		lambda := code.LambdaAt(i)
		fmt.Printf("%s%s\n", indent, cyan("%s", lambda.String()))
		dumpBytecodeText(lambda.Bytecode(), table, indent+"  ")
	}
}

func describeSpan(table *source.Table, span source.Span) string {
	storage, err := table.SpanContents(span)
	if err != nil {
		return "?"
	}
	switch storage.Kind {
	case source.Loaded:
		name, err := table.FilenameString(storage.Filename)
		if err != nil {
			name = "?"
		}
		return fmt.Sprintf("%s:%d", name, storage.Line)
	case source.Expanded:
		return fmt.Sprintf("(%s) <- %s", storage.Sym, describeSpan(table, storage.Parent0))
	case source.Generated:
		return "generated"
	default:
		return "?"
	}
}

type dumpAction struct {
	Kind     string        `json:"kind"`
	Bytecode *dumpBytecode `json:"bytecode,omitempty"`
	Filename string        `json:"filename,omitempty"`
}

type dumpBytecode struct {
	Instrs       []string     `json:"instrs"`
	Spans        []string     `json:"spans"`
	LocalCount   uint8        `json:"local_count,omitempty"`
	ScratchCount uint8        `json:"scratch_count,omitempty"`
	LiteralCount uint8        `json:"literal_count,omitempty"`
	Lambdas      []dumpLambda `json:"lambdas,omitempty"`
}

type dumpLambda struct {
	Name     string        `json:"name,omitempty"`
	Params   string        `json:"params"`
	Yields   bool          `json:"yields,omitempty"`
	Bytecode *dumpBytecode `json:"bytecode"`
}

func dumpJSON(rec *cache.Recording, table *source.Table) {
	var actions []dumpAction
	for !rec.IsEmpty() {
		action, err := rec.Pop()
		if err != nil {
			fatal(err)
		}
		switch action := action.(type) {
		case cache.Execute:
			actions = append(actions, dumpAction{
				Kind:     "execute",
				Bytecode: dumpBytecodeJSON(action.Code, table),
			})
		case cache.ToplevelLet:
			actions = append(actions, dumpAction{Kind: "toplevel-let"})
		case cache.StartLoad:
			name, err := table.FilenameString(action.Filename)
			if err != nil {
				fatal(err)
			}
			actions = append(actions, dumpAction{Kind: "start-load", Filename: name})
		case cache.EndLoad:
			actions = append(actions, dumpAction{Kind: "end-load"})
		}
	}
	out, err := json.MarshalIndent(actions, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
}

func dumpBytecodeJSON(code *bytecode.Bytecode, table *source.Table) *dumpBytecode {
	d := &dumpBytecode{
		LocalCount:   code.LocalCount(),
		ScratchCount: code.ScratchCount(),
		LiteralCount: code.LiteralCount(),
	}
	for i := 0; i < code.InstrCount(); i++ {
		d.Instrs = append(d.Instrs, code.InstrAt(i).String())
		d.Spans = append(d.Spans, describeSpan(table, code.SpanAt(i)))
	}
	for i := 0; i < code.LambdaCount(); i++ {
		lambda := code.LambdaAt(i)
		d.Lambdas = append(d.Lambdas, dumpLambda{
			Name:     lambda.Name(),
			Params:   lambda.Params().String(),
			Yields:   lambda.Yields(),
			Bytecode: dumpBytecodeJSON(lambda.Bytecode(), table),
		})
	}
	return d
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
