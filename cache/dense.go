package cache

import (
	"fmt"

	"github.com/MilkTool/glsp/bytecode"
	"github.com/MilkTool/glsp/source"
)

// denseEncoder holds the state required to convert a live object graph into
// its dense wire form: three memoization maps and the two append-only tables
// they feed. Spans and filenames are memoized by handle value; stays are
// memoized by cell identity, since cells carry no persisted value.
type denseEncoder struct {
	reg source.Registry

	spanIndex   map[source.Span]denseSpan
	spanStorage []denseSpanStorage

	filenameIndex   map[source.Filename]denseFilename
	filenameStorage []string

	stayIndex map[*bytecode.Stay]denseStay
}

func newDenseEncoder(reg source.Registry) *denseEncoder {
	return &denseEncoder{
		reg:           reg,
		spanIndex:     make(map[source.Span]denseSpan),
		filenameIndex: make(map[source.Filename]denseFilename),
		stayIndex:     make(map[*bytecode.Stay]denseStay),
	}
}

// spanRef returns the dense index for a span, flattening its storage record
// on first sight. Flattening resolves parent spans and filenames before
// appending the record itself, so an Expanded entry's parent indices are
// always strictly smaller than its own — the decoder's single forward pass
// depends on this.
func (e *denseEncoder) spanRef(s source.Span) (denseSpan, error) {
	if ds, ok := e.spanIndex[s]; ok {
		return ds, nil
	}
	storage, err := e.reg.SpanContents(s)
	if err != nil {
		return 0, err
	}
	dense, err := e.spanStorageRec(storage)
	if err != nil {
		return 0, err
	}
	e.spanStorage = append(e.spanStorage, dense)
	ds := denseSpan(len(e.spanStorage) - 1)
	e.spanIndex[s] = ds
	return ds, nil
}

func (e *denseEncoder) spanStorageRec(storage source.SpanStorage) (denseSpanStorage, error) {
	switch storage.Kind {
	case source.Loaded:
		filename, err := e.filenameRef(storage.Filename)
		if err != nil {
			return denseSpanStorage{}, err
		}
		return denseSpanStorage{Kind: spanLoaded, Filename: filename, Line: storage.Line}, nil
	case source.Expanded:
		parent0, err := e.spanRef(storage.Parent0)
		if err != nil {
			return denseSpanStorage{}, err
		}
		parent1, err := e.spanRef(storage.Parent1)
		if err != nil {
			return denseSpanStorage{}, err
		}
		return denseSpanStorage{
			Kind:    spanExpanded,
			Sym:     storage.Sym,
			Parent0: parent0,
			Parent1: parent1,
		}, nil
	case source.Generated:
		return denseSpanStorage{Kind: spanGenerated}, nil
	default:
		return denseSpanStorage{}, fmt.Errorf("unknown span storage kind %d", storage.Kind)
	}
}

// filenameRef returns the dense index for a filename handle, registering its
// string form on first sight.
func (e *denseEncoder) filenameRef(f source.Filename) (denseFilename, error) {
	if df, ok := e.filenameIndex[f]; ok {
		return df, nil
	}
	name, err := e.reg.FilenameString(f)
	if err != nil {
		return 0, err
	}
	e.filenameStorage = append(e.filenameStorage, name)
	df := denseFilename(len(e.filenameStorage) - 1)
	e.filenameIndex[f] = df
	return df, nil
}

// stayRef returns the dense index for a storage cell, keyed by identity so
// that shared cells collapse to a single index.
func (e *denseEncoder) stayRef(stay *bytecode.Stay) denseStay {
	if ds, ok := e.stayIndex[stay]; ok {
		return ds
	}
	ds := denseStay(len(e.stayIndex))
	e.stayIndex[stay] = ds
	return ds
}

func (e *denseEncoder) action(a Action) (denseAction, error) {
	switch a := a.(type) {
	case Execute:
		code, err := e.code(a.Code)
		if err != nil {
			return denseAction{}, err
		}
		return denseAction{Kind: actExecute, Code: code}, nil
	case ToplevelLet:
		return denseAction{Kind: actToplevelLet, Stay: e.stayRef(a.Stay)}, nil
	case StartLoad:
		filename, err := e.filenameRef(a.Filename)
		if err != nil {
			return denseAction{}, err
		}
		return denseAction{Kind: actStartLoad, Filename: filename}, nil
	case EndLoad:
		return denseAction{Kind: actEndLoad}, nil
	default:
		return denseAction{}, fmt.Errorf("unknown action type %T", a)
	}
}

func (e *denseEncoder) code(b *bytecode.Bytecode) (*denseBytecode, error) {
	instrs := make([]denseInstr, b.InstrCount())
	for i := range instrs {
		instr := b.InstrAt(i)
		instrs[i] = denseInstr{Op: uint8(instr.Op), A: instr.A, B: instr.B, C: instr.C}
	}

	spans := make([]denseSpan, b.SpanCount())
	for i := range spans {
		span, err := e.spanRef(b.SpanAt(i))
		if err != nil {
			return nil, err
		}
		spans[i] = span
	}

	var startRegs []denseValue
	if n := b.StartRegCount(); n > 0 {
		startRegs = make([]denseValue, n)
		for i := range startRegs {
			val, err := e.value(b.StartRegAt(i))
			if err != nil {
				return nil, err
			}
			startRegs[i] = val
		}
	}

	var startStays []denseStaySource
	if n := b.StartStayCount(); n > 0 {
		startStays = make([]denseStaySource, n)
		for i := range startStays {
			startStays[i] = e.staySource(b.StartStayAt(i))
		}
	}

	var lambdas []*denseLambda
	if n := b.LambdaCount(); n > 0 {
		lambdas = make([]*denseLambda, n)
		for i := range lambdas {
			lambda, err := e.lambda(b.LambdaAt(i))
			if err != nil {
				return nil, err
			}
			lambdas[i] = lambda
		}
	}

	var defers []int
	if n := b.DeferCount(); n > 0 {
		defers = make([]int, n)
		for i := range defers {
			defers[i] = b.DeferAt(i)
		}
	}

	return &denseBytecode{
		Instrs:       instrs,
		Spans:        spans,
		StartRegs:    startRegs,
		StartStays:   startStays,
		LocalCount:   b.LocalCount(),
		ScratchCount: b.ScratchCount(),
		LiteralCount: b.LiteralCount(),
		Lambdas:      lambdas,
		Defers:       defers,
	}, nil
}

func (e *denseEncoder) lambda(l *bytecode.Lambda) (*denseLambda, error) {
	code, err := e.code(l.Bytecode())
	if err != nil {
		return nil, err
	}
	captures := make([]uint8, l.CaptureCount())
	for i := range captures {
		captures[i] = l.CaptureAt(i)
	}
	params := l.Params()
	return &denseLambda{
		Code:     code,
		Required: params.Required,
		Optional: params.Optional,
		Rest:     params.Rest,
		Name:     l.Name(),
		Captures: captures,
		Yields:   l.Yields(),
	}, nil
}

func (e *denseEncoder) staySource(src bytecode.StaySource) denseStaySource {
	switch src.Kind {
	case bytecode.StayParam:
		return denseStaySource{Kind: stayParam, Slot: src.Slot}
	case bytecode.StayCaptured:
		return denseStaySource{Kind: stayCaptured, Slot: src.Slot}
	case bytecode.StayPreExisting:
		return denseStaySource{Kind: stayPreExisting, Stay: e.stayRef(src.Stay)}
	default:
		return denseStaySource{Kind: stayEmpty}
	}
}

func (e *denseEncoder) value(v any) (denseValue, error) {
	switch v := v.(type) {
	case nil:
		return denseValue{Kind: valNil}, nil
	case bool:
		return denseValue{Kind: valBool, Bool: v}, nil
	case int:
		return denseValue{Kind: valInt, Int: int64(v)}, nil
	case int64:
		return denseValue{Kind: valInt, Int: v}, nil
	case float64:
		return denseValue{Kind: valFlo, Flo: v}, nil
	case rune:
		return denseValue{Kind: valChar, Int: int64(v)}, nil
	case string:
		return denseValue{Kind: valStr, Str: v}, nil
	case bytecode.Sym:
		return denseValue{Kind: valSym, Str: string(v)}, nil
	default:
		return denseValue{}, fmt.Errorf("unsupported start-register literal type %T", v)
	}
}
