package cache

import (
	"github.com/MilkTool/glsp/bytecode"
	"github.com/MilkTool/glsp/errz"
	"github.com/MilkTool/glsp/op"
	"github.com/MilkTool/glsp/source"
)

// sparseDecoder holds the direct index-to-handle arrays used to rewrite
// dense indices back into live references.
type sparseDecoder struct {
	spans     []source.Span
	filenames []source.Filename
	stays     []*bytecode.Stay
}

// newSparseDecoder rebuilds the live tables from a decoded chunk: every
// filename string is interned, every recorded cell is allocated fresh and
// empty, and the span storage table is replayed strictly in index order.
// Expanded records only refer to spans with an earlier index than their own,
// so a single forward pass suffices.
func newSparseDecoder(c *chunk, reg source.Registry) (*sparseDecoder, error) {
	d := &sparseDecoder{
		spans:     make([]source.Span, 0, len(c.SpanStorage)),
		filenames: make([]source.Filename, len(c.FilenameStorage)),
		stays:     make([]*bytecode.Stay, c.StayCount),
	}
	for i, name := range c.FilenameStorage {
		d.filenames[i] = reg.InternFilename(name)
	}
	for i := range d.stays {
		d.stays[i] = bytecode.NewStay(nil)
	}
	for _, dense := range c.SpanStorage {
		storage, err := d.spanStorage(dense)
		if err != nil {
			return nil, err
		}
		d.spans = append(d.spans, reg.InternSpan(storage))
	}
	return d, nil
}

func (d *sparseDecoder) spanStorage(dense denseSpanStorage) (source.SpanStorage, error) {
	switch dense.Kind {
	case spanLoaded:
		filename, err := d.filename(dense.Filename)
		if err != nil {
			return source.SpanStorage{}, err
		}
		return source.LoadedSpan(filename, dense.Line), nil
	case spanExpanded:
		parent0, err := d.span(dense.Parent0)
		if err != nil {
			return source.SpanStorage{}, err
		}
		parent1, err := d.span(dense.Parent1)
		if err != nil {
			return source.SpanStorage{}, err
		}
		return source.ExpandedSpan(dense.Sym, parent0, parent1), nil
	case spanGenerated:
		return source.GeneratedSpan(), nil
	default:
		return source.SpanStorage{}, errz.Newf(errz.MalformedStream, "unknown span storage kind %d", dense.Kind)
	}
}

func (d *sparseDecoder) span(ds denseSpan) (source.Span, error) {
	if int(ds) >= len(d.spans) {
		return 0, errz.Newf(errz.CorruptIndex,
			"span index %d out of range (%d entries)", ds, len(d.spans))
	}
	return d.spans[ds], nil
}

func (d *sparseDecoder) filename(df denseFilename) (source.Filename, error) {
	if int(df) >= len(d.filenames) {
		return 0, errz.Newf(errz.CorruptIndex,
			"filename index %d out of range (%d entries)", df, len(d.filenames))
	}
	return d.filenames[df], nil
}

func (d *sparseDecoder) stay(ds denseStay) (*bytecode.Stay, error) {
	if int(ds) >= len(d.stays) {
		return nil, errz.Newf(errz.CorruptIndex,
			"stay index %d out of range (%d cells)", ds, len(d.stays))
	}
	return d.stays[ds], nil
}

func (d *sparseDecoder) action(dense denseAction) (Action, error) {
	switch dense.Kind {
	case actExecute:
		if dense.Code == nil {
			return nil, errz.New(errz.MalformedStream, "execute action missing bytecode")
		}
		code, err := d.code(dense.Code)
		if err != nil {
			return nil, err
		}
		return Execute{Code: code}, nil
	case actToplevelLet:
		stay, err := d.stay(dense.Stay)
		if err != nil {
			return nil, err
		}
		return ToplevelLet{Stay: stay}, nil
	case actStartLoad:
		filename, err := d.filename(dense.Filename)
		if err != nil {
			return nil, err
		}
		return StartLoad{Filename: filename}, nil
	case actEndLoad:
		return EndLoad{}, nil
	default:
		return nil, errz.Newf(errz.MalformedStream, "unknown action kind %d", dense.Kind)
	}
}

func (d *sparseDecoder) code(dense *denseBytecode) (*bytecode.Bytecode, error) {
	instrs := make([]bytecode.Instr, len(dense.Instrs))
	for i, instr := range dense.Instrs {
		instrs[i] = bytecode.Instr{Op: op.Code(instr.Op), A: instr.A, B: instr.B, C: instr.C}
	}

	spans := make([]source.Span, len(dense.Spans))
	for i, ds := range dense.Spans {
		span, err := d.span(ds)
		if err != nil {
			return nil, err
		}
		spans[i] = span
	}

	var startRegs []any
	if len(dense.StartRegs) > 0 {
		startRegs = make([]any, len(dense.StartRegs))
		for i, dv := range dense.StartRegs {
			val, err := d.value(dv)
			if err != nil {
				return nil, err
			}
			startRegs[i] = val
		}
	}

	var startStays []bytecode.StaySource
	if len(dense.StartStays) > 0 {
		startStays = make([]bytecode.StaySource, len(dense.StartStays))
		for i, ds := range dense.StartStays {
			src, err := d.staySource(ds)
			if err != nil {
				return nil, err
			}
			startStays[i] = src
		}
	}

	var lambdas []*bytecode.Lambda
	if len(dense.Lambdas) > 0 {
		lambdas = make([]*bytecode.Lambda, len(dense.Lambdas))
		for i, dl := range dense.Lambdas {
			lambda, err := d.lambda(dl)
			if err != nil {
				return nil, err
			}
			lambdas[i] = lambda
		}
	}

	return bytecode.NewBytecode(bytecode.BytecodeParams{
		Instrs:       instrs,
		Spans:        spans,
		StartRegs:    startRegs,
		StartStays:   startStays,
		Lambdas:      lambdas,
		Defers:       dense.Defers,
		LocalCount:   dense.LocalCount,
		ScratchCount: dense.ScratchCount,
		LiteralCount: dense.LiteralCount,
	}), nil
}

func (d *sparseDecoder) lambda(dense *denseLambda) (*bytecode.Lambda, error) {
	if dense == nil || dense.Code == nil {
		return nil, errz.New(errz.MalformedStream, "lambda missing bytecode")
	}
	code, err := d.code(dense.Code)
	if err != nil {
		return nil, err
	}
	return bytecode.NewLambda(bytecode.LambdaParams{
		Bytecode: code,
		Params: bytecode.ParamMap{
			Required: dense.Required,
			Optional: dense.Optional,
			Rest:     dense.Rest,
		},
		Name:     dense.Name,
		Captures: dense.Captures,
		Yields:   dense.Yields,
	}), nil
}

func (d *sparseDecoder) staySource(dense denseStaySource) (bytecode.StaySource, error) {
	switch dense.Kind {
	case stayEmpty:
		return bytecode.EmptyStaySource(), nil
	case stayParam:
		return bytecode.ParamStaySource(dense.Slot), nil
	case stayCaptured:
		return bytecode.CapturedStaySource(dense.Slot), nil
	case stayPreExisting:
		stay, err := d.stay(dense.Stay)
		if err != nil {
			return bytecode.StaySource{}, err
		}
		return bytecode.PreExistingStaySource(stay), nil
	default:
		return bytecode.StaySource{}, errz.Newf(errz.MalformedStream, "unknown stay source kind %d", dense.Kind)
	}
}

func (d *sparseDecoder) value(dense denseValue) (any, error) {
	switch dense.Kind {
	case valNil:
		return nil, nil
	case valBool:
		return dense.Bool, nil
	case valInt:
		return dense.Int, nil
	case valFlo:
		return dense.Flo, nil
	case valChar:
		return rune(dense.Int), nil
	case valStr:
		return dense.Str, nil
	case valSym:
		return bytecode.Sym(dense.Str), nil
	default:
		return nil, errz.Newf(errz.MalformedStream, "unknown value kind %d", dense.Kind)
	}
}
