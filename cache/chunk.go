package cache

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// The dense wire form. Spans, filenames, and stays appear only as small
// indices into the chunk's own tables; the encoder assigns them and the
// decoder replays the tables in order. Field keys are integers so the CBOR
// stays compact.

type denseSpan uint32
type denseFilename uint32
type denseStay uint32

const (
	actExecute uint8 = iota
	actToplevelLet
	actStartLoad
	actEndLoad
)

const (
	spanLoaded uint8 = iota
	spanExpanded
	spanGenerated
)

const (
	stayEmpty uint8 = iota
	stayParam
	stayCaptured
	stayPreExisting
)

const (
	valNil uint8 = iota
	valBool
	valInt
	valFlo
	valChar
	valStr
	valSym
)

// chunk is the aggregate that is actually serialized to and from bytes.
//
// Stay values are not stored, only the fact that the cells exist. The
// decoder allocates them all up front, set to nil; they are initialized
// dynamically when a toplevel-let action is evaluated.
type chunk struct {
	Actions         []denseAction      `cbor:"1,keyasint"`
	SpanStorage     []denseSpanStorage `cbor:"2,keyasint"`
	FilenameStorage []string           `cbor:"3,keyasint"`
	StayCount       int                `cbor:"4,keyasint"`
}

type denseAction struct {
	Kind     uint8          `cbor:"1,keyasint"`
	Code     *denseBytecode `cbor:"2,keyasint,omitempty"`
	Stay     denseStay      `cbor:"3,keyasint,omitempty"`
	Filename denseFilename  `cbor:"4,keyasint,omitempty"`
}

type denseSpanStorage struct {
	Kind     uint8         `cbor:"1,keyasint"`
	Filename denseFilename `cbor:"2,keyasint,omitempty"`
	Line     int           `cbor:"3,keyasint,omitempty"`
	Sym      string        `cbor:"4,keyasint,omitempty"`
	Parent0  denseSpan     `cbor:"5,keyasint,omitempty"`
	Parent1  denseSpan     `cbor:"6,keyasint,omitempty"`
}

type denseInstr struct {
	_  struct{} `cbor:",toarray"`
	Op uint8
	A  uint8
	B  uint8
	C  uint8
}

type denseStaySource struct {
	Kind uint8     `cbor:"1,keyasint"`
	Slot uint8     `cbor:"2,keyasint,omitempty"`
	Stay denseStay `cbor:"3,keyasint,omitempty"`
}

type denseValue struct {
	Kind uint8   `cbor:"1,keyasint"`
	Bool bool    `cbor:"2,keyasint,omitempty"`
	Int  int64   `cbor:"3,keyasint,omitempty"`
	Flo  float64 `cbor:"4,keyasint,omitempty"`
	Str  string  `cbor:"5,keyasint,omitempty"`
}

type denseBytecode struct {
	Instrs       []denseInstr      `cbor:"1,keyasint"`
	Spans        []denseSpan       `cbor:"2,keyasint"`
	StartRegs    []denseValue      `cbor:"3,keyasint,omitempty"`
	StartStays   []denseStaySource `cbor:"4,keyasint,omitempty"`
	LocalCount   uint8             `cbor:"5,keyasint,omitempty"`
	ScratchCount uint8             `cbor:"6,keyasint,omitempty"`
	LiteralCount uint8             `cbor:"7,keyasint,omitempty"`
	Lambdas      []*denseLambda    `cbor:"8,keyasint,omitempty"`
	Defers       []int             `cbor:"9,keyasint,omitempty"`
}

type denseLambda struct {
	Code     *denseBytecode `cbor:"1,keyasint"`
	Required int            `cbor:"2,keyasint,omitempty"`
	Optional int            `cbor:"3,keyasint,omitempty"`
	Rest     bool           `cbor:"4,keyasint,omitempty"`
	Name     string         `cbor:"5,keyasint,omitempty"`
	Captures []uint8        `cbor:"6,keyasint,omitempty"`
	Yields   bool           `cbor:"7,keyasint,omitempty"`
}

// validate bounds-checks every dense index in the chunk before any live
// object is reconstructed. Deflate carries no integrity checksum, so a
// corrupted payload can survive inflation and structural decode; this pass
// catches it before it turns into wrong variable sharing.
func (c *chunk) validate() error {
	var errs []error

	for i, storage := range c.SpanStorage {
		switch storage.Kind {
		case spanLoaded:
			if int(storage.Filename) >= len(c.FilenameStorage) {
				errs = append(errs, fmt.Errorf(
					"span %d: filename index %d out of range (%d entries)",
					i, storage.Filename, len(c.FilenameStorage)))
			}
		case spanExpanded:
			// Expansion edges must point strictly backward.
			if int(storage.Parent0) >= i {
				errs = append(errs, fmt.Errorf(
					"span %d: parent index %d is not strictly earlier", i, storage.Parent0))
			}
			if int(storage.Parent1) >= i {
				errs = append(errs, fmt.Errorf(
					"span %d: parent index %d is not strictly earlier", i, storage.Parent1))
			}
		case spanGenerated:
		default:
			errs = append(errs, fmt.Errorf("span %d: unknown kind %d", i, storage.Kind))
		}
	}

	for i, action := range c.Actions {
		where := fmt.Sprintf("action %d", i)
		switch action.Kind {
		case actExecute:
			if action.Code == nil {
				errs = append(errs, fmt.Errorf("%s: execute action missing bytecode", where))
			} else {
				errs = c.checkCode(action.Code, where, errs)
			}
		case actToplevelLet:
			if int(action.Stay) >= c.StayCount {
				errs = append(errs, fmt.Errorf(
					"%s: stay index %d out of range (%d cells)", where, action.Stay, c.StayCount))
			}
		case actStartLoad:
			if int(action.Filename) >= len(c.FilenameStorage) {
				errs = append(errs, fmt.Errorf(
					"%s: filename index %d out of range (%d entries)",
					where, action.Filename, len(c.FilenameStorage)))
			}
		case actEndLoad:
		default:
			errs = append(errs, fmt.Errorf("%s: unknown kind %d", where, action.Kind))
		}
	}

	return multierror.Append(nil, errs...).ErrorOrNil()
}

func (c *chunk) checkCode(code *denseBytecode, where string, errs []error) []error {
	for i, span := range code.Spans {
		if int(span) >= len(c.SpanStorage) {
			errs = append(errs, fmt.Errorf(
				"%s: span index %d out of range (%d entries) at instr %d",
				where, span, len(c.SpanStorage), i))
		}
	}
	for i, src := range code.StartStays {
		switch src.Kind {
		case stayEmpty, stayParam, stayCaptured:
		case stayPreExisting:
			if int(src.Stay) >= c.StayCount {
				errs = append(errs, fmt.Errorf(
					"%s: stay index %d out of range (%d cells) at binding %d",
					where, src.Stay, c.StayCount, i))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: unknown stay source kind %d at binding %d", where, src.Kind, i))
		}
	}
	for i, val := range code.StartRegs {
		if val.Kind > valSym {
			errs = append(errs, fmt.Errorf("%s: unknown value kind %d at register %d", where, val.Kind, i))
		}
	}
	for i, lambda := range code.Lambdas {
		inner := fmt.Sprintf("%s: lambda %d", where, i)
		if lambda == nil || lambda.Code == nil {
			errs = append(errs, fmt.Errorf("%s: missing bytecode", inner))
			continue
		}
		errs = c.checkCode(lambda.Code, inner, errs)
	}
	return errs
}
