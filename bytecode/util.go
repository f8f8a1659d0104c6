package bytecode

import "github.com/MilkTool/glsp/source"

// copyInstrs returns a copy of the given instruction slice.
func copyInstrs(src []Instr) []Instr {
	if src == nil {
		return nil
	}
	dst := make([]Instr, len(src))
	copy(dst, src)
	return dst
}

// copySpans returns a copy of the given span slice.
func copySpans(src []source.Span) []source.Span {
	if src == nil {
		return nil
	}
	dst := make([]source.Span, len(src))
	copy(dst, src)
	return dst
}

// copyAny returns a copy of the given any slice.
func copyAny(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	copy(dst, src)
	return dst
}

// copyStaySources returns a copy of the given stay-source slice.
func copyStaySources(src []StaySource) []StaySource {
	if src == nil {
		return nil
	}
	dst := make([]StaySource, len(src))
	copy(dst, src)
	return dst
}

// copyLambdas returns a copy of the given lambda slice. The lambdas
// themselves are already immutable.
func copyLambdas(src []*Lambda) []*Lambda {
	if src == nil {
		return nil
	}
	dst := make([]*Lambda, len(src))
	copy(dst, src)
	return dst
}

// copyInts returns a copy of the given int slice.
func copyInts(src []int) []int {
	if src == nil {
		return nil
	}
	dst := make([]int, len(src))
	copy(dst, src)
	return dst
}

// copyBytes returns a copy of the given byte slice.
func copyBytes(src []uint8) []uint8 {
	if src == nil {
		return nil
	}
	dst := make([]uint8, len(src))
	copy(dst, src)
	return dst
}
