package cache

import "encoding/binary"

// Stats contains statistics about a serialized recording. This is useful
// for inspecting a cached artifact without a live interning registry.
type Stats struct {
	// Actions is the number of recorded toplevel actions.
	Actions int

	// Instrs is the total instruction count across all bytecode, including
	// nested lambdas.
	Instrs int

	// Spans is the number of deduplicated span storage entries.
	Spans int

	// Filenames is the number of deduplicated filename strings.
	Filenames int

	// Stays is the number of distinct shared storage cells.
	Stays int

	// PayloadBytes is the uncompressed size of the encoded chunk.
	PayloadBytes int

	// Compressed is true if the payload section is deflated.
	Compressed bool
}

// ReadStats decodes just enough of a serialized recording to report on it.
// The stream is fully validated, so ReadStats failing means Unmarshal would
// fail too.
func ReadStats(data []byte) (*Stats, error) {
	c, compressed, err := decodeChunk(data)
	if err != nil {
		return nil, err
	}
	stats := &Stats{
		Actions:    len(c.Actions),
		Spans:      len(c.SpanStorage),
		Filenames:  len(c.FilenameStorage),
		Stays:      c.StayCount,
		Compressed: compressed,
	}
	for _, action := range c.Actions {
		if action.Code != nil {
			stats.Instrs += countInstrs(action.Code)
		}
	}
	// The length prefix is the uncompressed payload size.
	stats.PayloadBytes = int(binary.LittleEndian.Uint64(data[:8]))
	return stats, nil
}

func countInstrs(code *denseBytecode) int {
	n := len(code.Instrs)
	for _, lambda := range code.Lambdas {
		if lambda != nil && lambda.Code != nil {
			n += countInstrs(lambda.Code)
		}
	}
	return n
}
