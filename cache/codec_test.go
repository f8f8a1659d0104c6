package cache

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/MilkTool/glsp/bytecode"
	"github.com/MilkTool/glsp/errz"
	"github.com/MilkTool/glsp/op"
	"github.com/MilkTool/glsp/source"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
)

func smallRecording(t *testing.T, table *source.Table) *Recording {
	t.Helper()
	file := table.InternFilename("a.glsp")
	span := table.InternSpan(source.LoadedSpan(file, 10))
	code := bytecode.NewBytecode(bytecode.BytecodeParams{
		Instrs: []bytecode.Instr{{Op: op.Nop}, {Op: op.Ret}},
		Spans:  []source.Span{span, span},
	})
	r := NewRecording()
	r.AddAction(StartLoad{Filename: file})
	r.AddAction(Execute{Code: code})
	r.AddAction(EndLoad{})
	return r
}

// largeRecording produces a chunk comfortably above the deflate threshold.
func largeRecording(t *testing.T, table *source.Table) *Recording {
	t.Helper()
	r := NewRecording()
	for i := 0; i < 400; i++ {
		file := table.InternFilename(fmt.Sprintf("generated/module_%04d/source_file.glsp", i))
		span := table.InternSpan(source.LoadedSpan(file, i+1))
		code := bytecode.NewBytecode(bytecode.BytecodeParams{
			Instrs: []bytecode.Instr{{Op: op.LoadGlobal, A: 1}, {Op: op.Call0, A: 1, B: 2}, {Op: op.Ret, A: 2}},
			Spans:  []source.Span{span, span, span},
		})
		r.AddAction(StartLoad{Filename: file})
		r.AddAction(Execute{Code: code})
		r.AddAction(EndLoad{})
	}
	return r
}

func TestShouldCompress(t *testing.T) {
	require.False(t, shouldCompress(0))
	require.False(t, shouldCompress(8191))
	require.True(t, shouldCompress(8192))
	require.True(t, shouldCompress(1<<20))
}

func TestSmallPayloadStoredRaw(t *testing.T) {
	table := source.NewTable()
	data, err := Marshal(smallRecording(t, table), table)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), 8)

	rawLen := binary.LittleEndian.Uint64(data[:8])
	require.Less(t, rawLen, uint64(deflateLimit))

	// The payload section is the raw encoded chunk, byte for byte: it must
	// decode directly, with no decompression step.
	require.Equal(t, rawLen, uint64(len(data)-8))
	var c chunk
	require.NoError(t, cbor.Unmarshal(data[8:], &c))
	require.Len(t, c.Actions, 3)

	stats, err := ReadStats(data)
	require.NoError(t, err)
	require.False(t, stats.Compressed)
}

func TestLargePayloadCompressed(t *testing.T) {
	table := source.NewTable()
	r := largeRecording(t, table)
	data, err := Marshal(r, table)
	require.NoError(t, err)

	rawLen := binary.LittleEndian.Uint64(data[:8])
	require.GreaterOrEqual(t, rawLen, uint64(deflateLimit))
	// Deflate must actually shrink this highly repetitive payload.
	require.Less(t, uint64(len(data)-8), rawLen)

	stats, err := ReadStats(data)
	require.NoError(t, err)
	require.True(t, stats.Compressed)
	require.Equal(t, int(rawLen), stats.PayloadBytes)

	decoded, err := Unmarshal(data, source.NewTable())
	require.NoError(t, err)
	require.Equal(t, r.Len(), decoded.Len())
}

func TestDecodeTruncatedHeader(t *testing.T) {
	for _, n := range []int{0, 1, 5, 7} {
		_, err := Unmarshal(make([]byte, n), source.NewTable())
		require.Error(t, err, "length %d", n)
		require.True(t, errz.IsKind(err, errz.MalformedStream), "length %d", n)
	}
}

func TestDecodeTruncatedRawPayload(t *testing.T) {
	table := source.NewTable()
	data, err := Marshal(smallRecording(t, table), table)
	require.NoError(t, err)

	_, err = Unmarshal(data[:len(data)-3], source.NewTable())
	require.Error(t, err)
	require.True(t, errz.IsKind(err, errz.MalformedStream))
}

func TestDecodeTruncatedCompressedPayload(t *testing.T) {
	table := source.NewTable()
	data, err := Marshal(largeRecording(t, table), table)
	require.NoError(t, err)

	_, err = Unmarshal(data[:len(data)/2], source.NewTable())
	require.Error(t, err)
	require.True(t, errz.IsKind(err, errz.MalformedStream))
}

func TestDecodeCorruptCompressedPayload(t *testing.T) {
	table := source.NewTable()
	data, err := Marshal(largeRecording(t, table), table)
	require.NoError(t, err)

	// Flip every byte of the compressed region. Decode must fail cleanly,
	// never panic or return a partially reconstructed recording.
	corrupt := make([]byte, len(data))
	copy(corrupt, data)
	for i := 8; i < len(corrupt); i++ {
		corrupt[i] ^= 0xff
	}

	_, err = Unmarshal(corrupt, source.NewTable())
	require.Error(t, err)
	require.True(t,
		errz.IsKind(err, errz.MalformedStream) || errz.IsKind(err, errz.CorruptIndex),
		"unexpected error: %v", err)
}

func frameChunk(t *testing.T, c *chunk) []byte {
	t.Helper()
	raw, err := cbor.Marshal(c)
	require.NoError(t, err)
	data := make([]byte, 8, 8+len(raw))
	binary.LittleEndian.PutUint64(data, uint64(len(raw)))
	return append(data, raw...)
}

func TestDecodeCorruptStayIndex(t *testing.T) {
	data := frameChunk(t, &chunk{
		Actions:   []denseAction{{Kind: actToplevelLet, Stay: 5}},
		StayCount: 1,
	})
	_, err := Unmarshal(data, source.NewTable())
	require.Error(t, err)
	require.True(t, errz.IsKind(err, errz.CorruptIndex))
	require.Contains(t, err.Error(), "out of range")
}

func TestDecodeCorruptSpanIndex(t *testing.T) {
	data := frameChunk(t, &chunk{
		Actions: []denseAction{{
			Kind: actExecute,
			Code: &denseBytecode{
				Instrs: []denseInstr{{Op: uint8(op.Nop)}},
				Spans:  []denseSpan{9},
			},
		}},
	})
	_, err := Unmarshal(data, source.NewTable())
	require.Error(t, err)
	require.True(t, errz.IsKind(err, errz.CorruptIndex))
}

func TestDecodeForwardSpanReference(t *testing.T) {
	// An Expanded entry referring to itself or a later entry violates the
	// encoder's ordering invariant and must be rejected.
	data := frameChunk(t, &chunk{
		SpanStorage: []denseSpanStorage{
			{Kind: spanExpanded, Parent0: 0, Parent1: 1},
			{Kind: spanGenerated},
		},
	})
	_, err := Unmarshal(data, source.NewTable())
	require.Error(t, err)
	require.True(t, errz.IsKind(err, errz.CorruptIndex))
}

func TestDecodeCorruptFilenameIndex(t *testing.T) {
	data := frameChunk(t, &chunk{
		Actions: []denseAction{{Kind: actStartLoad, Filename: 2}},
	})
	_, err := Unmarshal(data, source.NewTable())
	require.Error(t, err)
	require.True(t, errz.IsKind(err, errz.CorruptIndex))
}

func TestEmptyRecordingRoundTrip(t *testing.T) {
	table := source.NewTable()
	data, err := Marshal(NewRecording(), table)
	require.NoError(t, err)

	decoded, err := Unmarshal(data, source.NewTable())
	require.NoError(t, err)
	require.True(t, decoded.IsEmpty())
}
