package cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/MilkTool/glsp/errz"
	"github.com/MilkTool/glsp/source"
	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/flate"
)

// deflateLimit is the payload size below which compression is skipped.
// Inflation has a fixed overhead that dominates for small inputs (roughly
// 80us for ~120 compressed bytes), so storing them raw is a pure win.
const deflateLimit = 8 * 1024

// shouldCompress reports whether a payload of the given uncompressed size
// gets deflated. Exposed as a policy function so the threshold branch is
// independently testable.
func shouldCompress(size int) bool {
	return size >= deflateLimit
}

// Marshal flattens a recording into a self-contained byte stream. The
// registry is consulted to resolve span and filename handles; the recording
// itself is left intact.
//
// The output is an 8-byte little-endian uncompressed payload length followed
// by the CBOR-encoded chunk. Payloads at or above the deflate threshold are
// compressed at the default level: versus best compression it costs about 3%
// in size and halves the encode time.
func Marshal(r *Recording, reg source.Registry) ([]byte, error) {
	enc := newDenseEncoder(reg)

	actions := make([]denseAction, 0, len(r.actions))
	for _, action := range r.actions {
		dense, err := enc.action(action)
		if err != nil {
			return nil, err
		}
		actions = append(actions, dense)
	}

	c := &chunk{
		Actions:         actions,
		SpanStorage:     enc.spanStorage,
		FilenameStorage: enc.filenameStorage,
		StayCount:       len(enc.stayIndex),
	}

	raw, err := cbor.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("error when encoding compiled bytes: %w", err)
	}

	out := make([]byte, 8, 8+len(raw))
	binary.LittleEndian.PutUint64(out, uint64(len(raw)))

	if !shouldCompress(len(raw)) {
		return append(out, raw...), nil
	}

	buf := bytes.NewBuffer(out)
	fw, err := flate.NewWriter(buf, flate.DefaultCompression)
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(raw); err != nil {
		return nil, err
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal reconstructs a recording from a byte stream produced by Marshal,
// interning filenames and spans into the given registry and allocating fresh
// storage cells. Any failure is fatal to the attempt: the caller must
// discard the cached artifact and recompile from source.
func Unmarshal(data []byte, reg source.Registry) (*Recording, error) {
	c, _, err := decodeChunk(data)
	if err != nil {
		return nil, err
	}

	dec, err := newSparseDecoder(c, reg)
	if err != nil {
		return nil, err
	}

	actions := make([]Action, 0, len(c.Actions))
	for _, dense := range c.Actions {
		action, err := dec.action(dense)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return &Recording{actions: actions}, nil
}

// decodeChunk performs framing, optional inflation, structural decode, and
// index validation. The compression branch is chosen purely from the length
// prefix, so small payloads never touch the decompressor.
func decodeChunk(data []byte) (*chunk, bool, error) {
	if len(data) < 8 {
		return nil, false, errz.New(errz.MalformedStream, "compiled byte stream too short")
	}
	rawLen := binary.LittleEndian.Uint64(data[:8])
	payload := data[8:]

	compressed := rawLen >= deflateLimit
	var raw []byte
	if !compressed {
		if uint64(len(payload)) != rawLen {
			return nil, false, errz.Newf(errz.MalformedStream,
				"payload is %d bytes, expected %d", len(payload), rawLen)
		}
		raw = payload
	} else {
		fr := flate.NewReader(bytes.NewReader(payload))
		inflated, err := io.ReadAll(io.LimitReader(fr, int64(rawLen)+1))
		fr.Close()
		if err != nil {
			return nil, true, errz.Wrap(errz.MalformedStream, "error when inflating compiled bytes", err)
		}
		if uint64(len(inflated)) != rawLen {
			return nil, true, errz.Newf(errz.MalformedStream,
				"inflated payload is %d bytes, expected %d", len(inflated), rawLen)
		}
		raw = inflated
	}

	var c chunk
	if err := cbor.Unmarshal(raw, &c); err != nil {
		return nil, compressed, errz.Wrap(errz.MalformedStream, "error when decoding compiled bytes", err)
	}
	if err := c.validate(); err != nil {
		return nil, compressed, errz.Wrap(errz.CorruptIndex, "compiled chunk failed validation", err)
	}
	return &c, compressed, nil
}
