// Package cache serializes compiled load sequences for reuse across runs.
//
// A [Recording] caches the compiled toplevel forms produced by each load
// operation. It can be flattened into a compact byte stream with [Marshal]
// and reconstructed with [Unmarshal], letting a later run execute the cached
// bytecode instead of recompiling the source files.
//
// # Dense and Sparse Forms
//
// The main source of complexity is deduplication. Storing each span as the
// tree of storage records it represents would massively inflate a serialized
// chunk, and serializing the session's whole span table into every chunk is
// no better. Instead, only the storage records actually referenced by the
// recording are serialized, with spans rewritten from their sparse handle
// form into a dense range of table indices. Filenames get the same
// treatment, and shared storage cells are reduced to bare indices so that
// cell identity, rather than cell contents, is what survives the round trip.
//
// Expanded span records only ever refer to spans registered before them, so
// the serialized span table can be replayed in index order by a single
// forward pass, with no fix-up phase.
//
// # Wire Format
//
// A serialized recording is an 8-byte little-endian uncompressed payload
// length followed by the CBOR-encoded chunk, deflated only when the payload
// meets the size threshold (small payloads cost more to inflate than they
// save).
//
// All decode failures are fatal to the attempt and carry an
// [github.com/MilkTool/glsp/errz.Kind]; the only valid recovery is to
// discard the cached artifact and recompile from source.
package cache
