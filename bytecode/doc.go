// Package bytecode provides immutable representations of compiled glsp code.
//
// This package defines the output of compilation: pure data structures that
// represent compiled instruction sequences, closures, and shared storage
// cells. Bytecode and Lambda are created once during compilation and never
// mutated afterward; the only mutable type is Stay, whose whole purpose is
// interior mutability.
//
// # Key Types
//
//   - [Bytecode]: An immutable compiled toplevel form or closure body
//   - [Lambda]: An immutable closure template wrapping one Bytecode
//   - [Instr]: A single fixed-width register-machine instruction
//   - [Stay]: A heap-allocated storage cell whose identity matters
//   - [StaySource]: Describes where a Bytecode's cell bindings originate
//
// # Immutability Guarantees
//
// Bytecode and Lambda have no mutation methods, keep all fields unexported,
// copy input slices in their constructors, and expose collections only
// through index-based accessors:
//
//	code.InstrAt(0)
//	code.SpanAt(0)
//	code.LambdaAt(j)
//
// Constructors deliberately do not return slices, so a compiled graph can be
// shared between the executor and the cache serializer without defensive
// copying.
//
// # Package Dependencies
//
// This package depends only on the op and source packages. It knows nothing
// about serialization; the cache package converts these types to and from
// their dense wire form.
package bytecode
