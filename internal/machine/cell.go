// Package machine implements the register/memory machine the interpreter
// executes against: a fixed register file, special registers, a sparse
// address space, a call stack, and an I/O abstraction.
package machine

// Cell is the unit of storage held by every memory address and register.
// Arithmetic on a Cell wraps silently on overflow; callers that need to
// observe the wrap (for OverflowWarning reporting) use the Add/Sub
// helpers on Context rather than raw Go arithmetic.
type Cell uint64

// RegisterCount is the number of general-purpose registers r0..r(N-1).
// spec.md leaves this as a configuration constant ("at least 30 slots");
// this build fixes it at the syllabus-conventional 30.
const RegisterCount = 30
