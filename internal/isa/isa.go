// Package isa is the instruction set registry: the table of mnemonics the
// assembler and execution engine both consult, and the contract that lets
// an embedder wrap a Core set with an Extended one without touching either.
package isa

import (
	"fmt"

	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

// ExecutorID is the stable identifier for one instruction's implementation.
// It holds the canonical (upper-cased) mnemonic text, so the identifier
// persisted alongside a compiled program is exactly what resolves it again
// at load time — no separate string-to-discriminant table is needed.
type ExecutorID string

// Executor is the function an instruction dispatches to. It mutates ctx in
// place and reports any fatal condition (register out of range, stack
// underflow, unresolved operand) as an error; non-fatal conditions
// (arithmetic overflow, I/O at EOF) are reported through ctx.Observer and
// never surface as an error here.
type Executor func(ctx *machine.Context, op *operand.Operand) (advance bool, err error)

// Descriptor pairs an Executor with the metadata the assembler needs:
// how many operands the mnemonic expects. MinArity/MaxArity of -1 means
// "unbounded" (used by MultiOperand-only forms). Arities, when non-empty,
// further restricts the legal counts to an exact set within that range —
// ADD/SUB take exactly 1 or 3 operands, never 2, and a mid-range count
// like 2 should fail to compile rather than fail later at dispatch.
type Descriptor struct {
	ID         ExecutorID
	Mnemonic   string
	MinArity   int
	MaxArity   int
	Arities    []int
	Exec       Executor
}

// CheckArity reports whether n operands satisfy d's MinArity/MaxArity
// range and, if set, its exact Arities list.
func (d Descriptor) CheckArity(n int) bool {
	if n < d.MinArity || (d.MaxArity >= 0 && n > d.MaxArity) {
		return false
	}
	if len(d.Arities) == 0 {
		return true
	}
	for _, a := range d.Arities {
		if a == n {
			return true
		}
	}
	return false
}

// Set is an instruction table: something that can turn mnemonic text into
// an ExecutorID at assembly time, and dispatch an ExecutorID to its
// Executor at run time. Extended sets wrap a parent Set to compose
// without modifying it, per the registry's "composable, wrappable" design
// requirement.
type Set interface {
	// Parse resolves mnemonic text (already upper-cased) to a Descriptor.
	// ok is false when this set and none of its parents recognise it.
	Parse(mnemonic string) (Descriptor, bool)
	// Dispatch runs the Executor behind id against ctx and op.
	Dispatch(ctx *machine.Context, id ExecutorID, op *operand.Operand) (advance bool, err error)
	// Mnemonics lists every mnemonic this set (and its parents) recognise,
	// for diagnostics and documentation.
	Mnemonics() []string
}

type baseSet struct {
	table map[string]Descriptor
}

// NewCoreSet builds the instruction table for the mandatory Core
// instruction set: data movement, arithmetic, comparison, branching,
// bitwise logic, subroutine linkage, and I/O.
func NewCoreSet() Set {
	s := &baseSet{table: make(map[string]Descriptor)}
	registerLoadStore(s)
	registerArithmetic(s)
	registerCompareBranch(s)
	registerBitwise(s)
	registerControl(s)
	registerIO(s)
	return s
}

func (s *baseSet) add(d Descriptor) {
	s.table[d.Mnemonic] = d
}

func (s *baseSet) Parse(mnemonic string) (Descriptor, bool) {
	d, ok := s.table[mnemonic]
	return d, ok
}

func (s *baseSet) Dispatch(ctx *machine.Context, id ExecutorID, op *operand.Operand) (bool, error) {
	d, ok := s.table[string(id)]
	if !ok {
		return false, fmt.Errorf("no executor registered for %q", id)
	}
	return d.Exec(ctx, op)
}

func (s *baseSet) Mnemonics() []string {
	names := make([]string, 0, len(s.table))
	for m := range s.table {
		names = append(names, m)
	}
	return names
}

// extendedSet wraps a parent Set, trying its own table first per the
// "wrappable registry" contract: an Extended set can add mnemonics or
// override arity without the Core set knowing it exists.
type extendedSet struct {
	*baseSet
	parent Set
}

// NewExtendedSet builds a Set that tries its own mnemonics before falling
// back to parent, matching spec.md §4.C's composition contract.
func NewExtendedSet(parent Set) Set {
	s := &extendedSet{baseSet: &baseSet{table: make(map[string]Descriptor)}, parent: parent}
	registerExtended(s.baseSet)
	return s
}

func (s *extendedSet) Parse(mnemonic string) (Descriptor, bool) {
	if d, ok := s.baseSet.Parse(mnemonic); ok {
		return d, true
	}
	return s.parent.Parse(mnemonic)
}

func (s *extendedSet) Dispatch(ctx *machine.Context, id ExecutorID, op *operand.Operand) (bool, error) {
	if _, ok := s.baseSet.table[string(id)]; ok {
		return s.baseSet.Dispatch(ctx, id, op)
	}
	return s.parent.Dispatch(ctx, id, op)
}

func (s *extendedSet) Mnemonics() []string {
	names := s.baseSet.Mnemonics()
	names = append(names, s.parent.Mnemonics()...)
	return names
}
