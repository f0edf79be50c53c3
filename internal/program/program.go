// Package program is the compiled-program data model: the hub between the
// assembler (internal/compile), the execution engine (internal/exec), and
// the persistence adapter (internal/persist). It depends on isa and
// operand but nothing depends on it from below, keeping the package graph
// acyclic.
package program

import (
	"sort"

	"pasm9618/internal/isa"
	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

// Instruction is one compiled instruction: its address, the executor that
// implements its mnemonic, the mnemonic text itself (kept for
// diagnostics and for re-rendering source), and its evaluated operand.
type Instruction struct {
	Address  uint64
	Mnemonic string
	ID       isa.ExecutorID
	Operand  operand.Operand
}

// DebugEntry records the source line and originating label (if any) for
// one instruction address, used for --debug persisted artefacts and
// richer diagnostics.
type DebugEntry struct {
	Address    uint64
	SourceLine int
	Label      string
}

// Program is a fully compiled, ready-to-run unit: addressed instructions,
// an initial data image, and optional debug information. Every Label
// operand anywhere in Instructions has been resolved to a Direct address
// by the time a Program exists (spec.md's "every label reference resolves
// to a concrete address before execution begins" invariant).
type Program struct {
	Instructions map[uint64]*Instruction
	Order        []uint64
	Data         map[uint64]machine.Cell
	Debug        []DebugEntry
	EntryPoint   uint64
}

// New returns an empty, ready-to-populate Program.
func New() *Program {
	return &Program{
		Instructions: make(map[uint64]*Instruction),
		Data:         make(map[uint64]machine.Cell),
	}
}

// Add appends an instruction at the given address, keeping Order sorted
// by address so iteration and rendering are deterministic.
func (p *Program) Add(inst *Instruction) {
	if _, exists := p.Instructions[inst.Address]; !exists {
		p.Order = append(p.Order, inst.Address)
		sort.Slice(p.Order, func(i, j int) bool { return p.Order[i] < p.Order[j] })
	}
	p.Instructions[inst.Address] = inst
}

// At returns the instruction at address, or nil if none is compiled
// there.
func (p *Program) At(address uint64) *Instruction {
	return p.Instructions[address]
}

// LoadImage returns the program's data section as a memory image, the
// form machine.Memory.LoadImage consumes.
func (p *Program) LoadImage() map[uint64]machine.Cell {
	image := make(map[uint64]machine.Cell, len(p.Data))
	for addr, v := range p.Data {
		image[addr] = v
	}
	return image
}
