// Package operand implements the tagged operand variant of spec.md §3/§4.B:
// the value an instruction reads from or writes to, evaluated against a
// machine.Context.
package operand

import (
	"fmt"

	"pasm9618/internal/machine"
)

// Kind discriminates which variant an Operand holds.
type Kind int

const (
	// None is the absence of an operand.
	None Kind = iota
	// Immediate is a literal numeric value.
	Immediate
	// Direct addresses a memory cell directly.
	Direct
	// Indirect addresses a memory cell via the address held in a register.
	Indirect
	// Register addresses a general-purpose register.
	Register
	// Special addresses ACC, IX, or CMP.
	Special
	// Label is an unresolved symbolic address, only legal before compilation
	// finishes — every Label must resolve to a Direct by the time a
	// program.Program is emitted (spec.md §3 invariant 1).
	Label
	// LinearArray is a data-declaration-only value: an initial value
	// repeated a number of times.
	LinearArray
	// MultiOperand carries more than one operand, for instructions with
	// arity greater than one.
	MultiOperand
)

func (k Kind) String() string {
	switch k {
	case None:
		return "None"
	case Immediate:
		return "Immediate"
	case Direct:
		return "Direct"
	case Indirect:
		return "Indirect"
	case Register:
		return "Register"
	case Special:
		return "Special"
	case Label:
		return "Label"
	case LinearArray:
		return "LinearArray"
	case MultiOperand:
		return "MultiOperand"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// SpecialReg names one of the three special registers.
type SpecialReg int

const (
	ACC SpecialReg = iota
	IX
	CMP
)

func (s SpecialReg) String() string {
	switch s {
	case ACC:
		return "ACC"
	case IX:
		return "IX"
	case CMP:
		return "CMP"
	default:
		return fmt.Sprintf("SpecialReg(%d)", int(s))
	}
}

// Operand is a single Go struct tagged by Kind rather than an interface
// hierarchy — see DESIGN.md for why: it makes every persistence encoding
// in internal/persist fall out of ordinary struct (de)serialization.
type Operand struct {
	Kind Kind

	Immediate Cell       `json:"immediate,omitempty" yaml:"immediate,omitempty"`
	Address   uint64     `json:"address,omitempty" yaml:"address,omitempty"`
	Reg       int        `json:"reg,omitempty" yaml:"reg,omitempty"`
	Sp        SpecialReg `json:"special,omitempty" yaml:"special,omitempty"`
	Label     string     `json:"label,omitempty" yaml:"label,omitempty"`
	Fill      Cell       `json:"fill,omitempty" yaml:"fill,omitempty"`
	Count     int        `json:"count,omitempty" yaml:"count,omitempty"`
	Items     []Operand  `json:"items,omitempty" yaml:"items,omitempty"`

	// IndirectVia reports whether an Indirect operand dereferences Sp (a
	// special register, for "(IX)" syntax) instead of Reg (a general
	// register, for "(rN)" syntax).
	IndirectVia bool `json:"indirect_via_special,omitempty" yaml:"indirect_via_special,omitempty"`
}

// Cell is a local alias so this package's exported surface does not force
// every caller to also import internal/machine just to write a Cell
// literal.
type Cell = machine.Cell

// At returns the i'th item of a MultiOperand, for instructions with
// arity greater than one (spec.md §4.B: "positional access by index").
func (o *Operand) At(i int) (*Operand, error) {
	if o.Kind != MultiOperand {
		if i == 0 {
			return o, nil
		}
		return nil, fmt.Errorf("operand is not a MultiOperand, cannot index %d", i)
	}
	if i < 0 || i >= len(o.Items) {
		return nil, fmt.Errorf("operand index %d out of range (arity %d)", i, len(o.Items))
	}
	return &o.Items[i], nil
}

// Arity reports how many positional operands this value carries.
func (o *Operand) Arity() int {
	if o.Kind == MultiOperand {
		return len(o.Items)
	}
	if o.Kind == None {
		return 0
	}
	return 1
}

// indirectAddress resolves the address an Indirect operand dereferences:
// a general register for "(rN)" syntax, or one of ACC/IX/CMP for "(IX)"
// syntax.
func (o *Operand) indirectAddress(ctx *machine.Context) (uint64, error) {
	if o.IndirectVia {
		switch o.Sp {
		case ACC:
			return uint64(ctx.Registers.ACC), nil
		case IX:
			return uint64(ctx.Registers.IX), nil
		case CMP:
			return uint64(ctx.Registers.CMPCell()), nil
		}
		return 0, fmt.Errorf("unknown special register %v", o.Sp)
	}
	reg, err := ctx.Registers.Get(o.Reg)
	if err != nil {
		return 0, err
	}
	return uint64(reg), nil
}

// Eval fetches the Cell value of this operand against ctx, per the Fetch
// column of spec.md §4.B.
func (o *Operand) Eval(ctx *machine.Context) (Cell, error) {
	switch o.Kind {
	case None:
		return 0, fmt.Errorf("cannot evaluate an absent operand")
	case Immediate:
		return o.Immediate, nil
	case Direct:
		return ctx.Memory.Read(o.Address), nil
	case Indirect:
		addr, err := o.indirectAddress(ctx)
		if err != nil {
			return 0, err
		}
		return ctx.Memory.Read(addr), nil
	case Register:
		return ctx.Registers.Get(o.Reg)
	case Special:
		switch o.Sp {
		case ACC:
			return ctx.Registers.ACC, nil
		case IX:
			return ctx.Registers.IX, nil
		case CMP:
			return ctx.Registers.CMPCell(), nil
		}
		return 0, fmt.Errorf("unknown special register %v", o.Sp)
	case Label:
		return 0, fmt.Errorf("label operand %q was not resolved before execution", o.Label)
	case LinearArray:
		return 0, fmt.Errorf("array literal is not a readable operand")
	case MultiOperand:
		return 0, fmt.Errorf("cannot evaluate a multi-operand directly, index into it")
	default:
		return 0, fmt.Errorf("unknown operand kind %v", o.Kind)
	}
}

// Assign stores value into this operand, per the Store column of
// spec.md §4.B. Storing to an Immediate, Label, LinearArray, or
// MultiOperand is an ExecError.
func (o *Operand) Assign(ctx *machine.Context, value Cell) error {
	switch o.Kind {
	case Direct:
		ctx.Memory.Write(o.Address, value)
		return nil
	case Indirect:
		addr, err := o.indirectAddress(ctx)
		if err != nil {
			return err
		}
		ctx.Memory.Write(addr, value)
		return nil
	case Register:
		return ctx.Registers.Set(o.Reg, value)
	case Special:
		switch o.Sp {
		case ACC:
			ctx.Registers.ACC = value
			return nil
		case IX:
			ctx.Registers.IX = value
			return nil
		case CMP:
			ctx.Registers.SetCMPFromCell(value)
			return nil
		}
		return fmt.Errorf("unknown special register %v", o.Sp)
	case Immediate:
		return fmt.Errorf("cannot store to an immediate operand")
	case Label:
		return fmt.Errorf("cannot store to an unresolved label operand %q", o.Label)
	case LinearArray:
		return fmt.Errorf("cannot store to an array literal operand")
	case MultiOperand:
		return fmt.Errorf("cannot store to a multi-operand directly, index into it")
	case None:
		return fmt.Errorf("cannot store to an absent operand")
	default:
		return fmt.Errorf("unknown operand kind %v", o.Kind)
	}
}

// Imm builds an Immediate operand.
func Imm(v Cell) Operand { return Operand{Kind: Immediate, Immediate: v} }

// Addr builds a Direct operand.
func Addr(a uint64) Operand { return Operand{Kind: Direct, Address: a} }

// Ind builds an Indirect operand over register reg.
func Ind(reg int) Operand { return Operand{Kind: Indirect, Reg: reg} }

// IndSpecial builds an Indirect operand that dereferences special
// register s, for "(IX)"-style indirect addressing.
func IndSpecial(s SpecialReg) Operand { return Operand{Kind: Indirect, Sp: s, IndirectVia: true} }

// Reg builds a Register operand.
func Reg(reg int) Operand { return Operand{Kind: Register, Reg: reg} }

// SpecialOp builds a Special operand.
func SpecialOp(s SpecialReg) Operand { return Operand{Kind: Special, Sp: s} }

// LabelOp builds an unresolved Label operand.
func LabelOp(name string) Operand { return Operand{Kind: Label, Label: name} }

// Array builds a LinearArray data-declaration value.
func Array(fill Cell, count int) Operand { return Operand{Kind: LinearArray, Fill: fill, Count: count} }

// Multi builds a MultiOperand from its positional items.
func Multi(items ...Operand) Operand { return Operand{Kind: MultiOperand, Items: items} }
