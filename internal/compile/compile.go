// Package compile is phase two of assembly: it consumes the intermediate
// parser.Program, resolves labels and operand text against an isa.Set,
// and emits a fully addressed program.Program ready for internal/exec or
// internal/persist.
package compile

import (
	"fmt"
	"strings"

	"pasm9618/internal/isa"
	"pasm9618/internal/machine"
	"pasm9618/internal/parser"
	"pasm9618/internal/program"
)

// Compiler holds the state shared across both assembly passes: the
// instruction set consulted to resolve mnemonics, the symbol table built
// in pass one and consulted in pass two, and the literal cache shared by
// every immediate operand.
type Compiler struct {
	set           isa.Set
	symbols       *parser.SymbolTable
	literals      *parser.LiteralCache
	registerCount int
}

// New returns a Compiler dispatching mnemonics against set, with
// registerCount general-purpose registers available to operand text.
func New(set isa.Set, registerCount int) *Compiler {
	return &Compiler{
		set:           set,
		symbols:       parser.NewSymbolTable(),
		literals:      parser.NewLiteralCache(),
		registerCount: registerCount,
	}
}

type pendingLine struct {
	address uint64
	line    *parser.Line
}

// Compile turns an unresolved parser.Program into an addressed
// program.Program. Pass one assigns every line an address and defines
// its label, if any; pass two resolves operand text (including label
// references, now that every label has an address) and looks up each
// mnemonic's executor.
func (c *Compiler) Compile(src *parser.Program) (*program.Program, error) {
	pending, err := c.assignAddresses(src)
	if err != nil {
		return nil, err
	}

	out := program.New()
	for _, p := range pending {
		line := p.line
		switch {
		case line.Data != nil:
			if err := c.emitData(out, p.address, line.Data); err != nil {
				return nil, err
			}
		case line.Mnemonic != "":
			inst, err := c.emitInstruction(p.address, line)
			if err != nil {
				return nil, err
			}
			out.Add(inst)
		}
	}

	if undefined := c.symbols.Undefined(); len(undefined) > 0 {
		sym := undefined[0]
		pos := parser.Position{}
		if len(sym.References) > 0 {
			pos = sym.References[0]
		}
		return nil, fmt.Errorf("undefined label %q referenced at %s", sym.Name, pos)
	}

	return out, nil
}

// assignAddresses is pass one: it walks every line in source order,
// defining each label at the address of whatever follows it, and
// advancing the address counter by the number of Cells the line occupies
// (one for an instruction or a scalar data value, Count for an array
// literal, zero for a label with nothing attached).
func (c *Compiler) assignAddresses(src *parser.Program) ([]pendingLine, error) {
	var pending []pendingLine
	var addr uint64

	for _, line := range src.Lines {
		if line.Label != "" {
			if err := c.symbols.Define(line.Label, addr, line.Pos); err != nil {
				return nil, fmt.Errorf("%s: %w", line.Pos, err)
			}
		}

		switch {
		case line.Data != nil && line.Data.Address != "":
			// Explicit-address data ("ADDR VALUE") writes directly at ADDR
			// and does not participate in sequential layout at all.
			explicitAddr, err := c.literals.Parse(line.Data.Address)
			if err != nil {
				return nil, err
			}
			pending = append(pending, pendingLine{address: uint64(explicitAddr), line: line})
		case line.Data != nil:
			pending = append(pending, pendingLine{address: addr, line: line})
			if line.Data.IsArray {
				count, err := c.literals.Parse(line.Data.Count)
				if err != nil {
					return nil, err
				}
				addr += uint64(count)
			} else {
				addr++
			}
		case line.Mnemonic != "":
			pending = append(pending, pendingLine{address: addr, line: line})
			addr++
		default:
			// label-only line: no storage consumed
		}
	}

	return pending, nil
}

func (c *Compiler) emitInstruction(address uint64, line *parser.Line) (*program.Instruction, error) {
	for _, opText := range line.Operands {
		if !isNumericLiteral(opText) && !isKnownSymbol(opText) {
			c.markReference(opText, line.Pos)
		}
	}

	desc, ok := c.set.Parse(line.Mnemonic)
	if !ok {
		return nil, fmt.Errorf("%s: unknown mnemonic %q", line.Pos, line.Mnemonic)
	}
	if n := len(line.Operands); !desc.CheckArity(n) {
		return nil, fmt.Errorf("%s: %s takes %d-%d operands, got %d", line.Pos, line.Mnemonic, desc.MinArity, desc.MaxArity, n)
	}

	op, err := c.buildOperand(line.Operands)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", line.Pos, err)
	}

	return &program.Instruction{Address: address, Mnemonic: line.Mnemonic, ID: desc.ID, Operand: op}, nil
}

func (c *Compiler) emitData(out *program.Program, address uint64, data *parser.DataLiteral) error {
	if data.IsArray {
		fill, err := c.literals.Parse(data.Fill)
		if err != nil {
			return err
		}
		count, err := c.literals.Parse(data.Count)
		if err != nil {
			return err
		}
		for i := uint64(0); i < uint64(count); i++ {
			out.Data[address+i] = fill
		}
		return nil
	}

	v, err := c.literals.Parse(data.Value)
	if err != nil {
		return err
	}
	out.Data[address] = v
	return nil
}

// isKnownSymbol reports whether text is already a register, special
// register, or some other non-label form, so markReference does not
// register bogus forward references for those.
func isKnownSymbol(text string) bool {
	if strings.HasPrefix(text, "#") {
		return true
	}
	inner := stripBrackets(text)
	if _, ok := registerIndex(inner); ok {
		return true
	}
	if _, ok := specialRegister(inner); ok {
		return true
	}
	switch strings.ToUpper(text) {
	case "ACC", "IX", "CMP":
		return true
	}
	return false
}

// stripBrackets removes one layer of "[...]" or "(...)" delimiters, so
// the indirect-addressing forms "[rN]" and "(IX)" resolve the same way
// as their bare contents for symbol-reference purposes.
func stripBrackets(text string) string {
	if len(text) >= 2 && text[0] == '[' && text[len(text)-1] == ']' {
		return text[1 : len(text)-1]
	}
	if len(text) >= 2 && text[0] == '(' && text[len(text)-1] == ')' {
		return text[1 : len(text)-1]
	}
	return text
}

func (c *Compiler) markReference(text string, pos parser.Position) {
	text = stripBrackets(text)
	if _, ok := registerIndex(text); ok {
		return
	}
	if _, ok := specialRegister(text); ok {
		return
	}
	if isNumericLiteral(text) {
		return
	}
	c.symbols.Reference(text, pos)
}

// DefaultRegisterCount re-exports machine.RegisterCount so an embedder configuring machine.Context
// and compile.New from the same value has one source of truth.
const DefaultRegisterCount = machine.RegisterCount

// DebugEntries returns one program.DebugEntry per label defined during the
// most recent Compile call, for callers that persist artifacts with
// --debug. It is meaningless before Compile has run.
func (c *Compiler) DebugEntries() []program.DebugEntry {
	var entries []program.DebugEntry
	for _, sym := range c.symbols.Defined() {
		entries = append(entries, program.DebugEntry{Address: sym.Value, Label: sym.Name})
	}
	return entries
}
