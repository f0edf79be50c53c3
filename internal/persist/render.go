package persist

import (
	"fmt"
	"strconv"
	"strings"

	"pasm9618/internal/compile"
	"pasm9618/internal/isa"
	"pasm9618/internal/operand"
	"pasm9618/internal/parser"
	"pasm9618/internal/program"
)

// Render re-emits a compiled program.Program as pseudoassembly source
// text. Labels recorded in Debug are used where available so the output
// reads naturally; any Direct operand whose target has no recorded
// label falls back to its bare numeric address, which internal/compile
// accepts directly. Rendered text always re-parses and re-compiles to a
// program with the same instructions and data (spec.md §8's round-trip
// property), though not necessarily to byte-identical source.
func Render(p *program.Program) (string, error) {
	labels := labelsByAddress(p)

	var maxAddr uint64
	haveAny := false
	for addr := range p.Instructions {
		if !haveAny || addr > maxAddr {
			maxAddr = addr
		}
		haveAny = true
	}
	for addr := range p.Data {
		if !haveAny || addr > maxAddr {
			maxAddr = addr
		}
		haveAny = true
	}
	if !haveAny {
		return "", nil
	}

	var sb strings.Builder
	for addr := uint64(0); addr <= maxAddr; addr++ {
		label := labels[addr]
		switch {
		case p.Instructions[addr] != nil:
			inst := p.Instructions[addr]
			opText, err := renderOperand(&inst.Operand, labels)
			if err != nil {
				return "", fmt.Errorf("address %d: %w", addr, err)
			}
			writeLine(&sb, label, inst.Mnemonic, opText)
		default:
			v, ok := p.Data[addr]
			if !ok {
				v = 0
			}
			writeLine(&sb, label, strconv.FormatUint(uint64(v), 10), "")
		}
	}
	return sb.String(), nil
}

func writeLine(sb *strings.Builder, label, head, tail string) {
	if label != "" {
		sb.WriteString(label)
		sb.WriteString(": ")
	}
	sb.WriteString(head)
	if tail != "" {
		sb.WriteString(" ")
		sb.WriteString(tail)
	}
	sb.WriteString("\n")
}

func labelsByAddress(p *program.Program) map[uint64]string {
	labels := make(map[uint64]string)
	for _, d := range p.Debug {
		if d.Label != "" {
			labels[d.Address] = d.Label
		}
	}
	return labels
}

func renderOperand(op *operand.Operand, labels map[uint64]string) (string, error) {
	switch op.Kind {
	case operand.None:
		return "", nil
	case operand.Immediate:
		return "#" + strconv.FormatUint(uint64(op.Immediate), 10), nil
	case operand.Direct:
		if label, ok := labels[op.Address]; ok {
			return label, nil
		}
		return strconv.FormatUint(op.Address, 10), nil
	case operand.Indirect:
		if op.IndirectVia {
			return fmt.Sprintf("(%s)", op.Sp), nil
		}
		return fmt.Sprintf("(r%d)", op.Reg), nil
	case operand.Register:
		return fmt.Sprintf("r%d", op.Reg), nil
	case operand.Special:
		return op.Sp.String(), nil
	case operand.MultiOperand:
		parts := make([]string, len(op.Items))
		for i := range op.Items {
			text, err := renderOperand(&op.Items[i], labels)
			if err != nil {
				return "", err
			}
			parts[i] = text
		}
		return strings.Join(parts, ", "), nil
	default:
		return "", fmt.Errorf("cannot render operand kind %v", op.Kind)
	}
}

// ParseRendered parses and compiles pseudoassembly source text back into a
// program.Program, resolving mnemonics against set.
func ParseRendered(src string, set isa.Set) (*program.Program, error) {
	p := parser.NewParser(src, "<rendered>")
	ast, err := p.Parse()
	if err != nil {
		return nil, err
	}
	c := compile.New(set, compile.DefaultRegisterCount)
	return c.Compile(ast)
}
