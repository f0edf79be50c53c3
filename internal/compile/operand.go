package compile

import (
	"fmt"
	"strconv"
	"strings"

	"pasm9618/internal/operand"
)

func isNumericLiteral(text string) bool {
	if text == "" {
		return false
	}
	switch text[0] {
	case '&', '%':
		return true
	}
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		return true
	}
	r := text[0]
	return r >= '0' && r <= '9'
}

// isBracketed reports whether text is wrapped in a single matching pair
// of "()" or "[]", the two accepted indirect-addressing delimiters.
func isBracketed(text string) bool {
	if len(text) < 2 {
		return false
	}
	return (text[0] == '(' && text[len(text)-1] == ')') || (text[0] == '[' && text[len(text)-1] == ']')
}

// specialRegister parses "ACC"/"IX"/"CMP" (case-insensitive), returning
// the matching operand.SpecialReg and whether text named one at all.
func specialRegister(text string) (operand.SpecialReg, bool) {
	switch {
	case strings.EqualFold(text, "ACC"):
		return operand.ACC, true
	case strings.EqualFold(text, "IX"):
		return operand.IX, true
	case strings.EqualFold(text, "CMP"):
		return operand.CMP, true
	}
	return 0, false
}

// registerIndex parses "r0".."r29" (case-insensitive), returning the
// index and whether text was a register name at all.
func registerIndex(text string) (int, bool) {
	if len(text) < 2 || (text[0] != 'r' && text[0] != 'R') {
		return 0, false
	}
	n, err := strconv.Atoi(text[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseOperandText turns one raw operand string into an Operand. Labels
// resolve against symbols immediately, so this must run only once every
// label in the unit has a known address.
func (c *Compiler) parseOperandText(text string) (operand.Operand, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return operand.Operand{}, fmt.Errorf("empty operand")
	}

	switch {
	case strings.HasPrefix(text, "#"):
		v, err := c.literals.Parse(strings.TrimSpace(text[1:]))
		if err != nil {
			return operand.Operand{}, err
		}
		return operand.Imm(v), nil

	case isBracketed(text):
		// Indirect addressing: "(rN)"/"(ACC)" is the syllabus's own
		// notation; "[rN]" is accepted too since the example programs
		// also write it that way for a register index.
		inner := strings.TrimSpace(text[1 : len(text)-1])
		if idx, ok := registerIndex(inner); ok {
			if err := c.checkRegisterRange(idx); err != nil {
				return operand.Operand{}, err
			}
			return operand.Ind(idx), nil
		}
		if sp, ok := specialRegister(inner); ok {
			return operand.IndSpecial(sp), nil
		}
		return operand.Operand{}, fmt.Errorf("indirect operand %q must contain a register or ACC/IX/CMP", text)

	case strings.EqualFold(text, "ACC"):
		return operand.SpecialOp(operand.ACC), nil
	case strings.EqualFold(text, "IX"):
		return operand.SpecialOp(operand.IX), nil
	case strings.EqualFold(text, "CMP"):
		return operand.SpecialOp(operand.CMP), nil
	}

	if idx, ok := registerIndex(text); ok {
		if err := c.checkRegisterRange(idx); err != nil {
			return operand.Operand{}, err
		}
		return operand.Reg(idx), nil
	}

	if isNumericLiteral(text) {
		v, err := c.literals.Parse(text)
		if err != nil {
			return operand.Operand{}, err
		}
		return operand.Addr(uint64(v)), nil
	}

	addr, err := c.symbols.Resolve(text)
	if err != nil {
		return operand.Operand{}, err
	}
	return operand.Addr(addr), nil
}

func (c *Compiler) checkRegisterRange(idx int) error {
	if idx < 0 || idx >= c.registerCount {
		return fmt.Errorf("register index out of range: r%d", idx)
	}
	return nil
}

// buildOperand combines the raw operand texts of one instruction line
// into a single Operand, wrapping more than one in a MultiOperand.
func (c *Compiler) buildOperand(texts []string) (operand.Operand, error) {
	if len(texts) == 0 {
		return operand.Operand{}, nil
	}
	if len(texts) == 1 {
		return c.parseOperandText(texts[0])
	}
	items := make([]operand.Operand, 0, len(texts))
	for _, t := range texts {
		o, err := c.parseOperandText(t)
		if err != nil {
			return operand.Operand{}, err
		}
		items = append(items, o)
	}
	return operand.Multi(items...), nil
}
