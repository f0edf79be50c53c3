package isa

import (
	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

// registerExtended wires the Extended set's own mnemonics: ZERO and NOP.
// The ternary form of ADD/SUB lives in the Core ADD/SUB executors
// themselves (dispatched on operand arity), so it needs no separate entry
// here; see DESIGN.md for that Open Question resolution.
func registerExtended(s *baseSet) {
	s.add(Descriptor{ID: "ZERO", Mnemonic: "ZERO", MinArity: 1, MaxArity: -1, Exec: execZERO})
	s.add(Descriptor{ID: "NOP", Mnemonic: "NOP", MinArity: 0, MaxArity: 0, Exec: execNOP})
}

// execZERO zeroes every listed operand. A bare single operand arrives as
// a non-MultiOperand Operand rather than a one-item MultiOperand, so it
// is handled as its own one-item list.
func execZERO(ctx *machine.Context, op *operand.Operand) (bool, error) {
	if op.Kind != operand.MultiOperand {
		if err := op.Assign(ctx, 0); err != nil {
			return false, err
		}
		return true, nil
	}
	for i := range op.Items {
		if err := op.Items[i].Assign(ctx, 0); err != nil {
			return false, err
		}
	}
	return true, nil
}

func execNOP(_ *machine.Context, _ *operand.Operand) (bool, error) {
	return true, nil
}
