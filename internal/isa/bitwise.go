package isa

import (
	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

// registerBitwise wires AND, OR, XOR, each operating on ACC against a
// single operand.
func registerBitwise(s *baseSet) {
	s.add(Descriptor{ID: "AND", Mnemonic: "AND", MinArity: 1, MaxArity: 1, Exec: bitwiseExec(func(a, b machine.Cell) machine.Cell { return a & b })})
	s.add(Descriptor{ID: "OR", Mnemonic: "OR", MinArity: 1, MaxArity: 1, Exec: bitwiseExec(func(a, b machine.Cell) machine.Cell { return a | b })})
	s.add(Descriptor{ID: "XOR", Mnemonic: "XOR", MinArity: 1, MaxArity: 1, Exec: bitwiseExec(func(a, b machine.Cell) machine.Cell { return a ^ b })})
}

func bitwiseExec(op func(a, b machine.Cell) machine.Cell) Executor {
	return func(ctx *machine.Context, operandVal *operand.Operand) (bool, error) {
		v, err := operandVal.Eval(ctx)
		if err != nil {
			return false, err
		}
		ctx.Registers.ACC = op(ctx.Registers.ACC, v)
		return true, nil
	}
}
