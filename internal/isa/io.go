package isa

import (
	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

// registerIO wires IN and OUT. IN reads a single byte and stores it via
// its operand; at EOF ctx.ReadByte reports an IoWarning and yields zero
// rather than failing. OUT reads its operand's low byte and writes it to
// the output handle.
func registerIO(s *baseSet) {
	s.add(Descriptor{ID: "IN", Mnemonic: "IN", MinArity: 1, MaxArity: 1, Exec: execIN})
	s.add(Descriptor{ID: "OUT", Mnemonic: "OUT", MinArity: 1, MaxArity: 1, Exec: execOUT})
}

func execIN(ctx *machine.Context, op *operand.Operand) (bool, error) {
	b, err := ctx.ReadByte(ctx.PC)
	if err != nil {
		return false, err
	}
	if err := op.Assign(ctx, machine.Cell(b)); err != nil {
		return false, err
	}
	return true, nil
}

func execOUT(ctx *machine.Context, op *operand.Operand) (bool, error) {
	v, err := op.Eval(ctx)
	if err != nil {
		return false, err
	}
	if err := ctx.WriteByte(byte(v)); err != nil {
		return false, err
	}
	return true, nil
}
