package isa

import (
	"fmt"

	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

// registerCompareBranch wires CMP, CMI, JMP, JPE, JPN. Comparisons set
// CMP true when the two values are equal, false otherwise; the branch
// mnemonics manage PC themselves and report advance=false so the
// execution engine does not also step it forward.
func registerCompareBranch(s *baseSet) {
	s.add(Descriptor{ID: "CMP", Mnemonic: "CMP", MinArity: 1, MaxArity: 1, Exec: execCMP})
	s.add(Descriptor{ID: "CMI", Mnemonic: "CMI", MinArity: 1, MaxArity: 1, Exec: execCMI})
	s.add(Descriptor{ID: "JMP", Mnemonic: "JMP", MinArity: 1, MaxArity: 1, Exec: execJMP})
	s.add(Descriptor{ID: "JPE", Mnemonic: "JPE", MinArity: 1, MaxArity: 1, Exec: execJPE})
	s.add(Descriptor{ID: "JPN", Mnemonic: "JPN", MinArity: 1, MaxArity: 1, Exec: execJPN})
}

func execCMP(ctx *machine.Context, op *operand.Operand) (bool, error) {
	v, err := op.Eval(ctx)
	if err != nil {
		return false, err
	}
	ctx.Registers.CMP = ctx.Registers.ACC == v
	return true, nil
}

// execCMI compares ACC against memory[memory[addr]], the indirect
// counterpart of CMP mirroring LDI's extra dereference.
func execCMI(ctx *machine.Context, op *operand.Operand) (bool, error) {
	if op.Kind != operand.Direct {
		return false, fmt.Errorf("CMI requires a direct address operand, got %s", op.Kind)
	}
	pointer := ctx.Memory.Read(op.Address)
	v := ctx.Memory.Read(uint64(pointer))
	ctx.Registers.CMP = ctx.Registers.ACC == v
	return true, nil
}

func branchTarget(op *operand.Operand) (uint64, error) {
	if op.Kind != operand.Direct {
		return 0, fmt.Errorf("branch target must be a resolved address, got %s", op.Kind)
	}
	return op.Address, nil
}

func execJMP(ctx *machine.Context, op *operand.Operand) (bool, error) {
	target, err := branchTarget(op)
	if err != nil {
		return false, err
	}
	ctx.PC = target
	return false, nil
}

func execJPE(ctx *machine.Context, op *operand.Operand) (bool, error) {
	target, err := branchTarget(op)
	if err != nil {
		return false, err
	}
	if ctx.Registers.CMP {
		ctx.PC = target
		return false, nil
	}
	return true, nil
}

func execJPN(ctx *machine.Context, op *operand.Operand) (bool, error) {
	target, err := branchTarget(op)
	if err != nil {
		return false, err
	}
	if !ctx.Registers.CMP {
		ctx.PC = target
		return false, nil
	}
	return true, nil
}
