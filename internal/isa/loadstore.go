package isa

import (
	"fmt"

	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

// registerLoadStore wires the data-movement mnemonics: LDM, LDD, LDI, LDX,
// LDR, MOV, STO.
func registerLoadStore(s *baseSet) {
	s.add(Descriptor{ID: "LDM", Mnemonic: "LDM", MinArity: 1, MaxArity: 1, Exec: execLDM})
	s.add(Descriptor{ID: "LDD", Mnemonic: "LDD", MinArity: 1, MaxArity: 1, Exec: execLDD})
	s.add(Descriptor{ID: "LDI", Mnemonic: "LDI", MinArity: 1, MaxArity: 1, Exec: execLDI})
	s.add(Descriptor{ID: "LDX", Mnemonic: "LDX", MinArity: 1, MaxArity: 1, Exec: execLDX})
	s.add(Descriptor{ID: "LDR", Mnemonic: "LDR", MinArity: 1, MaxArity: 1, Exec: execLDR})
	s.add(Descriptor{ID: "MOV", Mnemonic: "MOV", MinArity: 2, MaxArity: 2, Exec: execMOV})
	s.add(Descriptor{ID: "STO", Mnemonic: "STO", MinArity: 1, MaxArity: 1, Exec: execSTO})
}

// execLDM loads a value straight into ACC: LDM #n or LDM addr.
func execLDM(ctx *machine.Context, op *operand.Operand) (bool, error) {
	v, err := op.Eval(ctx)
	if err != nil {
		return false, err
	}
	ctx.Registers.ACC = v
	return true, nil
}

// execLDD loads memory[addr] into ACC for its Direct form. The operand kind
// is not checked, neither by internal/compile nor here: any readable
// operand is evaluated, so an immediate "LDD #n" loads n itself.
func execLDD(ctx *machine.Context, op *operand.Operand) (bool, error) {
	v, err := op.Eval(ctx)
	if err != nil {
		return false, err
	}
	ctx.Registers.ACC = v
	return true, nil
}

// execLDI loads ACC from the address held at memory[addr] (indirect via a
// direct operand one level deeper than LDD).
func execLDI(ctx *machine.Context, op *operand.Operand) (bool, error) {
	if op.Kind != operand.Direct {
		return false, fmt.Errorf("LDI requires a direct address operand, got %s", op.Kind)
	}
	pointer := ctx.Memory.Read(op.Address)
	ctx.Registers.ACC = ctx.Memory.Read(uint64(pointer))
	return true, nil
}

// execLDX loads ACC from memory[addr + IX].
func execLDX(ctx *machine.Context, op *operand.Operand) (bool, error) {
	if op.Kind != operand.Direct {
		return false, fmt.Errorf("LDX requires a direct address operand, got %s", op.Kind)
	}
	ctx.Registers.ACC = ctx.Memory.Read(op.Address + uint64(ctx.Registers.IX))
	return true, nil
}

// execLDR loads an immediate value into IX.
func execLDR(ctx *machine.Context, op *operand.Operand) (bool, error) {
	v, err := op.Eval(ctx)
	if err != nil {
		return false, err
	}
	ctx.Registers.IX = v
	return true, nil
}

// execMOV copies the value of the second register operand into the first.
func execMOV(ctx *machine.Context, op *operand.Operand) (bool, error) {
	dst, err := op.At(0)
	if err != nil {
		return false, err
	}
	src, err := op.At(1)
	if err != nil {
		return false, err
	}
	v, err := src.Eval(ctx)
	if err != nil {
		return false, err
	}
	if err := dst.Assign(ctx, v); err != nil {
		return false, err
	}
	return true, nil
}

// execSTO stores ACC to the given operand's address.
func execSTO(ctx *machine.Context, op *operand.Operand) (bool, error) {
	if err := op.Assign(ctx, ctx.Registers.ACC); err != nil {
		return false, err
	}
	return true, nil
}
