package isa

import (
	"fmt"

	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

// registerArithmetic wires ADD, SUB, INC, DEC. ADD and SUB accept either
// the unary form (operate on ACC) or the ternary form from the Extended
// set (dst, a, b); the arity is resolved here on the operand shape rather
// than requiring two distinct mnemonics.
func registerArithmetic(s *baseSet) {
	s.add(Descriptor{ID: "ADD", Mnemonic: "ADD", MinArity: 1, MaxArity: 3, Arities: []int{1, 3}, Exec: execADD})
	s.add(Descriptor{ID: "SUB", Mnemonic: "SUB", MinArity: 1, MaxArity: 3, Arities: []int{1, 3}, Exec: execSUB})
	s.add(Descriptor{ID: "INC", Mnemonic: "INC", MinArity: 1, MaxArity: 1, Exec: execINC})
	s.add(Descriptor{ID: "DEC", Mnemonic: "DEC", MinArity: 1, MaxArity: 1, Exec: execDEC})
}

func execADD(ctx *machine.Context, op *operand.Operand) (bool, error) {
	switch op.Arity() {
	case 1:
		v, err := op.Eval(ctx)
		if err != nil {
			return false, err
		}
		ctx.Registers.ACC = ctx.Add(ctx.PC, "ADD", ctx.Registers.ACC, v)
		return true, nil
	case 3:
		dst, a, b, err := ternaryOperands(op)
		if err != nil {
			return false, err
		}
		av, err := a.Eval(ctx)
		if err != nil {
			return false, err
		}
		bv, err := b.Eval(ctx)
		if err != nil {
			return false, err
		}
		result := ctx.Add(ctx.PC, "ADD", av, bv)
		if err := dst.Assign(ctx, result); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("ADD takes 1 or 3 operands, got %d", op.Arity())
	}
}

func execSUB(ctx *machine.Context, op *operand.Operand) (bool, error) {
	switch op.Arity() {
	case 1:
		v, err := op.Eval(ctx)
		if err != nil {
			return false, err
		}
		ctx.Registers.ACC = ctx.Sub(ctx.PC, "SUB", ctx.Registers.ACC, v)
		return true, nil
	case 3:
		dst, a, b, err := ternaryOperands(op)
		if err != nil {
			return false, err
		}
		av, err := a.Eval(ctx)
		if err != nil {
			return false, err
		}
		bv, err := b.Eval(ctx)
		if err != nil {
			return false, err
		}
		result := ctx.Sub(ctx.PC, "SUB", av, bv)
		if err := dst.Assign(ctx, result); err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, fmt.Errorf("SUB takes 1 or 3 operands, got %d", op.Arity())
	}
}

// execINC increments a single operand in place. The syllabus defines no
// ternary form for INC, unlike ADD/SUB.
func execINC(ctx *machine.Context, op *operand.Operand) (bool, error) {
	v, err := op.Eval(ctx)
	if err != nil {
		return false, err
	}
	result := ctx.Add(ctx.PC, "INC", v, 1)
	if err := op.Assign(ctx, result); err != nil {
		return false, err
	}
	return true, nil
}

func execDEC(ctx *machine.Context, op *operand.Operand) (bool, error) {
	v, err := op.Eval(ctx)
	if err != nil {
		return false, err
	}
	result := ctx.Sub(ctx.PC, "DEC", v, 1)
	if err := op.Assign(ctx, result); err != nil {
		return false, err
	}
	return true, nil
}

func ternaryOperands(op *operand.Operand) (dst, a, b *operand.Operand, err error) {
	dst, err = op.At(0)
	if err != nil {
		return nil, nil, nil, err
	}
	a, err = op.At(1)
	if err != nil {
		return nil, nil, nil, err
	}
	b, err = op.At(2)
	if err != nil {
		return nil, nil, nil, err
	}
	return dst, a, b, nil
}
