package isa

import (
	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

// registerControl wires END, CALL, RET.
func registerControl(s *baseSet) {
	s.add(Descriptor{ID: "END", Mnemonic: "END", MinArity: 0, MaxArity: 0, Exec: execEND})
	s.add(Descriptor{ID: "CALL", Mnemonic: "CALL", MinArity: 1, MaxArity: 1, Exec: execCALL})
	s.add(Descriptor{ID: "RET", Mnemonic: "RET", MinArity: 0, MaxArity: 0, Exec: execRET})
}

func execEND(ctx *machine.Context, _ *operand.Operand) (bool, error) {
	ctx.Halted = true
	return false, nil
}

// execCALL pushes the address of the instruction following CALL and
// jumps to the target; ctx.PC is still at CALL's own address when this
// runs, so the return address is PC+1.
func execCALL(ctx *machine.Context, op *operand.Operand) (bool, error) {
	target, err := branchTarget(op)
	if err != nil {
		return false, err
	}
	ctx.Calls.Push(ctx.PC + 1)
	ctx.PC = target
	return false, nil
}

// execRET pops the return address pushed by CALL. Popping an empty call
// stack is the fatal condition documented on machine.CallStack.Pop.
func execRET(ctx *machine.Context, _ *operand.Operand) (bool, error) {
	addr, err := ctx.Calls.Pop()
	if err != nil {
		return false, err
	}
	ctx.PC = addr
	return false, nil
}
