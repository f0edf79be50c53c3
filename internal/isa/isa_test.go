package isa_test

import (
	"testing"

	"pasm9618/internal/isa"
	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
)

func TestCoreSet_LDMAndADD(t *testing.T) {
	set := isa.NewCoreSet()
	ctx := machine.NewContext(nil, nil)

	ldm, ok := set.Parse("LDM")
	if !ok {
		t.Fatal("expected LDM to be registered")
	}
	op := operand.Imm(5)
	if _, err := set.Dispatch(ctx, ldm.ID, &op); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Registers.ACC != 5 {
		t.Fatalf("expected ACC=5, got %d", ctx.Registers.ACC)
	}

	add, ok := set.Parse("ADD")
	if !ok {
		t.Fatal("expected ADD to be registered")
	}
	addOp := operand.Imm(3)
	if _, err := set.Dispatch(ctx, add.ID, &addOp); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.Registers.ACC != 8 {
		t.Fatalf("expected ACC=8, got %d", ctx.Registers.ACC)
	}
}

func TestCoreSet_TernaryADD(t *testing.T) {
	set := isa.NewCoreSet()
	ctx := machine.NewContext(nil, nil)
	if err := ctx.Registers.Set(1, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ctx.Registers.Set(2, 32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	add, ok := set.Parse("ADD")
	if !ok {
		t.Fatal("expected ADD to be registered")
	}
	multi := operand.Multi(operand.Reg(0), operand.Reg(1), operand.Reg(2))
	if _, err := set.Dispatch(ctx, add.ID, &multi); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := ctx.Registers.Get(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("expected r0=42, got %d", got)
	}
}

func TestExtendedSet_FallsBackToParent(t *testing.T) {
	core := isa.NewCoreSet()
	ext := isa.NewExtendedSet(core)

	if _, ok := ext.Parse("LDM"); !ok {
		t.Error("expected extended set to resolve core mnemonics via its parent")
	}
	if _, ok := ext.Parse("ZERO"); !ok {
		t.Error("expected extended set to resolve its own mnemonics")
	}
	if _, ok := ext.Parse("NOSUCH"); ok {
		t.Error("expected unknown mnemonic to fail resolution")
	}
}

func TestJMPDoesNotAdvancePC(t *testing.T) {
	set := isa.NewCoreSet()
	ctx := machine.NewContext(nil, nil)
	ctx.PC = 0

	jmp, ok := set.Parse("JMP")
	if !ok {
		t.Fatal("expected JMP to be registered")
	}
	target := operand.Addr(10)
	advance, err := set.Dispatch(ctx, jmp.ID, &target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if advance {
		t.Error("expected JMP to report advance=false")
	}
	if ctx.PC != 10 {
		t.Errorf("expected PC=10, got %d", ctx.PC)
	}
}

func TestCALLAndRET(t *testing.T) {
	set := isa.NewCoreSet()
	ctx := machine.NewContext(nil, nil)
	ctx.PC = 5

	call, _ := set.Parse("CALL")
	target := operand.Addr(100)
	if _, err := set.Dispatch(ctx, call.ID, &target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.PC != 100 {
		t.Fatalf("expected PC=100 after CALL, got %d", ctx.PC)
	}
	if ctx.Calls.Depth() != 1 {
		t.Fatalf("expected one call frame, got %d", ctx.Calls.Depth())
	}

	ret, _ := set.Parse("RET")
	none := operand.Operand{}
	if _, err := set.Dispatch(ctx, ret.ID, &none); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ctx.PC != 6 {
		t.Fatalf("expected PC=6 after RET, got %d", ctx.PC)
	}
}
