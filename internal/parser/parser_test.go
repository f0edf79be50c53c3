package parser_test

import (
	"testing"

	"pasm9618/internal/parser"
)

func TestParser_LabelAndInstruction(t *testing.T) {
	src := "START: LDM #5\n      STO TOTAL\nTOTAL: 0\n"
	p := parser.NewParser(src, "test.pasm")
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(prog.Lines))
	}

	if prog.Lines[0].Label != "START" || prog.Lines[0].Mnemonic != "LDM" {
		t.Errorf("unexpected first line: %+v", prog.Lines[0])
	}
	if len(prog.Lines[0].Operands) != 1 || prog.Lines[0].Operands[0] != "#5" {
		t.Errorf("expected operand #5, got %v", prog.Lines[0].Operands)
	}

	if prog.Lines[1].Mnemonic != "STO" || prog.Lines[1].Operands[0] != "TOTAL" {
		t.Errorf("unexpected second line: %+v", prog.Lines[1])
	}

	if prog.Lines[2].Label != "TOTAL" || prog.Lines[2].Data == nil || prog.Lines[2].Data.Value != "0" {
		t.Errorf("unexpected third line: %+v", prog.Lines[2])
	}
}

func TestParser_ArrayLiteral(t *testing.T) {
	src := "BUF: [0;10]\n"
	p := parser.NewParser(src, "test.pasm")
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(prog.Lines))
	}
	data := prog.Lines[0].Data
	if data == nil || !data.IsArray || data.Fill != "0" || data.Count != "10" {
		t.Fatalf("unexpected array literal: %+v", data)
	}
}

func TestParser_TwoOperandInstruction(t *testing.T) {
	src := "MOV r1, r2\n"
	p := parser.NewParser(src, "test.pasm")
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(prog.Lines[0].Operands) != 2 {
		t.Fatalf("expected 2 operands, got %v", prog.Lines[0].Operands)
	}
}
