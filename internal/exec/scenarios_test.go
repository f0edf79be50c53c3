package exec_test

import (
	"bytes"
	"testing"

	"pasm9618/internal/compile"
	"pasm9618/internal/exec"
	"pasm9618/internal/isa"
	"pasm9618/internal/machine"
	"pasm9618/internal/parser"
)

// countingSink records how many of each event kind it saw, so tests can
// assert "exactly one overflow warning" without inspecting log text.
type countingSink struct {
	overflows int
	ioWarns   int
}

func (s *countingSink) OverflowWarning(uint64, string, ...machine.Cell) { s.overflows++ }
func (s *countingSink) IOWarning(uint64, string)                       { s.ioWarns++ }

func runScenario(t *testing.T, src string, in []byte) (*machine.Context, *countingSink, string) {
	t.Helper()
	p := parser.NewParser(src, "scenario.pasm")
	ast, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	set := isa.NewExtendedSet(isa.NewCoreSet())
	c := compile.New(set, compile.DefaultRegisterCount)
	prog, err := c.Compile(ast)
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}

	var out bytes.Buffer
	var reader *bytes.Reader
	if in != nil {
		reader = bytes.NewReader(in)
	}
	var ctx *machine.Context
	if reader != nil {
		ctx = machine.NewContext(reader, &out)
	} else {
		ctx = machine.NewContext(nil, &out)
	}
	sink := &countingSink{}
	ctx.Observer = sink
	ctx.Memory.LoadImage(prog.LoadImage())

	eng := exec.New(prog, set, ctx)
	if err := eng.Run(); err != nil {
		t.Fatalf("execution error: %v", err)
	}
	return ctx, sink, out.String()
}

// HelloViaLabelsSrc is the literal *hello-via-labels* program: an
// IX-indexed loop reads a run of explicit-address data cells one at a
// time, counting iterations through CNT, and prints a trailing newline
// once the count reaches 5.
const HelloViaLabelsSrc = `LOOP: LDX 201
OUT ACC
INC IX
LDD CNT
INC ACC
STO CNT
CMP #5
JPN LOOP
LDM #10
OUT ACC
END
CNT: 0
201 72
202 69
203 76
204 76
205 79
`

func TestScenario_HelloViaLabels(t *testing.T) {
	_, _, stdout := runScenario(t, HelloViaLabelsSrc, nil)
	if stdout != "HELLO\n" {
		t.Errorf("expected stdout %q, got %q", "HELLO\n", stdout)
	}
}

// "hex-literal": program `LDM #xA / OUT ACC / END` emits one newline byte.
func TestScenario_HexLiteral(t *testing.T) {
	_, _, stdout := runScenario(t, "LDM #xA\nOUT ACC\nEND\n", nil)
	if stdout != "\n" {
		t.Errorf("expected stdout %q, got %q", "\n", stdout)
	}
}

// "overflow": arithmetic at Cell max wraps to zero and logs exactly one
// overflow warning.
func TestScenario_Overflow(t *testing.T) {
	ctx, sink, _ := runScenario(t, "LDM #xFFFFFFFFFFFFFFFF\nADD #1\nEND\n", nil)
	if ctx.Registers.ACC != 0 {
		t.Errorf("expected ACC=0 after wraparound, got %d", ctx.Registers.ACC)
	}
	if sink.overflows != 1 {
		t.Errorf("expected exactly one overflow warning, got %d", sink.overflows)
	}
}

// "indirect-store": STO (IX) writes through the index register rather
// than a general-purpose one, LDD reads the value back directly.
func TestScenario_IndirectStore(t *testing.T) {
	ctx, _, stdout := runScenario(t, "LDR #300\nLDM #65\nSTO (IX)\nLDD 300\nOUT ACC\nEND\n", nil)
	if ctx.Memory.Read(300) != 65 {
		t.Errorf("expected memory[300]=65, got %d", ctx.Memory.Read(300))
	}
	if stdout != "A" {
		t.Errorf("expected stdout %q, got %q", "A", stdout)
	}
}

// "call-mul": multiply 13x5 via repeated addition through a CALL/RET
// subroutine; on halt ACC == 65 and one character 'A' is emitted. r0
// carries the running sum across the loop since ACC itself is used to
// compare the remaining count against zero each iteration.
func TestScenario_CallMul(t *testing.T) {
	src := `LDR #5
LDM #0
MOV r0, ACC
CALL MUL
MOV ACC, r0
OUT ACC
END
MUL: LDM #0
ADD IX
CMP #0
JPE DONE
ADD r0, r0, #13
DEC IX
JMP MUL
DONE: RET
`
	ctx, _, stdout := runScenario(t, src, nil)
	if ctx.Registers.ACC != 65 {
		t.Errorf("expected ACC=65, got %d", ctx.Registers.ACC)
	}
	if stdout != "A" {
		t.Errorf("expected stdout %q, got %q", "A", stdout)
	}
}

// IN at EOF warns rather than aborting execution.
func TestScenario_InputEOFWarnsNotAborts(t *testing.T) {
	ctx, sink, _ := runScenario(t, "IN ACC\nEND\n", []byte{})
	if !ctx.Halted {
		t.Error("expected program to halt normally despite EOF on IN")
	}
	if sink.ioWarns != 1 {
		t.Errorf("expected exactly one IO warning, got %d", sink.ioWarns)
	}
}
