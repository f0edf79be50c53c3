package persist_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pasm9618/internal/compile"
	"pasm9618/internal/exec"
	"pasm9618/internal/isa"
	"pasm9618/internal/machine"
	"pasm9618/internal/parser"
	"pasm9618/internal/persist"
	"pasm9618/internal/program"
)

// helloViaLabelsSrc is the hello-via-labels program: an IX-indexed loop
// reads a run of explicit-address data cells one at a time, counting
// iterations through CNT, and prints a trailing newline once the count
// reaches 5.
const helloViaLabelsSrc = `LOOP: LDX 201
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

func runProgram(t *testing.T, prog *program.Program, set isa.Set) string {
	t.Helper()
	var out bytes.Buffer
	ctx := machine.NewContext(nil, &out)
	ctx.Memory.LoadImage(prog.LoadImage())
	eng := exec.New(prog, set, ctx)
	require.NoError(t, eng.Run())
	return out.String()
}

func compileSrc(t *testing.T, src string) *program.Program {
	t.Helper()
	p := parser.NewParser(src, "test.pasm")
	ast, err := p.Parse()
	require.NoError(t, err, "parse error")
	set := isa.NewCoreSet()
	c := compile.New(set, compile.DefaultRegisterCount)
	prog, err := c.Compile(ast)
	require.NoError(t, err, "compile error")
	prog.Debug = c.DebugEntries()
	return prog
}

const sampleSrc = "LDM #1\nCALL DOUBLE\nEND\nDOUBLE: ADD ACC\nRET\nCOUNT: 5\nBUF: [0;3]\n"

func assertProgramsEqual(t *testing.T, got, want *program.Program) {
	t.Helper()
	require.Len(t, got.Order, len(want.Order), "instruction count mismatch")
	for _, addr := range want.Order {
		w := want.Instructions[addr]
		g := got.Instructions[addr]
		if !assert.NotNil(t, g, "address %d: missing instruction", addr) {
			continue
		}
		assert.Equal(t, w.Mnemonic, g.Mnemonic, "address %d: mnemonic", addr)
		assert.Equal(t, w.Operand.Kind, g.Operand.Kind, "address %d: operand kind", addr)
	}
	require.Len(t, got.Data, len(want.Data), "data size mismatch")
	for addr, v := range want.Data {
		assert.Equal(t, v, got.Data[addr], "data at %d", addr)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	prog := compileSrc(t, sampleSrc)
	art := persist.FromProgram(prog, false)

	data, err := persist.EncodeJSON(art, false)
	require.NoError(t, err)
	decoded, err := persist.DecodeJSON(data)
	require.NoError(t, err)

	set := isa.NewCoreSet()
	rebuilt, err := persist.ToProgram(decoded, set)
	require.NoError(t, err)
	assertProgramsEqual(t, rebuilt, prog)
}

func TestYAMLRoundTrip(t *testing.T) {
	prog := compileSrc(t, sampleSrc)
	art := persist.FromProgram(prog, false)

	data, err := persist.EncodeYAML(art)
	require.NoError(t, err)
	decoded, err := persist.DecodeYAML(data)
	require.NoError(t, err)

	set := isa.NewCoreSet()
	rebuilt, err := persist.ToProgram(decoded, set)
	require.NoError(t, err)
	assertProgramsEqual(t, rebuilt, prog)
}

func TestBinaryRoundTrip(t *testing.T) {
	prog := compileSrc(t, sampleSrc)
	art := persist.FromProgram(prog, true)

	data, err := persist.EncodeBinary(art)
	require.NoError(t, err)
	decoded, err := persist.DecodeBinary(data)
	require.NoError(t, err)

	set := isa.NewCoreSet()
	rebuilt, err := persist.ToProgram(decoded, set)
	require.NoError(t, err)
	assertProgramsEqual(t, rebuilt, prog)
	assert.NotEmpty(t, decoded.Debug, "expected debug records to survive gob round trip")
}

func TestRONRoundTrip(t *testing.T) {
	prog := compileSrc(t, sampleSrc)
	art := persist.FromProgram(prog, true)

	data, err := persist.EncodeRON(art)
	require.NoError(t, err)
	decoded, err := persist.DecodeRON(data)
	require.NoError(t, err, "decoding:\n%s", data)
	assert.Equal(t, art.Version, decoded.Version)

	set := isa.NewCoreSet()
	rebuilt, err := persist.ToProgram(decoded, set)
	require.NoError(t, err)
	assertProgramsEqual(t, rebuilt, prog)
}

func TestRenderRoundTrip(t *testing.T) {
	prog := compileSrc(t, sampleSrc)

	rendered, err := persist.Render(prog)
	require.NoError(t, err)

	set := isa.NewCoreSet()
	rebuilt, err := persist.ParseRendered(rendered, set)
	require.NoError(t, err, "re-parsing rendered source:\n%s", rendered)
	assertProgramsEqual(t, rebuilt, prog)
}

func TestJSONRoundTripExecutesIdentically(t *testing.T) {
	set := isa.NewCoreSet()
	prog := compileSrc(t, helloViaLabelsSrc)
	baseline := runProgram(t, prog, set)
	require.Equal(t, "HELLO\n", baseline)

	art := persist.FromProgram(prog, false)
	data, err := persist.EncodeJSON(art, false)
	require.NoError(t, err)
	decoded, err := persist.DecodeJSON(data)
	require.NoError(t, err)
	rebuilt, err := persist.ToProgram(decoded, set)
	require.NoError(t, err)

	roundTripped := runProgram(t, rebuilt, set)
	assert.Equal(t, baseline, roundTripped)
}

func TestArtifactRejectsUnknownVersion(t *testing.T) {
	art := &persist.Artifact{Version: 999}
	set := isa.NewCoreSet()
	_, err := persist.ToProgram(art, set)
	assert.Error(t, err, "expected error for unsupported version")
}
