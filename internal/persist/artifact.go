// Package persist serializes a compiled program.Program to and from four
// on-disk encodings (JSON, a RON-flavoured text, YAML, and gob binary),
// and renders/re-parses it as pseudoassembly source text.
package persist

import (
	"fmt"

	"pasm9618/internal/isa"
	"pasm9618/internal/machine"
	"pasm9618/internal/operand"
	"pasm9618/internal/program"
)

// FormatVersion identifies the shape of a persisted Artifact. There is no
// migration path promised across versions; a mismatch is a hard error at
// load time.
const FormatVersion = 1

// OperandRecord is Operand flattened to a form every codec can represent
// without custom marshalers.
type OperandRecord struct {
	Kind        string          `json:"kind" yaml:"kind"`
	Immediate   machine.Cell    `json:"immediate,omitempty" yaml:"immediate,omitempty"`
	Address     uint64          `json:"address,omitempty" yaml:"address,omitempty"`
	Reg         int             `json:"reg,omitempty" yaml:"reg,omitempty"`
	Special     string          `json:"special,omitempty" yaml:"special,omitempty"`
	IndirectVia bool            `json:"indirect_via_special,omitempty" yaml:"indirect_via_special,omitempty"`
	Items       []OperandRecord `json:"items,omitempty" yaml:"items,omitempty"`
}

// InstructionRecord is one compiled instruction in persisted form.
type InstructionRecord struct {
	Address  uint64        `json:"address" yaml:"address"`
	Mnemonic string        `json:"mnemonic" yaml:"mnemonic"`
	Operand  OperandRecord `json:"operand" yaml:"operand"`
}

// DataRecord is one initial memory value in persisted form.
type DataRecord struct {
	Address uint64       `json:"address" yaml:"address"`
	Value   machine.Cell `json:"value" yaml:"value"`
}

// DebugRecord is one --debug source-mapping entry.
type DebugRecord struct {
	Address    uint64 `json:"address" yaml:"address"`
	SourceLine int    `json:"source_line,omitempty" yaml:"source_line,omitempty"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Artifact is the complete persisted form of a compiled program.
type Artifact struct {
	Version      int                 `json:"version" yaml:"version"`
	Instructions []InstructionRecord `json:"instructions" yaml:"instructions"`
	Data         []DataRecord        `json:"data,omitempty" yaml:"data,omitempty"`
	Debug        []DebugRecord       `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// FromProgram flattens a program.Program into an Artifact. includeDebug
// controls whether DebugRecords are emitted at all, per the --debug flag.
func FromProgram(p *program.Program, includeDebug bool) *Artifact {
	art := &Artifact{Version: FormatVersion}

	for _, addr := range p.Order {
		inst := p.Instructions[addr]
		art.Instructions = append(art.Instructions, InstructionRecord{
			Address:  inst.Address,
			Mnemonic: inst.Mnemonic,
			Operand:  toRecord(inst.Operand),
		})
	}

	for addr, v := range p.Data {
		art.Data = append(art.Data, DataRecord{Address: addr, Value: v})
	}
	sortDataRecords(art.Data)

	if includeDebug {
		for _, d := range p.Debug {
			art.Debug = append(art.Debug, DebugRecord{Address: d.Address, SourceLine: d.SourceLine, Label: d.Label})
		}
	}

	return art
}

// ToProgram reconstructs a program.Program from an Artifact, resolving
// each instruction's ExecutorID against set so the mnemonic is still
// valid in the executable that loads it.
func ToProgram(art *Artifact, set isa.Set) (*program.Program, error) {
	if art.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported artifact version %d, expected %d", art.Version, FormatVersion)
	}

	p := program.New()
	for _, rec := range art.Instructions {
		desc, ok := set.Parse(rec.Mnemonic)
		if !ok {
			return nil, fmt.Errorf("artifact references unknown mnemonic %q", rec.Mnemonic)
		}
		op, err := fromRecord(rec.Operand)
		if err != nil {
			return nil, err
		}
		p.Add(&program.Instruction{Address: rec.Address, Mnemonic: rec.Mnemonic, ID: desc.ID, Operand: op})
	}
	for _, rec := range art.Data {
		p.Data[rec.Address] = rec.Value
	}
	for _, rec := range art.Debug {
		p.Debug = append(p.Debug, program.DebugEntry{Address: rec.Address, SourceLine: rec.SourceLine, Label: rec.Label})
	}
	return p, nil
}

func toRecord(op operand.Operand) OperandRecord {
	rec := OperandRecord{Kind: op.Kind.String()}
	switch op.Kind {
	case operand.Immediate:
		rec.Immediate = op.Immediate
	case operand.Direct:
		rec.Address = op.Address
	case operand.Indirect:
		if op.IndirectVia {
			rec.IndirectVia = true
			rec.Special = op.Sp.String()
		} else {
			rec.Reg = op.Reg
		}
	case operand.Register:
		rec.Reg = op.Reg
	case operand.Special:
		rec.Special = op.Sp.String()
	case operand.MultiOperand:
		for _, item := range op.Items {
			rec.Items = append(rec.Items, toRecord(item))
		}
	}
	return rec
}

func fromRecord(rec OperandRecord) (operand.Operand, error) {
	switch rec.Kind {
	case "Immediate":
		return operand.Imm(rec.Immediate), nil
	case "Direct":
		return operand.Addr(rec.Address), nil
	case "Indirect":
		if rec.IndirectVia {
			sp, err := specialFromString(rec.Special)
			if err != nil {
				return operand.Operand{}, err
			}
			return operand.IndSpecial(sp), nil
		}
		return operand.Ind(rec.Reg), nil
	case "Register":
		return operand.Reg(rec.Reg), nil
	case "Special":
		sp, err := specialFromString(rec.Special)
		if err != nil {
			return operand.Operand{}, err
		}
		return operand.SpecialOp(sp), nil
	case "MultiOperand":
		items := make([]operand.Operand, 0, len(rec.Items))
		for _, item := range rec.Items {
			o, err := fromRecord(item)
			if err != nil {
				return operand.Operand{}, err
			}
			items = append(items, o)
		}
		return operand.Multi(items...), nil
	case "None", "":
		return operand.Operand{}, nil
	default:
		return operand.Operand{}, fmt.Errorf("unknown persisted operand kind %q", rec.Kind)
	}
}

func specialFromString(s string) (operand.SpecialReg, error) {
	switch s {
	case "ACC":
		return operand.ACC, nil
	case "IX":
		return operand.IX, nil
	case "CMP":
		return operand.CMP, nil
	default:
		return 0, fmt.Errorf("unknown special register %q", s)
	}
}

func sortDataRecords(records []DataRecord) {
	for i := 1; i < len(records); i++ {
		for j := i; j > 0 && records[j].Address < records[j-1].Address; j-- {
			records[j], records[j-1] = records[j-1], records[j]
		}
	}
}
