// Package exec is the execution engine: the fetch-dispatch-advance loop
// that steps a compiled program.Program against a machine.Context.
package exec

import (
	"fmt"

	"pasm9618/internal/isa"
	"pasm9618/internal/machine"
	"pasm9618/internal/program"
)

// ExecError wraps a fatal execution failure with the program counter it
// occurred at, mirroring the teacher's "fetch failed at PC=..." /
// "execute failed at PC=..." wrapping in its own Step.
type ExecError struct {
	PC  uint64
	Err error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execution error at address %d: %v", e.PC, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// Engine runs a compiled Program against a Context, one instruction at a
// time.
type Engine struct {
	Program *program.Program
	Set     isa.Set
	Context *machine.Context

	// MaxSteps bounds Run's loop; zero means unlimited. This is an added
	// safety knob beyond the core semantics, guarding against runaway
	// programs the way every VM in the example pack does.
	MaxSteps uint64
}

// New returns an Engine ready to run prog against ctx using set to
// resolve executors. ctx.PC is left wherever the caller set it (normally
// prog.EntryPoint).
func New(prog *program.Program, set isa.Set, ctx *machine.Context) *Engine {
	return &Engine{Program: prog, Set: set, Context: ctx}
}

// Step executes exactly one instruction: fetch the instruction at PC,
// dispatch it, and advance PC unless the executor already moved it (a
// branch, call, return, or halt).
func (e *Engine) Step() error {
	ctx := e.Context
	if ctx.Halted {
		return nil
	}

	inst := e.Program.At(ctx.PC)
	if inst == nil {
		err := fmt.Errorf("no instruction compiled at address %d", ctx.PC)
		return &ExecError{PC: ctx.PC, Err: err}
	}

	advance, err := e.Set.Dispatch(ctx, inst.ID, &inst.Operand)
	if err != nil {
		return &ExecError{PC: ctx.PC, Err: err}
	}

	ctx.Steps++
	if advance {
		ctx.PC++
	}
	return nil
}

// Run steps the engine until it halts, an instruction errors, or
// MaxSteps is reached (if nonzero).
func (e *Engine) Run() error {
	for !e.Context.Halted {
		if e.MaxSteps > 0 && e.Context.Steps >= e.MaxSteps {
			return &ExecError{PC: e.Context.PC, Err: fmt.Errorf("step limit exceeded (%d steps)", e.MaxSteps)}
		}
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}
