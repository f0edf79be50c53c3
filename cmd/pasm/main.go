// Command pasm is the reference embedder for the pasm9618 interpreter: a
// two-subcommand CLI wiring the parser/compiler/engine/persistence
// packages together the way any other embedder would.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/urfave/cli.v2"

	"pasm9618/internal/compile"
	"pasm9618/internal/config"
	"pasm9618/internal/exec"
	"pasm9618/internal/isa"
	"pasm9618/internal/machine"
	"pasm9618/internal/obslog"
	"pasm9618/internal/parser"
	"pasm9618/internal/persist"
	"pasm9618/internal/program"
	"pasm9618/internal/tty"
)

// compileFailure and execFailure distinguish the two non-zero exit codes
// spec'd for this command: 1 for a source that never became a runnable
// program, 2 for one that ran and hit a fatal condition.
type compileFailure struct{ err error }

func (e *compileFailure) Error() string { return e.err.Error() }
func (e *compileFailure) Unwrap() error { return e.err }

type execFailure struct{ err error }

func (e *execFailure) Error() string { return e.err.Error() }
func (e *execFailure) Unwrap() error { return e.err }

func main() {
	app := buildApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "pasm:", err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var cf *compileFailure
	var ef *execFailure
	switch {
	case errors.As(err, &cf):
		return 1
	case errors.As(err, &ef):
		return 2
	default:
		return 1
	}
}

func buildApp() *cli.App {
	return &cli.App{
		Name:    "pasm",
		Usage:   "assemble and run Cambridge 9618-style pseudoassembly",
		Version: "v0.1.0",
		Commands: []*cli.Command{
			runCommand(),
			compileCommand(),
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "assemble (or load) and execute a program",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "pasm", Usage: "pasm, json, ron, yaml, or bin"},
			&cli.BoolFlag{Name: "bench", Usage: "report step count and wall-clock time after running"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "repeat for more logging: -v for info, -vv for debug (warnings are always shown)"},
		},
		Action: runAction,
	}
}

func compileCommand() *cli.Command {
	return &cli.Command{
		Name:      "compile",
		Usage:     "assemble a program and persist it without running it",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output path (default: stdout)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "json, ron, yaml, or bin"},
			&cli.BoolFlag{Name: "minify", Usage: "omit indentation (json only)"},
			&cli.BoolFlag{Name: "debug", Usage: "include label/source debug records"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "repeat for more logging: -v for compiler diagnostics, -vv for debug"},
		},
		Action: compileAction,
	}
}

// verbosityFromFlags maps a repeated -v into a logging level: bare runs
// warn-only, one -v adds info-level diagnostics, two or more adds debug.
func verbosityFromFlags(c *cli.Context) obslog.Level {
	switch c.Count("verbose") {
	case 0:
		return obslog.Warn
	case 1:
		return obslog.Info
	default:
		return obslog.Debug
	}
}

func instructionSet() isa.Set {
	return isa.NewExtendedSet(isa.NewCoreSet())
}

func runAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return &compileFailure{fmt.Errorf("usage: pasm run <path>")}
	}

	cfg, err := config.Load()
	if err != nil {
		return &compileFailure{err}
	}

	obslog.LevelVar.Set(verbosityFromFlags(c))
	logger := obslog.New(os.Stderr, cfg.Logging.Format == "json")

	set := instructionSet()
	prog, err := loadProgram(path, c.String("format"), set, cfg)
	if err != nil {
		return &compileFailure{err}
	}

	in, closeIn, err := tty.InputReader(os.Stdin)
	if err != nil {
		return &compileFailure{err}
	}
	defer closeIn()

	ctx := machine.NewContext(in, os.Stdout)
	ctx.Observer = obslog.Sink{Logger: logger, Trace: cfg.Execution.LogOverflow || cfg.Execution.LogIOWarnings}
	ctx.Memory.LoadImage(prog.LoadImage())

	engine := exec.New(prog, set, ctx)
	engine.MaxSteps = cfg.Execution.MaxSteps

	start := time.Now()
	runErr := engine.Run()
	elapsed := time.Since(start)

	if c.Bool("bench") {
		fmt.Fprintf(os.Stderr, "steps=%d elapsed=%s\n", ctx.Steps, elapsed)
	}
	if runErr != nil {
		return &execFailure{runErr}
	}
	return nil
}

func compileAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return &compileFailure{fmt.Errorf("usage: pasm compile <path>")}
	}

	cfg, err := config.Load()
	if err != nil {
		return &compileFailure{err}
	}

	obslog.LevelVar.Set(verbosityFromFlags(c))
	logger := obslog.New(os.Stderr, cfg.Logging.Format == "json")

	src, err := os.ReadFile(path)
	if err != nil {
		return &compileFailure{err}
	}

	set := instructionSet()
	compiler := compile.New(set, cfg.Execution.RegisterCount)
	p := parser.NewParser(string(src), path)
	ast, err := p.Parse()
	if err != nil {
		return &compileFailure{err}
	}
	prog, err := compiler.Compile(ast)
	if err != nil {
		return &compileFailure{err}
	}
	logger.Info("compiled", "path", path, "instructions", len(prog.Order), "data_cells", len(prog.Data))

	includeDebug := c.Bool("debug")
	var debugEntries []program.DebugEntry
	if includeDebug {
		debugEntries = compiler.DebugEntries()
	}
	prog.Debug = debugEntries

	format := c.String("format")
	art := persist.FromProgram(prog, includeDebug)
	data, err := encodeArtifact(art, format, c.Bool("minify"))
	if err != nil {
		return &compileFailure{err}
	}

	out := os.Stdout
	if outPath := c.String("output"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return &compileFailure{err}
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(data); err != nil {
		return &compileFailure{err}
	}
	return nil
}

// loadProgram turns path into a ready-to-run program.Program: compiling it
// from pseudoassembly source when format is "pasm" (the default), or
// decoding it from a previously persisted artifact otherwise.
func loadProgram(path, format string, set isa.Set, cfg *config.Config) (*program.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if format == "pasm" {
		p := parser.NewParser(string(data), path)
		ast, err := p.Parse()
		if err != nil {
			return nil, err
		}
		compiler := compile.New(set, cfg.Execution.RegisterCount)
		return compiler.Compile(ast)
	}

	art, err := decodeArtifact(data, format)
	if err != nil {
		return nil, err
	}
	return persist.ToProgram(art, set)
}

func encodeArtifact(art *persist.Artifact, format string, minify bool) ([]byte, error) {
	switch format {
	case "json":
		return persist.EncodeJSON(art, minify)
	case "ron":
		return persist.EncodeRON(art)
	case "yaml":
		return persist.EncodeYAML(art)
	case "bin":
		return persist.EncodeBinary(art)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func decodeArtifact(data []byte, format string) (*persist.Artifact, error) {
	switch format {
	case "json":
		return persist.DecodeJSON(data)
	case "ron":
		return persist.DecodeRON(data)
	case "yaml":
		return persist.DecodeYAML(data)
	case "bin":
		return persist.DecodeBinary(data)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
