package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/wspace/api"
	"github.com/sarchlab/wspace/config"
	"github.com/sarchlab/wspace/core"
	"github.com/sarchlab/wspace/program"
	"github.com/sarchlab/wspace/verify"
)

const usage = `usage: wspace [flags] [run|list|lint] <file>

Commands:
  run   execute the program (default)
  list  print the resolved instructions
  lint  check the program and try a bounded run

Flags:
`

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type cli struct {
	configPath string
	heap       string
	end        string
	sim        bool
	dump       bool
	verbose    bool
	trace      bool
	maxSteps   int

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(
	ctx context.Context,
	args []string,
	stdin io.Reader,
	stdout, stderr io.Writer,
) int {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	fs := flag.NewFlagSet("wspace", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&c.configPath, "config", "", "YAML config `file`")
	fs.StringVar(&c.heap, "heap", "", "uninitialized heap reads: zero or strict")
	fs.StringVar(&c.end, "end", "", "running past the last instruction: halt or strict")
	fs.BoolVar(&c.sim, "sim", false, "run on the akita engine and report cycles")
	fs.BoolVar(&c.dump, "dump", false, "print the machine state on a fault")
	fs.BoolVar(&c.verbose, "v", false, "log at debug level")
	fs.BoolVar(&c.trace, "trace", false, "log every executed instruction")
	fs.IntVar(&c.maxSteps, "max-steps", 1000000, "step limit of the lint trial run")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	command, file, ok := splitArgs(fs.Args())
	if !ok {
		fs.Usage()
		return exitUsage
	}

	cfg, err := c.loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "wspace: %v\n", err)
		return exitUsage
	}

	if err := c.setupLogging(cfg); err != nil {
		fmt.Fprintf(stderr, "wspace: %v\n", err)
		return exitUsage
	}

	p, err := program.LoadProgramFile(file)
	if err != nil {
		fmt.Fprintf(stderr, "wspace: %v\n", err)
		return exitError
	}

	switch command {
	case "list":
		return c.list(p)
	case "lint":
		return c.lint(p)
	default:
		return c.execute(ctx, cfg, p)
	}
}

func splitArgs(args []string) (command, file string, ok bool) {
	switch len(args) {
	case 1:
		return "run", args[0], true
	case 2:
		switch args[0] {
		case "run", "list", "lint":
			return args[0], args[1], true
		}
	}

	return "", "", false
}

func (c *cli) loadConfig() (config.Config, error) {
	cfg := config.Default()

	if c.configPath != "" {
		loaded, err := config.Load(c.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	if c.heap != "" {
		cfg.Heap = c.heap
	}

	if c.end != "" {
		cfg.End = c.end
	}

	switch {
	case c.trace:
		cfg.LogLevel = "trace"
	case c.verbose:
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

func (c *cli) setupLogging(cfg config.Config) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	handler := slog.NewTextHandler(c.stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

func (c *cli) list(p program.Program) int {
	if err := program.WriteListing(c.stdout, p); err != nil {
		fmt.Fprintf(c.stderr, "wspace: %v\n", err)
		return exitError
	}

	return exitOK
}

func (c *cli) lint(p program.Program) int {
	report := verify.GenerateReport(p, "", c.maxSteps)

	if err := report.WriteReport(c.stdout); err != nil {
		fmt.Fprintf(c.stderr, "wspace: %v\n", err)
		return exitError
	}

	if len(report.LintIssues) > 0 {
		return exitError
	}

	return exitOK
}

func (c *cli) execute(ctx context.Context, cfg config.Config, p program.Program) int {
	var (
		m   *core.Machine
		err error
	)

	if c.sim {
		m, err = c.simulate(ctx, cfg, p)
	} else {
		m, err = c.interpret(ctx, cfg, p)
	}

	if err == nil {
		return exitOK
	}

	fmt.Fprintf(c.stderr, "wspace: %v\n", err)

	if c.dump && m != nil {
		if perr := core.PrintState(c.stderr, m); perr != nil {
			slog.Warn("Failed to print state", "error", perr)
		}
	}

	return exitError
}

func (c *cli) interpret(
	ctx context.Context,
	cfg config.Config,
	p program.Program,
) (*core.Machine, error) {
	opts, err := cfg.Options(c.stdin, c.stdout)
	if err != nil {
		return nil, err
	}

	m := core.NewMachine(p, opts)

	return m, m.Run(ctx)
}

func (c *cli) simulate(
	ctx context.Context,
	cfg config.Config,
	p program.Program,
) (*core.Machine, error) {
	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(cfg.Freq()).
		Build("Driver")

	builder, err := cfg.CoreBuilder(engine, c.stdin, c.stdout)
	if err != nil {
		return nil, err
	}

	device := builder.Build("Core")
	driver.RegisterDevice(device)
	driver.MapProgram(p)

	report, err := driver.Run(ctx)
	fmt.Fprintln(c.stderr, report)

	return device.Machine(), err
}
