package main

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/wspace/api"
	"github.com/sarchlab/wspace/config"
	"github.com/sarchlab/wspace/program"
	"github.com/tebeka/atexit"
)

// Reads a number and prints it down to 1, one per line.
//
//go:embed countdown.ws
var source []byte

func countdown(in io.Reader, out io.Writer) (api.Report, error) {
	p, err := program.Parse(source)
	if err != nil {
		return api.Report{}, err
	}

	cfg := config.Default()
	cfg.Sim.FreqMHz = 500

	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(cfg.Freq()).
		Build("Driver")

	builder, err := cfg.CoreBuilder(engine, in, out)
	if err != nil {
		return api.Report{}, err
	}

	driver.RegisterDevice(builder.Build("Core"))
	driver.MapProgram(p)

	return driver.Run(context.Background())
}

func main() {
	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { out.Flush() })

	report, err := countdown(os.Stdin, out)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Fprintln(os.Stderr, report)
	atexit.Exit(0)
}
