package main

import (
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

//go:embed hello.ws
var source []byte

func hello(out io.Writer) (api.Report, error) {
	p, err := program.Parse(source)
	if err != nil {
		return api.Report{}, err
	}

	cfg := config.Default()
	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(cfg.Freq()).
		Build("Driver")

	builder, err := cfg.CoreBuilder(engine, nil, out)
	if err != nil {
		return api.Report{}, err
	}

	driver.RegisterDevice(builder.Build("Core"))
	driver.MapProgram(p)

	return driver.Run(context.Background())
}

func main() {
	report, err := hello(os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	fmt.Fprintln(os.Stderr, report)
	atexit.Exit(0)
}
