package api_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/wspace/api"
	"github.com/sarchlab/wspace/core"
	"github.com/sarchlab/wspace/program"
)

var _ api.Device = (*core.Core)(nil)

var _ = Describe("End to end", func() {
	var (
		engine sim.Engine
		out    *bytes.Buffer
		driver api.Driver
	)

	runSourceContext := func(ctx context.Context, visible string, input string) (api.Report, error) {
		p, err := program.Parse(program.FromVisible(visible))
		if err != nil {
			return api.Report{}, err
		}

		device := core.NewBuilder().
			WithEngine(engine).
			WithInput(strings.NewReader(input)).
			WithOutput(out).
			Build("Core")

		driver.RegisterDevice(device)
		driver.MapProgram(p)

		return driver.Run(ctx)
	}

	runSource := func(visible string, input string) (api.Report, error) {
		return runSourceContext(context.Background(), visible, input)
	}

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		out = new(bytes.Buffer)
		driver = api.DriverBuilder{}.
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Driver")
	})

	It("should print H and a newline", func() {
		report, err := runSource("SSSTSSTSSSL TLSS SSSTSTSL TLSS LLL", "")

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("H\n"))
		Expect(report.Steps).To(Equal(uint64(5)))
		Expect(report.Cycles).To(Equal(uint64(5)))
	})

	It("should count one cycle per instruction without an end", func() {
		report, err := runSource("SSSTL TLST", "")

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("1"))
		Expect(report.Steps).To(Equal(uint64(2)))
		Expect(report.Cycles).To(Equal(uint64(2)))
	})

	It("should reject duplicate labels without output", func() {
		_, err := runSource("SSSTL TLST LSS TL LSS TL LLL", "")

		Expect(err).To(MatchError(program.ErrDuplicateLabel))
		Expect(out.Len()).To(BeZero())
	})

	It("should stop on the instruction that underflows", func() {
		report, err := runSource("SSSTL TLST TLST LLL", "")

		Expect(err).To(MatchError(core.ErrStackUnderflow))
		var fault *core.Fault
		Expect(errors.As(err, &fault)).To(BeTrue())
		Expect(fault.PC).To(Equal(2))
		Expect(out.String()).To(Equal("1"))
		Expect(report.Steps).To(Equal(uint64(2)))
	})

	It("should stop a looping program when the context is done", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		// push 1; loop: dup; drop; jmp loop
		report, err := runSourceContext(ctx, "SSSTL LSSL SLS SLL LSLL", "")

		Expect(err).To(MatchError(context.DeadlineExceeded))
		Expect(report.Steps).To(BeNumerically(">", 0))
	})

	It("should add two numbers read from input", func() {
		// push 0; readn; push 1; readn;
		// push 0; retrieve; push 1; retrieve; add; outn; end
		report, err := runSource(
			"SSSL TLTT SSSTL TLTT "+
				"SSSL TTT SSSTL TTT TSSS TLST LLL",
			"19\n23\n",
		)

		Expect(err).NotTo(HaveOccurred())
		Expect(out.String()).To(Equal("42"))
		Expect(report.Steps).To(Equal(uint64(11)))
	})
})
