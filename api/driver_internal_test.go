package api

import (
	"context"
	"errors"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/wspace/instr"
	"github.com/sarchlab/wspace/program"
)

var _ = Describe("Driver", func() {
	var (
		mockCtrl   *gomock.Controller
		mockDevice *MockDevice
		driver     *driverImpl
		prog       program.Program
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())

		mockDevice = NewMockDevice(mockCtrl)
		mockDevice.EXPECT().Name().Return("Device").AnyTimes()

		driver = DriverBuilder{}.
			WithEngine(sim.NewSerialEngine()).
			Build("Driver").(*driverImpl)

		var err error
		prog, err = program.Resolve([]instr.Inst{
			instr.WithNumber(instr.Push, 1),
			instr.New(instr.OutNum),
			instr.New(instr.End),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should default to a 1 GHz clock", func() {
		Expect(driver.freq).To(Equal(1 * sim.GHz))
		Expect(driver.name).To(Equal("Driver"))
	})

	It("should refuse to run without a device", func() {
		driver.MapProgram(prog)

		_, err := driver.Run(context.Background())

		Expect(err).To(MatchError(ErrNoDevice))
	})

	It("should refuse to run without a program", func() {
		driver.RegisterDevice(mockDevice)

		_, err := driver.Run(context.Background())

		Expect(err).To(MatchError(ErrNoProgram))
	})

	It("should map the program and report the run", func() {
		driver.RegisterDevice(mockDevice)
		driver.MapProgram(prog)

		mockDevice.EXPECT().MapProgram(prog)
		mockDevice.EXPECT().Steps().Return(uint64(3))
		mockDevice.EXPECT().Err().Return(nil).AnyTimes()
		mockDevice.EXPECT().Halted().Return(true)

		report, err := driver.Run(context.Background())

		Expect(err).NotTo(HaveOccurred())
		Expect(report.Steps).To(Equal(uint64(3)))
		Expect(report.String()).To(ContainSubstring("3 instructions"))
	})

	It("should return the error of the device", func() {
		deviceErr := errors.New("stack underflow")

		driver.RegisterDevice(mockDevice)
		driver.MapProgram(prog)

		mockDevice.EXPECT().MapProgram(prog)
		mockDevice.EXPECT().Steps().Return(uint64(1))
		mockDevice.EXPECT().Err().Return(deviceErr).AnyTimes()

		report, err := driver.Run(context.Background())

		Expect(err).To(Equal(deviceErr))
		Expect(report.Steps).To(Equal(uint64(1)))
	})

	It("should notice a device that never halted", func() {
		driver.RegisterDevice(mockDevice)
		driver.MapProgram(prog)

		mockDevice.EXPECT().MapProgram(prog)
		mockDevice.EXPECT().Steps().Return(uint64(0))
		mockDevice.EXPECT().Err().Return(nil).AnyTimes()
		mockDevice.EXPECT().Halted().Return(false)

		report, err := driver.Run(context.Background())

		Expect(err).To(MatchError(ErrNotHalted))
		Expect(report.Cycles).To(BeZero())
	})

	It("should not start with a cancelled context", func() {
		driver.RegisterDevice(mockDevice)
		driver.MapProgram(prog)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := driver.Run(ctx)

		Expect(err).To(MatchError(context.Canceled))
	})

	It("should need an engine", func() {
		Expect(func() { DriverBuilder{}.Build("Orphan") }).To(Panic())
	})
})
