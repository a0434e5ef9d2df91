package core

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/wspace/program"
)

// HeapPolicy decides what reading a never-written heap cell does.
type HeapPolicy int

const (
	// HeapZero reads unset cells as 0.
	HeapZero HeapPolicy = iota
	// HeapStrict faults with ErrUninitializedHeap.
	HeapStrict
)

func (p HeapPolicy) String() string {
	switch p {
	case HeapZero:
		return "zero"
	case HeapStrict:
		return "strict"
	default:
		return fmt.Sprintf("HeapPolicy(%d)", int(p))
	}
}

// ParseHeapPolicy accepts "zero" or "strict".
func ParseHeapPolicy(s string) (HeapPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zero", "":
		return HeapZero, nil
	case "strict":
		return HeapStrict, nil
	default:
		return HeapZero, fmt.Errorf("unknown heap policy %q (want zero or strict)", s)
	}
}

// EndPolicy decides what running past the last instruction does.
type EndPolicy int

const (
	// EndHalt treats falling off the end as a normal halt.
	EndHalt EndPolicy = iota
	// EndStrict faults with ErrMissingEnd.
	EndStrict
)

func (p EndPolicy) String() string {
	switch p {
	case EndHalt:
		return "halt"
	case EndStrict:
		return "strict"
	default:
		return fmt.Sprintf("EndPolicy(%d)", int(p))
	}
}

// ParseEndPolicy accepts "halt" or "strict".
func ParseEndPolicy(s string) (EndPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "halt", "":
		return EndHalt, nil
	case "strict":
		return EndStrict, nil
	default:
		return EndHalt, fmt.Errorf("unknown end policy %q (want halt or strict)", s)
	}
}

// Options configures a Machine. The zero value reads no input, discards
// output and uses the lenient policies.
type Options struct {
	Input  io.Reader
	Output io.Writer
	Heap   HeapPolicy
	End    EndPolicy
}

type coreState struct {
	PC     int
	Stack  []int64
	Heap   map[int64]int64
	Calls  []int
	Code   program.Program
	Halted bool
	Steps  uint64

	in  *bufio.Reader
	out *bufio.Writer

	heapPolicy HeapPolicy
	endPolicy  EndPolicy
}

func newCoreState(p program.Program, opts Options) coreState {
	in := opts.Input
	if in == nil {
		in = strings.NewReader("")
	}

	out := opts.Output
	if out == nil {
		out = io.Discard
	}

	return coreState{
		Heap:       make(map[int64]int64),
		Code:       p,
		in:         bufio.NewReader(in),
		out:        bufio.NewWriter(out),
		heapPolicy: opts.Heap,
		endPolicy:  opts.End,
	}
}

func (s *coreState) require(n int) error {
	if len(s.Stack) < n {
		return newFault(ErrStackUnderflow,
			"need %d values, have %d", n, len(s.Stack))
	}

	return nil
}

func (s *coreState) push(v int64) {
	s.Stack = append(s.Stack, v)
}

func (s *coreState) pop() int64 {
	v := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]

	return v
}

// peek returns the n-th value from the top without removing it.
func (s *coreState) peek(n int) int64 {
	return s.Stack[len(s.Stack)-1-n]
}

func (s *coreState) flush() error {
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
