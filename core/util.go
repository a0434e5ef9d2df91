package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	LevelTrace slog.Level = slog.LevelDebug - 4

	maxHeapRows = 32
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// StateTable renders the registers, stacks and heap of m.
func StateTable(m *Machine) string {
	s := &m.state

	t := table.NewWriter()
	t.SetTitle("Machine state")
	t.AppendHeader(table.Row{"Item", "Value"})

	status := "running"
	switch {
	case m.err != nil:
		status = "faulted"
	case s.Halted:
		status = "halted"
	}

	t.AppendRow(table.Row{"Status", status})
	t.AppendRow(table.Row{"PC", pcString(s)})
	t.AppendRow(table.Row{"Steps", s.Steps})
	t.AppendRow(table.Row{"Stack (top first)", formatValues(reversed(s.Stack))})
	t.AppendRow(table.Row{"Calls (top first)", formatValues(reversedInts(s.Calls))})

	addrs := make([]int64, 0, len(s.Heap))
	for addr := range s.Heap {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(a, b int) bool { return addrs[a] < addrs[b] })

	t.AppendSeparator()
	for n, addr := range addrs {
		if n == maxHeapRows {
			t.AppendRow(table.Row{"...", fmt.Sprintf("%d more cells", len(addrs)-n)})
			break
		}
		t.AppendRow(table.Row{fmt.Sprintf("heap[%d]", addr), s.Heap[addr]})
	}

	return t.Render()
}

// PrintState writes the state table of m to w.
func PrintState(w io.Writer, m *Machine) error {
	_, err := fmt.Fprintln(w, StateTable(m))
	return err
}

func LogState(m *Machine) {
	s := &m.state
	slog.Debug("StateCheckpoint",
		"PC", s.PC,
		"Steps", s.Steps,
		"Stack", s.Stack,
		"Calls", s.Calls,
		"HeapCells", len(s.Heap),
	)
}

func pcString(s *coreState) string {
	if s.PC < s.Code.Len() {
		return fmt.Sprintf("%d (%s)", s.PC, s.Code.At(s.PC))
	}

	return fmt.Sprintf("%d (end of program)", s.PC)
}

func reversed(vs []int64) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = v
	}

	return out
}

func reversedInts(vs []int) []int64 {
	out := make([]int64, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = int64(v)
	}

	return out
}

func formatValues(vs []int64) string {
	if len(vs) == 0 {
		return "(empty)"
	}

	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}

	return strings.Join(parts, " ")
}
