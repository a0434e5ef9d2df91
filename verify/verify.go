// Package verify provides static checks and a bounded trial run for
// Whitespace programs.
//
// Verification has two stages:
//
// 1. Static Lint (lint.go): checks on the resolved instruction list
//   - STRUCT checks: missing end, execution running off the last
//     instruction, labels nothing branches to
//   - FLOW checks: instructions that no path can reach
//   - STACK checks: underflow on the straight-line path from the entry
//
// 2. Functional Run (funcsim.go): executes the program on a core.Machine
// with fixed input and a step limit, so that programs which never halt
// still produce a result.
//
// # Usage Example
//
//	p, err := program.LoadProgramFile("loop.ws")
//	if err != nil {
//	    return err
//	}
//
//	report := verify.GenerateReport(p, "", 100000)
//	report.WriteReport(os.Stdout)
//
// # Limitations
//
// The stack check stops at the first label, call or branch. Depths that
// depend on the path taken are not tracked.
package verify

// IssueType categorizes lint issues
type IssueType string

const (
	IssueStruct IssueType = "STRUCT" // Program shape (missing end, unused label)
	IssueFlow   IssueType = "FLOW"   // Control flow (unreachable code)
	IssueStack  IssueType = "STACK"  // Operand stack depth
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // STRUCT, FLOW or STACK
	Index   int                    // Instruction index or -1
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}
