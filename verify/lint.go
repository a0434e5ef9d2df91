package verify

import (
	"fmt"
	"math"

	"github.com/sarchlab/wspace/instr"
	"github.com/sarchlab/wspace/program"
)

// RunLint performs static lint checks on a resolved program.
// Issues are ordered by check, then by instruction index. An empty result
// means no issues.
func RunLint(p program.Program) []Issue {
	var issues []Issue

	issues = append(issues, checkEnd(p)...)
	issues = append(issues, checkUnusedLabels(p)...)
	issues = append(issues, checkUnreachable(p)...)
	issues = append(issues, checkEntryStack(p)...)

	return issues
}

// STRUCT: a program needs an end, and its last instruction must not fall
// through.
func checkEnd(p program.Program) []Issue {
	if p.Len() == 0 {
		return nil
	}

	var issues []Issue

	hasEnd := false
	for _, inst := range p.Insts {
		if inst.Op == instr.End {
			hasEnd = true
			break
		}
	}

	if !hasEnd {
		issues = append(issues, Issue{
			Type:    IssueStruct,
			Index:   -1,
			Message: "Program has no end instruction",
		})
	}

	last := p.Len() - 1
	if !isTransfer(p.At(last).Op) {
		issues = append(issues, Issue{
			Type:  IssueStruct,
			Index: last,
			Message: fmt.Sprintf(
				"Execution can run past the last instruction (%s)", p.At(last)),
		})
	}

	return issues
}

// STRUCT: labels that no call or branch refers to.
func checkUnusedLabels(p program.Program) []Issue {
	used := make(map[string]bool)
	for _, inst := range p.Insts {
		if inst.Op.IsBranch() {
			used[inst.Label] = true
		}
	}

	var issues []Issue
	for i, inst := range p.Insts {
		if inst.Op == instr.Label && !used[inst.Label] {
			issues = append(issues, Issue{
				Type:    IssueStruct,
				Index:   i,
				Message: fmt.Sprintf("Label %s is never used", instr.FormatLabel(inst.Label)),
				Details: map[string]interface{}{"label": inst.Label},
			})
		}
	}

	return issues
}

// FLOW: instructions after an unconditional transfer and before the next
// label can never run. One issue is reported per dead run.
func checkUnreachable(p program.Program) []Issue {
	var issues []Issue

	for i := 0; i < p.Len(); i++ {
		if !isTransfer(p.At(i).Op) {
			continue
		}

		start := i + 1
		end := start
		for end < p.Len() && p.At(end).Op != instr.Label {
			end++
		}

		if end > start {
			issues = append(issues, Issue{
				Type:  IssueFlow,
				Index: start,
				Message: fmt.Sprintf("%d unreachable instruction(s) after %s",
					end-start, p.At(i)),
				Details: map[string]interface{}{
					"after": i,
					"count": end - start,
				},
			})
		}

		i = end - 1
	}

	return issues
}

// STACK: follow the program from index 0 until control can arrive from
// elsewhere, and report the first instruction that needs more values than
// the straight-line path has pushed.
func checkEntryStack(p program.Program) []Issue {
	depth := 0

	for i, inst := range p.Insts {
		if inst.Op == instr.Label {
			break
		}

		need := stackNeed(inst)
		if depth < need {
			return []Issue{{
				Type:  IssueStack,
				Index: i,
				Message: fmt.Sprintf("%s needs %d value(s) but the stack holds %d",
					inst, need, depth),
				Details: map[string]interface{}{
					"depth": depth,
					"need":  need,
				},
			}}
		}

		if inst.Op.IsBranch() || isTransfer(inst.Op) {
			break
		}

		depth += stackDelta(inst)
	}

	return nil
}

func isTransfer(op instr.Opcode) bool {
	switch op {
	case instr.Jump, instr.Return, instr.End:
		return true
	default:
		return false
	}
}

// stackNeed returns how many values must be on the stack for inst to run.
func stackNeed(inst instr.Inst) int {
	switch inst.Op {
	case instr.Copy, instr.Slide:
		// A negative index always underflows.
		if inst.Arg < 0 || inst.Arg >= math.MaxInt32 {
			return math.MaxInt32
		}
		return int(inst.Arg) + 1
	default:
		return inst.Op.Pops()
	}
}

// stackDelta returns the change of the stack depth after inst ran.
func stackDelta(inst instr.Inst) int {
	switch inst.Op {
	case instr.Push, instr.Dup, instr.Copy:
		return 1
	case instr.Swap, instr.Retrieve, instr.Label, instr.Call, instr.Jump,
		instr.Return, instr.End:
		return 0
	case instr.Slide:
		return -int(inst.Arg)
	case instr.Discard, instr.Add, instr.Sub, instr.Mul, instr.Div, instr.Mod,
		instr.JumpIfZero, instr.JumpIfNeg,
		instr.OutChar, instr.OutNum, instr.ReadChar, instr.ReadNum:
		return -1
	case instr.Store:
		return -2
	default:
		panic(fmt.Sprintf("unknown opcode %d", inst.Op))
	}
}
