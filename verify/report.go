package verify

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sarchlab/wspace/instr"
	"github.com/sarchlab/wspace/program"
)

// Report represents a complete verification report
type Report struct {
	InstCount   int
	LabelCount  int
	LintIssues  []Issue
	Sim         SimResult
	MaxSimSteps int
}

// GenerateReport runs both lint and a functional run, returns a report
func GenerateReport(p program.Program, input string, maxSimSteps int) *Report {
	report := &Report{
		InstCount:   p.Len(),
		MaxSimSteps: maxSimSteps,
	}

	for _, inst := range p.Insts {
		if inst.Op == instr.Label {
			report.LabelCount++
		}
	}

	report.LintIssues = RunLint(p)
	report.Sim = RunFunctional(p, input, maxSimSteps)

	return report
}

// CountByType returns how many lint issues have type t.
func (r *Report) CountByType(t IssueType) int {
	n := 0
	for _, issue := range r.LintIssues {
		if issue.Type == t {
			n++
		}
	}

	return n
}

// WriteReport writes the report in human readable form.
func (r *Report) WriteReport(w io.Writer) error {
	separator := strings.Repeat("=", 60)

	var b strings.Builder

	fmt.Fprintln(&b, separator)
	fmt.Fprintln(&b, "WHITESPACE PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "%d instructions, %d labels\n", r.InstCount, r.LabelCount)

	fmt.Fprintln(&b, "\n"+separator)
	fmt.Fprintln(&b, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(&b, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(&b, "No lint issues found")
	} else {
		fmt.Fprintln(&b, r.issueTable())
	}

	fmt.Fprintln(&b, "\n"+separator)
	fmt.Fprintln(&b, "STAGE 2: FUNCTIONAL RUN")
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "Step limit: %d\n", r.MaxSimSteps)
	fmt.Fprintf(&b, "Executed: %d instructions\n", r.Sim.Steps)
	fmt.Fprintf(&b, "Output: %q\n", r.Sim.Output)

	fmt.Fprintln(&b, "\n"+separator)
	fmt.Fprintln(&b, "VERIFICATION SUMMARY")
	fmt.Fprintln(&b, separator)
	fmt.Fprintf(&b, "Lint Result: %d issues detected (%d STRUCT, %d FLOW, %d STACK)\n",
		len(r.LintIssues),
		r.CountByType(IssueStruct),
		r.CountByType(IssueFlow),
		r.CountByType(IssueStack))

	simStatus := "SUCCESS"
	if !r.Sim.OK() {
		simStatus = "FAILED: " + r.Sim.Err.Error()
	}
	fmt.Fprintf(&b, "Run Result: %s\n", simStatus)

	_, err := io.WriteString(w, b.String())

	return err
}

func (r *Report) issueTable() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Type", "Index", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})

	for _, issue := range r.LintIssues {
		index := "-"
		if issue.Index >= 0 {
			index = fmt.Sprint(issue.Index)
		}
		t.AppendRow(table.Row{issue.Type, index, issue.Message})
	}

	return t.Render()
}

// SaveReportToFile saves the report to a file
func (r *Report) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	return r.WriteReport(file)
}
