// Package explain renders a LogicalPlan or a Workflow as a human-readable
// debug tree, grounded on the teacher's datalog/annotations package:
// fatih/color for structural highlighting and an
// olekukonko/tablewriter-backed table for the stage summary.
package explain

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/sqlmongo/compiler/logical"
	"github.com/sqlmongo/compiler/workflow"
)

// Printer controls rendering. The zero value has UseColor false and renders
// plain text; no color-support detection is done, so callers set UseColor
// explicitly.
type Printer struct {
	UseColor bool
}

// NewPrinter builds a Printer with color enabled, matching the teacher's
// default for interactive use.
func NewPrinter() *Printer { return &Printer{UseColor: true} }

func (p *Printer) colorize(s string, attr color.Attribute) string {
	if !p.UseColor {
		return s
	}
	return color.New(attr).Sprint(s)
}

// Plan renders a LogicalPlan as an indented tree, one node per line,
// functions highlighted the way the teacher colorizes relation attributes.
func (p *Printer) Plan(plan logical.Plan) string {
	var b strings.Builder
	p.writePlan(&b, plan, 0)
	return b.String()
}

func (p *Printer) writePlan(b *strings.Builder, plan logical.Plan, depth int) {
	indent := strings.Repeat("  ", depth)
	switch plan.Tag() {
	case logical.TagRead:
		fmt.Fprintf(b, "%s%s %s\n", indent, p.colorize("Read", color.FgBlue), plan.ReadPath())
	case logical.TagConstant:
		fmt.Fprintf(b, "%s%s %s\n", indent, p.colorize("Constant", color.FgBlue), plan.ConstantValue().String())
	case logical.TagFree:
		fmt.Fprintf(b, "%s%s %s\n", indent, p.colorize("Free", color.FgCyan), plan.FreeName())
	case logical.TagLet:
		fmt.Fprintf(b, "%s%s %s =\n", indent, p.colorize("Let", color.FgYellow), plan.LetName())
		p.writePlan(b, plan.LetBinding(), depth+1)
		fmt.Fprintf(b, "%s%s\n", indent, p.colorize("in", color.FgYellow))
		p.writePlan(b, plan.LetBody(), depth+1)
	case logical.TagInvoke:
		fmt.Fprintf(b, "%s%s\n", indent, p.colorize(plan.InvokeFunc().FuncName(), color.FgGreen))
		for _, arg := range plan.InvokeArgs() {
			p.writePlan(b, arg, depth+1)
		}
	default:
		fmt.Fprintf(b, "%s<invalid plan>\n", indent)
	}
}

// Workflow renders a pipeline as a stage list, $Read first, one line per
// stage: its index followed by the stage name (with the collection for
// $Read). Stage contents (shapes, selectors, keys) are not shown.
func (p *Printer) Workflow(w *workflow.Workflow) string {
	var b strings.Builder
	stages := flattenStages(w)
	for i, st := range stages {
		fmt.Fprintf(&b, "%s %s\n", p.colorize(fmt.Sprintf("[%d]", i), color.FgYellow), describeStage(st))
	}
	return b.String()
}

func flattenStages(w *workflow.Workflow) []*workflow.Workflow {
	if w == nil {
		return nil
	}
	if w.Tag() == workflow.StageRead {
		return []*workflow.Workflow{w}
	}
	return append(flattenStages(w.Source()), w)
}

func describeStage(w *workflow.Workflow) string {
	if w.Tag() == workflow.StageRead {
		return fmt.Sprintf("$Read(%s)", w.Collection())
	}
	return w.Tag().String()
}
