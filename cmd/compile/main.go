// Command compile is a demo CLI driving the core pipeline end to end: it
// builds a fixed sample LogicalPlan and a fixed sample Workflow by hand
// (no SQL lexer/parser is part of this core, per spec), runs the
// optimizer over the latter, and prints both with the explain package.
// Grounded on the teacher's cmd/datalog main: flag-parsed demo/verbose
// modes over a hardcoded scenario rather than a real REPL.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sqlmongo/compiler/ast"
	"github.com/sqlmongo/compiler/atom"
	"github.com/sqlmongo/compiler/catalog"
	"github.com/sqlmongo/compiler/compiler"
	"github.com/sqlmongo/compiler/explain"
	"github.com/sqlmongo/compiler/optimize"
	"github.com/sqlmongo/compiler/workflow"
)

func main() {
	var noColor bool
	var table bool
	flag.BoolVar(&noColor, "no-color", false, "disable ANSI color in tree output")
	flag.BoolVar(&table, "table", false, "also print the optimized Workflow's stage summary table")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Compiles a fixed sample SELECT into a LogicalPlan, builds a fixed sample\n")
		fmt.Fprintf(os.Stderr, "Workflow, optimizes it, and prints both.\n\nOptions:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	p := explain.NewPrinter()
	p.UseColor = !noColor

	fmt.Println("=== LogicalPlan: SELECT city, state FROM zips WHERE pop > 1000 ===")
	plan, err := compiler.Compile(compiler.NewState(catalog.Default(), compiler.DefaultOptions()), sampleTree())
	if err != nil {
		fmt.Fprintf(os.Stderr, "compile error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(p.Plan(plan))

	fmt.Println("\n=== Workflow before optimization ===")
	wf := sampleWorkflow()
	fmt.Print(p.Workflow(wf))

	optimized := optimize.Optimize(wf)
	fmt.Println("\n=== Workflow after optimization ===")
	fmt.Print(p.Workflow(optimized))

	if table {
		fmt.Println("\n=== Stage summary ===")
		fmt.Print(p.StageSummary(optimized))
	}
}

// sampleTree builds SELECT city, state FROM zips WHERE pop > 1000 by hand,
// the way the teacher's planner unit tests construct query.Query values
// directly rather than through a lexer/parser.
func sampleTree() ast.Tree {
	from := ast.TableRef{Name: "zips"}
	where := ast.Binop{
		Op:  ">",
		Lhs: ast.Ident{Name: "pop"},
		Rhs: ast.Literal{Value: atom.Int(1000)},
	}
	sel := ast.Select{
		From:  from,
		Where: where,
		Projections: []ast.Projection{
			{Name: "city", Expr: ast.Ident{Name: "city"}},
			{Name: "state", Expr: ast.Ident{Name: "state"}},
		},
	}
	return &fixedTree{root: sel, provenance: map[ast.Node][]string{
		ast.Ident{Name: "pop"}:   {"zips"},
		ast.Ident{Name: "city"}:  {"zips"},
		ast.Ident{Name: "state"}: {"zips"},
	}}
}

type fixedTree struct {
	root       ast.Node
	provenance map[ast.Node][]string
}

func (t *fixedTree) Root() ast.Node { return t.root }

func (t *fixedTree) Attr(n ast.Node) ast.Attr {
	return ast.Attr{Provenance: t.provenance[n]}
}

// sampleWorkflow builds $Match($gt(age, 21)) over $Project(age:
// $var(root.age))($Project(name: $var(root.name), age:
// $var(root.age))($Read("people"))) — a redundant double project the
// optimizer's Coalesce pass fuses into one.
func sampleWorkflow() *workflow.Workflow {
	root := workflow.Read("people")

	inner := workflow.NewReshape()
	inner.Set("name", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("name")))))
	inner.Set("age", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("age")))))
	step1 := workflow.Project(root, inner, workflow.ExcludeId)

	outer := workflow.NewReshape()
	outer.Set("age", workflow.LeafShape(workflow.Var(atom.RootPath(atom.P("age")))))
	step2 := workflow.Project(step1, outer, workflow.ExcludeId)

	return workflow.Match(step2, workflow.Op("$gt", workflow.Var(atom.RootPath(atom.P("age"))), workflow.Literal(atom.Int(21))))
}
