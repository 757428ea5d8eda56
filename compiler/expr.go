package compiler

import (
	"github.com/sqlmongo/compiler/ast"
	"github.com/sqlmongo/compiler/compileerr"
	"github.com/sqlmongo/compiler/logical"
)

var binopFunc = map[string]string{
	"=": "Eq", "<>": "Neq", "!=": "Neq",
	"<": "Lt", "<=": "Lte", ">": "Gt", ">=": "Gte",
	"AND": "And", "OR": "Or",
	"+": "Add", "-": "Subtract", "*": "Multiply", "/": "Divide", "%": "Modulo",
}

var unopFunc = map[string]string{
	"NOT": "Not", "-": "Negate", "IS NULL": "IsNull",
}

// compileExpr lowers one SQL expression node into a LogicalPlan,
// dispatching on node kind per §4.D/§4.B.
func (s *State) compileExpr(tree ast.Tree, node ast.Node) (logical.Plan, error) {
	switch n := node.(type) {
	case ast.Literal:
		return logical.Constant(n.Value), nil

	case ast.Ident:
		return s.resolveIdent(tree, node, n.Name)

	case ast.Binop:
		if n.Op == "LIKE" {
			return s.compileLikeBinop(tree, n)
		}
		fname, ok := binopFunc[n.Op]
		if !ok {
			return logical.Plan{}, compileerr.Genericf("unknown binary operator %q", n.Op)
		}
		fn, ok := s.registry.Lookup(fname)
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound(fname)
		}
		lhs, err := s.compileExpr(tree, n.Lhs)
		if err != nil {
			return logical.Plan{}, err
		}
		rhs, err := s.compileExpr(tree, n.Rhs)
		if err != nil {
			return logical.Plan{}, err
		}
		return logical.Invoke(fn, lhs, rhs), nil

	case ast.Unop:
		fname, ok := unopFunc[n.Op]
		if !ok {
			return logical.Plan{}, compileerr.Genericf("unknown unary operator %q", n.Op)
		}
		fn, ok := s.registry.Lookup(fname)
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound(fname)
		}
		arg, err := s.compileExpr(tree, n.Arg)
		if err != nil {
			return logical.Plan{}, err
		}
		return logical.Invoke(fn, arg), nil

	case ast.InvokeFunction:
		attr := tree.Attr(node)
		if attr.Func == nil {
			return logical.Plan{}, compileerr.NewFunctionNotBound(n.Name)
		}
		fn, ok := attr.Func.(logical.Function)
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound(n.Name)
		}
		args := make([]logical.Plan, len(n.Args))
		for i, a := range n.Args {
			compiled, err := s.compileExpr(tree, a)
			if err != nil {
				return logical.Plan{}, err
			}
			args[i] = compiled
		}
		return logical.Invoke(fn, args...), nil

	case ast.Splice:
		return s.compileExpr(tree, n.Target)

	case ast.SetLiteral:
		return s.compileMakeArrayN(n.Elems, tree)

	case ast.ArrayLiteral:
		return s.compileMakeArrayN(n.Elems, tree)

	case ast.Match:
		return s.compileMatch(tree, n)

	case ast.Switch:
		return s.compileSwitch(tree, n)

	default:
		return logical.Plan{}, compileerr.Genericf("compiler: unsupported expression node %T", node)
	}
}

func (s *State) compileLikeBinop(tree ast.Tree, n ast.Binop) (logical.Plan, error) {
	// LIKE is parsed as a ternary in surface SQL (expr, pattern[, escape]);
	// the stub AST represents the optional escape as a nested Binop whose
	// Rhs carries it, keeping ast.Binop's shape uniform across the surface.
	inner, ok := n.Rhs.(ast.Binop)
	var pattern, escapeNode ast.Node
	var escapeLit *logical.Plan
	if ok && inner.Op == "ESCAPE" {
		pattern = inner.Lhs
		escapeNode = inner.Rhs
	} else {
		pattern = n.Rhs
		escapeNode = nil
	}

	expr, err := s.compileExpr(tree, n.Lhs)
	if err != nil {
		return logical.Plan{}, err
	}
	patternPlan, err := s.compileExpr(tree, pattern)
	if err != nil {
		return logical.Plan{}, err
	}
	if escapeNode != nil {
		escPlan, err := s.compileExpr(tree, escapeNode)
		if err != nil {
			return logical.Plan{}, err
		}
		escapeLit = &escPlan
	}
	return s.compileLike(expr, patternPlan, escapeLit)
}

// compileMakeArrayN builds an Invoke(MakeArrayN, elems...) plan from a
// list of expression nodes, used by GROUP BY/ORDER BY key lists and SET
// literals alike (§4.D steps 3 and 7).
func (s *State) compileMakeArrayN(elems []ast.Node, tree ast.Tree) (logical.Plan, error) {
	fn, ok := s.registry.Lookup("MakeArrayN")
	if !ok {
		return logical.Plan{}, compileerr.NewFunctionNotBound("MakeArrayN")
	}
	args := make([]logical.Plan, len(elems))
	for i, e := range elems {
		compiled, err := s.compileExpr(tree, e)
		if err != nil {
			return logical.Plan{}, err
		}
		args[i] = compiled
	}
	return logical.Invoke(fn, args...), nil
}

// compileMatch desugars MATCH(subject) { when -> then, ... default } into
// a chain of Cond invocations comparing subject to each case's literal.
func (s *State) compileMatch(tree ast.Tree, m ast.Match) (logical.Plan, error) {
	subject, err := s.compileExpr(tree, m.Subject)
	if err != nil {
		return logical.Plan{}, err
	}
	def, err := s.compileExpr(tree, m.Default)
	if err != nil {
		return logical.Plan{}, err
	}
	eq, ok := s.registry.Lookup("Eq")
	if !ok {
		return logical.Plan{}, compileerr.NewFunctionNotBound("Eq")
	}
	cond, ok := s.registry.Lookup("Cond")
	if !ok {
		return logical.Plan{}, compileerr.NewFunctionNotBound("Cond")
	}
	result := def
	for i := len(m.Cases) - 1; i >= 0; i-- {
		when, err := s.compileExpr(tree, m.Cases[i].When)
		if err != nil {
			return logical.Plan{}, err
		}
		then, err := s.compileExpr(tree, m.Cases[i].Then)
		if err != nil {
			return logical.Plan{}, err
		}
		test := logical.Invoke(eq, subject, when)
		result = logical.Invoke(cond, test, then, result)
	}
	return result, nil
}

// compileSwitch desugars SWITCH { cond -> then, ... default } into a chain
// of Cond invocations.
func (s *State) compileSwitch(tree ast.Tree, sw ast.Switch) (logical.Plan, error) {
	def, err := s.compileExpr(tree, sw.Default)
	if err != nil {
		return logical.Plan{}, err
	}
	cond, ok := s.registry.Lookup("Cond")
	if !ok {
		return logical.Plan{}, compileerr.NewFunctionNotBound("Cond")
	}
	result := def
	for i := len(sw.Cases) - 1; i >= 0; i-- {
		c, err := s.compileExpr(tree, sw.Cases[i].Cond)
		if err != nil {
			return logical.Plan{}, err
		}
		then, err := s.compileExpr(tree, sw.Cases[i].Then)
		if err != nil {
			return logical.Plan{}, err
		}
		result = logical.Invoke(cond, c, then, result)
	}
	return result, nil
}
