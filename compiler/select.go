package compiler

import (
	"github.com/sqlmongo/compiler/ast"
	"github.com/sqlmongo/compiler/compileerr"
	"github.com/sqlmongo/compiler/logical"
)

// Compile lowers an annotated SQL AST into a LogicalPlan, the entry point
// of component D (§6). The tree's root must be an ast.Select.
func Compile(s *State, tree ast.Tree) (logical.Plan, error) {
	root := tree.Root()
	sel, ok := root.(ast.Select)
	if !ok {
		return logical.Plan{}, compileerr.Genericf("compiler: root node is not a Select (got %T)", root)
	}
	return s.compileSelect(tree, sel)
}

// letChain accumulates the nested Let bindings §4.D's eleven-step pipeline
// produces: each step binds its result under a fresh name and every
// subsequent step references it through Free, so the whole SELECT is a
// single deeply-nested Let expression by construction.
type letChain struct {
	names    []string
	bindings []logical.Plan
}

func (lc *letChain) bind(s *State, binding logical.Plan) logical.Plan {
	name := s.Fresh()
	lc.names = append(lc.names, name)
	lc.bindings = append(lc.bindings, binding)
	return logical.Free(name)
}

func (lc *letChain) wrap(body logical.Plan) logical.Plan {
	result := body
	for i := len(lc.names) - 1; i >= 0; i-- {
		result = logical.Let(lc.names[i], lc.bindings[i], result)
	}
	return result
}

// compileSelect implements §4.D's eleven-step lowering: FROM, WHERE,
// GROUP BY, HAVING, SELECT, Squash, ORDER BY, DISTINCT/DISTINCT BY,
// OFFSET, LIMIT, then pruning the synthetic fields step 5 introduced for
// bookkeeping.
func (s *State) compileSelect(tree ast.Tree, sel ast.Select) (logical.Plan, error) {
	lc := &letChain{}

	// Step 1: FROM.
	tc, fromPlan, err := s.compileFrom(tree, sel.From)
	if err != nil {
		return logical.Plan{}, err
	}
	cur := lc.bind(s, fromPlan)
	guard := s.PushTable(tc)
	defer guard.Pop()
	popFields := s.WithFields(nil)
	defer popFields()

	// Step 2: WHERE.
	if sel.Where != nil {
		pred, err := s.compileExpr(tree, sel.Where)
		if err != nil {
			return logical.Plan{}, err
		}
		fn, ok := s.registry.Lookup("Filter")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("Filter")
		}
		cur = lc.bind(s, logical.Invoke(fn, cur, pred))
	}

	// Step 3: GROUP BY.
	if len(sel.GroupBy) > 0 {
		keyPlans := make([]logical.Plan, len(sel.GroupBy))
		for i, k := range sel.GroupBy {
			p, err := s.compileExpr(tree, k)
			if err != nil {
				return logical.Plan{}, err
			}
			keyPlans[i] = p
		}
		keysFn, ok := s.registry.Lookup("MakeArrayN")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("MakeArrayN")
		}
		groupFn, ok := s.registry.Lookup("GroupBy")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("GroupBy")
		}
		cur = lc.bind(s, logical.Invoke(groupFn, cur, logical.Invoke(keysFn, keyPlans...)))
		popGrouping := s.EnterGrouping(cur.FreeName(), keyPlans)
		defer popGrouping()
	}

	// Step 4: HAVING.
	if sel.Having != nil {
		pred, err := s.compileExpr(tree, sel.Having)
		if err != nil {
			return logical.Plan{}, err
		}
		fn, ok := s.registry.Lookup("Filter")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("Filter")
		}
		cur = lc.bind(s, logical.Invoke(fn, cur, pred))
	}

	// Step 5: SELECT.
	record, syntheticNames, err := s.buildRecord(tree, sel.Projections, cur)
	if err != nil {
		return logical.Plan{}, err
	}
	cur = lc.bind(s, record)

	// Step 6: Squash.
	squashFn, ok := s.registry.Lookup("Squash")
	if !ok {
		return logical.Plan{}, compileerr.NewFunctionNotBound("Squash")
	}
	cur = lc.bind(s, logical.Invoke(squashFn, cur))

	// Step 7: ORDER BY.
	if len(sel.OrderBy) > 0 {
		keyExprs := make([]ast.Node, len(sel.OrderBy))
		orderTokens := make([]logical.Plan, len(sel.OrderBy))
		for i, ok := range sel.OrderBy {
			keyExprs[i] = ok.Expr
			token := "ASC"
			if ok.Desc {
				token = "DESC"
			}
			orderTokens[i] = logical.Constant(stringLiteral(token))
		}
		keysPlan, err := s.compileMakeArrayN(keyExprs, tree)
		if err != nil {
			return logical.Plan{}, err
		}
		arrFn, ok := s.registry.Lookup("MakeArrayN")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("MakeArrayN")
		}
		orderFn, ok := s.registry.Lookup("OrderBy")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("OrderBy")
		}
		cur = lc.bind(s, logical.Invoke(orderFn, cur, keysPlan, logical.Invoke(arrFn, orderTokens...)))
	}

	// Step 8: DISTINCT / DISTINCT BY.
	switch sel.DistinctMode {
	case ast.DistinctBy:
		pruned, err := s.pruneSynthetic(cur, syntheticNames)
		if err != nil {
			return logical.Plan{}, err
		}
		cur = lc.bind(s, pruned)
		keysPlan, err := s.compileMakeArrayN(sel.DistinctKeys, tree)
		if err != nil {
			return logical.Plan{}, err
		}
		fn, ok := s.registry.Lookup("DistinctBy")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("DistinctBy")
		}
		cur = lc.bind(s, logical.Invoke(fn, cur, keysPlan))
	case ast.Distinct:
		fn, ok := s.registry.Lookup("Distinct")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("Distinct")
		}
		cur = lc.bind(s, logical.Invoke(fn, cur))
	}

	// Step 9: OFFSET.
	if sel.Offset != nil {
		offset, err := s.compileExpr(tree, sel.Offset)
		if err != nil {
			return logical.Plan{}, err
		}
		fn, ok := s.registry.Lookup("Drop")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("Drop")
		}
		cur = lc.bind(s, logical.Invoke(fn, cur, offset))
	}

	// Step 10: LIMIT.
	if sel.Limit != nil {
		limit, err := s.compileExpr(tree, sel.Limit)
		if err != nil {
			return logical.Plan{}, err
		}
		fn, ok := s.registry.Lookup("Take")
		if !ok {
			return logical.Plan{}, compileerr.NewFunctionNotBound("Take")
		}
		cur = lc.bind(s, logical.Invoke(fn, cur, limit))
	}

	// Step 11: prune the synthetic fields step 5 introduced, if DISTINCT
	// BY did not already prune them.
	if sel.DistinctMode != ast.DistinctBy {
		pruned, err := s.pruneSynthetic(cur, syntheticNames)
		if err != nil {
			return logical.Plan{}, err
		}
		cur = lc.bind(s, pruned)
	}

	return lc.wrap(cur), nil
}

// pruneSynthetic chains DeleteField over every name the SELECT record
// introduced for ORDER BY/DISTINCT BY bookkeeping but that was not
// requested by the user (§4.D step 11).
func (s *State) pruneSynthetic(cur logical.Plan, names []string) (logical.Plan, error) {
	if len(names) == 0 {
		return cur, nil
	}
	fn, ok := s.registry.Lookup("DeleteField")
	if !ok {
		return logical.Plan{}, compileerr.NewFunctionNotBound("DeleteField")
	}
	out := cur
	for _, n := range names {
		out = logical.Invoke(fn, out, logical.Constant(stringLiteral(n)))
	}
	return out, nil
}

// compileFrom lowers the FROM clause (a TableRef leaf, a Join, or nil for
// a FROM-less SELECT) into a TableContext and the plan naming its source
// relation.
func (s *State) compileFrom(tree ast.Tree, node ast.Node) (*TableContext, logical.Plan, error) {
	if node == nil {
		// A FROM-less SELECT evaluates its projection once, over a
		// single-row relation with no addressable fields.
		plan := logical.Constant(singleEmptyRowSet())
		return NewLeafTable("", plan), plan, nil
	}

	switch n := node.(type) {
	case ast.TableRef:
		if s.stats != nil {
			if _, ok := s.stats.Stats(n.Name); !ok {
				return nil, logical.Plan{}, compileerr.NewNoTableDefined(n.Name)
			}
		}
		plan := logical.Read(n.Name)
		key := n.Name
		if n.Alias != "" {
			key = n.Alias
		}
		return NewLeafTable(key, plan), plan, nil

	case ast.Join:
		leftTC, leftPlan, err := s.compileFrom(tree, n.Left)
		if err != nil {
			return nil, logical.Plan{}, err
		}
		rightTC, rightPlan, err := s.compileFrom(tree, n.Right)
		if err != nil {
			return nil, logical.Plan{}, err
		}

		leftGuard := s.PushTable(leftTC)
		onPlan, err := s.compileJoinOn(tree, n.On, leftTC, rightTC)
		leftGuard.Pop()
		if err != nil {
			return nil, logical.Plan{}, err
		}

		joinFn, ok := s.registry.Lookup("Join")
		if !ok {
			return nil, logical.Plan{}, compileerr.NewFunctionNotBound("Join")
		}
		merged := logical.Invoke(joinFn, leftPlan, rightPlan, onPlan, logical.Constant(stringLiteral(n.JoinKind.String())))
		return MergeTables(s.registry, leftTC, rightTC), merged, nil

	default:
		return nil, logical.Plan{}, compileerr.Genericf("compiler: unsupported FROM node %T", node)
	}
}

// compileJoinOn compiles a JOIN's ON predicate with both sides' relations
// simultaneously addressable, by temporarily merging their table contexts
// (the merge TableContext the JOIN itself produces is not yet bound, so the
// predicate is compiled against a scratch merge of the two leaf contexts).
func (s *State) compileJoinOn(tree ast.Tree, on ast.Node, leftTC, rightTC *TableContext) (logical.Plan, error) {
	scratch := MergeTables(s.registry, leftTC, rightTC)
	guard := s.PushTable(scratch)
	defer guard.Pop()
	return s.compileExpr(tree, on)
}

// buildRecord lowers the SELECT list into a single MakeObject/ObjectConcat
// tree (§4.D step 5): named projections become MakeObject(name, expr);
// unnamed splices merge via ObjectConcat instead of taking a key; the
// names of projections marked Synthetic (added by an earlier planning
// pass purely to carry an ORDER BY/DISTINCT BY key through the pipeline)
// are returned so step 11 (or step 8's DISTINCT BY) can strip them again.
// A projection expr that is a literal constant is wrapped in
// Constantly(const, table) so it still reads from the row stream and
// survives downstream set operations (Distinct and friends) instead of
// being lifted out of the pipeline entirely.
func (s *State) buildRecord(tree ast.Tree, projections []ast.Projection, table logical.Plan) (logical.Plan, []string, error) {
	if len(projections) == 0 {
		return logical.Plan{}, nil, compileerr.Genericf("compiler: SELECT has no projections")
	}

	objFn, ok := s.registry.Lookup("MakeObject")
	if !ok {
		return logical.Plan{}, nil, compileerr.NewFunctionNotBound("MakeObject")
	}
	concatFn, ok := s.registry.Lookup("ObjectConcat")
	if !ok {
		return logical.Plan{}, nil, compileerr.NewFunctionNotBound("ObjectConcat")
	}
	constantlyFn, ok := s.registry.Lookup("Constantly")
	if !ok {
		return logical.Plan{}, nil, compileerr.NewFunctionNotBound("Constantly")
	}

	var synthetic []string
	var parts []logical.Plan
	for _, p := range projections {
		exprPlan, err := s.compileExpr(tree, p.Expr)
		if err != nil {
			return logical.Plan{}, nil, err
		}
		if _, isLiteral := p.Expr.(ast.Literal); isLiteral {
			exprPlan = logical.Invoke(constantlyFn, exprPlan, table)
		}
		if p.IsSplice {
			parts = append(parts, exprPlan)
			continue
		}
		if p.Synthetic {
			synthetic = append(synthetic, p.Name)
		}
		parts = append(parts, logical.Invoke(objFn, logical.Constant(stringLiteral(p.Name)), exprPlan))
	}

	result := parts[0]
	for _, p := range parts[1:] {
		result = logical.Invoke(concatFn, result, p)
	}
	return result, synthetic, nil
}
