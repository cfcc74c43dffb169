package codegen

import (
	"surge/internal/cgenerr"
	"surge/internal/coutast"
	"surge/internal/ir"
	"surge/internal/trace"
)

// createDefinition is the signature materializer (spec.md §4.1). It
// produces the FunctionDefinition, binds each formal argument either
// directly to its variable declaration or to a prelude assignment, then
// walks the region tree to fill in the body.
func (fg *funcGenerator) createDefinition() (coutast.DeclID, error) {
	fg.bodyBlock = fg.tree.NewBlock()

	node := coutast.FunctionDefinitionNode{
		Name:     fg.sig.Name,
		Comment:  fg.sig.Comment,
		Variadic: fg.sig.Variadic,
		HasRet:   fg.sig.HasRet,
	}
	if fg.sig.HasRet {
		node.RetSize = fg.sig.Ret.Size
		node.RetUnsign = fg.sig.Ret.Unsigned
	}

	if err := fg.materializeArgs(&node); err != nil {
		return 0, err
	}

	walkSpan := trace.Begin(fg.tracer, trace.ScopeNode, "region_walk", fg.spanID)
	err := fg.emit(fg.root, fg.bodyBlock, ir.NoBlockID, ir.NoBlockID, ir.NoBlockID, nil)
	walkSpan.End("")
	if err != nil {
		return 0, err
	}

	node.Body = fg.bodyBlock
	for _, vid := range fg.declOrder {
		fg.tree.AppendDeclToBlock(fg.bodyBlock, fg.variableDecls[vid])
	}

	return fg.tree.NewFunctionDefinition(node), nil
}

// materializeArgs binds each formal argument to the entry hook's term list,
// either directly (the argument declaration doubles as the variable
// declaration) or through a prelude assignment when the argument's
// location only partially overlaps the variable's own.
func (fg *funcGenerator) materializeArgs(node *coutast.FunctionDefinitionNode) error {
	span := trace.Begin(fg.tracer, trace.ScopeNode, "signature_materialization", fg.spanID)
	defer span.End("")

	hook := fg.gen.collab.Hooks.GetEntryHook(fg.fn.ID)
	if hook == nil && len(fg.sig.Args) > 0 {
		return fg.fail(cgenerr.MissingArgumentTerm, "no entry hook for function with %d arguments", len(fg.sig.Args))
	}

	for i, argSpec := range fg.sig.Args {
		if hook == nil || i >= len(hook.ArgTerms) {
			return fg.fail(cgenerr.MissingArgumentTerm, "argument %d (%s) has no entry-hook term", i, argSpec.Name)
		}
		argTerm := hook.ArgTerms[i]

		v := fg.gen.collab.Variables.GetVariable(argTerm)
		if v == nil {
			return fg.fail(cgenerr.NoVariable, "argument %d (%s) term has no variable", i, argSpec.Name)
		}
		argLoc, hasLoc := fg.gen.collab.Dataflow.LocationOf(argTerm)
		if !hasLoc {
			return fg.fail(cgenerr.NoMemoryLocation, "argument %d (%s) term has no memory location", i, argSpec.Name)
		}

		argDecl := fg.tree.NewVariableDeclaration(argSpec.Name, argSpec.Type.Size, argSpec.Type.Unsigned)
		node.Args = append(node.Args, argDecl)

		if argLoc.Equal(v.Location) {
			// Direct binding: the argument declaration becomes the
			// variable declaration, no prelude needed.
			fg.variableDecls[v.ID] = argDecl
			fg.declOrder = append(fg.declOrder, v.ID)
			continue
		}

		// Partial overlap: emit a fresh argument decl (already done above)
		// plus a prelude assignment into the variable's own declaration.
		varDecl, err := fg.localVariableDeclaration(v)
		if err != nil {
			return err
		}
		lhs, err := fg.variableAccess(argLoc, v)
		if err != nil {
			return err
		}
		rhs := fg.tree.NewVariableIdentifier(argDecl)
		assign := fg.tree.NewAssign(lhs, rhs)
		fg.tree.AppendToBlock(fg.bodyBlock, fg.tree.NewExpressionStatement(assign))
		_ = varDecl
	}
	return nil
}
