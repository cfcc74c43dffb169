package codegen

import (
	"surge/internal/calling"
	"surge/internal/cgenerr"
	"surge/internal/coutast"
	"surge/internal/ir"
)

// lowerStmt is the statement lowerer (spec.md §4.4). It returns a zero
// StmtID when the statement drops entirely (dead assignment, no-op kind).
func (fg *funcGenerator) lowerStmt(s *ir.Stmt, nextBB, breakBB, continueBB ir.BlockID) (coutast.StmtID, error) {
	var out coutast.StmtID
	var err error

	switch s.Kind {
	case ir.StmtInlineAssembly:
		out = fg.tree.NewInlineAssembly(s.Asm.Text)

	case ir.StmtAssignment:
		out, err = fg.lowerAssignment(s)

	case ir.StmtJump:
		out, err = fg.lowerJump(s, nextBB, breakBB, continueBB)

	case ir.StmtCall:
		out, err = fg.lowerCall(s)

	case ir.StmtReturn:
		out, err = fg.lowerReturn(s)

	case ir.StmtTouch, ir.StmtCallback, ir.StmtComment, ir.StmtKill:
		return 0, nil

	default:
		return 0, fg.fail(cgenerr.UnsupportedStmtKind, "statement kind %d", s.Kind)
	}
	if err != nil {
		return 0, err
	}
	if out != 0 {
		if node := fg.tree.Stmt(out); node != nil && !node.HasOrigin {
			node.OriginInstr = uint64(s.Instr)
			node.HasOrigin = true
		}
	}
	return out, nil
}

func (fg *funcGenerator) lowerAssignment(s *ir.Stmt) (coutast.StmtID, error) {
	left := fg.fn.Term(s.Assignment.Left)
	if left == nil {
		return 0, fg.fail(cgenerr.UnsupportedTermKind, "assignment with invalid left term")
	}
	if !fg.gen.collab.Liveness.IsLive(s.Assignment.Left) {
		return 0, nil
	}
	v := fg.gen.collab.Variables.GetVariable(s.Assignment.Left)
	if v != nil {
		intermediate, err := fg.isIntermediate(v)
		if err != nil {
			return 0, err
		}
		if intermediate {
			return 0, nil
		}
	}

	leftExpr, err := fg.lowerExpr(s.Assignment.Left)
	if err != nil {
		return 0, err
	}
	rightExpr, err := fg.lowerExpr(s.Assignment.Right)
	if err != nil {
		return 0, err
	}
	ty := fg.gen.collab.Types.GetType(s.Assignment.Left)
	cast := fg.tree.NewTypecast(rightExpr, ty.Type.Size, ty.Type.Unsigned)
	assign := fg.tree.NewAssign(leftExpr, cast)
	return fg.tree.NewExpressionStatement(assign), nil
}

func (fg *funcGenerator) lowerJump(s *ir.Stmt, nextBB, breakBB, continueBB ir.BlockID) (coutast.StmtID, error) {
	if s.Jump.Cond == ir.NoTermID {
		target := jumpTargetBlock(s.Jump.Then)
		if target.IsValid() {
			return fg.makeJump(target, nextBB, breakBB, continueBB)
		}
		return fg.makeJumpTarget(s.Jump.Then, nextBB, breakBB, continueBB)
	}

	thenTarget := jumpTargetBlock(s.Jump.Then)
	var thenStmt coutast.StmtID
	var err error
	if thenTarget.IsValid() {
		thenStmt, err = fg.makeJump(thenTarget, nextBB, breakBB, continueBB)
	} else {
		thenStmt, err = fg.makeJumpTarget(s.Jump.Then, nextBB, breakBB, continueBB)
	}
	if err != nil {
		return 0, err
	}

	var elseStmt coutast.StmtID
	if s.Jump.HasElse {
		elseTarget := jumpTargetBlock(s.Jump.Else)
		if elseTarget.IsValid() {
			elseStmt, err = fg.makeJump(elseTarget, nextBB, breakBB, continueBB)
		} else {
			elseStmt, err = fg.makeJumpTarget(s.Jump.Else, nextBB, breakBB, continueBB)
		}
		if err != nil {
			return 0, err
		}
	}

	cond, err := fg.lowerExpr(s.Jump.Cond)
	if err != nil {
		return 0, err
	}

	switch {
	case thenStmt == 0 && elseStmt == 0:
		return 0, nil
	case thenStmt == 0:
		negated := fg.tree.NewUnaryOperator(coutast.UnaryLogicalNot, cond)
		return fg.tree.NewIf(negated, elseStmt, 0, false), nil
	default:
		return fg.tree.NewIf(cond, thenStmt, elseStmt, elseStmt != 0), nil
	}
}

// makeJump is the jump lowerer (spec.md §4.4).
func (fg *funcGenerator) makeJump(target, nextBB, breakBB, continueBB ir.BlockID) (coutast.StmtID, error) {
	switch {
	case target == nextBB:
		return 0, nil
	case breakBB.IsValid() && target == breakBB:
		return fg.tree.NewBreak(), nil
	case continueBB.IsValid() && target == continueBB:
		return fg.tree.NewContinue(), nil
	default:
		label := fg.label(target)
		return fg.tree.NewGotoLabel(label), nil
	}
}

// makeJumpTarget handles JumpTarget variants that don't resolve to a
// known block: an address expression, or the "???" fallback.
func (fg *funcGenerator) makeJumpTarget(jt ir.JumpTarget, nextBB, breakBB, continueBB ir.BlockID) (coutast.StmtID, error) {
	switch jt.Kind {
	case ir.JumpTargetAddress:
		if jt.Addr != ir.NoTermID {
			expr, err := fg.lowerExpr(jt.Addr)
			if err != nil {
				return 0, err
			}
			return fg.tree.NewGotoExpr(expr), nil
		}
		fallthrough
	default:
		return fg.tree.NewGotoExpr(fg.tree.NewStringLiteral("???")), nil
	}
}

func (fg *funcGenerator) lowerCall(s *ir.Stmt) (coutast.StmtID, error) {
	targetTerm := fg.fn.Term(s.Call.Target)
	if targetTerm == nil {
		return 0, fg.fail(cgenerr.UnsupportedTermKind, "call with invalid target term")
	}

	var sig *calling.Signature
	if v, ok := fg.gen.collab.Dataflow.ValueOf(s.Call.Target).AsConcrete(); ok {
		sig = fg.gen.collab.Signatures.GetSignature(v)
	}

	var targetExpr coutast.ExprID
	var err error
	if sig != nil {
		targetExpr = fg.tree.NewFunctionIdentifier(sig.Name)
	} else {
		targetExpr, err = fg.lowerExpr(s.Call.Target)
		if err != nil {
			return 0, err
		}
	}

	var args []coutast.ExprID
	hook := fg.gen.collab.Hooks.GetCallHook(s.Call.Target)
	if sig != nil && hook != nil {
		for i := range sig.Args {
			if i >= len(hook.ArgTerms) {
				break
			}
			argExpr, err := fg.lowerExpr(hook.ArgTerms[i])
			if err != nil {
				return 0, err
			}
			args = append(args, argExpr)
		}
	}

	call := fg.tree.NewCallOperator(targetExpr, args)

	if sig != nil && sig.HasRet && hook != nil && hook.HasRet {
		retVar := fg.gen.collab.Variables.GetVariable(hook.RetTerm)
		if retVar != nil {
			lhs, err := fg.lowerExpr(hook.RetTerm)
			if err != nil {
				return 0, err
			}
			cast := fg.tree.NewTypecast(call, sig.Ret.Size, sig.Ret.Unsigned)
			return fg.tree.NewExpressionStatement(fg.tree.NewAssign(lhs, cast)), nil
		}
	}
	return fg.tree.NewExpressionStatement(call), nil
}

func (fg *funcGenerator) lowerReturn(s *ir.Stmt) (coutast.StmtID, error) {
	_ = s
	if fg.sig.HasRet {
		hook := fg.gen.collab.Hooks.GetReturnHook(s.ID)
		if hook != nil && hook.HasValue {
			valExpr, err := fg.lowerExpr(hook.ReturnValueTerm)
			if err != nil {
				return 0, err
			}
			return fg.tree.NewReturn(true, valExpr), nil
		}
	}
	return fg.tree.NewReturn(false, 0), nil
}
