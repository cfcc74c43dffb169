package codegen

import (
	"surge/internal/cgenerr"
	"surge/internal/coutast"
	"surge/internal/ir"
	"surge/internal/region"
)

// condExpr is the condition synthesizer (spec.md §4.3). sideBlock, when
// non-zero, receives any non-jump statements the condition node carries;
// when zero, a lowered ExpressionStatement is instead comma-joined into
// the result — the only place this generator uses the comma operator.
func (fg *funcGenerator) condExpr(node *region.Node, sideBlock coutast.StmtID, thenBB, elseBB ir.BlockID, sw *switchContext) (coutast.ExprID, error) {
	if node == nil {
		return 0, fg.fail(cgenerr.UnknownRegionKind, "nil condition node")
	}

	if node.NodeKind == region.NodeBasic || node.RegionKind != region.CompoundCondition {
		return fg.condExprBasic(node, sideBlock, thenBB, elseBB)
	}

	if len(node.Children) != 2 {
		return 0, fg.fail(cgenerr.CompoundConditionMismatch, "compound condition with %d children", len(node.Children))
	}
	left, right := node.Children[0], node.Children[1]
	rightEntry := right.EntryBlock()

	leaf := left.RightmostLeaf()
	if leaf == nil {
		return 0, fg.fail(cgenerr.CompoundConditionMismatch, "compound condition's left child has no leaf")
	}
	blk := fg.fn.Block(leaf.BasicBlock)
	term, ok := blk.Terminator()
	if !ok || term.Jump.Cond == ir.NoTermID {
		return 0, fg.fail(cgenerr.CompoundConditionMismatch, "compound condition leaf has no conditional jump")
	}
	thenTarget := jumpTargetBlock(term.Jump.Then)
	elseTarget := ir.NoBlockID
	if term.Jump.HasElse {
		elseTarget = jumpTargetBlock(term.Jump.Else)
	}

	switch {
	case thenTarget == thenBB || elseTarget == thenBB:
		// Disjunction: either edge of the jump ending the left child's
		// rightmost leaf reaches thenBB directly.
		l, err := fg.condExpr(left, sideBlock, thenBB, rightEntry, sw)
		if err != nil {
			return 0, err
		}
		r, err := fg.condExpr(right, sideBlock, thenBB, elseBB, sw)
		if err != nil {
			return 0, err
		}
		return fg.tree.NewBinaryOperator(coutast.BinLogicalOr, l, r), nil

	case thenTarget == elseBB || elseTarget == elseBB:
		// Conjunction: an edge reaches elseBB directly.
		l, err := fg.condExpr(left, sideBlock, rightEntry, elseBB, sw)
		if err != nil {
			return 0, err
		}
		r, err := fg.condExpr(right, sideBlock, thenBB, elseBB, sw)
		if err != nil {
			return 0, err
		}
		return fg.tree.NewBinaryOperator(coutast.BinLogicalAnd, l, r), nil

	default:
		return 0, fg.fail(cgenerr.CompoundConditionMismatch, "left child's rightmost leaf jump targets neither thenBB nor elseBB")
	}
}

func jumpTargetBlock(jt ir.JumpTarget) ir.BlockID {
	if jt.Kind == ir.JumpTargetBlock {
		return jt.Block
	}
	return ir.NoBlockID
}

func (fg *funcGenerator) condExprBasic(node *region.Node, sideBlock coutast.StmtID, thenBB, elseBB ir.BlockID) (coutast.ExprID, error) {
	var blockID ir.BlockID
	if node.NodeKind == region.NodeBasic {
		blockID = node.BasicBlock
	} else {
		blockID = node.EntryBlock()
	}
	blk := fg.fn.Block(blockID)
	if blk == nil {
		return 0, fg.fail(cgenerr.UnknownRegionKind, "condition node references invalid block %d", blockID)
	}
	term, ok := blk.Terminator()
	if !ok || term.Jump.Cond == ir.NoTermID {
		return 0, fg.fail(cgenerr.CompoundConditionMismatch, "basic condition node has no conditional jump")
	}

	condExpr, err := fg.lowerExpr(term.Jump.Cond)
	if err != nil {
		return 0, err
	}

	thenTarget := jumpTargetBlock(term.Jump.Then)
	if thenTarget == elseBB && thenTarget != thenBB {
		condExpr = fg.tree.NewUnaryOperator(coutast.UnaryLogicalNot, condExpr)
	}

	var sideExpr coutast.ExprID
	for _, s := range blk.BodyStmts() {
		stmtID, err := fg.lowerStmt(&s, ir.NoBlockID, ir.NoBlockID, ir.NoBlockID)
		if err != nil {
			return 0, err
		}
		if stmtID == 0 {
			continue
		}
		if sideBlock != 0 {
			fg.tree.AppendToBlock(sideBlock, stmtID)
			continue
		}
		if st := fg.tree.Stmt(stmtID); st != nil && st.Kind == coutast.StmtExpressionStatement {
			if sideExpr == 0 {
				sideExpr = st.ExprStmt
			} else {
				sideExpr = fg.tree.NewComma(sideExpr, st.ExprStmt)
			}
		}
	}
	if sideExpr != 0 {
		condExpr = fg.tree.NewComma(sideExpr, condExpr)
	}
	return condExpr, nil
}

