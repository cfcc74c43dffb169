package codegen

import (
	"surge/internal/cgenerr"
	"surge/internal/coutast"
	"surge/internal/ir"
	"surge/internal/region"
)

// label returns the lazily-created LabelID for block and records that a
// LabelStatement for it must be emitted the next time a Basic node for
// this block is walked (or immediately, for callers — WHILE/DO_WHILE
// headers — that emit it themselves right away). A label is created at
// most once per basic block (spec.md §3 invariant).
func (fg *funcGenerator) label(block ir.BlockID) coutast.LabelID {
	if id, ok := fg.labels[block]; ok {
		fg.labelPending[block] = true
		return id
	}
	name := "label"
	if blk := fg.fn.Block(block); blk != nil && blk.Has {
		name = "addr"
	}
	id := fg.tree.NewLabel(name)
	fg.labels[block] = id
	if fg.labelPending == nil {
		fg.labelPending = make(map[ir.BlockID]bool)
	}
	fg.labelPending[block] = true
	return id
}

// emit is the region walker (spec.md §4.2): it dispatches on node's kind
// and appends statements to outBlock.
func (fg *funcGenerator) emit(node *region.Node, outBlock coutast.StmtID, nextBB, breakBB, continueBB ir.BlockID, sw *switchContext) error {
	if node == nil {
		return nil
	}
	if node.NodeKind == region.NodeBasic {
		return fg.emitBasic(node.BasicBlock, outBlock, nextBB, breakBB, continueBB, sw)
	}

	switch node.RegionKind {
	case region.Unknown, region.Block:
		return fg.emitSequence(node.Preorder(), outBlock, nextBB, breakBB, continueBB, sw)

	case region.CompoundCondition:
		// Only reachable when the enclosing context treats this as a
		// condition subtree; reaching it as an ordinary statement region
		// is an invariant violation because it carries no jump of its own.
		return fg.fail(cgenerr.UnknownRegionKind, "compound-condition region reached outside condition synthesis")

	case region.IfThenElse:
		return fg.emitIfThenElse(node, outBlock, nextBB, breakBB, continueBB, sw)

	case region.IfThen:
		return fg.emitIfThen(node, outBlock, nextBB, breakBB, continueBB, sw)

	case region.Loop:
		return fg.emitLoop(node, outBlock, nextBB, sw)

	case region.While:
		return fg.emitWhile(node, outBlock, nextBB, breakBB, continueBB, sw)

	case region.DoWhile:
		return fg.emitDoWhile(node, outBlock, nextBB, breakBB, continueBB, sw)

	case region.Switch:
		return fg.emitSwitch(node, outBlock, nextBB, continueBB)

	default:
		return fg.fail(cgenerr.UnknownRegionKind, "region kind %v", node.RegionKind)
	}
}

// emitSequence emits children in the given order; child i's nextBB is
// child i+1's entry block (or the outer nextBB for the last child).
func (fg *funcGenerator) emitSequence(children []*region.Node, outBlock coutast.StmtID, nextBB, breakBB, continueBB ir.BlockID, sw *switchContext) error {
	for i, c := range children {
		childNext := nextBB
		if i+1 < len(children) {
			childNext = children[i+1].EntryBlock()
		}
		if err := fg.emit(c, outBlock, childNext, breakBB, continueBB, sw); err != nil {
			return err
		}
	}
	return nil
}

func (fg *funcGenerator) emitBasic(blockID ir.BlockID, outBlock coutast.StmtID, nextBB, breakBB, continueBB ir.BlockID, sw *switchContext) error {
	blk := fg.fn.Block(blockID)
	if blk == nil {
		return fg.fail(cgenerr.UnknownRegionKind, "basic node references invalid block %d", blockID)
	}

	if fg.labelPending[blockID] {
		delete(fg.labelPending, blockID)
		fg.tree.AppendToBlock(outBlock, fg.tree.NewLabelStatement(fg.labels[blockID]))
	}

	if sw != nil && blk.Has {
		if sw.isDefault(blk.Addr) {
			fg.tree.AppendToBlock(outBlock, fg.tree.NewDefaultLabel())
			delete(sw.casesByAddr, blk.Addr)
		} else {
			for _, v := range sw.take(blk.Addr) {
				fg.tree.AppendToBlock(outBlock, fg.tree.NewCaseLabel(v))
			}
		}
	}

	for i := range blk.Stmts {
		stmtID, err := fg.lowerStmt(&blk.Stmts[i], nextBB, breakBB, continueBB)
		if err != nil {
			return err
		}
		if stmtID != 0 {
			fg.tree.AppendToBlock(outBlock, stmtID)
		}
	}
	return nil
}

func (fg *funcGenerator) emitIfThenElse(node *region.Node, outBlock coutast.StmtID, nextBB, breakBB, continueBB ir.BlockID, sw *switchContext) error {
	if len(node.Children) != 3 {
		return fg.fail(cgenerr.UnknownRegionKind, "IF_THEN_ELSE region with %d children", len(node.Children))
	}
	condNode, thenNode, elseNode := node.Children[0], node.Children[1], node.Children[2]

	thenBB := thenNode.EntryBlock()
	elseBB := elseNode.EntryBlock()

	cond, err := fg.condExpr(condNode, outBlock, thenBB, elseBB, sw)
	if err != nil {
		return err
	}

	thenBlk := fg.tree.NewBlock()
	if err := fg.emit(thenNode, thenBlk, nextBB, breakBB, continueBB, sw); err != nil {
		return err
	}
	elseBlk := fg.tree.NewBlock()
	if err := fg.emit(elseNode, elseBlk, nextBB, breakBB, continueBB, sw); err != nil {
		return err
	}

	fg.tree.AppendToBlock(outBlock, fg.tree.NewIf(cond, thenBlk, elseBlk, true))
	return nil
}

func (fg *funcGenerator) emitIfThen(node *region.Node, outBlock coutast.StmtID, nextBB, breakBB, continueBB ir.BlockID, sw *switchContext) error {
	if len(node.Children) != 2 {
		return fg.fail(cgenerr.UnknownRegionKind, "IF_THEN region with %d children", len(node.Children))
	}
	condNode, thenNode := node.Children[0], node.Children[1]

	thenBB := thenNode.EntryBlock()
	var elseBB ir.BlockID
	if node.HasExit {
		elseBB = node.Exit
	}

	cond, err := fg.condExpr(condNode, outBlock, thenBB, elseBB, sw)
	if err != nil {
		return err
	}

	thenBlk := fg.tree.NewBlock()
	if err := fg.emit(thenNode, thenBlk, nextBB, breakBB, continueBB, sw); err != nil {
		return err
	}

	fg.tree.AppendToBlock(outBlock, fg.tree.NewIf(cond, thenBlk, 0, false))
	return nil
}

func (fg *funcGenerator) emitLoop(node *region.Node, outBlock coutast.StmtID, outerNext ir.BlockID, sw *switchContext) error {
	bodyBlk := fg.tree.NewBlock()
	entry := node.EntryBlock()
	if err := fg.emit(node.Entry, bodyBlk, entry, outerNext, entry, sw); err != nil {
		return err
	}
	one := fg.tree.NewIntegerConstant(1, 32, true)
	fg.tree.AppendToBlock(outBlock, fg.tree.NewWhile(one, bodyBlk))
	return nil
}

func (fg *funcGenerator) emitWhile(node *region.Node, outBlock coutast.StmtID, outerNext, outerBreak, outerContinue ir.BlockID, sw *switchContext) error {
	header := node.LoopCondition
	if header == nil {
		return fg.fail(cgenerr.UnknownRegionKind, "WHILE region without loop condition")
	}
	headerBB := header.EntryBlock()

	// The header block is never visited via the ordinary Basic-node path
	// (the body walk below excludes it), so its label statement is
	// emitted directly here.
	fg.label(headerBB)
	delete(fg.labelPending, headerBB)
	fg.tree.AppendToBlock(outBlock, fg.tree.NewLabelStatement(fg.labels[headerBB]))

	body := node.Preorder(header)
	var bodyEntry ir.BlockID
	if len(body) > 0 {
		bodyEntry = body[0].EntryBlock()
	}
	var exit ir.BlockID
	if node.HasExit {
		exit = node.Exit
	}

	cond, err := fg.condExpr(header, outBlock, bodyEntry, exit, sw)
	if err != nil {
		return err
	}

	bodyBlk := fg.tree.NewBlock()
	if err := fg.emitSequence(body, bodyBlk, headerBB, exit, headerBB, sw); err != nil {
		return err
	}

	fg.tree.AppendToBlock(outBlock, fg.tree.NewWhile(cond, bodyBlk))

	stmtID, err := fg.makeJump(exit, outerNext, outerBreak, outerContinue)
	if err != nil {
		return err
	}
	if stmtID != 0 {
		fg.tree.AppendToBlock(outBlock, stmtID)
	}
	return nil
}

func (fg *funcGenerator) emitDoWhile(node *region.Node, outBlock coutast.StmtID, outerNext, outerBreak, outerContinue ir.BlockID, sw *switchContext) error {
	cond := node.LoopCondition
	if cond == nil {
		return fg.fail(cgenerr.UnknownRegionKind, "DO_WHILE region without loop condition")
	}
	condBB := cond.EntryBlock()
	entryBB := node.EntryBlock()
	var exit ir.BlockID
	if node.HasExit {
		exit = node.Exit
	}

	body := node.Preorder(cond)
	bodyBlk := fg.tree.NewBlock()
	if err := fg.emitSequence(body, bodyBlk, condBB, exit, condBB, sw); err != nil {
		return err
	}

	condExpr, err := fg.condExpr(cond, bodyBlk, entryBB, exit, sw)
	if err != nil {
		return err
	}

	fg.tree.AppendToBlock(outBlock, fg.tree.NewDoWhile(condExpr, bodyBlk))

	stmtID, err := fg.makeJump(exit, outerNext, outerBreak, outerContinue)
	if err != nil {
		return err
	}
	if stmtID != 0 {
		fg.tree.AppendToBlock(outBlock, stmtID)
	}
	return nil
}
