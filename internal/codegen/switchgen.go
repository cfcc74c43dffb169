package codegen

import (
	"sort"

	"surge/internal/cgenerr"
	"surge/internal/coutast"
	"surge/internal/ir"
	"surge/internal/region"
	"surge/internal/trace"
)

// emitSwitch is the switch reconstructor (spec.md §4.8). It emits the
// optional bounds check into outBlock, builds a fresh switchContext from
// the jump table, walks the switch's body with case and default labels
// attached as each target block is visited, and emits a synthetic
// `case V: goto <addr>;` for any table entry whose block the body walk
// never reached.
func (fg *funcGenerator) emitSwitch(node *region.Node, outBlock coutast.StmtID, nextBB, continueBB ir.BlockID) error {
	span := trace.Begin(fg.tracer, trace.ScopeNode, "switch_reconstruction", fg.spanID)
	defer span.End("")

	sw := node.Sw
	if sw.SwitchNode == nil {
		return fg.fail(cgenerr.MissingSwitchNode, "SWITCH region missing its switch node")
	}

	var exit ir.BlockID
	if sw.HasExitBlock {
		exit = sw.ExitBlock
	} else if node.HasExit {
		exit = node.Exit
	}

	if sw.HasBoundsCheck && sw.BoundsCheckNode != nil {
		if err := fg.emit(sw.BoundsCheckNode, outBlock, nextBB, ir.NoBlockID, continueBB, nil); err != nil {
			return err
		}
	}

	termSize := fg.gen.collab.Types.GetType(sw.SwitchTerm).Type.Size
	valueType := ir.IntType{Size: termSize, Unsigned: false}
	ctx := newSwitchContext(valueType)
	if sw.HasDefaultBlock {
		ctx.defaultAddr = fg.blockAddr(sw.DefaultBlock)
		ctx.hasDefaultAddr = true
	}
	for i, entry := range sw.JumpTable.Entries {
		ctx.addCase(entry.Addr, int64(i))
	}

	switchExpr, err := fg.lowerExpr(sw.SwitchTerm)
	if err != nil {
		return err
	}
	switchExpr = fg.tree.NewTypecast(switchExpr, valueType.Size, valueType.Unsigned)

	skip := []*region.Node{sw.SwitchNode}
	if sw.BoundsCheckNode != nil {
		skip = append(skip, sw.BoundsCheckNode)
	}
	body := node.Preorder(skip...)

	bodyBlk := fg.tree.NewBlock()
	if err := fg.emitSequence(body, bodyBlk, nextBB, exit, continueBB, ctx); err != nil {
		return err
	}

	// Table entries whose destination block never appeared as a Basic
	// node in the body (for instance, one outside the region entirely)
	// still need a reachable label.
	leftoverAddrs := make([]uint64, 0, len(ctx.casesByAddr))
	for addr := range ctx.casesByAddr {
		leftoverAddrs = append(leftoverAddrs, addr)
	}
	sort.Slice(leftoverAddrs, func(i, j int) bool { return leftoverAddrs[i] < leftoverAddrs[j] })
	for _, addr := range leftoverAddrs {
		for _, v := range ctx.take(addr) {
			fg.tree.AppendToBlock(bodyBlk, fg.tree.NewCaseLabel(v))
		}
		fg.tree.AppendToBlock(bodyBlk, fg.tree.NewGotoExpr(fg.tree.NewIntegerConstant(addr, fg.pointerSize(), true)))
	}

	fg.tree.AppendToBlock(outBlock, fg.tree.NewSwitch(switchExpr, bodyBlk))

	stmtID, err := fg.makeJump(exit, nextBB, ir.NoBlockID, continueBB)
	if err != nil {
		return err
	}
	if stmtID != 0 {
		fg.tree.AppendToBlock(outBlock, stmtID)
	}
	return nil
}

func (fg *funcGenerator) blockAddr(id ir.BlockID) uint64 {
	if blk := fg.fn.Block(id); blk != nil {
		return blk.Addr
	}
	return 0
}

func (fg *funcGenerator) pointerSize() uint32 {
	if fg.gen.collab.Image != nil {
		return fg.gen.collab.Image.PointerSize()
	}
	return 64
}
