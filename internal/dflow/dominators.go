package dflow

import (
	"context"
	"fmt"

	"surge/internal/ir"
)

// Dominators answers isDominating(bb1, bb2) for one function, plus the
// intra-block tie-break the generator needs to decide whether a writing
// term dominates a reading term that shares its basic block.
type Dominators struct {
	fn   *ir.Function
	idom []ir.BlockID // idom[i] is the immediate dominator of block i
}

// NewDominators builds the dominator tree of fn using the standard
// iterative algorithm over reverse postorder. This is the single place in
// the whole pipeline that polls ctx for cancellation: dominator
// construction is the one potentially expensive step run before any
// output is produced, so cancelling here discards cleanly with nothing
// committed.
func NewDominators(ctx context.Context, fn *ir.Function) (*Dominators, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(fn.Blocks)
	preds := make([][]ir.BlockID, n)
	for i := range fn.Blocks {
		for _, s := range successors(&fn.Blocks[i]) {
			if int(s) < n {
				preds[s] = append(preds[s], ir.BlockID(i))
			}
		}
	}

	order, index := reversePostorder(fn, n)

	idom := make([]ir.BlockID, n)
	for i := range idom {
		idom[i] = ir.NoBlockID
	}
	entry := fn.Entry
	if int(entry) >= n {
		return &Dominators{fn: fn, idom: idom}, nil
	}
	idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for _, b := range order {
			if b == entry {
				continue
			}
			var newIdom ir.BlockID = ir.NoBlockID
			for _, p := range preds[b] {
				if idom[p] == ir.NoBlockID {
					continue
				}
				if newIdom == ir.NoBlockID {
					newIdom = p
					continue
				}
				newIdom = intersect(newIdom, p, idom, index)
			}
			if newIdom != ir.NoBlockID && idom[b] != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	return &Dominators{fn: fn, idom: idom}, nil
}

func successors(b *ir.BasicBlock) []ir.BlockID {
	term, ok := b.Terminator()
	if !ok {
		return nil
	}
	var out []ir.BlockID
	if term.Jump.Then.Kind == ir.JumpTargetBlock && term.Jump.Then.Block.IsValid() {
		out = append(out, term.Jump.Then.Block)
	}
	if term.Jump.HasElse && term.Jump.Else.Kind == ir.JumpTargetBlock && term.Jump.Else.Block.IsValid() {
		out = append(out, term.Jump.Else.Block)
	}
	return out
}

func reversePostorder(fn *ir.Function, n int) ([]ir.BlockID, map[ir.BlockID]int) {
	visited := make([]bool, n)
	var post []ir.BlockID
	var walk func(b ir.BlockID)
	walk = func(b ir.BlockID) {
		if int(b) >= n || visited[b] {
			return
		}
		visited[b] = true
		if blk := fn.Block(b); blk != nil {
			for _, s := range successors(blk) {
				walk(s)
			}
		}
		post = append(post, b)
	}
	walk(fn.Entry)

	order := make([]ir.BlockID, len(post))
	for i, b := range post {
		order[len(post)-1-i] = b
	}
	index := make(map[ir.BlockID]int, len(order))
	for i, b := range order {
		index[b] = i
	}
	return order, index
}

func intersect(a, b ir.BlockID, idom []ir.BlockID, index map[ir.BlockID]int) ir.BlockID {
	for a != b {
		for index[a] > index[b] {
			a = idom[a]
		}
		for index[b] > index[a] {
			b = idom[b]
		}
	}
	return a
}

// Dominates reports whether bb1 dominates bb2 (every path from the entry
// to bb2 passes through bb1).
func (d *Dominators) Dominates(bb1, bb2 ir.BlockID) bool {
	if bb1 == bb2 {
		return true
	}
	cur := bb2
	for {
		next := d.idom[cur]
		if next == cur {
			return false // reached entry without finding bb1
		}
		if next == bb1 {
			return true
		}
		cur = next
	}
}

// TermDominates decides whether the writing term at (wBlock, wInstr,
// wStmt) dominates the reading term at (rBlock, rInstr, rStmt), applying
// the instruction-address tie-break when both share a block: dominance
// follows instruction address when the two terms belong to distinct
// instructions, and falls back to statement index within the block
// otherwise. Cross-block dominance defers entirely to the dominator tree.
func (d *Dominators) TermDominates(wBlock ir.BlockID, wInstr ir.InstrAddr, wStmt ir.StmtID, rBlock ir.BlockID, rInstr ir.InstrAddr, rStmt ir.StmtID) bool {
	if wBlock == rBlock {
		if wInstr != rInstr {
			return wInstr < rInstr
		}
		return wStmt <= rStmt
	}
	return d.Dominates(wBlock, rBlock)
}

// String renders the tree for debugging.
func (d *Dominators) String() string {
	return fmt.Sprintf("dominators(%d blocks)", len(d.idom))
}
