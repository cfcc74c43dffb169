// Package region models the structured control-flow decomposition handed
// to the generator: a tree of Basic and Region nodes over a function's
// basic blocks, already built by an upstream structural-analysis pass.
package region

import "surge/internal/ir"

// Kind enumerates the closed set of region variants the region walker
// must exhaustively dispatch on.
type Kind uint8

const (
	Unknown Kind = iota
	Block
	CompoundCondition
	IfThen
	IfThenElse
	Loop
	While
	DoWhile
	Switch
)

func (k Kind) String() string {
	switch k {
	case Unknown:
		return "UNKNOWN"
	case Block:
		return "BLOCK"
	case CompoundCondition:
		return "COMPOUND_CONDITION"
	case IfThen:
		return "IF_THEN"
	case IfThenElse:
		return "IF_THEN_ELSE"
	case Loop:
		return "LOOP"
	case While:
		return "WHILE"
	case DoWhile:
		return "DO_WHILE"
	case Switch:
		return "SWITCH"
	default:
		return "?"
	}
}

// NodeKind distinguishes a leaf Basic node from an interior Region node.
type NodeKind uint8

const (
	NodeBasic NodeKind = iota
	NodeRegion
)

// SwitchInfo carries the extra fields a Switch region exposes to the
// switch reconstructor.
type SwitchInfo struct {
	BoundsCheckNode *Node // optional
	HasBoundsCheck  bool
	SwitchNode      *Node
	SwitchTerm      ir.TermID
	JumpTable       ir.JumpTable
	DefaultBlock    ir.BlockID
	HasDefaultBlock bool
	ExitBlock       ir.BlockID
	HasExitBlock    bool
}

// Node is either a Basic leaf wrapping one basic block, or a Region
// interior node with an ordered list of children and a kind-specific
// payload. Nodes form a tree (a basic block is a child of exactly one
// region) though jump targets elsewhere in the IR may reference the same
// block by id without implying ownership.
type Node struct {
	NodeKind NodeKind

	// Basic leaf payload.
	BasicBlock ir.BlockID

	// Region interior payload.
	RegionKind Kind
	Children   []*Node
	Entry      *Node // first child reached on normal flow
	HasExit    bool
	Exit       ir.BlockID // region.exit, used as a fall-through target

	// LoopCondition is the condition node for WHILE (header) and DO_WHILE
	// (tail); unused otherwise.
	LoopCondition *Node

	Sw SwitchInfo // only meaningful when RegionKind == Switch
}

// EntryBlock returns the basic block reached first when control enters n:
// n's own block if n is a Basic leaf, otherwise its Entry child's.
func (n *Node) EntryBlock() ir.BlockID {
	if n == nil {
		return ir.NoBlockID
	}
	if n.NodeKind == NodeBasic {
		return n.BasicBlock
	}
	if n.Entry != nil {
		return n.Entry.EntryBlock()
	}
	if len(n.Children) > 0 {
		return n.Children[0].EntryBlock()
	}
	return ir.NoBlockID
}

// Preorder returns n's immediate children, in order, with the given ones
// skipped (by pointer identity), used by region kinds whose body is
// "everything except a named sub-node". A non-Basic child is returned as
// the single composite node it is, never expanded into its own
// descendants — the caller re-dispatches each returned node generically,
// so a Region child nested inside n stays a structured unit instead of
// being flattened to its Basic leaves.
func (n *Node) Preorder(skip ...*Node) []*Node {
	if n == nil {
		return nil
	}
	skipSet := make(map[*Node]bool, len(skip))
	for _, s := range skip {
		skipSet[s] = true
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if skipSet[c] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// RightmostLeaf returns the rightmost Basic leaf reachable from n's last
// child chain, used by the condition synthesizer to classify a compound
// condition region as a conjunction or disjunction.
func (n *Node) RightmostLeaf() *Node {
	if n == nil {
		return nil
	}
	if n.NodeKind == NodeBasic {
		return n
	}
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1].RightmostLeaf()
}
