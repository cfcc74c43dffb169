package region_test

import (
	"testing"

	"surge/internal/ir"
	"surge/internal/region"
)

func basic(id ir.BlockID) *region.Node {
	return &region.Node{NodeKind: region.NodeBasic, BasicBlock: id}
}

// TestPreorder_StopsAtImmediateChildren covers a Region node nested inside
// another Region's Children: Preorder must return it as a single
// composite unit rather than recursing past it into its own Basic
// leaves, since the caller re-dispatches each returned node generically.
func TestPreorder_StopsAtImmediateChildren(t *testing.T) {
	nested := &region.Node{
		NodeKind:   region.NodeRegion,
		RegionKind: region.IfThenElse,
		Children:   []*region.Node{basic(10), basic(11), basic(12)},
	}
	head := basic(1)
	tail := basic(2)
	parent := &region.Node{
		NodeKind:   region.NodeRegion,
		RegionKind: region.Unknown,
		Children:   []*region.Node{head, nested, tail},
	}

	got := parent.Preorder()
	if len(got) != 3 {
		t.Fatalf("expected 3 immediate children, got %d: %+v", len(got), got)
	}
	if got[0] != head || got[2] != tail {
		t.Fatalf("expected head/tail leaves preserved in order, got %+v", got)
	}
	if got[1] != nested {
		t.Fatalf("expected the nested composite region returned as one unit, got %+v", got[1])
	}
	if got[1].NodeKind != region.NodeRegion || len(got[1].Children) != 3 {
		t.Fatal("nested region was flattened instead of preserved")
	}
}

// TestPreorder_SkipsNamedChildren covers the "everything except a named
// sub-node" use (WHILE/DO_WHILE headers, switch's own switch/bounds-check
// nodes).
func TestPreorder_SkipsNamedChildren(t *testing.T) {
	header := basic(1)
	body := basic(2)
	parent := &region.Node{
		NodeKind: region.NodeRegion,
		Children: []*region.Node{header, body},
	}

	got := parent.Preorder(header)
	if len(got) != 1 || got[0] != body {
		t.Fatalf("expected only body after skipping header, got %+v", got)
	}
}
