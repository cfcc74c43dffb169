// Package synth builds small, self-contained ir.Function/region.Node/
// calling.Signature fixtures directly in Go, standing in for the
// disassembler and lifter this repo never implements. It is used by its
// own tests and by cmd/snowman's generate/batch smoke path,
// mirroring the literal fixtures internal/codegen's own tests build by
// hand (generator_test.go's newTestFunction/basic helpers).
package synth

import (
	"fmt"

	"surge/internal/calling"
	"surge/internal/codegen"
	"surge/internal/dflow"
	"surge/internal/ir"
	"surge/internal/region"
)

// Case bundles one synthesized fixture: a function ready for
// codegen.Generator.Generate, its region tree, its resolved calling
// signature, and a Collaborators value scoped to exactly this function's
// own TermIDs.
type Case struct {
	Name   string
	Func   *ir.Function
	Region *region.Node
	Sig    *calling.Signature
	Collab codegen.Collaborators
}

// function returns an *ir.Function with n basic blocks, indices 1..n
// (index 0 is the reserved NoBlockID slot), and Entry set to block 1.
func function(name string, addr uint64, n int) *ir.Function {
	fn := &ir.Function{Name: name, Addr: addr, Entry: 1}
	fn.Blocks = make([]ir.BasicBlock, n+1)
	for i := 1; i <= n; i++ {
		fn.Blocks[i].ID = ir.BlockID(i)
	}
	return fn
}

func basic(id ir.BlockID) *region.Node {
	return &region.Node{NodeKind: region.NodeBasic, BasicBlock: id}
}

func emptyCollaborators(liveTerms []ir.TermID) codegen.Collaborators {
	return codegen.Collaborators{
		Signatures: calling.NewSignatures(),
		Hooks:      calling.NewHooks(),
		Variables:  calling.NewVariables(),
		Types:      calling.NewTypes(),
		Dataflow:   dflow.NewDataflow(),
		Liveness:   dflow.NewLiveness(liveTerms),
	}
}

// StraightLine returns the simplest possible fixture: one block holding a
// single assignment followed directly by a return, no branches.
func StraightLine(name string, addr uint64) Case {
	fn := function(name, addr, 1)

	dst := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32})
	one := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 1, Unsigned: true}})

	fn.Blocks[1].Stmts = []ir.Stmt{
		{Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: dst, Right: one}},
		{Kind: ir.StmtReturn},
	}

	loc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x10, Size: 32}
	collab := emptyCollaborators([]ir.TermID{dst, one})
	collab.Variables.Add(&calling.Variable{ID: 1, Location: loc, Touches: []calling.Touch{{Term: dst, Location: loc}}})
	collab.Types.SetType(dst, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: true}})
	collab.Dataflow.SetLocation(dst, loc)

	return Case{
		Name:   name,
		Func:   fn,
		Region: basic(1),
		Sig:    &calling.Signature{Name: name},
		Collab: collab,
	}
}

// IfThenElse returns a two-armed conditional over a single comparison:
// spec.md §8 scenario S1.
func IfThenElse(name string, addr uint64) Case {
	fn := function(name, addr, 3)

	x := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32})
	zero := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 0, Unsigned: true}})
	cond := fn.AddTerm(ir.Term{Kind: ir.TermBinaryOperator, Role: ir.RoleRead, Size: 32, Binary: ir.BinaryTerm{Op: ir.BinaryEqual, Left: x, Right: zero}})
	r1 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32})
	one := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 1, Unsigned: true}})
	r2 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32})
	two := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 2, Unsigned: true}})

	fn.Blocks[1].Stmts = []ir.Stmt{{
		Kind: ir.StmtJump,
		Jump: ir.JumpStmt{
			Cond:    cond,
			Then:    ir.JumpTarget{Kind: ir.JumpTargetBlock, Block: 2},
			Else:    ir.JumpTarget{Kind: ir.JumpTargetBlock, Block: 3},
			HasElse: true,
		},
	}}
	fn.Blocks[2].Stmts = []ir.Stmt{{Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: r1, Right: one}}}
	fn.Blocks[3].Stmts = []ir.Stmt{{Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: r2, Right: two}}}

	root := &region.Node{
		NodeKind:   region.NodeRegion,
		RegionKind: region.IfThenElse,
		Children:   []*region.Node{basic(1), basic(2), basic(3)},
	}
	root.Entry = root.Children[0]

	xLoc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x10, Size: 32}
	rLoc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x20, Size: 32}

	collab := emptyCollaborators([]ir.TermID{x, zero, cond, r1, one, r2, two})
	collab.Variables.Add(&calling.Variable{ID: 1, Location: xLoc, Touches: []calling.Touch{{Term: x, Location: xLoc}}})
	collab.Variables.Add(&calling.Variable{ID: 2, Location: rLoc, Touches: []calling.Touch{
		{Term: r1, Location: rLoc}, {Term: r2, Location: rLoc},
	}})
	collab.Types.SetType(x, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: false}})
	collab.Types.SetType(r1, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: false}})
	collab.Types.SetType(r2, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: false}})
	collab.Dataflow.SetLocation(x, xLoc)
	collab.Dataflow.SetLocation(r1, rLoc)
	collab.Dataflow.SetLocation(r2, rLoc)

	return Case{Name: name, Func: fn, Region: root, Sig: &calling.Signature{Name: name}, Collab: collab}
}

// SequenceWithNestedIf returns a straight-line body whose middle statement
// is itself an IF_THEN_ELSE region, a direct child of the function's root
// Unknown region: block 1 assigns, block 2 branches to blocks 3/4, then
// control falls through to block 5's return. It exists to exercise
// region.Node.Preorder's handling of a composite Region child sitting
// among Basic siblings in the same Children slice, rather than every
// child being a leaf as in StraightLine/IfThenElse.
func SequenceWithNestedIf(name string, addr uint64) Case {
	fn := function(name, addr, 5)

	pre := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32})
	zeroConst := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 0, Unsigned: true}})
	x := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32})
	cond := fn.AddTerm(ir.Term{Kind: ir.TermBinaryOperator, Role: ir.RoleRead, Size: 32, Binary: ir.BinaryTerm{Op: ir.BinaryEqual, Left: x, Right: zeroConst}})
	r1 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32})
	one := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 1, Unsigned: true}})
	r2 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32})
	two := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 2, Unsigned: true}})

	fn.Blocks[1].Stmts = []ir.Stmt{
		{Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: pre, Right: zeroConst}},
	}
	fn.Blocks[2].Stmts = []ir.Stmt{{
		Kind: ir.StmtJump,
		Jump: ir.JumpStmt{
			Cond:    cond,
			Then:    ir.JumpTarget{Kind: ir.JumpTargetBlock, Block: 3},
			Else:    ir.JumpTarget{Kind: ir.JumpTargetBlock, Block: 4},
			HasElse: true,
		},
	}}
	fn.Blocks[3].Stmts = []ir.Stmt{{Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: r1, Right: one}}}
	fn.Blocks[4].Stmts = []ir.Stmt{{Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: r2, Right: two}}}
	fn.Blocks[5].Stmts = []ir.Stmt{{Kind: ir.StmtReturn}}

	nestedIf := &region.Node{
		NodeKind:   region.NodeRegion,
		RegionKind: region.IfThenElse,
		Children:   []*region.Node{basic(2), basic(3), basic(4)},
	}
	root := &region.Node{
		NodeKind:   region.NodeRegion,
		RegionKind: region.Unknown,
		Children:   []*region.Node{basic(1), nestedIf, basic(5)},
	}
	root.Entry = root.Children[0]

	preLoc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}
	xLoc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x10, Size: 32}
	rLoc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x20, Size: 32}

	collab := emptyCollaborators([]ir.TermID{pre, zeroConst, x, cond, r1, one, r2, two})
	collab.Variables.Add(&calling.Variable{ID: 1, Location: preLoc, Touches: []calling.Touch{{Term: pre, Location: preLoc}}})
	collab.Variables.Add(&calling.Variable{ID: 2, Location: xLoc, Touches: []calling.Touch{{Term: x, Location: xLoc}}})
	collab.Variables.Add(&calling.Variable{ID: 3, Location: rLoc, Touches: []calling.Touch{
		{Term: r1, Location: rLoc}, {Term: r2, Location: rLoc},
	}})
	collab.Types.SetType(pre, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: true}})
	collab.Types.SetType(x, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: false}})
	collab.Types.SetType(r1, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: false}})
	collab.Types.SetType(r2, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: false}})
	collab.Dataflow.SetLocation(pre, preLoc)
	collab.Dataflow.SetLocation(x, xLoc)
	collab.Dataflow.SetLocation(r1, rLoc)
	collab.Dataflow.SetLocation(r2, rLoc)

	return Case{Name: name, Func: fn, Region: root, Sig: &calling.Signature{Name: name}, Collab: collab}
}

// All returns every named fixture this package knows, in a stable order,
// for `cmd/snowman generate`'s single-function smoke path.
func All() []Case {
	return []Case{
		StraightLine("straight_line", 0x401000),
		IfThenElse("if_then_else", 0x401100),
		SequenceWithNestedIf("sequence_with_nested_if", 0x401200),
	}
}

// Batch returns n independent driver.Unit-shaped functions cloned from
// the StraightLine fixture, and a single Collaborators value valid for
// all of them: every clone assigns the same term kinds to the same local
// TermIDs, so sharing one Types/Variables/Dataflow set across them within
// a single codegen.Generator introduces no cross-function ambiguity. This
// is `cmd/snowman batch`'s smoke path, standing in for a set of functions
// pulled from one analyzed binary sharing one whole-program Collaborators.
func Batch(n int) ([]Case, codegen.Collaborators) {
	if n <= 0 {
		n = 1
	}
	shared := StraightLine("straight_line_0", 0x401000)
	cases := make([]Case, 0, n)
	cases = append(cases, shared)
	for i := 1; i < n; i++ {
		c := StraightLine(fmt.Sprintf("straight_line_%d", i), 0x401000+uint64(i)*0x10)
		cases = append(cases, c)
	}
	return cases, shared.Collab
}
