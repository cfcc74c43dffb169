package codegen

import (
	"context"
	"testing"

	"surge/internal/calling"
	"surge/internal/coutast"
	"surge/internal/dflow"
	"surge/internal/ir"
)

// newTestGenerator builds a funcGenerator over fn with the given
// collaborators and options, mirroring the setup Generator.Generate
// performs, for white-box tests of the unexported predicates below.
func newTestGenerator(t *testing.T, fn *ir.Function, collab Collaborators, opts Options) *funcGenerator {
	t.Helper()
	doms, err := dflow.NewDominators(context.Background(), fn)
	if err != nil {
		t.Fatalf("NewDominators: %v", err)
	}
	return &funcGenerator{
		gen:              &Generator{collab: collab, opts: opts},
		fn:               fn,
		doms:             doms,
		tree:             coutast.NewTree(16, 16, 8, 8),
		variableDecls:    make(map[calling.VariableID]coutast.DeclID),
		labels:           make(map[ir.BlockID]coutast.LabelID),
		globalDecls:      make(map[uint64]coutast.DeclID),
		singleDefMemo:    make(map[calling.VariableID]*singleDefResult),
		singleUseMemo:    make(map[calling.VariableID]*singleUseResult),
		singleAssignMemo: make(map[calling.VariableID]boolMemo),
		movableMemo:      make(map[ir.TermID]boolMemo),
		intermediateMemo: make(map[calling.VariableID]boolMemo),
	}
}

func TestSingleAssignment_CleanLocalIsTrue(t *testing.T) {
	fn := &ir.Function{}
	loc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}

	src := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	wTerm := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 1, Instr: 10})
	rTerm := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 2, Instr: 20})

	fn.Entry = 1
	fn.Blocks = []ir.BasicBlock{{}, {
		ID: 1,
		Stmts: []ir.Stmt{
			{ID: 1, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: wTerm, Right: src}},
			{ID: 2, Kind: ir.StmtComment, Comment: "read site"},
		},
	}}

	v := &calling.Variable{ID: 1, Location: loc, Touches: []calling.Touch{
		{Term: wTerm, Location: loc}, {Term: rTerm, Location: loc},
	}}

	live := dflow.NewLiveness([]ir.TermID{rTerm})
	fg := newTestGenerator(t, fn, Collaborators{Liveness: live}, Options{})

	ok, err := fg.singleAssignment(v)
	if err != nil {
		t.Fatalf("singleAssignment: %v", err)
	}
	if !ok {
		t.Fatal("expected singleAssignment to be true for a cleanly dominated local")
	}
}

func TestSingleAssignment_FalseOnLocationMismatch(t *testing.T) {
	fn := &ir.Function{}
	loc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}
	other := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0xC, Size: 32}

	src := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	wTerm := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 1, Instr: 10})
	rTerm := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 2, Instr: 20})

	fn.Entry = 1
	fn.Blocks = []ir.BasicBlock{{}, {
		ID: 1,
		Stmts: []ir.Stmt{
			{ID: 1, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: wTerm, Right: src}},
			{ID: 2, Kind: ir.StmtComment, Comment: "read site"},
		},
	}}

	// rTerm's touch records a different location than v's canonical one.
	v := &calling.Variable{ID: 1, Location: loc, Touches: []calling.Touch{
		{Term: wTerm, Location: loc}, {Term: rTerm, Location: other},
	}}

	live := dflow.NewLiveness([]ir.TermID{rTerm})
	fg := newTestGenerator(t, fn, Collaborators{Liveness: live}, Options{})

	ok, err := fg.singleAssignment(v)
	if err != nil {
		t.Fatalf("singleAssignment: %v", err)
	}
	if ok {
		t.Fatal("expected singleAssignment to be false when a touch's location diverges from the variable's own")
	}
}

func TestSingleAssignment_IgnoresDeadReads(t *testing.T) {
	fn := &ir.Function{}
	loc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}

	src := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	wTerm := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 1, Instr: 10})
	// A dead read at a location that would otherwise fail the check; it
	// must never be consulted since it is absent from the live set.
	deadRead := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 2, Instr: 5})

	fn.Entry = 1
	fn.Blocks = []ir.BasicBlock{{}, {
		ID: 1,
		Stmts: []ir.Stmt{
			{ID: 1, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: wTerm, Right: src}},
			{ID: 2, Kind: ir.StmtComment},
		},
	}}

	other := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0xC, Size: 32}
	v := &calling.Variable{ID: 1, Location: loc, Touches: []calling.Touch{
		{Term: wTerm, Location: loc}, {Term: deadRead, Location: other},
	}}

	fg := newTestGenerator(t, fn, Collaborators{Liveness: dflow.NewLiveness(nil)}, Options{})

	ok, err := fg.singleAssignment(v)
	if err != nil {
		t.Fatalf("singleAssignment: %v", err)
	}
	if !ok {
		t.Fatal("expected a dead read's location mismatch to be ignored")
	}
}

func TestMovable(t *testing.T) {
	fn := &ir.Function{}
	c1 := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	c2 := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	mem := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32})
	addConst := fn.AddTerm(ir.Term{Kind: ir.TermBinaryOperator, Role: ir.RoleRead, Size: 32, Binary: ir.BinaryTerm{Op: ir.BinaryAdd, Left: c1, Right: c2}})
	addMem := fn.AddTerm(ir.Term{Kind: ir.TermBinaryOperator, Role: ir.RoleRead, Size: 32, Binary: ir.BinaryTerm{Op: ir.BinaryAdd, Left: c1, Right: mem}})

	fg := newTestGenerator(t, fn, Collaborators{}, Options{})

	cases := []struct {
		name string
		term ir.TermID
		want bool
	}{
		{"constant", c1, true},
		{"memory access", mem, false},
		{"sum of constants", addConst, true},
		{"sum with a memory operand", addMem, false},
	}
	for _, c := range cases {
		got, err := fg.movable(c.term)
		if err != nil {
			t.Fatalf("%s: movable: %v", c.name, err)
		}
		if got != c.want {
			t.Errorf("%s: movable = %v, want %v", c.name, got, c.want)
		}
	}
}

// TestIsIntermediate_DisabledByDefault checks the conformance short-circuit:
// with default Options, isIntermediate never inlines even a variable that
// would otherwise qualify.
func TestIsIntermediate_DisabledByDefault(t *testing.T) {
	fn := &ir.Function{}
	loc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}
	src := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	wTerm := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 1, Instr: 1})
	rTerm := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 2, Instr: 2})

	fn.Entry = 1
	fn.Blocks = []ir.BasicBlock{{}, {
		ID: 1,
		Stmts: []ir.Stmt{
			{ID: 1, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: wTerm, Right: src}},
			{ID: 2, Kind: ir.StmtComment},
		},
	}}

	v := &calling.Variable{ID: 1, Location: loc, Touches: []calling.Touch{
		{Term: wTerm, Location: loc}, {Term: rTerm, Location: loc},
	}}

	live := dflow.NewLiveness([]ir.TermID{rTerm})
	fg := newTestGenerator(t, fn, Collaborators{Liveness: live}, Options{})

	got, err := fg.isIntermediate(v)
	if err != nil {
		t.Fatalf("isIntermediate: %v", err)
	}
	if got {
		t.Fatal("expected isIntermediate to stay disabled without ExperimentalInlining")
	}
}

// TestIsIntermediate_SingleUseMovableSource covers §4.7 case (a): one live
// use whose single definition is movable inlines when experimental
// inlining is on.
func TestIsIntermediate_SingleUseMovableSource(t *testing.T) {
	fn := &ir.Function{}
	loc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}
	src := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	wTerm := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 1, Instr: 1})
	rTerm := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 2, Instr: 2})

	fn.Entry = 1
	fn.Blocks = []ir.BasicBlock{{}, {
		ID: 1,
		Stmts: []ir.Stmt{
			{ID: 1, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: wTerm, Right: src}},
			{ID: 2, Kind: ir.StmtComment},
		},
	}}

	v := &calling.Variable{ID: 1, Location: loc, Touches: []calling.Touch{
		{Term: wTerm, Location: loc}, {Term: rTerm, Location: loc},
	}}

	live := dflow.NewLiveness([]ir.TermID{rTerm})
	fg := newTestGenerator(t, fn, Collaborators{Liveness: live}, Options{ExperimentalInlining: true})

	got, err := fg.isIntermediate(v)
	if err != nil {
		t.Fatalf("isIntermediate: %v", err)
	}
	if !got {
		t.Fatal("expected a single movable-sourced use to be intermediate")
	}
}

// TestIsIntermediate_MultiUseRequiresSingleAssignedSource covers §4.7 case
// (b): with more than one live use, v is only intermediate when its
// definition reads a variable that is itself singleAssignment.
func TestIsIntermediate_MultiUseRequiresSingleAssignedSource(t *testing.T) {
	fn := &ir.Function{}
	locV := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}
	locW := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x10, Size: 32}

	someConst := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	wWrite := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 1, Instr: 1})
	wRead := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 2, Instr: 2})
	vWrite := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 2, Instr: 2})
	vRead1 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 3, Instr: 3})
	vRead2 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 4, Instr: 4})

	fn.Entry = 1
	fn.Blocks = []ir.BasicBlock{{}, {
		ID: 1,
		Stmts: []ir.Stmt{
			{ID: 1, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: wWrite, Right: someConst}},
			{ID: 2, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: vWrite, Right: wRead}},
			{ID: 3, Kind: ir.StmtComment},
			{ID: 4, Kind: ir.StmtComment},
		},
	}}

	w := &calling.Variable{ID: 1, Location: locW, Touches: []calling.Touch{
		{Term: wWrite, Location: locW}, {Term: wRead, Location: locW},
	}}
	v := &calling.Variable{ID: 2, Location: locV, Touches: []calling.Touch{
		{Term: vWrite, Location: locV}, {Term: vRead1, Location: locV}, {Term: vRead2, Location: locV},
	}}

	vars := calling.NewVariables()
	vars.Add(w)
	vars.Add(v)

	live := dflow.NewLiveness([]ir.TermID{wRead, vRead1, vRead2})
	fg := newTestGenerator(t, fn, Collaborators{Variables: vars, Liveness: live}, Options{ExperimentalInlining: true})

	if got := fg.liveUseCount(v); got != 2 {
		t.Fatalf("liveUseCount(v) = %d, want 2", got)
	}

	got, err := fg.isIntermediate(v)
	if err != nil {
		t.Fatalf("isIntermediate: %v", err)
	}
	if !got {
		t.Fatal("expected v to be intermediate: its source reads w, which is itself singleAssignment")
	}
}

// TestIsIntermediate_MultiUseRejectsNonSingleAssignedSource is the negative
// twin of the above: w has two writes, so it is not singleAssignment, so v
// (multi-use, sourced from a read of w) must not be treated as intermediate.
func TestIsIntermediate_MultiUseRejectsNonSingleAssignedSource(t *testing.T) {
	fn := &ir.Function{}
	locV := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}
	locW := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x10, Size: 32}

	someConst := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	wWrite1 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 1, Instr: 1})
	wWrite2 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 2, Instr: 2})
	wRead := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 3, Instr: 3})
	vWrite := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleWrite, Size: 32, Stmt: 3, Instr: 3})
	vRead1 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 4, Instr: 4})
	vRead2 := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32, Stmt: 5, Instr: 5})

	fn.Entry = 1
	fn.Blocks = []ir.BasicBlock{{}, {
		ID: 1,
		Stmts: []ir.Stmt{
			{ID: 1, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: wWrite1, Right: someConst}},
			{ID: 2, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: wWrite2, Right: someConst}},
			{ID: 3, Kind: ir.StmtAssignment, Assignment: ir.AssignmentStmt{Left: vWrite, Right: wRead}},
			{ID: 4, Kind: ir.StmtComment},
			{ID: 5, Kind: ir.StmtComment},
		},
	}}

	w := &calling.Variable{ID: 1, Location: locW, Touches: []calling.Touch{
		{Term: wWrite1, Location: locW}, {Term: wWrite2, Location: locW}, {Term: wRead, Location: locW},
	}}
	v := &calling.Variable{ID: 2, Location: locV, Touches: []calling.Touch{
		{Term: vWrite, Location: locV}, {Term: vRead1, Location: locV}, {Term: vRead2, Location: locV},
	}}

	vars := calling.NewVariables()
	vars.Add(w)
	vars.Add(v)

	live := dflow.NewLiveness([]ir.TermID{wRead, vRead1, vRead2})
	fg := newTestGenerator(t, fn, Collaborators{Variables: vars, Liveness: live}, Options{ExperimentalInlining: true})

	got, err := fg.isIntermediate(v)
	if err != nil {
		t.Fatalf("isIntermediate: %v", err)
	}
	if got {
		t.Fatal("expected v not to be intermediate: w has two definitions, so it is not singleAssignment")
	}
}

// TestLowerBinary_SignednessTable exercises spec.md §4.5's per-operator
// cast rules directly through lowerExpr, without an enclosing Generate call.
func TestLowerBinary_SignednessTable(t *testing.T) {
	fn := &ir.Function{}
	// left is declared signed, right is declared unsigned, to make each
	// row's forced overrides observable against the "own type" default.
	left := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})
	right := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32})

	types := calling.NewTypes()
	types.SetType(left, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: false}})
	types.SetType(right, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: true}})

	fg := newTestGenerator(t, fn, Collaborators{
		Types:     types,
		Variables: calling.NewVariables(),
		Liveness:  dflow.NewLiveness(nil),
		Dataflow:  dflow.NewDataflow(),
	}, Options{})

	cases := []struct {
		name               string
		op                 ir.BinaryKind
		wantLeft, wantRight bool
	}{
		{"add keeps each operand's own signedness", ir.BinaryAdd, false, true},
		{"shr forces the shifted operand unsigned", ir.BinaryShr, true, true},
		{"sar forces the shifted operand signed", ir.BinarySar, false, true},
		{"signed division forces both operands signed", ir.BinarySignedDiv, false, false},
		{"unsigned division forces both operands unsigned", ir.BinaryUnsignedDiv, true, true},
		{"signed less forces both operands signed", ir.BinarySignedLess, false, false},
	}
	for _, c := range cases {
		term := ir.Term{Kind: ir.TermBinaryOperator, Role: ir.RoleRead, Size: 32, Binary: ir.BinaryTerm{Op: c.op, Left: left, Right: right}}
		id, err := fg.lowerBinary(&term)
		if err != nil {
			t.Fatalf("%s: lowerBinary: %v", c.name, err)
		}
		expr := fg.tree.Expr(id)
		if expr.Kind != coutast.ExprBinaryOperator {
			t.Fatalf("%s: expected a binary expression", c.name)
		}
		leftCast := fg.tree.Expr(expr.Binary.Left)
		rightCast := fg.tree.Expr(expr.Binary.Right)
		if leftCast.Kind != coutast.ExprTypecast || rightCast.Kind != coutast.ExprTypecast {
			t.Fatalf("%s: expected both operands wrapped in a typecast", c.name)
		}
		if leftCast.Typecast.Unsigned != c.wantLeft {
			t.Errorf("%s: left cast unsigned = %v, want %v", c.name, leftCast.Typecast.Unsigned, c.wantLeft)
		}
		if rightCast.Typecast.Unsigned != c.wantRight {
			t.Errorf("%s: right cast unsigned = %v, want %v", c.name, rightCast.Typecast.Unsigned, c.wantRight)
		}
	}
}

// TestLowerExpr_PreferConstants checks that a read with a known
// concrete abstract value is emitted as a literal, bypassing the variable
// it would otherwise resolve through, when PreferConstants is enabled.
func TestLowerExpr_PreferConstants(t *testing.T) {
	fn := &ir.Function{}
	loc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}
	term := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32})

	vars := calling.NewVariables()
	vars.Add(&calling.Variable{ID: 1, Location: loc, Touches: []calling.Touch{{Term: term, Location: loc}}})

	types := calling.NewTypes()
	types.SetType(term, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: true}})

	df := dflow.NewDataflow()
	df.SetValue(term, dflow.Concrete(32, 7))
	df.SetLocation(term, loc)

	fg := newTestGenerator(t, fn, Collaborators{
		Variables: vars, Types: types, Dataflow: df, Liveness: dflow.NewLiveness(nil),
	}, Options{PreferConstants: true})

	id, err := fg.lowerExpr(term)
	if err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	expr := fg.tree.Expr(id)
	if expr.Kind != coutast.ExprIntegerConstant {
		t.Fatalf("expected an integer constant, got kind %d", expr.Kind)
	}
	if expr.IntegerConstant.Value != 7 {
		t.Fatalf("expected value 7, got %d", expr.IntegerConstant.Value)
	}
}

// TestLowerExpr_PreferConstantsOffByDefault checks the same term resolves
// through the ordinary variable-access path when the option is off.
func TestLowerExpr_PreferConstantsOffByDefault(t *testing.T) {
	fn := &ir.Function{}
	loc := ir.MemoryLocation{Domain: ir.DomainStack, Addr: 0x8, Size: 32}
	term := fn.AddTerm(ir.Term{Kind: ir.TermMemoryLocationAccess, Role: ir.RoleRead, Size: 32})

	vars := calling.NewVariables()
	vars.Add(&calling.Variable{ID: 1, Location: loc, Touches: []calling.Touch{{Term: term, Location: loc}}})

	df := dflow.NewDataflow()
	df.SetValue(term, dflow.Concrete(32, 7))
	df.SetLocation(term, loc)

	fg := newTestGenerator(t, fn, Collaborators{
		Variables: vars, Types: calling.NewTypes(), Dataflow: df, Liveness: dflow.NewLiveness(nil),
	}, Options{})

	id, err := fg.lowerExpr(term)
	if err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	expr := fg.tree.Expr(id)
	if expr.Kind != coutast.ExprVariableIdentifier {
		t.Fatalf("expected a variable identifier, got kind %d", expr.Kind)
	}
}
