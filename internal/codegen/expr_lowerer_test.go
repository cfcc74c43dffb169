package codegen

import (
	"encoding/binary"
	"testing"

	"surge/internal/calling"
	"surge/internal/coutast"
	"surge/internal/dflow"
	"surge/internal/image"
	"surge/internal/ir"
)

// TestLowerIntConst_PreferCStrings_Narrow covers the existing narrow-ASCII
// prefer_cstrings path: a NUL-terminated printable-ASCII run emits a
// String node with no wide prefix.
func TestLowerIntConst_PreferCStrings_Narrow(t *testing.T) {
	fn := &ir.Function{}
	tAddr := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 0x1000, Unsigned: true}})

	img := image.New(32, []image.Section{{
		Name: ".rdata", Addr: 0x1000, Data: append([]byte("hi"), 0), Readable: true, Allocated: true,
	}})

	collab := Collaborators{
		Signatures: calling.NewSignatures(),
		Hooks:      calling.NewHooks(),
		Variables:  calling.NewVariables(),
		Types:      calling.NewTypes(),
		Dataflow:   dflow.NewDataflow(),
		Liveness:   dflow.NewLiveness(nil),
		Image:      img,
	}

	fg := newTestGenerator(t, fn, collab, Options{PreferCStrings: true})
	expr, err := fg.lowerExpr(tAddr)
	if err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	node := fg.tree.Expr(expr)
	if node.Kind != coutast.ExprStringLiteral {
		t.Fatalf("expected a String node, got kind %d", node.Kind)
	}
	if node.WideStringPrefix {
		t.Fatal("narrow string must not carry the wide prefix")
	}
	if node.StringLiteral != "hi" {
		t.Fatalf("expected %q, got %q", "hi", node.StringLiteral)
	}
}

// TestLowerIntConst_PreferCStrings_Wide covers the wide-string constant
// supplement: a pointer-to-16-bit-pointee constant whose target decodes
// as NUL-terminated UTF-16LE emits a String node with WideStringPrefix
// set and NFC-normalized text.
func TestLowerIntConst_PreferCStrings_Wide(t *testing.T) {
	fn := &ir.Function{}
	tAddr := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 0x2000, Unsigned: true}})

	var data []byte
	for _, r := range "ok" {
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(r))
		data = append(data, buf...)
	}
	data = append(data, 0, 0)

	img := image.New(32, []image.Section{{
		Name: ".rdata", Addr: 0x2000, Data: data, Readable: true, Allocated: true,
	}})

	types := calling.NewTypes()
	types.SetType(tAddr, calling.TypeInfo{
		Type:        ir.IntType{Size: 32, Unsigned: true},
		IsPointer:   true,
		PointeeType: ir.IntType{Size: 16, Unsigned: true},
	})

	collab := Collaborators{
		Signatures: calling.NewSignatures(),
		Hooks:      calling.NewHooks(),
		Variables:  calling.NewVariables(),
		Types:      types,
		Dataflow:   dflow.NewDataflow(),
		Liveness:   dflow.NewLiveness(nil),
		Image:      img,
	}

	fg := newTestGenerator(t, fn, collab, Options{PreferCStrings: true})
	expr, err := fg.lowerExpr(tAddr)
	if err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	node := fg.tree.Expr(expr)
	if node.Kind != coutast.ExprStringLiteral {
		t.Fatalf("expected a String node, got kind %d", node.Kind)
	}
	if !node.WideStringPrefix {
		t.Fatal("expected the wide-string prefix flag to be set")
	}
	if node.StringLiteral != "ok" {
		t.Fatalf("expected %q, got %q", "ok", node.StringLiteral)
	}
}

// TestLowerIntConst_PreferCStrings_UnterminatedWideFallsBackToConstant
// covers the case where the pointee looks wide-typed but the bytes never
// hit a NUL terminator: the heuristic must fall back to a plain integer
// constant rather than emitting garbage.
func TestLowerIntConst_PreferCStrings_UnterminatedWideFallsBackToConstant(t *testing.T) {
	fn := &ir.Function{}
	tAddr := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 0x3000, Unsigned: true}})

	img := image.New(32, []image.Section{{
		Name: ".rdata", Addr: 0x3000, Data: []byte{0x41, 0x00, 0x42, 0x00}, Readable: true, Allocated: true,
	}})

	types := calling.NewTypes()
	types.SetType(tAddr, calling.TypeInfo{
		Type:        ir.IntType{Size: 32, Unsigned: true},
		IsPointer:   true,
		PointeeType: ir.IntType{Size: 16, Unsigned: true},
	})

	collab := Collaborators{
		Signatures: calling.NewSignatures(),
		Hooks:      calling.NewHooks(),
		Variables:  calling.NewVariables(),
		Types:      types,
		Dataflow:   dflow.NewDataflow(),
		Liveness:   dflow.NewLiveness(nil),
		Image:      img,
	}

	fg := newTestGenerator(t, fn, collab, Options{PreferCStrings: true})
	expr, err := fg.lowerExpr(tAddr)
	if err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	node := fg.tree.Expr(expr)
	if node.Kind != coutast.ExprIntegerConstant {
		t.Fatalf("expected a fallback IntegerConstant node, got kind %d", node.Kind)
	}
}
