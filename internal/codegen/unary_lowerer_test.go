package codegen

import (
	"testing"

	"surge/internal/calling"
	"surge/internal/coutast"
	"surge/internal/dflow"
	"surge/internal/ir"
)

func unaryTestGenerator(t *testing.T, fn *ir.Function, types *calling.Types) *funcGenerator {
	t.Helper()
	collab := Collaborators{
		Signatures: calling.NewSignatures(),
		Hooks:      calling.NewHooks(),
		Variables:  calling.NewVariables(),
		Types:      types,
		Dataflow:   dflow.NewDataflow(),
		Liveness:   dflow.NewLiveness(nil),
	}
	return newTestGenerator(t, fn, collab, Options{})
}

// TestLowerUnary_Not_UsesOperandSignedness covers spec §4.5's NOT row: the
// operand cast must carry the operand's own declared signedness, not a
// hardcoded value.
func TestLowerUnary_Not_UsesOperandSignedness(t *testing.T) {
	fn := &ir.Function{}
	operand := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 1, Unsigned: true}})
	unary := fn.AddTerm(ir.Term{Kind: ir.TermUnaryOperator, Role: ir.RoleRead, Size: 32, Unary: ir.UnaryTerm{Op: ir.UnaryNot, Operand: operand}})

	types := calling.NewTypes()
	types.SetType(operand, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: false}})

	fg := unaryTestGenerator(t, fn, types)
	expr, err := fg.lowerExpr(unary)
	if err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	node := fg.tree.Expr(expr)
	if node.Kind != coutast.ExprUnaryOperator || node.Unary.Op != coutast.UnaryComplement {
		t.Fatalf("expected a UnaryComplement node, got %+v", node)
	}
	cast := fg.tree.Expr(node.Unary.Operand)
	if cast.Kind != coutast.ExprTypecast {
		t.Fatalf("expected the operand to be a Typecast, got kind %d", cast.Kind)
	}
	if cast.Typecast.Unsigned {
		t.Fatal("NOT's operand cast must follow the operand's signed declared type, not hardcode unsigned")
	}
}

// TestLowerUnary_Negation_UsesOperandSignedness mirrors the NOT case for
// unary negation.
func TestLowerUnary_Negation_UsesOperandSignedness(t *testing.T) {
	fn := &ir.Function{}
	operand := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 1, Unsigned: true}})
	unary := fn.AddTerm(ir.Term{Kind: ir.TermUnaryOperator, Role: ir.RoleRead, Size: 32, Unary: ir.UnaryTerm{Op: ir.UnaryNegation, Operand: operand}})

	types := calling.NewTypes()
	types.SetType(operand, calling.TypeInfo{Type: ir.IntType{Size: 32, Unsigned: true}})

	fg := unaryTestGenerator(t, fn, types)
	expr, err := fg.lowerExpr(unary)
	if err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	node := fg.tree.Expr(expr)
	if node.Kind != coutast.ExprUnaryOperator || node.Unary.Op != coutast.UnaryArithNeg {
		t.Fatalf("expected a UnaryArithNeg node, got %+v", node)
	}
	cast := fg.tree.Expr(node.Unary.Operand)
	if !cast.Typecast.Unsigned {
		t.Fatal("NEGATION's operand cast must follow the operand's unsigned declared type")
	}
}

// TestLowerUnary_SignExtend_OuterCastIsUnsigned covers spec §4.5's
// SIGN_EXTEND row: signed-of-old-size, then unsigned-of-new-size.
func TestLowerUnary_SignExtend_OuterCastIsUnsigned(t *testing.T) {
	fn := &ir.Function{}
	operand := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 8, IntConst: ir.IntConstTerm{Value: 1, Unsigned: true}})
	unary := fn.AddTerm(ir.Term{Kind: ir.TermUnaryOperator, Role: ir.RoleRead, Size: 32, Unary: ir.UnaryTerm{Op: ir.UnarySignExtend, Operand: operand}})

	fg := unaryTestGenerator(t, fn, calling.NewTypes())
	expr, err := fg.lowerExpr(unary)
	if err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	outer := fg.tree.Expr(expr)
	if outer.Kind != coutast.ExprTypecast {
		t.Fatalf("expected an outer Typecast, got kind %d", outer.Kind)
	}
	if outer.Typecast.Size != 32 || !outer.Typecast.Unsigned {
		t.Fatalf("expected outer cast to unsigned 32-bit, got %+v", outer.Typecast)
	}
	inner := fg.tree.Expr(outer.Typecast.Operand)
	if inner.Kind != coutast.ExprTypecast || inner.Typecast.Size != 8 || inner.Typecast.Unsigned {
		t.Fatalf("expected inner cast to signed 8-bit, got %+v", inner.Typecast)
	}
}

// TestLowerUnary_Truncate_UsesTermDeclaredType covers spec §4.5's TRUNCATE
// row: a single cast to the term's own declared type, not a hardcoded
// signedness.
func TestLowerUnary_Truncate_UsesTermDeclaredType(t *testing.T) {
	fn := &ir.Function{}
	operand := fn.AddTerm(ir.Term{Kind: ir.TermIntConst, Role: ir.RoleRead, Size: 32, IntConst: ir.IntConstTerm{Value: 1, Unsigned: true}})
	unary := fn.AddTerm(ir.Term{Kind: ir.TermUnaryOperator, Role: ir.RoleRead, Size: 8, Unary: ir.UnaryTerm{Op: ir.UnaryTruncate, Operand: operand}})

	types := calling.NewTypes()
	types.SetType(unary, calling.TypeInfo{Type: ir.IntType{Size: 8, Unsigned: false}})

	fg := unaryTestGenerator(t, fn, types)
	expr, err := fg.lowerExpr(unary)
	if err != nil {
		t.Fatalf("lowerExpr: %v", err)
	}
	cast := fg.tree.Expr(expr)
	if cast.Kind != coutast.ExprTypecast {
		t.Fatalf("expected a Typecast, got kind %d", cast.Kind)
	}
	if cast.Typecast.Unsigned {
		t.Fatal("TRUNCATE must cast to the term's own declared (signed) type, not hardcode unsigned")
	}
}
