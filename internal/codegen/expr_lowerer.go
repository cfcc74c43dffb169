package codegen

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"surge/internal/cgenerr"
	"surge/internal/coutast"
	"surge/internal/ir"
)

// lowerExpr is the expression lowerer (spec.md §4.5). A term bound to a
// variable resolves through the variable-access manager (§4.6), skipping
// past it entirely when the variable is intermediate; every other term
// kind lowers structurally with a signedness-aware cast inserted at each
// operand per its operator's table row.
func (fg *funcGenerator) lowerExpr(id ir.TermID) (coutast.ExprID, error) {
	term := fg.fn.Term(id)
	if term == nil {
		return 0, fg.fail(cgenerr.UnsupportedTermKind, "lowerExpr of invalid term %d", id)
	}

	// Pre-dispatch shortcut (spec.md §4.5): a read with a concrete
	// abstract value emits the constant directly when prefer_constants is
	// on, bypassing the variable it would otherwise resolve through.
	if fg.gen.opts.PreferConstants && term.Role == ir.RoleRead {
		if concrete, ok := fg.gen.collab.Dataflow.ValueOf(id).AsConcrete(); ok {
			unsigned := fg.gen.collab.Types.GetType(id).Type.Unsigned
			return fg.lowerIntConst(&ir.Term{Size: term.Size, IntConst: ir.IntConstTerm{Value: concrete, Unsigned: unsigned}})
		}
	}

	if v := fg.gen.collab.Variables.GetVariable(id); v != nil {
		intermediate, err := fg.isIntermediate(v)
		if err != nil {
			return 0, err
		}
		if intermediate {
			return fg.lowerIntermediateSource(v)
		}
		loc, ok := fg.gen.collab.Dataflow.LocationOf(id)
		if !ok {
			loc = v.Location
		}
		return fg.variableAccess(loc, v)
	}

	switch term.Kind {
	case ir.TermIntConst:
		return fg.lowerIntConst(term)

	case ir.TermIntrinsic:
		return fg.tree.NewCallOperator(fg.tree.NewStringLiteral("intrinsic"), nil), nil

	case ir.TermMemoryLocationAccess:
		return 0, fg.fail(cgenerr.MemoryLocationAccessReached, "unresolved memory-location-access term %d", id)

	case ir.TermDereference:
		return fg.lowerDereference(term)

	case ir.TermUnaryOperator:
		return fg.lowerUnary(term)

	case ir.TermBinaryOperator:
		return fg.lowerBinary(term)

	case ir.TermChoice:
		return fg.lowerChoice(term)

	default:
		return 0, fg.fail(cgenerr.UnsupportedTermKind, "term kind %d", term.Kind)
	}
}

func (fg *funcGenerator) lowerIntConst(term *ir.Term) (coutast.ExprID, error) {
	v := term.IntConst.Value

	if fg.gen.opts.PreferCStrings && fg.gen.collab.Image != nil {
		ty := fg.gen.collab.Types.GetType(term.ID)
		if ty.IsPointer && ty.PointeeType.Size == 16 {
			if s, ok := fg.gen.collab.Image.ReadWideString(v, 256); ok {
				return fg.tree.NewWideStringLiteral(norm.NFC.String(s)), nil
			}
		} else if s, ok := fg.gen.collab.Image.ReadAsciizString(v, 256); ok {
			return fg.tree.NewStringLiteral(s), nil
		}
	}
	if fg.gen.opts.PreferGlobals && fg.gen.collab.Image != nil {
		if name, ok := fg.globalNameFor(v); ok {
			decl, err := fg.globalVariableDeclaration(v, name)
			if err != nil {
				return 0, err
			}
			return fg.tree.NewUnaryOperator(coutast.UnaryAddressOf, fg.tree.NewVariableIdentifier(decl)), nil
		}
	}
	return fg.tree.NewIntegerConstant(v, term.Size, term.IntConst.Unsigned), nil
}

// globalNameFor reports whether addr falls inside an allocated, readable
// section of the image, and if so a synthetic name for it.
func (fg *funcGenerator) globalNameFor(addr uint64) (string, bool) {
	for _, s := range fg.gen.collab.Image.Sections() {
		if !s.Allocated || !s.Readable {
			continue
		}
		end := s.Addr + uint64(len(s.Data))
		if addr >= s.Addr && addr < end {
			return fmt.Sprintf("g_%x", addr), true
		}
	}
	return "", false
}

func (fg *funcGenerator) globalVariableDeclaration(addr uint64, name string) (coutast.DeclID, error) {
	if decl, ok := fg.globalDecls[addr]; ok {
		return decl, nil
	}
	decl := fg.tree.NewVariableDeclaration(name, fg.gen.collab.Image.PointerSize(), true)
	fg.globalDecls[addr] = decl
	return decl, nil
}

func (fg *funcGenerator) lowerDereference(term *ir.Term) (coutast.ExprID, error) {
	if fg.gen.collab.Variables.GetVariable(term.Deref.Addr) != nil {
		return 0, fg.fail(cgenerr.DereferenceOfBoundVariable, "dereference address term %d already bound to a variable", term.Deref.Addr)
	}
	addrExpr, err := fg.lowerExpr(term.Deref.Addr)
	if err != nil {
		return 0, err
	}
	ty := fg.gen.collab.Types.GetType(term.ID)
	ptr := fg.tree.NewPointerTypecast(addrExpr, term.Size, ty.Type.Unsigned)
	return fg.tree.NewUnaryOperator(coutast.UnaryDereference, ptr), nil
}

func (fg *funcGenerator) lowerUnary(term *ir.Term) (coutast.ExprID, error) {
	operand, err := fg.lowerExpr(term.Unary.Operand)
	if err != nil {
		return 0, err
	}
	operandSize := term.Size
	if operandTerm := fg.fn.Term(term.Unary.Operand); operandTerm != nil {
		operandSize = operandTerm.Size
	}

	switch term.Unary.Op {
	case ir.UnaryNot:
		operandUnsigned := fg.gen.collab.Types.GetType(term.Unary.Operand).Type.Unsigned
		cast := fg.tree.NewTypecast(operand, operandSize, operandUnsigned)
		return fg.tree.NewUnaryOperator(coutast.UnaryComplement, cast), nil

	case ir.UnaryNegation:
		operandUnsigned := fg.gen.collab.Types.GetType(term.Unary.Operand).Type.Unsigned
		cast := fg.tree.NewTypecast(operand, operandSize, operandUnsigned)
		return fg.tree.NewUnaryOperator(coutast.UnaryArithNeg, cast), nil

	case ir.UnarySignExtend:
		signed := fg.tree.NewTypecast(operand, operandSize, false)
		return fg.tree.NewTypecast(signed, term.Size, true), nil

	case ir.UnaryZeroExtend:
		unsigned := fg.tree.NewTypecast(operand, operandSize, true)
		return fg.tree.NewTypecast(unsigned, term.Size, true), nil

	case ir.UnaryTruncate:
		unsigned := fg.gen.collab.Types.GetType(term.ID).Type.Unsigned
		return fg.tree.NewTypecast(operand, term.Size, unsigned), nil

	default:
		return 0, fg.fail(cgenerr.UnsupportedTermKind, "unary op %d", term.Unary.Op)
	}
}

func (fg *funcGenerator) lowerBinary(term *ir.Term) (coutast.ExprID, error) {
	leftExpr, err := fg.lowerExpr(term.Binary.Left)
	if err != nil {
		return 0, err
	}
	rightExpr, err := fg.lowerExpr(term.Binary.Right)
	if err != nil {
		return 0, err
	}

	leftSize, rightSize := term.Size, term.Size
	if t := fg.fn.Term(term.Binary.Left); t != nil {
		leftSize = t.Size
	}
	if t := fg.fn.Term(term.Binary.Right); t != nil {
		rightSize = t.Size
	}

	// leftUnsigned/rightUnsigned default to each operand's own declared
	// type ("type's own signedness" in spec.md §4.5's table); rows that
	// force a particular signedness overwrite one or both below.
	leftUnsigned := fg.gen.collab.Types.GetType(term.Binary.Left).Type.Unsigned
	rightUnsigned := fg.gen.collab.Types.GetType(term.Binary.Right).Type.Unsigned

	var op coutast.BinaryExprOp
	switch term.Binary.Op {
	case ir.BinaryAnd:
		op = coutast.BinAnd
	case ir.BinaryOr:
		op = coutast.BinOr
	case ir.BinaryXor:
		op = coutast.BinXor
	case ir.BinaryShl:
		op = coutast.BinShl
	case ir.BinaryShr:
		op, leftUnsigned = coutast.BinShr, true
	case ir.BinarySar:
		op, leftUnsigned = coutast.BinShr, false
	case ir.BinaryAdd:
		op = coutast.BinAdd
	case ir.BinarySub:
		op = coutast.BinSub
	case ir.BinaryMul:
		op = coutast.BinMul
	case ir.BinarySignedDiv:
		op, leftUnsigned, rightUnsigned = coutast.BinDiv, false, false
	case ir.BinarySignedRem:
		op, leftUnsigned, rightUnsigned = coutast.BinRem, false, false
	case ir.BinaryUnsignedDiv:
		op, leftUnsigned, rightUnsigned = coutast.BinDiv, true, true
	case ir.BinaryUnsignedRem:
		op, leftUnsigned, rightUnsigned = coutast.BinRem, true, true
	case ir.BinaryEqual:
		op = coutast.BinEqual
	case ir.BinarySignedLess:
		op, leftUnsigned, rightUnsigned = coutast.BinLess, false, false
	case ir.BinarySignedLessOrEqual:
		op, leftUnsigned, rightUnsigned = coutast.BinLessOrEqual, false, false
	case ir.BinaryUnsignedLess:
		op, leftUnsigned, rightUnsigned = coutast.BinLess, true, true
	case ir.BinaryUnsignedLessOrEqual:
		op, leftUnsigned, rightUnsigned = coutast.BinLessOrEqual, true, true
	default:
		return 0, fg.fail(cgenerr.UnsupportedTermKind, "binary op %d", term.Binary.Op)
	}

	left := fg.tree.NewTypecast(leftExpr, leftSize, leftUnsigned)
	right := fg.tree.NewTypecast(rightExpr, rightSize, rightUnsigned)
	return fg.tree.NewBinaryOperator(op, left, right), nil
}

// lowerChoice picks Preferred when it has a reaching definition of its
// own, otherwise Default (spec.md §4.5, the Choice row).
func (fg *funcGenerator) lowerChoice(term *ir.Term) (coutast.ExprID, error) {
	if len(fg.gen.collab.Dataflow.ReachingDefinitions(term.Choice.Preferred)) > 0 {
		return fg.lowerExpr(term.Choice.Preferred)
	}
	return fg.lowerExpr(term.Choice.Default)
}
