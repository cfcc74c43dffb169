package codegen

import (
	"fmt"

	"surge/internal/calling"
	"surge/internal/coutast"
	"surge/internal/ir"
)

// variableAccess is the variable-access manager (spec.md §4.6). Given the
// term's resolved location loc and the variable v it belongs to, it
// returns either a direct identifier reference or an address-arithmetic
// expression when loc only partially overlaps v's canonical storage.
func (fg *funcGenerator) variableAccess(loc ir.MemoryLocation, v *calling.Variable) (coutast.ExprID, error) {
	decl, err := fg.localVariableDeclaration(v)
	if err != nil {
		return 0, err
	}
	if loc.Equal(v.Location) {
		return fg.tree.NewVariableIdentifier(decl), nil
	}

	// Sub-byte misalignment is a known, deliberate limitation: upstream
	// passes must never produce it.
	offsetBits := int64(loc.Offset) - int64(v.Location.Offset)
	offsetBytes := offsetBits / 8

	ptrSize := uint32(64)
	addr := fg.tree.NewUnaryOperator(coutast.UnaryAddressOf, fg.tree.NewVariableIdentifier(decl))
	addrAsInt := fg.tree.NewTypecast(addr, ptrSize, true)
	off := fg.tree.NewIntegerConstant(uint64(offsetBytes), ptrSize, true)
	shifted := fg.tree.NewBinaryOperator(coutast.BinAdd, addrAsInt, off)
	asPtr := fg.tree.NewPointerTypecast(shifted, loc.Size, true)
	return fg.tree.NewUnaryOperator(coutast.UnaryDereference, asPtr), nil
}

// localVariableDeclaration memoises and returns the single C-out
// VariableDeclaration for v (spec.md §4.6); created at most once.
func (fg *funcGenerator) localVariableDeclaration(v *calling.Variable) (coutast.DeclID, error) {
	if decl, ok := fg.variableDecls[v.ID]; ok {
		return decl, nil
	}
	name := fmt.Sprintf("v%d", len(fg.declOrder))
	if fg.gen.opts.RegisterVariableNames && v.Location.Domain == ir.DomainRegister {
		name = registerPrefix(v.Location) + registerSuffix(len(fg.declOrder))
	}
	decl := fg.tree.NewVariableDeclaration(name, v.Location.Size, false)
	fg.variableDecls[v.ID] = decl
	fg.declOrder = append(fg.declOrder, v.ID)
	return decl, nil
}

// registerPrefix renders the covering register's lower-case name; a real
// implementation asks Architecture.registers().getRegister(loc) for this,
// which is outside the generator's read-only inputs and left to the
// caller to provide via a future collaborator hook.
func registerPrefix(loc ir.MemoryLocation) string {
	return fmt.Sprintf("r%d", loc.Offset)
}

func registerSuffix(index int) string {
	// Mirrors the reference rule: append "_" when the prefix would
	// otherwise end in a digit, to keep v0/v1-style numeric suffixes
	// unambiguous.
	return fmt.Sprintf("_%d", index)
}
