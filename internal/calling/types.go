package calling

import "surge/internal/ir"

// TypeInfo is what Types.GetType exposes for one term: its declared size
// and signedness, plus an optional pointee type for pointer-typed terms.
type TypeInfo struct {
	Type        ir.IntType
	IsPointer   bool
	PointeeType ir.IntType
}

// Types resolves terms to their declared TypeInfo, the type-reconstruction
// pass's output that the generator treats as read-only input.
type Types struct {
	byTerm map[ir.TermID]TypeInfo
}

// NewTypes builds an empty Types table.
func NewTypes() *Types { return &Types{byTerm: make(map[ir.TermID]TypeInfo)} }

// SetType records the declared type for term.
func (t *Types) SetType(term ir.TermID, info TypeInfo) { t.byTerm[term] = info }

// GetType returns the declared type for term, falling back to an unsigned
// 32-bit integer when nothing was recorded (an upstream gap, not a crash).
func (t *Types) GetType(term ir.TermID) TypeInfo {
	if info, ok := t.byTerm[term]; ok {
		return info
	}
	return TypeInfo{Type: ir.IntType{Size: 32, Unsigned: true}}
}
