package ir

// TermKind enumerates the closed set of term variants the expression
// lowerer must exhaustively match.
type TermKind uint8

const (
	// TermIntConst is a literal integer value of a known bit size.
	TermIntConst TermKind = iota
	// TermIntrinsic is an operation the lifter could not decode precisely.
	TermIntrinsic
	// TermMemoryLocationAccess denotes a read/write of a storage slot that
	// has already been resolved to a variable; it is never lowered directly.
	TermMemoryLocationAccess
	// TermDereference indirects through an address term.
	TermDereference
	// TermUnaryOperator applies a unary operator to an operand term.
	TermUnaryOperator
	// TermBinaryOperator applies a binary operator to two operand terms.
	TermBinaryOperator
	// TermChoice picks between a preferred and a default sub-term depending
	// on whether the preferred one has a reaching definition.
	TermChoice
)

// Role classifies how a term participates at its point of use.
type Role uint8

const (
	RoleRead Role = iota
	RoleWrite
	RoleKill
)

// UnaryKind enumerates the unary operators the IR can produce.
type UnaryKind uint8

const (
	UnaryNot UnaryKind = iota
	UnaryNegation
	UnarySignExtend
	UnaryZeroExtend
	UnaryTruncate
)

// BinaryKind enumerates the binary operators the IR can produce.
type BinaryKind uint8

const (
	BinaryAnd BinaryKind = iota
	BinaryOr
	BinaryXor
	BinaryShl
	BinaryShr
	BinarySar
	BinaryAdd
	BinarySub
	BinaryMul
	BinarySignedDiv
	BinarySignedRem
	BinaryUnsignedDiv
	BinaryUnsignedRem
	BinaryEqual
	BinarySignedLess
	BinarySignedLessOrEqual
	BinaryUnsignedLess
	BinaryUnsignedLessOrEqual
)

// Term is a node of the IR term graph: a tagged union with payload fields
// for each variant, mirroring the closed-union style used across this
// generator's inputs. Terms live in a Function's term arena and are
// referenced by TermID; a Term itself never owns another Term, only an id.
type Term struct {
	ID   TermID
	Kind TermKind
	Role Role

	Size uint32 // bit size

	// Stmt/Instr link the term back to its originating statement and
	// machine instruction, used for provenance and dominance tie-breaks.
	Stmt  StmtID
	Instr InstrAddr

	IntConst  IntConstTerm
	MemAccess MemoryLocation
	Deref     DereferenceTerm
	Unary     UnaryTerm
	Binary    BinaryTerm
	Choice    ChoiceTerm
}

// IntConstTerm is a literal integer value.
type IntConstTerm struct {
	Value    uint64
	Unsigned bool
}

// DereferenceTerm reads or writes through an address term.
type DereferenceTerm struct {
	Addr TermID
}

// UnaryTerm applies Op to Operand.
type UnaryTerm struct {
	Op      UnaryKind
	Operand TermID
}

// BinaryTerm applies Op to Left and Right.
type BinaryTerm struct {
	Op    BinaryKind
	Left  TermID
	Right TermID
}

// ChoiceTerm picks Preferred if it has a reaching definition, else Default.
type ChoiceTerm struct {
	Preferred TermID
	Default   TermID
}
