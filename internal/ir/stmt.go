package ir

// StmtKind enumerates the closed set of statement variants.
type StmtKind uint8

const (
	StmtInlineAssembly StmtKind = iota
	StmtAssignment
	StmtJump
	StmtCall
	StmtReturn
	StmtTouch
	StmtCallback
	StmtComment
	StmtKill
)

// Stmt is a single IR statement, address-ordered within its basic block.
type Stmt struct {
	ID    StmtID
	Kind  StmtKind
	Instr InstrAddr

	Asm        InlineAsmStmt
	Assignment AssignmentStmt
	Jump       JumpStmt
	Call       CallStmt
	Return     ReturnStmt
	Comment    string
}

// InlineAsmStmt carries the raw disassembly text, when available.
type InlineAsmStmt struct {
	Text string
}

// AssignmentStmt writes Right into Left.
type AssignmentStmt struct {
	Left  TermID
	Right TermID
}

// JumpStmt is conditional when Cond is valid, unconditional otherwise.
type JumpStmt struct {
	Cond    TermID
	Then    JumpTarget
	Else    JumpTarget // only meaningful when Cond.IsValid()
	HasElse bool
}

// CallStmt calls Target, optionally with a concrete callee term.
type CallStmt struct {
	Target TermID
}

// ReturnStmt marks a function return; the return value, if any, comes from
// the return hook rather than the statement itself.
type ReturnStmt struct{}
