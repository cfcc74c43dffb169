package coutast

// StmtID references a node in Tree's statement arena.
type StmtID uint32

// StmtKind enumerates the closed set of C-out statement variants.
type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	StmtIf
	StmtWhile
	StmtDoWhile
	StmtSwitch
	StmtCaseLabel
	StmtDefaultLabel
	StmtLabelStatement
	StmtGoto
	StmtBreak
	StmtContinue
	StmtReturn
	StmtExpressionStatement
	StmtInlineAssembly
	StmtCommentStatement
)

// Stmt is a node of the C-out statement AST.
type Stmt struct {
	ID   StmtID
	Kind StmtKind

	// Provenance: the originating IR statement/term address, attached by
	// the lowerer to every statement it produces (spec.md §3, "visitors
	// for provenance attachment").
	OriginInstr uint64
	HasOrigin   bool

	Block      BlockStmtNode
	If         IfStmtNode
	While      CondLoopNode
	DoWhile    CondLoopNode
	Switch     SwitchStmtNode
	CaseLabel  CaseLabelNode
	LabelStmt  LabelStmtNode
	Goto       GotoStmtNode
	Return     ReturnStmtNode
	ExprStmt   ExprID
	InlineAsm  string
	Comment    string
}

// BlockStmtNode is an ordered sequence of statements, optionally owning a
// set of local declarations (only the outermost block of a function does).
type BlockStmtNode struct {
	Decls []DeclID
	Stmts []StmtID
}

// IfStmtNode is `if (Cond) Then [else Else]`.
type IfStmtNode struct {
	Cond    ExprID
	Then    StmtID
	HasElse bool
	Else    StmtID
}

// CondLoopNode covers both `while (Cond) Body` and `do Body while (Cond);`.
type CondLoopNode struct {
	Cond ExprID
	Body StmtID
}

// SwitchStmtNode is `switch (Expr) Body`.
type SwitchStmtNode struct {
	Expr ExprID
	Body StmtID
}

// CaseLabelNode is `case Value:` when IsDefault is false, `default:`
// otherwise.
type CaseLabelNode struct {
	IsDefault bool
	Value     int64
}

// LabelStmtNode is `Label:` for a LabelDeclaration.
type LabelStmtNode struct {
	Label LabelID
}

// GotoStmtNode is `goto Target;` where Target is either a label or, for
// unresolved/computed jumps, a bare expression (an address or the
// fallback string "???").
type GotoStmtNode struct {
	ToLabel    bool
	Label      LabelID
	TargetExpr ExprID
}

// ReturnStmtNode is `return [Value];`.
type ReturnStmtNode struct {
	HasValue bool
	Value    ExprID
}
