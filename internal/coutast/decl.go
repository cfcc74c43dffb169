package coutast

// DeclID references a node in Tree's declaration arena.
type DeclID uint32

// LabelID references a node in Tree's label arena.
type LabelID uint32

// DeclKind enumerates the closed set of C-out declaration variants.
type DeclKind uint8

const (
	DeclVariable DeclKind = iota
	DeclFunctionDefinition
	DeclGlobalVariable
)

// Decl is a node of the C-out declaration set.
type Decl struct {
	ID   DeclID
	Kind DeclKind

	Variable GlobalOrLocalVar
	Function FunctionDefinitionNode
}

// GlobalOrLocalVar is shared by DeclVariable and DeclGlobalVariable: a
// name and the declared integer type (size, signedness, pointer flag).
type GlobalOrLocalVar struct {
	Name     string
	Size     uint32
	Unsigned bool
	IsPtr    bool
}

// FunctionDefinitionNode is the root of one generated function: its
// signature plus the single Block statement holding every declaration
// and statement produced for it.
type FunctionDefinitionNode struct {
	Name       string
	Comment    string
	Variadic   bool
	HasRet     bool
	RetSize    uint32
	RetUnsign  bool
	Args       []DeclID // argument declarations, in signature order
	Body       StmtID   // a StmtBlock
}

// Label is a named target created lazily the first time a basic block is
// referenced by a goto, break-fallback, or loop-header label.
type Label struct {
	ID   LabelID
	Name string
}
