package ir

// BlockID identifies a basic block within a function's block slice.
type BlockID uint32

// NoBlockID marks the absence of a block reference.
const NoBlockID BlockID = 0

// IsValid reports whether id refers to an actual block.
func (id BlockID) IsValid() bool { return id != NoBlockID }

// StmtID identifies a statement within a basic block.
type StmtID uint32

// NoStmtID marks the absence of a statement reference.
const NoStmtID StmtID = 0

// IsValid reports whether id refers to an actual statement.
func (id StmtID) IsValid() bool { return id != NoStmtID }

// TermID identifies a term within the arena owned by a Function.
type TermID uint32

// NoTermID marks the absence of a term reference.
const NoTermID TermID = 0

// IsValid reports whether id refers to an actual term.
func (id TermID) IsValid() bool { return id != NoTermID }

// InstrAddr is the address of the machine instruction a statement or term
// originated from. Used for intra-block dominance tie-breaking.
type InstrAddr uint64
