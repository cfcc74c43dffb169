package codegen

import (
	"surge/internal/calling"
	"surge/internal/cgenerr"
	"surge/internal/coutast"
	"surge/internal/ir"
)

// singleDefResult memoises singleDefinition's answer for one variable.
type singleDefResult struct {
	ok    bool
	term  ir.TermID // the term written into the variable
	block ir.BlockID
	instr ir.InstrAddr
	stmt  ir.StmtID
}

// singleUseResult memoises singleUse's answer for one variable.
type singleUseResult struct {
	ok    bool
	block ir.BlockID
	instr ir.InstrAddr
	stmt  ir.StmtID
}

// findStmt scans every block for the statement with the given id,
// returning it alongside the block that owns it. Function bodies are
// small enough that this linear scan never shows up in practice.
func (fg *funcGenerator) findStmt(id ir.StmtID) (*ir.Stmt, ir.BlockID) {
	for i := range fg.fn.Blocks {
		blk := &fg.fn.Blocks[i]
		for j := range blk.Stmts {
			if blk.Stmts[j].ID == id {
				return &blk.Stmts[j], ir.BlockID(i)
			}
		}
	}
	return nil, ir.NoBlockID
}

// singleDefinition reports whether v is written by exactly one Assignment
// statement, and if so the term on the right-hand side of that write
// (spec.md §4.7).
func (fg *funcGenerator) singleDefinition(v *calling.Variable) (*singleDefResult, error) {
	if v == nil {
		return &singleDefResult{}, nil
	}
	if r, ok := fg.singleDefMemo[v.ID]; ok {
		return r, nil
	}

	var writeTerm ir.TermID
	writes := 0
	for _, touch := range v.Touches {
		term := fg.fn.Term(touch.Term)
		if term == nil || term.Role != ir.RoleWrite {
			continue
		}
		writes++
		writeTerm = touch.Term
	}

	result := &singleDefResult{}
	if writes == 1 {
		term := fg.fn.Term(writeTerm)
		stmt, block := fg.findStmt(term.Stmt)
		if stmt != nil && stmt.Kind == ir.StmtAssignment {
			result.ok = true
			result.term = stmt.Assignment.Right
			result.block = block
			result.instr = term.Instr
			result.stmt = term.Stmt
		}
	}
	fg.singleDefMemo[v.ID] = result
	return result, nil
}

// singleUse reports whether v has exactly one *live* reading term touching
// it (spec.md §4.7); dead reads never count. No code in this package calls
// it: the `intermediate` predicate counts live uses with liveUseCount, and
// singleAssignment tolerates any number of live reads as long as each one
// satisfies the location-and-dominance condition.
func (fg *funcGenerator) singleUse(v *calling.Variable) (*singleUseResult, error) {
	if v == nil {
		return &singleUseResult{}, nil
	}
	if r, ok := fg.singleUseMemo[v.ID]; ok {
		return r, nil
	}

	var readTerm ir.TermID
	reads := 0
	for _, touch := range v.Touches {
		term := fg.fn.Term(touch.Term)
		if term == nil || term.Role != ir.RoleRead || !fg.gen.collab.Liveness.IsLive(touch.Term) {
			continue
		}
		reads++
		readTerm = touch.Term
	}

	result := &singleUseResult{}
	if reads == 1 {
		term := fg.fn.Term(readTerm)
		_, block := fg.findStmt(term.Stmt)
		result.ok = true
		result.block = block
		result.instr = term.Instr
		result.stmt = term.Stmt
	}
	fg.singleUseMemo[v.ID] = result
	return result, nil
}

// liveUseCount returns the number of live reading terms touching v.
func (fg *funcGenerator) liveUseCount(v *calling.Variable) int {
	n := 0
	for _, touch := range v.Touches {
		term := fg.fn.Term(touch.Term)
		if term == nil || term.Role != ir.RoleRead {
			continue
		}
		if fg.gen.collab.Liveness.IsLive(touch.Term) {
			n++
		}
	}
	return n
}

// singleAssignment reports whether v is local, has a singleDefinition D,
// and every touching (term, loc) pair obeys spec.md §4.7's condition: a
// live read must share V's location and be dominated by D; a write must
// share V's location. It does not require v to have exactly one use —
// that finer distinction belongs to `intermediate`'s case split.
func (fg *funcGenerator) singleAssignment(v *calling.Variable) (bool, error) {
	if v == nil {
		return false, nil
	}
	if m, ok := fg.singleAssignMemo[v.ID]; ok && m.computed {
		return m.value, nil
	}

	ok := !v.IsGlobal
	if ok {
		def, err := fg.singleDefinition(v)
		if err != nil {
			return false, err
		}
		if !def.ok {
			ok = false
		} else {
			for _, touch := range v.Touches {
				term := fg.fn.Term(touch.Term)
				if term == nil {
					continue
				}
				switch term.Role {
				case ir.RoleRead:
					if !fg.gen.collab.Liveness.IsLive(touch.Term) {
						continue
					}
					if !touch.Location.Equal(v.Location) {
						ok = false
					}
					_, rBlock := fg.findStmt(term.Stmt)
					if !fg.doms.TermDominates(def.block, def.instr, def.stmt, rBlock, term.Instr, term.Stmt) {
						ok = false
					}
				case ir.RoleWrite:
					if !touch.Location.Equal(v.Location) {
						ok = false
					}
				}
				if !ok {
					break
				}
			}
		}
	}
	fg.singleAssignMemo[v.ID] = boolMemo{computed: true, value: ok}
	return ok, nil
}

// movable reports whether term can be re-evaluated at a different program
// point without changing its meaning: true for constants and for
// compositions of movable operands, false for anything that reads memory
// or the machine's undecoded behavior.
func (fg *funcGenerator) movable(id ir.TermID) (bool, error) {
	if m, ok := fg.movableMemo[id]; ok && m.computed {
		return m.value, nil
	}
	term := fg.fn.Term(id)
	if term == nil {
		fg.movableMemo[id] = boolMemo{computed: true, value: false}
		return false, nil
	}

	var ok bool
	switch term.Kind {
	case ir.TermIntConst:
		ok = true
	case ir.TermUnaryOperator:
		ok, _ = fg.movable(term.Unary.Operand)
	case ir.TermBinaryOperator:
		l, _ := fg.movable(term.Binary.Left)
		r, _ := fg.movable(term.Binary.Right)
		ok = l && r
	case ir.TermChoice:
		p, _ := fg.movable(term.Choice.Preferred)
		d, _ := fg.movable(term.Choice.Default)
		ok = p && d
	default:
		ok = false
	}
	fg.movableMemo[id] = boolMemo{computed: true, value: ok}
	return ok, nil
}

// isIntermediate is the full §4.7 predicate, short-circuited to false by
// ConformanceDisableIntermediateInlining unless the caller opted into
// Options.ExperimentalInlining.
func (fg *funcGenerator) isIntermediate(v *calling.Variable) (bool, error) {
	if v == nil {
		return false, nil
	}
	if m, ok := fg.intermediateMemo[v.ID]; ok && m.computed {
		return m.value, nil
	}

	result := false
	if !ConformanceDisableIntermediateInlining || fg.gen.opts.ExperimentalInlining {
		assign, err := fg.singleAssignment(v)
		if err != nil {
			return false, err
		}
		if assign && !v.IsGlobal {
			def, err := fg.singleDefinition(v)
			if err != nil {
				return false, err
			}
			if def.ok {
				switch uses := fg.liveUseCount(v); {
				case uses == 1:
					result, err = fg.movable(def.term)
					if err != nil {
						return false, err
					}
				case uses > 1:
					// Case (b): multiple live uses. The definition's
					// source must itself be a read of a variable that is
					// singleAssignment, so re-evaluating it at each use
					// site is still safe.
					if srcVar := fg.gen.collab.Variables.GetVariable(def.term); srcVar != nil {
						result, err = fg.singleAssignment(srcVar)
						if err != nil {
							return false, err
						}
					}
				}
			}
		}
	}

	fg.intermediateMemo[v.ID] = boolMemo{computed: true, value: result}
	return result, nil
}

// lowerIntermediateSource lowers the right-hand side of v's single
// definition in place of a variable reference to v itself.
func (fg *funcGenerator) lowerIntermediateSource(v *calling.Variable) (coutast.ExprID, error) {
	def, err := fg.singleDefinition(v)
	if err != nil {
		return 0, err
	}
	if !def.ok {
		return 0, fg.fail(cgenerr.NoVariable, "intermediate variable has no single definition")
	}
	return fg.lowerExpr(def.term)
}
