package codegen

import "surge/internal/ir"

// switchContext is generator-local state threaded through a switch body:
// it maps basic-block addresses to the case values that must label them,
// and carries the default block and the switch's integer type (spec.md
// §3, "Switch context"). Case labels are consumed exactly once per
// basic-block address (spec.md invariant).
type switchContext struct {
	valueType ir.IntType

	// casesByAddr maps a basic block's load address to every case value
	// that should label it. Entries are erased once emitted.
	casesByAddr map[uint64][]int64

	defaultAddr    uint64
	hasDefaultAddr bool
}

func newSwitchContext(valueType ir.IntType) *switchContext {
	return &switchContext{valueType: valueType, casesByAddr: make(map[uint64][]int64)}
}

func (sc *switchContext) addCase(addr uint64, value int64) {
	sc.casesByAddr[addr] = append(sc.casesByAddr[addr], value)
}

// take returns and erases the case values registered for addr.
func (sc *switchContext) take(addr uint64) []int64 {
	v := sc.casesByAddr[addr]
	delete(sc.casesByAddr, addr)
	return v
}

func (sc *switchContext) isDefault(addr uint64) bool {
	return sc.hasDefaultAddr && sc.defaultAddr == addr
}
