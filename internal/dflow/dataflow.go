package dflow

import "surge/internal/ir"

// Dataflow exposes, per term, the facts an earlier fix-point analysis
// computed: its abstract value, the memory location it resolves to (if
// any), and — for reads — the set of terms that may have defined it.
type Dataflow struct {
	values      map[ir.TermID]AbstractValue
	locations   map[ir.TermID]ir.MemoryLocation
	hasLocation map[ir.TermID]bool
	reaching    map[ir.TermID][]ir.TermID
}

// NewDataflow builds an empty Dataflow; callers populate it via the Set*
// methods as the upstream fix-point pass runs, then hand the finished
// value to the generator as read-only.
func NewDataflow() *Dataflow {
	return &Dataflow{
		values:      make(map[ir.TermID]AbstractValue),
		locations:   make(map[ir.TermID]ir.MemoryLocation),
		hasLocation: make(map[ir.TermID]bool),
		reaching:    make(map[ir.TermID][]ir.TermID),
	}
}

// SetValue records the abstract value computed for term.
func (d *Dataflow) SetValue(term ir.TermID, v AbstractValue) { d.values[term] = v }

// SetLocation records the memory location term resolves to.
func (d *Dataflow) SetLocation(term ir.TermID, loc ir.MemoryLocation) {
	d.locations[term] = loc
	d.hasLocation[term] = true
}

// SetReachingDefinitions records the set of terms that may reach a read.
func (d *Dataflow) SetReachingDefinitions(read ir.TermID, defs []ir.TermID) {
	d.reaching[read] = defs
}

// ValueOf returns the abstract value for term, or a fully unknown value of
// size 0 when nothing was recorded.
func (d *Dataflow) ValueOf(term ir.TermID) AbstractValue {
	if v, ok := d.values[term]; ok {
		return v
	}
	return Unknown(0)
}

// LocationOf returns the memory location term resolves to, if any.
func (d *Dataflow) LocationOf(term ir.TermID) (ir.MemoryLocation, bool) {
	loc, ok := d.hasLocation[term]
	if !ok || !loc {
		return ir.MemoryLocation{}, false
	}
	return d.locations[term], true
}

// ReachingDefinitions returns the terms that may define read, possibly
// empty when the read has no statically known definition.
func (d *Dataflow) ReachingDefinitions(read ir.TermID) []ir.TermID {
	return d.reaching[read]
}
