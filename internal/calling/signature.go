package calling

import "surge/internal/ir"

// Signature describes the calling convention of a function or call site:
// its argument list, optional return value, variadic flag, and the
// display metadata the generator threads through to the emitted AST.
type Signature struct {
	Name     string
	Comment  string
	Variadic bool
	Args     []ArgSpec
	HasRet   bool
	Ret      ir.IntType
}

// ArgSpec is one formal argument of a Signature.
type ArgSpec struct {
	Name string
	Type ir.IntType
}

// Signatures resolves a function, call site, or bare address to its
// Signature, when known.
type Signatures struct {
	byFunc codeIndex
	byAddr codeIndex
}

type codeIndex map[uint64]*Signature

// NewSignatures builds an empty Signatures table.
func NewSignatures() *Signatures {
	return &Signatures{byFunc: make(codeIndex), byAddr: make(codeIndex)}
}

// SetForFunction records the signature for the function at addr.
func (s *Signatures) SetForFunction(addr uint64, sig *Signature) { s.byFunc[addr] = sig }

// SetForAddress records the signature for a call site or address.
func (s *Signatures) SetForAddress(addr uint64, sig *Signature) { s.byAddr[addr] = sig }

// GetSignature resolves addr to its Signature, preferring a function-level
// entry over a call-site override, or nil when nothing is known.
func (s *Signatures) GetSignature(addr uint64) *Signature {
	if sig, ok := s.byFunc[addr]; ok {
		return sig
	}
	return s.byAddr[addr]
}
